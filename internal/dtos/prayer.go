package dtos

import (
	"bytes"

	"github.com/goccy/go-json"
)

const (
	PrayerStatusPrayed  = "prayed"
	PrayerStatusMissed  = "missed"
	PrayerStatusSkipped = "skipped"

	PrayerTypeAda  = "ada"
	PrayerTypeQaza = "qaza"
)

// Count is a non-negative tally that also accepts the legacy boolean
// representation at decode time: an earlier schema stored the voluntary
// prayers as checked/unchecked flags rather than counts.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("true")):
		*c = 1
		return nil
	case bytes.Equal(trimmed, []byte("false")), bytes.Equal(trimmed, []byte("null")):
		*c = 0
		return nil
	}

	var n int
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}

	*c = Count(n)
	return nil
}

// DailyPrayer is one obligatory prayer's sub-entry. Type and WithJamaah are
// only meaningful while Status is "prayed".
type DailyPrayer struct {
	Status     string `json:"status" validate:"omitempty,oneof=prayed missed skipped"`
	Type       string `json:"type,omitempty" validate:"omitempty,oneof=ada qaza"`
	WithJamaah bool   `json:"withJamaah"`
}

// Rawatib holds the recommended prayers attached to the obligatory prayer
// times, keyed by slot.
type Rawatib struct {
	BeforeFajr   bool `json:"beforeFajr"`
	BeforeDhuhr  bool `json:"beforeDhuhr"`
	AfterDhuhr   bool `json:"afterDhuhr"`
	BeforeAsr    bool `json:"beforeAsr"`
	AfterMaghrib bool `json:"afterMaghrib"`
	BeforeIsha   bool `json:"beforeIsha"`
	AfterIsha    bool `json:"afterIsha"`
}

func (r *Rawatib) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	// Legacy documents stored rawatib as a single checkbox. The per-slot
	// breakdown cannot be recovered from it, so it coerces to all-unset.
	if bytes.Equal(trimmed, []byte("true")) || bytes.Equal(trimmed, []byte("false")) || bytes.Equal(trimmed, []byte("null")) {
		*r = Rawatib{}
		return nil
	}

	type plain Rawatib
	var decoded plain
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return err
	}

	*r = Rawatib(decoded)
	return nil
}

// PrayerDay is one day's prayer record.
type PrayerDay struct {
	Fajr     DailyPrayer `json:"fajr"`
	Dhuhr    DailyPrayer `json:"dhuhr"`
	Asr      DailyPrayer `json:"asr"`
	Maghrib  DailyPrayer `json:"maghrib"`
	Isha     DailyPrayer `json:"isha"`
	Rawatib  Rawatib     `json:"rawathib"`
	Tahajjud Count       `json:"tahajjud" validate:"min=0"`
	Dhuha    Count       `json:"dhuha" validate:"min=0"`
	Witr     Count       `json:"witr" validate:"min=0"`
}

// DefaultPrayerDay returns the zero record for a day with no data.
func DefaultPrayerDay() PrayerDay {
	skipped := DailyPrayer{Status: PrayerStatusSkipped}
	return PrayerDay{
		Fajr:    skipped,
		Dhuhr:   skipped,
		Asr:     skipped,
		Maghrib: skipped,
		Isha:    skipped,
	}
}

// Normalize clears the flags that are only meaningful on a prayed entry, so
// unmarking a prayer never leaves a stale type or congregation flag behind.
func (p *PrayerDay) Normalize() {
	for _, prayer := range []*DailyPrayer{&p.Fajr, &p.Dhuhr, &p.Asr, &p.Maghrib, &p.Isha} {
		if prayer.Status == "" {
			prayer.Status = PrayerStatusSkipped
		}

		if prayer.Status != PrayerStatusPrayed {
			prayer.Type = ""
			prayer.WithJamaah = false
		}
	}
}
