package dtos

// SwalathEntry is one day's recitation log. Id doubles as the document id and
// the sort key. Total is denormalized for display and is recomputed on every
// write, never trusted from the incoming payload.
type SwalathEntry struct {
	Id          string `json:"id" validate:"required,datetime=2006-01-02"`
	FajrDuhr    int    `json:"fajrDuhr" validate:"min=0"`
	DuhrAsr     int    `json:"duhrAsr" validate:"min=0"`
	AsrMaghrib  int    `json:"asrMaghrib" validate:"min=0"`
	MaghribIsha int    `json:"maghribIsha" validate:"min=0"`
	IshaFajr    int    `json:"ishaFajr" validate:"min=0"`
	Notes       string `json:"notes,omitempty"`
	Total       int    `json:"total"`
}

// Sum returns the total across the five inter-prayer intervals.
func (e SwalathEntry) Sum() int {
	return e.FajrDuhr + e.DuhrAsr + e.AsrMaghrib + e.MaghribIsha + e.IshaFajr
}

type SwalathEntryRequest struct {
	FajrDuhr    int    `json:"fajrDuhr" validate:"min=0"`
	DuhrAsr     int    `json:"duhrAsr" validate:"min=0"`
	AsrMaghrib  int    `json:"asrMaghrib" validate:"min=0"`
	MaghribIsha int    `json:"maghribIsha" validate:"min=0"`
	IshaFajr    int    `json:"ishaFajr" validate:"min=0"`
	Notes       string `json:"notes" validate:"omitempty,max=500"`
}

// SwalathSelectionRequest moves the editing slot. An empty id resets the
// selection to today.
type SwalathSelectionRequest struct {
	Id string `json:"id" validate:"omitempty,datetime=2006-01-02"`
}

type SwalathSelectionResponse struct {
	Id    string        `json:"id"`
	Entry *SwalathEntry `json:"entry,omitempty"`
}

type SwalathHistoryResponse struct {
	Range         string                  `json:"range"`
	Total         int                     `json:"total"`
	DaysTracked   int                     `json:"days_tracked"`
	DaysInRange   int                     `json:"days_in_range"`
	AveragePerDay int                     `json:"average_per_day"`
	Buckets       []SwalathHistoryBucket  `json:"buckets"`
}

type SwalathHistoryBucket struct {
	Label     string `json:"label"`
	Total     int    `json:"total"`
	IsCurrent bool   `json:"is_current"`
}
