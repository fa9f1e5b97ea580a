package dtos

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func TestCountUnmarshal(t *testing.T) {
	testTable := []struct {
		name     string
		data     string
		expected Count
		wantErr  bool
	}{
		{name: "number", data: "3", expected: 3},
		{name: "zero", data: "0", expected: 0},
		{name: "legacy true", data: "true", expected: 1},
		{name: "legacy false", data: "false", expected: 0},
		{name: "null", data: "null", expected: 0},
		{name: "string", data: `"3"`, wantErr: true},
	}

	for _, v := range testTable {
		t.Run(v.name, func(t *testing.T) {
			var count Count
			err := json.Unmarshal([]byte(v.data), &count)

			if v.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("wasn't expecting error, got: %v", err)
			}

			if count != v.expected {
				t.Fatalf("expected %d, got %d", v.expected, count)
			}
		})
	}
}

func TestRawatibUnmarshal(t *testing.T) {
	testTable := []struct {
		name     string
		data     string
		expected Rawatib
	}{
		{
			name:     "per-slot object",
			data:     `{"beforeFajr": true, "afterMaghrib": true}`,
			expected: Rawatib{BeforeFajr: true, AfterMaghrib: true},
		},
		{
			// The per-slot breakdown cannot be recovered from the legacy
			// checkbox, so it coerces to all-unset.
			name:     "legacy true",
			data:     "true",
			expected: Rawatib{},
		},
		{
			name:     "legacy false",
			data:     "false",
			expected: Rawatib{},
		},
	}

	for _, v := range testTable {
		t.Run(v.name, func(t *testing.T) {
			var rawatib Rawatib
			if err := json.Unmarshal([]byte(v.data), &rawatib); err != nil {
				t.Fatalf("wasn't expecting error, got: %v", err)
			}

			if diff := cmp.Diff(v.expected, rawatib); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestPrayerDayLegacyDocument(t *testing.T) {
	// A full document in the earlier schema: single rawatib checkbox and
	// boolean voluntary prayers.
	data := `{
		"fajr": {"status": "prayed", "type": "ada", "withJamaah": true},
		"dhuhr": {"status": "missed"},
		"rawathib": true,
		"tahajjud": true,
		"dhuha": false,
		"witr": true
	}`

	var record PrayerDay
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	expected := PrayerDay{
		Fajr:     DailyPrayer{Status: PrayerStatusPrayed, Type: PrayerTypeAda, WithJamaah: true},
		Dhuhr:    DailyPrayer{Status: PrayerStatusMissed},
		Tahajjud: 1,
		Witr:     1,
	}

	if diff := cmp.Diff(expected, record); diff != "" {
		t.Error(diff)
	}
}

func TestPrayerDayNormalize(t *testing.T) {
	record := PrayerDay{
		Fajr:    DailyPrayer{Status: PrayerStatusPrayed, Type: PrayerTypeAda, WithJamaah: true},
		Dhuhr:   DailyPrayer{Status: PrayerStatusMissed, Type: PrayerTypeQaza, WithJamaah: true},
		Asr:     DailyPrayer{Status: PrayerStatusSkipped, Type: PrayerTypeAda},
		Maghrib: DailyPrayer{},
	}

	record.Normalize()

	expected := PrayerDay{
		Fajr:    DailyPrayer{Status: PrayerStatusPrayed, Type: PrayerTypeAda, WithJamaah: true},
		Dhuhr:   DailyPrayer{Status: PrayerStatusMissed},
		Asr:     DailyPrayer{Status: PrayerStatusSkipped},
		Maghrib: DailyPrayer{Status: PrayerStatusSkipped},
		Isha:    DailyPrayer{Status: PrayerStatusSkipped},
	}

	if diff := cmp.Diff(expected, record); diff != "" {
		t.Error(diff)
	}
}
