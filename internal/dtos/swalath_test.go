package dtos

import "testing"

func TestSwalathEntrySum(t *testing.T) {
	testTable := []struct {
		name     string
		entry    SwalathEntry
		expected int
	}{
		{
			name:     "empty",
			entry:    SwalathEntry{Id: "2026-08-30"},
			expected: 0,
		},
		{
			name:     "all intervals",
			entry:    SwalathEntry{Id: "2026-08-30", FajrDuhr: 1, DuhrAsr: 2, AsrMaghrib: 3, MaghribIsha: 4, IshaFajr: 5},
			expected: 15,
		},
		{
			// The stored total is derived, never read back from the payload.
			name:     "stale total ignored",
			entry:    SwalathEntry{Id: "2026-08-30", FajrDuhr: 2, Total: 99},
			expected: 2,
		},
	}

	for _, v := range testTable {
		t.Run(v.name, func(t *testing.T) {
			if got := v.entry.Sum(); got != v.expected {
				t.Fatalf("expected sum %d, got %d", v.expected, got)
			}
		})
	}
}
