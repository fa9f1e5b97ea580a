package dtos

// DuaDay is one day's supplication checklist.
type DuaDay struct {
	Dhuha        bool `json:"dhuha"`
	AfterMaghrib bool `json:"afterMaghrib"`
}

func DefaultDuaDay() DuaDay {
	return DuaDay{}
}
