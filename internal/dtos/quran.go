package dtos

// Surahs flags the named chapters recited on a given day.
type Surahs struct {
	Yasin  bool `json:"yasin"`
	Mulk   bool `json:"mulk"`
	Waqia  bool `json:"waqia"`
	Rahman bool `json:"rahman"`
	Kahf   bool `json:"kahf"`
}

// QuranDay is one day's reading record. DailyGoalPages is copied in from the
// user-level goal at read time; it is not stored per day.
type QuranDay struct {
	DailyGoalPages int    `json:"dailyGoalPages" validate:"min=0"`
	PagesRead      Count  `json:"pagesRead" validate:"min=0"`
	Surahs         Surahs `json:"surahs"`
}

func DefaultQuranDay() QuranDay {
	return QuranDay{}
}

type QuranDayRequest struct {
	PagesRead *int    `json:"pagesRead" validate:"omitempty,min=0"`
	Surahs    *Surahs `json:"surahs"`
}

type QuranGoalRequest struct {
	DailyGoalPages *int `json:"dailyGoalPages" validate:"required,min=0"`
}
