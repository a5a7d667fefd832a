package models

// Frequency is how often a contract's visits recur. Daily and weekly step
// in days; the rest step in calendar months.
type Frequency string

const (
	FrequencyDaily      Frequency = "daily"
	FrequencyWeekly     Frequency = "weekly"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencySemiAnnual Frequency = "semi_annual"
	FrequencyAnnual     Frequency = "annual"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencySemiAnnual, FrequencyAnnual:
		return true
	}
	return false
}

// DayStep returns the step in days for day-based frequencies.
func (f Frequency) DayStep() (int, bool) {
	switch f {
	case FrequencyDaily:
		return 1, true
	case FrequencyWeekly:
		return 7, true
	}
	return 0, false
}

// MonthStep returns the step in calendar months for month-based
// frequencies.
func (f Frequency) MonthStep() (int, bool) {
	switch f {
	case FrequencyMonthly:
		return 1, true
	case FrequencyQuarterly:
		return 3, true
	case FrequencySemiAnnual:
		return 6, true
	case FrequencyAnnual:
		return 12, true
	}
	return 0, false
}
