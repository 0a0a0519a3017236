// Package billing holds the pure rules that turn a subscription term into a day
// count, a price and a cashback amount.
package billing

import (
	"time"

	"pay2u/internal/common"
	"pay2u/internal/models"
)

const (
	// DefaultYearDays is the day count for one_year terms
	DefaultYearDays = 365
	// fallbackDays is what lenient mode returns for an unrecognized code
	fallbackDays = 30
	// daysPerUnit is the number of days one nominal term price covers
	daysPerUnit = 30
)

// DurationPolicy maps duration codes to day counts.
type DurationPolicy struct {
	// YearDays is 365 or 360
	YearDays int
	// Strict rejects unknown codes with InvalidDurationCode instead of falling back to 30 days
	Strict bool
}

// NewDurationPolicy creates a policy. A yearDays value other than 360 falls back to 365.
func NewDurationPolicy(yearDays int, strict bool) DurationPolicy {
	if yearDays != 360 {
		yearDays = DefaultYearDays
	}
	return DurationPolicy{YearDays: yearDays, Strict: strict}
}

// DaysFor returns the number of days a term with the given code lasts
func (p DurationPolicy) DaysFor(code models.DurationCode) (int, error) {
	switch code {
	case models.DurationOneMonth:
		return 30, nil
	case models.DurationThreeMonths:
		return 90, nil
	case models.DurationSixMonths:
		return 180, nil
	case models.DurationOneYear:
		if p.YearDays == 0 {
			return DefaultYearDays, nil
		}
		return p.YearDays, nil
	}

	if p.Strict {
		return 0, common.NewError(common.KindInvalidDurationCode, "unknown duration code %q", code)
	}
	return fallbackDays, nil
}

// EndDate returns start shifted by the term length in whole days
func (p DurationPolicy) EndDate(start time.Time, code models.DurationCode) (time.Time, error) {
	days, err := p.DaysFor(code)
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, 0, days), nil
}
