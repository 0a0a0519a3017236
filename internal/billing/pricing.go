package billing

import (
	"github.com/shopspring/decimal"

	"pay2u/internal/common"
	"pay2u/internal/models"
)

var (
	hundred = decimal.NewFromInt(100)
	unit    = decimal.NewFromInt(daysPerUnit)
)

// Calculator prices terms. Amounts are rounded half-to-even to whole minor units.
type Calculator struct {
	policy DurationPolicy
}

func NewCalculator(policy DurationPolicy) *Calculator {
	return &Calculator{policy: policy}
}

// Policy returns the duration policy the calculator scales prices with
func (c *Calculator) Policy() DurationPolicy {
	return c.policy
}

// Cost is the amount charged for a term: price scaled by the number of 30-day
// units in its duration.
func (c *Calculator) Cost(term *models.Term) (int64, error) {
	days, err := c.policy.DaysFor(term.DurationCode)
	if err != nil {
		return 0, err
	}

	amount := decimal.NewFromInt(term.Price).
		Mul(decimal.NewFromInt(int64(days))).
		Div(unit).
		RoundBank(0)
	return amount.IntPart(), nil
}

// Cashback is the reward earned on a term's nominal price
func Cashback(term *models.Term) int64 {
	return decimal.NewFromInt(term.Price).
		Mul(decimal.NewFromInt(int64(term.CashbackPercent))).
		Div(hundred).
		RoundBank(0).
		IntPart()
}

// ValidateTerm checks the catalog invariants of a term before it is priced.
// Duration codes are judged by the calculator's policy, so lenient mode accepts
// codes it would bill as 30 days.
func (c *Calculator) ValidateTerm(term *models.Term) error {
	if term.Price < 0 {
		return common.NewError(common.KindInvalidInput, "term price cannot be negative")
	}
	if term.CashbackPercent < 0 || term.CashbackPercent > 100 {
		return common.NewError(common.KindInvalidInput, "cashback must be between 0 and 100")
	}
	switch term.SubscriptionType {
	case models.SubscriptionTypeFree, models.SubscriptionTypePaid, models.SubscriptionTypeTrial:
	default:
		return common.NewError(common.KindInvalidInput, "unknown subscription type %q", term.SubscriptionType)
	}
	_, err := c.policy.DaysFor(term.DurationCode)
	return err
}
