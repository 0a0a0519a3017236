package models

import (
	"github.com/google/uuid"
)

// DurationCode identifies the length of a subscription term
type DurationCode string

const (
	DurationOneMonth    DurationCode = "one_month"
	DurationThreeMonths DurationCode = "three_months"
	DurationSixMonths   DurationCode = "six_months"
	DurationOneYear     DurationCode = "one_year"
)

type SubscriptionType string

const (
	SubscriptionTypeFree  SubscriptionType = "free"
	SubscriptionTypePaid  SubscriptionType = "paid"
	SubscriptionTypeTrial SubscriptionType = "trial"
)

// Term is a priced offer of a single service. Price is in minor currency units,
// CashbackPercent is a whole percentage in [0,100].
type Term struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	ServiceID        uuid.UUID        `json:"service_id" db:"service_id"`
	Name             string           `json:"name" db:"name"`
	DurationCode     DurationCode     `json:"duration" db:"duration_code"`
	Price            int64            `json:"price" db:"price"`
	CashbackPercent  int              `json:"cashback" db:"cashback_percent"`
	SubscriptionType SubscriptionType `json:"subscription_type" db:"subscription_type"`
	IsFeatured       bool             `json:"is_featured" db:"is_featured"`
}
