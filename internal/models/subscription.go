package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription links a user to one term of one service. CardID is nil once the
// billing card has been removed.
type Subscription struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     uuid.UUID  `json:"user_id" db:"user_id"`
	ServiceID  uuid.UUID  `json:"service_id" db:"service_id"`
	TermID     uuid.UUID  `json:"term_id" db:"term_id"`
	CardID     *uuid.UUID `json:"card_id" db:"card_id"`
	StartDate  time.Time  `json:"start_date" db:"start_date"`
	EndDate    time.Time  `json:"end_date" db:"end_date"`
	AmountPaid int64      `json:"amount_paid" db:"amount_paid"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// SubscriptionDetail is a subscription joined with its term, service and category,
// the row shape used by the aggregation reports.
type SubscriptionDetail struct {
	Subscription
	ServiceName  string `json:"service_name" db:"service_name"`
	CategoryName string `json:"category_name" db:"category_name"`
	Term         Term   `json:"term" db:"-"`
}

// SubscriptionSearchFilter holds aggregation filter criteria. StartDate bounds are
// inclusive; EndDate bounds form the half-open due window [from, before).
type SubscriptionSearchFilter struct {
	StartDateFrom *time.Time `json:"start_date,omitempty"`
	StartDateTo   *time.Time `json:"end_date,omitempty"`
	CategoryName  string     `json:"category,omitempty"`
	EndDateFrom   *time.Time `json:"-"`
	EndDateBefore *time.Time `json:"-"`
}
