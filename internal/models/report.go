package models

import (
	"time"

	"github.com/google/uuid"
)

// Report is the result of one aggregation over a user's filtered subscriptions.
type Report struct {
	UserID        uuid.UUID             `json:"user_id"`
	Month         string                `json:"month,omitempty"`
	Total         int64                 `json:"total"`
	Count         int                   `json:"count"`
	Subscriptions []*SubscriptionDetail `json:"subscriptions"`
}

// Summary backs the main page: totals for the user plus featured services.
type Summary struct {
	UserID           uuid.UUID  `json:"user_id"`
	Month            string     `json:"month"`
	TotalExpenses    int64      `json:"total_expenses"`
	TotalCashback    int64      `json:"total_cashback"`
	TotalDue         int64      `json:"total_due"`
	SubscriptionsDue int        `json:"subscriptions_due"`
	FeaturedServices []*Service `json:"featured_services"`
	GeneratedAt      time.Time  `json:"generated_at"`
}
