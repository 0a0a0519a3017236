package models

import (
	"time"

	"github.com/google/uuid"
)

// Card is a virtual stored-value payment card. Balance only moves through ledger debits.
type Card struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	CardNumber string    `json:"card_number" db:"card_number"`
	Balance    int64     `json:"balance" db:"balance"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
