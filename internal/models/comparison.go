package models

import (
	"time"

	"github.com/google/uuid"
)

type Comparison struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ServiceID uuid.UUID `json:"service_id" db:"service_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Service   *Service  `json:"service,omitempty" db:"-"`
}
