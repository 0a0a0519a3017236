package models

import (
	"github.com/google/uuid"
)

// Service is a third-party offering in the catalog (a streaming or music service, for example)
type Service struct {
	ID           uuid.UUID `json:"id" db:"id"`
	CategoryID   uuid.UUID `json:"category_id" db:"category_id"`
	CategoryName string    `json:"category_name" db:"-"`
	Name         string    `json:"name" db:"name"`
	Text         string    `json:"text" db:"text"`
	ImageKey     string    `json:"-" db:"image_key"`
	ImageURL     string    `json:"image_url,omitempty" db:"-"`
	IsFeatured   bool      `json:"is_featured" db:"is_featured"`
	MinPrice     int64     `json:"min_price" db:"min_price"`
	MaxCashback  int       `json:"max_cashback" db:"max_cashback"`
	Terms        []*Term   `json:"terms,omitempty" db:"-"`
}

// ServiceSearchFilter holds catalog listing criteria
type ServiceSearchFilter struct {
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	IsFeatured *bool      `json:"is_featured,omitempty"`
	Query      string     `json:"query,omitempty"` // name ILIKE
	Limit      int        `json:"limit,omitempty"`
	Offset     int        `json:"offset,omitempty"`
}
