package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is keyed by phone number: the sale form upserts by phone, so the
// same person entered twice never produces a duplicate record.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"index;not null"`
	Phone     string    `gorm:"uniqueIndex;not null"`
	Email     *string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
