package model

import (
	"time"

	"github.com/google/uuid"
)

// Worker is a staff member who can be attributed sales.
// Active gates whether the worker shows up in the sale-entry picker;
// historical sales keep the worker name as a snapshot regardless.
type Worker struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Phone     string    `gorm:"not null"`
	Role      string    `gorm:"not null"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
