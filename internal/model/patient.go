package model

import (
	"time"

	"github.com/google/uuid"
)

// Patient is an external entity as far as scheduling is concerned; only
// the display name is consulted, at appointment-create time.
type Patient struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
