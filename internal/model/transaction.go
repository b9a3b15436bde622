package model

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is the financial record that may reference an appointment.
// The scheduling core only ever deletes transactions by that reference;
// creation and reporting belong to the finance module.
type Transaction struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	Description   string     `db:"description" json:"description"`
	Amount        float64    `db:"amount" json:"amount"`
	Date          time.Time  `db:"date" json:"date"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}
