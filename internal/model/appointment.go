package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

// Status tokens are persisted verbatim; existing records depend on the
// exact spellings.
const (
	AppointmentStatusScheduled  AppointmentStatus = "agendado"
	AppointmentStatusInProgress AppointmentStatus = "em_atendimento"
	AppointmentStatusCompleted  AppointmentStatus = "finalizado"
	AppointmentStatusNoShow     AppointmentStatus = "nao_compareceu"
	AppointmentStatusCancelled  AppointmentStatus = "cancelado"
)

// SecondaryStatusNone is the form token meaning "no secondary status".
// It is never persisted; see NormalizeSecondaryStatus.
const SecondaryStatusNone = "nenhum"

type Appointment struct {
	ID               uuid.UUID         `db:"id" json:"id"`
	PatientID        uuid.UUID         `db:"patient_id" json:"patient_id"`
	PatientName      string            `db:"patient_name" json:"patient_name"`
	ProfessionalID   uuid.UUID         `db:"professional_id" json:"professional_id"`
	ProfessionalName string            `db:"professional_name" json:"professional_name"`
	StartTime        time.Time         `db:"start_time" json:"start_time"`
	EndTime          time.Time         `db:"end_time" json:"end_time"`
	Status           AppointmentStatus `db:"status" json:"status"`
	SecondaryStatus  string            `db:"secondary_status" json:"secondary_status"`
	TherapyType      string            `db:"therapy_type" json:"therapy_type"`
	Room             string            `db:"room" json:"room,omitempty"`
	Insurance        string            `db:"insurance" json:"insurance"`
	Fee              float64           `db:"fee" json:"fee"`
	Notes            string            `db:"notes" json:"notes,omitempty"`
	BlockID          *uuid.UUID        `db:"block_id" json:"block_id,omitempty"`
	LastInBlock      bool              `db:"last_in_block" json:"last_in_block"`
	CreatedAt        time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time         `db:"updated_at" json:"updated_at"`
}

type CreateAppointmentRequest struct {
	PatientID       uuid.UUID `json:"patient_id" binding:"required"`
	ProfessionalID  uuid.UUID `json:"professional_id" binding:"required"`
	Date            string    `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime       string    `json:"start_time" binding:"required,datetime=15:04"`
	EndTime         string    `json:"end_time" binding:"required,datetime=15:04"`
	TherapyType     string    `json:"therapy_type" binding:"max=120"`
	Room            string    `json:"room" binding:"max=20"`
	Insurance       string    `json:"insurance" binding:"max=120"`
	Fee             float64   `json:"fee" binding:"gte=0"`
	Notes           string    `json:"notes" binding:"max=2000"`
	SecondaryStatus string    `json:"secondary_status" binding:"max=60"`
}

type CreateBlockRequest struct {
	CreateAppointmentRequest
	Sessions int `json:"sessions" binding:"required,min=1,max=52"`
}

type UpdateAppointmentRequest struct {
	Date            *string            `json:"date" binding:"omitempty,datetime=2006-01-02"`
	StartTime       *string            `json:"start_time" binding:"omitempty,datetime=15:04"`
	EndTime         *string            `json:"end_time" binding:"omitempty,datetime=15:04"`
	Status          *AppointmentStatus `json:"status" binding:"omitempty,appointment_status"`
	SecondaryStatus *string            `json:"secondary_status"`
	TherapyType     *string            `json:"therapy_type"`
	Room            *string            `json:"room"`
	Insurance       *string            `json:"insurance"`
	Fee             *float64           `json:"fee" binding:"omitempty,gte=0"`
	Notes           *string            `json:"notes"`
}

type RenewBlockRequest struct {
	Sessions int `json:"sessions" binding:"required"`
}

// NormalizeSecondaryStatus maps the "nenhum" form token to the empty
// string so the token itself is never persisted. Idempotent: an
// already-empty value passes through unchanged.
func NormalizeSecondaryStatus(s string) string {
	if s == SecondaryStatusNone {
		return ""
	}
	return s
}

var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusScheduled: {
		AppointmentStatusInProgress,
		AppointmentStatusNoShow,
		AppointmentStatusCancelled,
	},
	AppointmentStatusInProgress: {
		AppointmentStatusCompleted,
	},
}

// CanTransition reports whether moving between statuses follows the
// expected operational flow. Advisory only: the store accepts any status
// written through an update so staff can correct mistakes freely.
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
