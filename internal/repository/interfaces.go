package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/model"
)

// All repository interfaces in one file
type (
	// AppointmentRepository handles appointment persistence. Batch
	// methods run inside a single database transaction; a failure
	// mid-batch leaves no partial writes.
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		DeleteBatch(ctx context.Context, ids []uuid.UUID) error
		ListBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
		ListByProfessionalBetween(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]*model.Appointment, error)
		ListByBlockFrom(ctx context.Context, blockID uuid.UUID, from time.Time) ([]*model.Appointment, error)
		ListRenewable(ctx context.Context) ([]*model.Appointment, error)
		CreateBatch(ctx context.Context, appointments []*model.Appointment) error
		RenewBlock(ctx context.Context, previousLastID uuid.UUID, appointments []*model.Appointment) error
		SetLastInBlock(ctx context.Context, id uuid.UUID, last bool) error
		OccupiedRooms(ctx context.Context, start, end time.Time) ([]string, error)
	}

	PatientRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	}

	ProfessionalRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Professional, error)
	}

	// RoomRepository is read-only input to the occupancy resolver.
	RoomRepository interface {
		List(ctx context.Context) ([]*model.Room, error)
	}

	// TransactionRepository is write-only from the scheduling core's
	// perspective: it only ever reconciles by appointment reference.
	TransactionRepository interface {
		DeleteByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (int64, error)
		DeleteByAppointmentIDs(ctx context.Context, appointmentIDs []uuid.UUID) (int64, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
	}
)
