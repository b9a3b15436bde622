package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/model"
)

const appointmentColumns = `
	id, patient_id, patient_name, professional_id, professional_name,
	start_time, end_time, status, secondary_status, therapy_type,
	room, insurance, fee, notes, block_id, last_in_block,
	created_at, updated_at
`

const insertAppointmentQuery = `
	INSERT INTO appointments (
		id, patient_id, patient_name, professional_id, professional_name,
		start_time, end_time, status, secondary_status, therapy_type,
		room, insurance, fee, notes, block_id, last_in_block,
		created_at, updated_at
	) VALUES (
		:id, :patient_id, :patient_name, :professional_id, :professional_name,
		:start_time, :end_time, :status, :secondary_status, :therapy_type,
		:room, :insurance, :fee, :notes, :block_id, :last_in_block,
		:created_at, :updated_at
	)
`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.db.NamedExecContext(ctx, insertAppointmentQuery, appointment)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET start_time = :start_time,
			end_time = :end_time,
			status = :status,
			secondary_status = :secondary_status,
			therapy_type = :therapy_type,
			room = :room,
			insurance = :insurance,
			fee = :fee,
			notes = :notes,
			last_in_block = :last_in_block,
			updated_at = :updated_at
		WHERE id = :id
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, appointment)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}

func (r *appointmentRepository) DeleteBatch(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM appointments WHERE id IN (?)`, ids)
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("failed to delete appointments: %w", err)
		}
		return nil
	})
}

// ListBetween returns appointments whose start falls within [from, to],
// both bounds inclusive, ordered by start.
func (r *appointmentRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE start_time >= $1 AND start_time <= $2
		ORDER BY start_time ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByProfessionalBetween(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE professional_id = $1 AND start_time >= $2 AND start_time <= $3
		ORDER BY start_time ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, professionalID, from, to); err != nil {
		return nil, fmt.Errorf("failed to list appointments by professional: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByBlockFrom(ctx context.Context, blockID uuid.UUID, from time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE block_id = $1 AND start_time >= $2
		ORDER BY start_time ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, blockID, from); err != nil {
		return nil, fmt.Errorf("failed to list block appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListRenewable(ctx context.Context) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE last_in_block = true AND status = $1
		ORDER BY start_time ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, model.AppointmentStatusScheduled); err != nil {
		return nil, fmt.Errorf("failed to list renewable appointments: %w", err)
	}
	return appointments, nil
}

// CreateBatch inserts all appointments in one transaction; a failure on
// any insert rolls back the whole block.
func (r *appointmentRepository) CreateBatch(ctx context.Context, appointments []*model.Appointment) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now()
		for _, appointment := range appointments {
			appointment.CreatedAt = now
			appointment.UpdatedAt = now
			if _, err := tx.NamedExecContext(ctx, insertAppointmentQuery, appointment); err != nil {
				return fmt.Errorf("failed to create appointment in block: %w", err)
			}
		}
		return nil
	})
}

// RenewBlock inserts the renewal sessions and clears the previous last
// appointment's flag in the same transaction, so exactly one appointment
// carries the flag across the combined lineage afterwards.
func (r *appointmentRepository) RenewBlock(ctx context.Context, previousLastID uuid.UUID, appointments []*model.Appointment) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now()
		for _, appointment := range appointments {
			appointment.CreatedAt = now
			appointment.UpdatedAt = now
			if _, err := tx.NamedExecContext(ctx, insertAppointmentQuery, appointment); err != nil {
				return fmt.Errorf("failed to create renewal appointment: %w", err)
			}
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE appointments SET last_in_block = false, updated_at = $1 WHERE id = $2`,
			now, previousLastID,
		)
		if err != nil {
			return fmt.Errorf("failed to clear renewal flag: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("appointment not found")
		}
		return nil
	})
}

func (r *appointmentRepository) SetLastInBlock(ctx context.Context, id uuid.UUID, last bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET last_in_block = $1, updated_at = $2 WHERE id = $3`,
		last, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set renewal flag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}

// OccupiedRooms returns the distinct room ids used by scheduled
// appointments overlapping [start, end). Strict comparisons: intervals
// that only touch at an endpoint do not overlap.
func (r *appointmentRepository) OccupiedRooms(ctx context.Context, start, end time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT room
		FROM appointments
		WHERE status = $1
		  AND room <> ''
		  AND start_time < $2
		  AND end_time > $3
		ORDER BY room ASC
	`
	var rooms []string
	if err := r.db.SelectContext(ctx, &rooms, query, model.AppointmentStatusScheduled, end, start); err != nil {
		return nil, fmt.Errorf("failed to list occupied rooms: %w", err)
	}
	return rooms, nil
}
