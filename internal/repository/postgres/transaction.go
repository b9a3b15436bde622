package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// DeleteByAppointmentID removes every transaction referencing the
// appointment. Trivially succeeds when none exist.
func (r *transactionRepository) DeleteByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (int64, error) {
	var deleted int64
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`DELETE FROM transactions WHERE appointment_id = $1`,
			appointmentID,
		)
		if err != nil {
			return fmt.Errorf("failed to delete linked transactions: %w", err)
		}
		deleted, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (r *transactionRepository) DeleteByAppointmentIDs(ctx context.Context, appointmentIDs []uuid.UUID) (int64, error) {
	if len(appointmentIDs) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`DELETE FROM transactions WHERE appointment_id IN (?)`, appointmentIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}

	var deleted int64
	err = r.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		if err != nil {
			return fmt.Errorf("failed to delete linked transactions: %w", err)
		}
		deleted, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
