package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/model"
	apperrors "github.com/IagoLeal1/GestaoLibelle-sub000/pkg/errors"
)

// GetRenewable returns the block-final appointments still in scheduled
// status, ordered by start. These are the renewal candidates staff act
// on once the final session of a block approaches.
func (s *Service) GetRenewable(ctx context.Context) ([]*model.Appointment, error) {
	appointments, err := s.repo.ListRenewable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list renewable appointments: %w", err)
	}
	return appointments, nil
}

// Renew extends a finished weekly block by the requested number of
// sessions. The new sessions copy every descriptive field of the last
// appointment, start one week after it, and share a new block id; the
// old appointment's renewal flag is cleared in the same transaction so
// exactly one appointment carries it afterwards.
func (s *Service) Renew(ctx context.Context, lastID uuid.UUID, sessions int) ([]*model.Appointment, error) {
	if sessions <= 0 {
		return nil, apperrors.BadRequest("sessions must be positive", nil)
	}

	last, err := s.repo.Get(ctx, lastID)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	if !last.LastInBlock {
		return nil, apperrors.BadRequest("appointment is not a renewal candidate", nil)
	}

	duration := last.EndTime.Sub(last.StartTime)
	blockID := uuid.New()

	appointments := make([]*model.Appointment, 0, sessions)
	for i := 0; i < sessions; i++ {
		session := *last
		session.ID = uuid.New()
		session.StartTime = last.StartTime.AddDate(0, 0, 7*(i+1))
		session.EndTime = session.StartTime.Add(duration)
		session.Status = model.AppointmentStatusScheduled
		session.BlockID = &blockID
		session.LastInBlock = i == sessions-1
		appointments = append(appointments, &session)
	}

	if err := s.repo.RenewBlock(ctx, last.ID, appointments); err != nil {
		return nil, fmt.Errorf("failed to renew block: %w", err)
	}

	s.metrics.BlocksRenewed.Inc()
	s.metrics.AppointmentsCreated.WithLabelValues("block").Add(float64(sessions))
	s.recordEvent(ctx, model.EventBlockRenewed, map[string]interface{}{
		"previous_last": last.ID,
		"block_id":      blockID,
		"sessions":      sessions,
	})
	return appointments, nil
}

// Dismiss clears the renewal flag without creating sessions, so the
// appointment stops resurfacing in the renewable list.
func (s *Service) Dismiss(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetLastInBlock(ctx, id, false); err != nil {
		return fmt.Errorf("failed to dismiss renewal: %w", err)
	}
	return nil
}
