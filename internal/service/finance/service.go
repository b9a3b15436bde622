// Package finance holds the reconciliation hook that keeps billing
// records from outliving the appointments they reference.
package finance

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/repository"
	"github.com/IagoLeal1/GestaoLibelle-sub000/pkg/logger"
	"github.com/IagoLeal1/GestaoLibelle-sub000/pkg/metrics"
)

type Service struct {
	repo    repository.TransactionRepository
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewService(repo repository.TransactionRepository, logger *logger.Logger, metrics *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
	}
}

// DeleteByAppointmentID removes every transaction linked to the given
// appointment in one batch. A no-op when nothing is linked.
func (s *Service) DeleteByAppointmentID(ctx context.Context, appointmentID uuid.UUID) error {
	deleted, err := s.repo.DeleteByAppointmentID(ctx, appointmentID)
	if err != nil {
		s.metrics.ReconciliationFailures.Inc()
		return fmt.Errorf("failed to reconcile transactions: %w", err)
	}

	if deleted > 0 {
		s.metrics.TransactionsReconciled.Add(float64(deleted))
		s.logger.Info("deleted linked transactions",
			"appointment_id", appointmentID.String(),
			"count", deleted)
	}
	return nil
}

// DeleteByAppointmentIDs is the multi-appointment variant used by
// block-wide deletions.
func (s *Service) DeleteByAppointmentIDs(ctx context.Context, appointmentIDs []uuid.UUID) error {
	if len(appointmentIDs) == 0 {
		return nil
	}

	deleted, err := s.repo.DeleteByAppointmentIDs(ctx, appointmentIDs)
	if err != nil {
		s.metrics.ReconciliationFailures.Inc()
		return fmt.Errorf("failed to reconcile transactions: %w", err)
	}

	if deleted > 0 {
		s.metrics.TransactionsReconciled.Add(float64(deleted))
		s.logger.Info("deleted linked transactions",
			"appointments", len(appointmentIDs),
			"count", deleted)
	}
	return nil
}
