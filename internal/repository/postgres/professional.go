package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/model"
)

func (r *professionalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Professional, error) {
	query := `
		SELECT id, full_name, specialty, active, created_at, updated_at
		FROM professionals
		WHERE id = $1
	`
	var professional model.Professional
	if err := r.db.GetContext(ctx, &professional, query, id); err != nil {
		return nil, fmt.Errorf("failed to get professional: %w", err)
	}
	return &professional, nil
}
