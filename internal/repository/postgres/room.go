package postgres

import (
	"context"
	"fmt"

	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/model"
)

func (r *roomRepository) List(ctx context.Context) ([]*model.Room, error) {
	query := `
		SELECT id, name, floor, type, status, created_at
		FROM rooms
		ORDER BY id ASC
	`
	var rooms []*model.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}
