package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/naufallariff/credia-system/internal/domain/apperror"
	"github.com/naufallariff/credia-system/internal/domain/model"
	"github.com/naufallariff/credia-system/pkg/postgres"
)

// ClientRepo implements port.ClientDirectory over the users table.
type ClientRepo struct {
	q postgres.Querier
}

// NewClientRepo creates a PostgreSQL-backed client directory.
func NewClientRepo(q postgres.Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// FindClient resolves a client id to its snapshot.
func (r *ClientRepo) FindClient(ctx context.Context, id string) (model.ClientSnapshot, error) {
	var snap model.ClientSnapshot
	err := r.q.QueryRow(ctx,
		`SELECT id, name, role, status FROM users WHERE id = $1`, id,
	).Scan(&snap.ID, &snap.Name, &snap.Role, &snap.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ClientSnapshot{}, apperror.NotFound("client %s not found", id)
		}
		return model.ClientSnapshot{}, fmt.Errorf("scan client: %w", err)
	}
	return snap, nil
}
