package role

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL role repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Grant(ctx context.Context, userID uuid.UUID, role Role) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING`,
		userID, role)
	return err
}

func (r *postgresRepository) Has(ctx context.Context, userID uuid.UUID, role Role) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`,
		userID, role).Scan(&exists)
	return exists, err
}

func (r *postgresRepository) SaveIntent(ctx context.Context, userID uuid.UUID, role Role) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO role_intents (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING`,
		userID, role)
	return err
}

func (r *postgresRepository) PendingIntents(ctx context.Context, userID uuid.UUID) ([]*Intent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, role, created_at
		FROM role_intents
		WHERE user_id = $1 AND fulfilled_at IS NULL
		ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var intents []*Intent
	for rows.Next() {
		in := &Intent{}
		if err := rows.Scan(&in.UserID, &in.Role, &in.CreatedAt); err != nil {
			return nil, err
		}
		intents = append(intents, in)
	}
	return intents, rows.Err()
}

func (r *postgresRepository) MarkFulfilled(ctx context.Context, userID uuid.UUID, role Role) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE role_intents SET fulfilled_at = NOW()
		WHERE user_id = $1 AND role = $2 AND fulfilled_at IS NULL`,
		userID, role)
	return err
}
