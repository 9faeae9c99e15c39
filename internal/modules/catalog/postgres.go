package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const selectSQL = `SELECT id, title, description, price_cents, image, seller, owner_id, created_at FROM products`

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO products (id, title, description, price_cents, image, seller, owner_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at`,
		p.ID, p.Title, p.Description, p.Price, p.Image, p.Seller, p.OwnerID).
		Scan(&p.CreatedAt)
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanProduct(row rowScanner) (*Product, error) {
	p := &Product{}
	var owner uuid.NullUUID
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Image, &p.Seller, &owner, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if owner.Valid {
		id := owner.UUID
		p.OwnerID = &id
	}
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	p, err := scanProduct(r.db.QueryRowContext(ctx, selectSQL+` WHERE id=$1`, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (r *postgresRepo) List(ctx context.Context) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, selectSQL+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
