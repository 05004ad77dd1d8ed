package lojas

import (
	"context"

	"github.com/radarobras/radar_api/internal/db"
)

type Repository struct {
	base *db.Base
}

func NewRepository(base *db.Base) *Repository {
	return &Repository{base: base}
}

const (
	sqlLojaInsert = `INSERT INTO lojas (id, name, neighborhoods)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	sqlLojaSelectByID = `SELECT id, name, neighborhoods, created_at
		FROM lojas
		WHERE id = $1`

	sqlLojaList = `SELECT id, name, neighborhoods, created_at
		FROM lojas
		ORDER BY name`

	sqlLojaUpdate = `UPDATE lojas
		SET name = $2, neighborhoods = $3
		WHERE id = $1`

	sqlLojaDelete = `DELETE FROM lojas
		WHERE id = $1`
)

func (r *Repository) Create(ctx context.Context, l *Loja) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	return r.base.Q().QueryRow(ctx, sqlLojaInsert, l.ID, l.Name, l.Neighborhoods).Scan(&l.CreatedAt)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Loja, error) {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	var l Loja
	err := r.base.Q().QueryRow(ctx, sqlLojaSelectByID, id).Scan(&l.ID, &l.Name, &l.Neighborhoods, &l.CreatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (r *Repository) List(ctx context.Context) ([]*Loja, error) {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	rows, err := r.base.Q().Query(ctx, sqlLojaList)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*Loja, 0, 16)
	for rows.Next() {
		var l Loja
		if err := rows.Scan(&l.ID, &l.Name, &l.Neighborhoods, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) Update(ctx context.Context, l *Loja) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	tag, err := r.base.Q().Exec(ctx, sqlLojaUpdate, l.ID, l.Name, l.Neighborhoods)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	tag, err := r.base.Q().Exec(ctx, sqlLojaDelete, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
