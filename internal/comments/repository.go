package comments

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
	sqlCommentInsert = `INSERT INTO comments (id, obra_id, user_id, user_name, user_avatar, text)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	sqlCommentSelect = `SELECT id, obra_id, user_id, user_name, COALESCE(user_avatar, ''), text, created_at
		FROM comments`

	sqlCommentDelete = `DELETE FROM comments
		WHERE id = $1`
)

func (r *Repository) Create(ctx context.Context, c *Comment) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	row := r.base.Q().QueryRow(ctx, sqlCommentInsert,
		c.ID, c.ObraID, c.UserID, c.UserName, c.UserAvatar, c.Text,
	)
	return row.Scan(&c.CreatedAt)
}

func (r *Repository) ListByObra(ctx context.Context, obraID string) ([]*Comment, error) {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	rows, err := r.base.Q().Query(ctx, sqlCommentSelect+" WHERE obra_id = $1 ORDER BY created_at DESC", obraID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.ObraID, &c.UserID, &c.UserName, &c.UserAvatar, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	tag, err := r.base.Q().Exec(ctx, sqlCommentDelete, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
