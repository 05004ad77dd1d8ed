package obras

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/radarobras/radar_api/internal/db"
)

type Repository struct {
	base *db.Base
}

func NewRepository(base *db.Base) *Repository {
	return &Repository{base: base}
}

const (
	sqlObraColumns = `id, street, number, neighborhood, address, stage, status,
		COALESCE(seller_id, ''), loja_id, contacts, photos, COALESCE(details, ''),
		sales, lat, lng, version, created_at, updated_at`

	sqlObraInsert = `INSERT INTO obras
		(id, street, number, neighborhood, address, stage, status, loja_id, contacts, photos, details, sales)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING version, created_at, updated_at`

	sqlObraUpdate = `UPDATE obras
		SET street = $2, number = $3, neighborhood = $4, address = $5, stage = $6,
			loja_id = $7, contacts = $8, details = $9, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	sqlObraUpdateStatus = `UPDATE obras
		SET status = $2, updated_at = now()
		WHERE id = $1`

	sqlObraAssignSeller = `UPDATE obras
		SET seller_id = $2, status = $3, updated_at = now()
		WHERE id = $1`

	sqlObraSetGeo = `UPDATE obras
		SET lat = $2, lng = $3, updated_at = now()
		WHERE id = $1`

	sqlObraAddPhoto = `UPDATE obras
		SET photos = array_append(photos, $2), updated_at = now()
		WHERE id = $1 AND NOT ($2 = ANY(photos))`

	sqlObraRemovePhoto = `UPDATE obras
		SET photos = array_remove(photos, $2), updated_at = now()
		WHERE id = $1`

	sqlObraDelete = `DELETE FROM obras
		WHERE id = $1`

	sqlObraSalesForUpdate = `SELECT status, sales, version
		FROM obras
		WHERE id = $1`

	sqlObraSalesCAS = `UPDATE obras
		SET sales = $2, status = $3, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $4`
)

func scanObra(row pgx.Row) (*Obra, error) {
	var o Obra
	err := row.Scan(
		&o.ID, &o.Street, &o.Number, &o.Neighborhood, &o.Address, &o.Stage, &o.Status,
		&o.SellerID, &o.LojaID, &o.Contacts, &o.Photos, &o.Details,
		&o.Sales, &o.Lat, &o.Lng, &o.Version, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if o.Contacts == nil {
		o.Contacts = []Contact{}
	}
	if o.Photos == nil {
		o.Photos = []string{}
	}
	if o.Sales == nil {
		o.Sales = []Sale{}
	}
	return &o, nil
}

func (r *Repository) Create(ctx context.Context, o *Obra) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	return r.base.Q().QueryRow(ctx, sqlObraInsert,
		o.ID, o.Street, o.Number, o.Neighborhood, o.Address, string(o.Stage), string(o.Status),
		o.LojaID, o.Contacts, o.Photos, o.Details, o.Sales,
	).Scan(&o.Version, &o.CreatedAt, &o.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Obra, error) {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	o, err := scanObra(r.base.Q().QueryRow(ctx, `SELECT `+sqlObraColumns+` FROM obras WHERE id = $1`, id))
	if err != nil {
		return nil, ErrNotFound
	}
	return o, nil
}

func (r *Repository) List(ctx context.Context, f ObraFilter) ([]*Obra, error) {
	where := []string{"1=1"}
	args := make([]any, 0, 6)
	argPos := 1

	if f.LojaID != "" {
		where = append(where, "loja_id = $"+strconv.Itoa(argPos))
		args = append(args, f.LojaID)
		argPos++
	}
	if f.SellerID != "" {
		where = append(where, "seller_id = $"+strconv.Itoa(argPos))
		args = append(args, f.SellerID)
		argPos++
	}
	if f.Status != "" {
		where = append(where, "status = $"+strconv.Itoa(argPos))
		args = append(args, string(f.Status))
		argPos++
	}
	if f.Stage != "" {
		where = append(where, "stage = $"+strconv.Itoa(argPos))
		args = append(args, string(f.Stage))
		argPos++
	}

	query := `SELECT ` + sqlObraColumns + ` FROM obras WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC`

	// Limit < 0 returns the full result set; aggregations must see every
	// row, not a page.
	if f.Limit >= 0 {
		limit := 200
		if f.Limit > 0 && f.Limit <= 1000 {
			limit = f.Limit
		}
		offset := max(f.Offset, 0)
		query += ` LIMIT $` + strconv.Itoa(argPos) + ` OFFSET $` + strconv.Itoa(argPos+1)
		args = append(args, limit, offset)
	}

	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	rows, err := r.base.Q().Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*Obra, 0, 128)
	for rows.Next() {
		o, err := scanObra(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) Update(ctx context.Context, o *Obra) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	err := r.base.Q().QueryRow(ctx, sqlObraUpdate,
		o.ID, o.Street, o.Number, o.Neighborhood, o.Address, string(o.Stage),
		o.LojaID, o.Contacts, o.Details,
	).Scan(&o.UpdatedAt)
	if err != nil {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus is a plain overwrite. Concurrent moves on the same obra race
// and the last committed write wins; neither caller sees an error.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	tag, err := r.base.Q().Exec(ctx, sqlObraUpdateStatus, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) AssignSeller(ctx context.Context, id, sellerID string, status Status) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	tag, err := r.base.Q().Exec(ctx, sqlObraAssignSeller, id, sellerID, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) SetGeo(ctx context.Context, id string, lat, lng float64) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	_, err := r.base.Q().Exec(ctx, sqlObraSetGeo, id, lat, lng)
	return err
}

func (r *Repository) AddPhoto(ctx context.Context, id, url string) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	_, err := r.base.Q().Exec(ctx, sqlObraAddPhoto, id, url)
	return err
}

func (r *Repository) RemovePhoto(ctx context.Context, id, url string) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	_, err := r.base.Q().Exec(ctx, sqlObraRemovePhoto, id, url)
	return err
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	tag, err := r.base.Q().Exec(ctx, sqlObraDelete, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MutateSales applies fn to the obra's ledger and status inside one
// transaction guarded by a version compare-and-swap. The read and the write
// never span two commits, so an edit can't lose the entry halfway. One retry
// absorbs a concurrent ledger write; a second miss surfaces as a conflict.
func (r *Repository) MutateSales(ctx context.Context, id string, fn func(o *Obra) error) (*Obra, error) {
	var out *Obra
	for attempt := 0; attempt < 2; attempt++ {
		var conflicted bool
		err := r.base.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
			var o Obra
			o.ID = id
			err := tx.QueryRow(ctx, sqlObraSalesForUpdate, id).Scan(&o.Status, &o.Sales, &o.Version)
			if err != nil {
				if err == pgx.ErrNoRows {
					return ErrNotFound
				}
				return err
			}
			if o.Sales == nil {
				o.Sales = []Sale{}
			}

			if err := fn(&o); err != nil {
				return err
			}

			tag, err := tx.Exec(ctx, sqlObraSalesCAS, id, o.Sales, string(o.Status), o.Version)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				conflicted = true
				return ErrVersionConflict
			}
			o.Version++
			out = &o
			return nil
		})
		if err == nil {
			full, err := r.GetByID(ctx, id)
			if err == nil {
				return full, nil
			}
			return out, nil
		}
		if !conflicted {
			return nil, err
		}
	}
	return nil, ErrVersionConflict
}
