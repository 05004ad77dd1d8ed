package users

import (
	"context"
	"strconv"
	"strings"

	"github.com/radarobras/radar_api/internal/db"
)

type Repository struct {
	base *db.Base
}

func NewRepository(base *db.Base) *Repository {
	return &Repository{base: base}
}

const (
	sqlUserInsert = `INSERT INTO users (id, name, email, avatar, password_hash, role, loja_id)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		RETURNING created_at`

	sqlUserSelect = `SELECT id, name, email, COALESCE(avatar, ''), password_hash, role, COALESCE(loja_id, ''), created_at
		FROM users`

	sqlUserUpdateBase = `UPDATE users
		SET %s
		WHERE id = $1`

	sqlUserDelete = `DELETE FROM users
		WHERE id = $1`
)

func (r *Repository) Create(ctx context.Context, u *User) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	row := r.base.Q().QueryRow(ctx, sqlUserInsert,
		u.ID, u.Name, u.Email, u.Avatar, u.PasswordHash, string(u.Role), u.LojaID,
	)
	return row.Scan(&u.CreatedAt)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	var u User
	err := r.base.Q().QueryRow(ctx, sqlUserSelect+" WHERE email = $1", email).Scan(
		&u.ID, &u.Name, &u.Email, &u.Avatar, &u.PasswordHash, &u.Role, &u.LojaID, &u.CreatedAt,
	)
	if IsNotFound(err) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	var u User
	err := r.base.Q().QueryRow(ctx, sqlUserSelect+" WHERE id = $1", id).Scan(
		&u.ID, &u.Name, &u.Email, &u.Avatar, &u.PasswordHash, &u.Role, &u.LojaID, &u.CreatedAt,
	)
	if IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) List(ctx context.Context, f UserFilter) ([]*User, error) {
	where := []string{"1=1"}
	args := make([]any, 0, 5)
	argPos := 1

	if strings.TrimSpace(f.Query) != "" {
		q := "%" + strings.ReplaceAll(f.Query, "%", "\\%") + "%"
		where = append(where, "(name ILIKE $"+strconv.Itoa(argPos)+" OR email ILIKE $"+strconv.Itoa(argPos)+")")
		args = append(args, q)
		argPos++
	}
	if f.LojaID != "" {
		where = append(where, "loja_id = $"+strconv.Itoa(argPos))
		args = append(args, f.LojaID)
		argPos++
	}
	if f.Role.Valid() {
		where = append(where, "role = $"+strconv.Itoa(argPos))
		args = append(args, string(f.Role))
		argPos++
	}

	limit := 100
	if f.Limit > 0 && f.Limit <= 1000 {
		limit = f.Limit
	}
	offset := 0
	if f.Offset > 0 {
		offset = f.Offset
	}

	query := sqlUserSelect + " WHERE " + strings.Join(where, " AND ") +
		" ORDER BY created_at DESC LIMIT $" + strconv.Itoa(argPos) + " OFFSET $" + strconv.Itoa(argPos+1)
	args = append(args, limit, offset)

	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	rows, err := r.base.Q().Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Avatar, &u.PasswordHash, &u.Role, &u.LojaID, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) Update(ctx context.Context, u *UpdateUserRequest) error {
	set := make([]string, 0, 6)
	args := make([]any, 0, 7)

	args = append(args, u.ID)
	argPos := 2

	if u.Name != "" {
		set = append(set, "name = $"+strconv.Itoa(argPos))
		args = append(args, u.Name)
		argPos++
	}
	if u.Email != "" {
		set = append(set, "email = $"+strconv.Itoa(argPos))
		args = append(args, u.Email)
		argPos++
	}
	if u.Avatar != "" {
		set = append(set, "avatar = $"+strconv.Itoa(argPos))
		args = append(args, u.Avatar)
		argPos++
	}
	if u.PasswordHash != "" {
		set = append(set, "password_hash = $"+strconv.Itoa(argPos))
		args = append(args, u.PasswordHash)
		argPos++
	}
	if u.Role.Valid() {
		set = append(set, "role = $"+strconv.Itoa(argPos))
		args = append(args, string(u.Role))
		argPos++
	}
	if u.LojaID != nil {
		set = append(set, "loja_id = NULLIF($"+strconv.Itoa(argPos)+", '')")
		args = append(args, *u.LojaID)
		argPos++
	}

	if len(set) == 0 {
		return nil
	}

	query := strings.Replace(sqlUserUpdateBase, "%s", strings.Join(set, ", "), 1)

	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	tag, err := r.base.Q().Exec(ctx, query, args...)
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

	tag, err := r.base.Q().Exec(ctx, sqlUserDelete, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
