package obras

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound        = errors.New("obra not found")
	ErrSaleNotFound    = errors.New("sale not found")
	ErrVersionConflict = errors.New("obra modified concurrently")
)

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound)
}
