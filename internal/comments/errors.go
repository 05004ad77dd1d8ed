package comments

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/radarobras/radar_api/internal"
)

var ErrNotFound = errors.New("comment not found")

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound) || errors.Is(err, internal.ErrNotFound)
}
