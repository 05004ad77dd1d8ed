package obras

import (
	"context"
	"time"
)

type Cache interface {
	GetByID(ctx context.Context, id string) (*Obra, bool, error)
	SetByID(ctx context.Context, o *Obra, ttl time.Duration) error
	DeleteByID(ctx context.Context, id string) error
}
