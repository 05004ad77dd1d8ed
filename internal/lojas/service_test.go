package lojas

import (
	"context"
	"errors"
	"testing"

	"github.com/radarobras/radar_api/internal/apperrors"
	"github.com/radarobras/radar_api/internal/identity"
)

type storeStub struct {
	createFn func(ctx context.Context, l *Loja) error
	getFn    func(ctx context.Context, id string) (*Loja, error)
	updateFn func(ctx context.Context, l *Loja) error
}

func (s *storeStub) Create(ctx context.Context, l *Loja) error {
	if s.createFn != nil {
		return s.createFn(ctx, l)
	}
	return nil
}

func (s *storeStub) GetByID(ctx context.Context, id string) (*Loja, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, ErrNotFound
}

func (s *storeStub) List(ctx context.Context) ([]*Loja, error) { return nil, nil }

func (s *storeStub) Update(ctx context.Context, l *Loja) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, l)
	}
	return nil
}

func (s *storeStub) Delete(ctx context.Context, id string) error { return nil }

func adminCtx() context.Context {
	return identity.WithUser(context.Background(), "usr_admin", "admin", "")
}

func TestCreateNormalizesNeighborhoodSet(t *testing.T) {
	store := &storeStub{}
	svc := &Service{Store: store, IDGenerator: func() string { return "loj_test" }}

	l, err := svc.Create(adminCtx(), "Loja Centro", []string{"Centro", "  centro ", "Bela Vista", ""})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if len(l.Neighborhoods) != 2 {
		t.Fatalf("expected deduped set, got %v", l.Neighborhoods)
	}
	if l.Neighborhoods[0] != "Bela Vista" || l.Neighborhoods[1] != "Centro" {
		t.Fatalf("expected sorted output, got %v", l.Neighborhoods)
	}
}

func TestCreateForbiddenForNonAdmin(t *testing.T) {
	svc := &Service{Store: &storeStub{}}

	ctx := identity.WithUser(context.Background(), "usr_1", "gerente", "loja_1")
	_, err := svc.Create(ctx, "Loja Norte", nil)
	assertKind(t, err, apperrors.KindForbidden)
}

func TestAddNeighborhoodRejectsDuplicate(t *testing.T) {
	store := &storeStub{
		getFn: func(ctx context.Context, id string) (*Loja, error) {
			return &Loja{ID: id, Name: "Loja Centro", Neighborhoods: []string{"Centro"}}, nil
		},
	}
	svc := &Service{Store: store}

	_, err := svc.AddNeighborhood(adminCtx(), "loj_1", "CENTRO")
	assertKind(t, err, apperrors.KindConflict)
}

func TestRemoveNeighborhoodMissing(t *testing.T) {
	store := &storeStub{
		getFn: func(ctx context.Context, id string) (*Loja, error) {
			return &Loja{ID: id, Name: "Loja Centro", Neighborhoods: []string{"Centro"}}, nil
		},
	}
	svc := &Service{Store: store}

	_, err := svc.RemoveNeighborhood(adminCtx(), "loj_1", "Mooca")
	assertKind(t, err, apperrors.KindNotFound)
}

func assertKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected apperror, got %v", err)
	}
	if appErr.Kind != kind {
		t.Fatalf("expected kind %s, got %s", kind, appErr.Kind)
	}
}
