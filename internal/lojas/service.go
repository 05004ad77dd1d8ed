package lojas

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/radarobras/radar_api/internal/apperrors"
	"github.com/radarobras/radar_api/internal/identity"
)

type Store interface {
	Create(ctx context.Context, l *Loja) error
	GetByID(ctx context.Context, id string) (*Loja, error)
	List(ctx context.Context) ([]*Loja, error)
	Update(ctx context.Context, l *Loja) error
	Delete(ctx context.Context, id string) error
}

type Service struct {
	Store       Store
	IDGenerator func() string
}

func (s *Service) Create(ctx context.Context, name string, neighborhoods []string) (*Loja, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "lojas store not configured")
	}
	if !identity.IsAdmin(ctx) {
		return nil, apperrors.New(apperrors.KindForbidden, "forbidden")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "name is required")
	}

	idGen := s.IDGenerator
	if idGen == nil {
		idGen = func() string {
			return "loj_" + uuid.NewString()
		}
	}

	l := &Loja{
		ID:            idGen(),
		Name:          name,
		Neighborhoods: normalizeNeighborhoods(neighborhoods),
	}

	if err := s.Store.Create(ctx, l); err != nil {
		return nil, apperrors.New(apperrors.KindInternal, "failed to create loja")
	}
	return l, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Loja, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "lojas store not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "id is required")
	}

	l, err := s.Store.GetByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, apperrors.New(apperrors.KindNotFound, "loja not found")
		}
		return nil, apperrors.New(apperrors.KindInternal, "failed to load loja")
	}
	return l, nil
}

func (s *Service) List(ctx context.Context) ([]*Loja, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "lojas store not configured")
	}
	list, err := s.Store.List(ctx)
	if err != nil {
		return nil, apperrors.New(apperrors.KindInternal, "failed to list lojas")
	}
	return list, nil
}

func (s *Service) Rename(ctx context.Context, id, name string) (*Loja, error) {
	if !identity.IsAdmin(ctx) {
		return nil, apperrors.New(apperrors.KindForbidden, "forbidden")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "name is required")
	}

	l, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Name = name

	if err := s.Store.Update(ctx, l); err != nil {
		return nil, apperrors.New(apperrors.KindInternal, "failed to update loja")
	}
	return l, nil
}

// AddNeighborhood inserts into the service area. Duplicates are rejected
// case-insensitively; storage order is sorted for display.
func (s *Service) AddNeighborhood(ctx context.Context, id, neighborhood string) (*Loja, error) {
	if !identity.IsAdmin(ctx) {
		return nil, apperrors.New(apperrors.KindForbidden, "forbidden")
	}
	neighborhood = strings.TrimSpace(neighborhood)
	if neighborhood == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "neighborhood is required")
	}

	l, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, n := range l.Neighborhoods {
		if strings.EqualFold(n, neighborhood) {
			return nil, apperrors.New(apperrors.KindConflict, "neighborhood already registered")
		}
	}

	l.Neighborhoods = normalizeNeighborhoods(append(l.Neighborhoods, neighborhood))

	if err := s.Store.Update(ctx, l); err != nil {
		return nil, apperrors.New(apperrors.KindInternal, "failed to update loja")
	}
	return l, nil
}

func (s *Service) RemoveNeighborhood(ctx context.Context, id, neighborhood string) (*Loja, error) {
	if !identity.IsAdmin(ctx) {
		return nil, apperrors.New(apperrors.KindForbidden, "forbidden")
	}
	neighborhood = strings.TrimSpace(neighborhood)
	if neighborhood == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "neighborhood is required")
	}

	l, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	kept := l.Neighborhoods[:0]
	removed := false
	for _, n := range l.Neighborhoods {
		if strings.EqualFold(n, neighborhood) {
			removed = true
			continue
		}
		kept = append(kept, n)
	}
	if !removed {
		return nil, apperrors.New(apperrors.KindNotFound, "neighborhood not found")
	}
	l.Neighborhoods = kept

	if err := s.Store.Update(ctx, l); err != nil {
		return nil, apperrors.New(apperrors.KindInternal, "failed to update loja")
	}
	return l, nil
}

func normalizeNeighborhoods(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, n := range in {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
