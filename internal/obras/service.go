package obras

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/radarobras/radar_api/internal/apperrors"
	"github.com/radarobras/radar_api/internal/identity"
	"github.com/radarobras/radar_api/internal/telemetry"
	"github.com/radarobras/radar_api/internal/users"
)

type Store interface {
	Create(ctx context.Context, o *Obra) error
	GetByID(ctx context.Context, id string) (*Obra, error)
	List(ctx context.Context, f ObraFilter) ([]*Obra, error)
	Update(ctx context.Context, o *Obra) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	AssignSeller(ctx context.Context, id, sellerID string, status Status) error
	SetGeo(ctx context.Context, id string, lat, lng float64) error
	AddPhoto(ctx context.Context, id, url string) error
	RemovePhoto(ctx context.Context, id, url string) error
	MutateSales(ctx context.Context, id string, fn func(o *Obra) error) (*Obra, error)
}

type SellerLookup interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
}

type Geocoder interface {
	Lookup(ctx context.Context, address string) (lat, lng float64, err error)
}

type PhotoStorage interface {
	Upload(ctx context.Context, file io.Reader, key, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
	Owns(url string) bool
}

type Service struct {
	Store       Store
	Sellers     SellerLookup
	Geocoder    Geocoder
	Photos      PhotoStorage
	Cache       Cache
	CacheTTL    time.Duration
	IDGenerator func() string
}

func (s *Service) Create(ctx context.Context, req CreateObraRequest) (*Obra, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "obras store not configured")
	}
	if requesterID, ok := identity.UserID(ctx); !ok || strings.TrimSpace(requesterID) == "" {
		return nil, apperrors.New(apperrors.KindUnauthorized, "unauthorized")
	}

	street := strings.TrimSpace(req.Street)
	neighborhood := strings.TrimSpace(req.Neighborhood)
	lojaID := strings.TrimSpace(req.LojaID)
	if street == "" || neighborhood == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "street and neighborhood are required")
	}
	if lojaID == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "loja is required")
	}
	if !req.Stage.Valid() {
		return nil, apperrors.New(apperrors.KindInvalidInput, "invalid stage")
	}
	for _, c := range req.Contacts {
		if strings.TrimSpace(c.Name) == "" || !c.Type.Valid() {
			return nil, apperrors.New(apperrors.KindInvalidInput, "invalid contact")
		}
	}

	idGen := s.IDGenerator
	if idGen == nil {
		idGen = func() string {
			return "obr_" + uuid.NewString()
		}
	}

	contacts := req.Contacts
	if contacts == nil {
		contacts = []Contact{}
	}

	o := &Obra{
		ID:           idGen(),
		Street:       street,
		Number:       strings.TrimSpace(req.Number),
		Neighborhood: neighborhood,
		Address:      ComposeAddress(street, req.Number, neighborhood),
		Stage:        req.Stage,
		Status:       StatusEntrada,
		LojaID:       lojaID,
		Contacts:     contacts,
		Photos:       []string{},
		Details:      strings.TrimSpace(req.Details),
		Sales:        []Sale{},
	}

	if err := s.Store.Create(ctx, o); err != nil {
		return nil, apperrors.New(apperrors.KindInternal, "failed to create obra")
	}

	s.geocode(ctx, o)

	return o, nil
}

// geocode is best effort. A miss is reported, never retried, and never
// blocks the mutation that triggered it.
func (s *Service) geocode(ctx context.Context, o *Obra) {
	if s.Geocoder == nil {
		return
	}
	lat, lng, err := s.Geocoder.Lookup(ctx, o.Address)
	if err != nil {
		telemetry.LogWarn(ctx, "geocode failed",
			telemetry.LogString("obra.id", o.ID),
			telemetry.LogString("obra.address", o.Address),
			telemetry.LogString("error", err.Error()),
		)
		return
	}
	if err := s.Store.SetGeo(ctx, o.ID, lat, lng); err != nil {
		telemetry.LogWarn(ctx, "failed to persist geocode",
			telemetry.LogString("obra.id", o.ID),
			telemetry.LogString("error", err.Error()),
		)
		return
	}
	o.Lat = &lat
	o.Lng = &lng
}

func (s *Service) GetByID(ctx context.Context, id string) (*Obra, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "obras store not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "id is required")
	}

	if s.Cache != nil {
		if cached, ok, err := s.Cache.GetByID(ctx, id); err == nil && ok {
			return cached, nil
		}
	}

	o, err := s.Store.GetByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, apperrors.New(apperrors.KindNotFound, "obra not found")
		}
		return nil, apperrors.New(apperrors.KindInternal, "failed to load obra")
	}

	if s.Cache != nil && s.CacheTTL > 0 {
		_ = s.Cache.SetByID(ctx, o, s.CacheTTL)
	}

	return o, nil
}

func (s *Service) List(ctx context.Context, f ObraFilter) ([]*Obra, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "obras store not configured")
	}

	// Sellers only see their own store's pipeline. A seller without a
	// loja binding sees nothing.
	if role, _ := identity.Role(ctx); role == string(users.RoleVendedor) {
		lojaID, _ := identity.LojaID(ctx)
		if lojaID == "" {
			return []*Obra{}, nil
		}
		f.LojaID = lojaID
	}

	list, err := s.Store.List(ctx, f)
	if err != nil {
		return nil, apperrors.New(apperrors.KindInternal, "failed to list obras")
	}
	return list, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateObraRequest) (*Obra, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Street != nil {
		o.Street = strings.TrimSpace(*req.Street)
	}
	if req.Number != nil {
		o.Number = strings.TrimSpace(*req.Number)
	}
	if req.Neighborhood != nil {
		o.Neighborhood = strings.TrimSpace(*req.Neighborhood)
	}
	if o.Street == "" || o.Neighborhood == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "street and neighborhood are required")
	}
	addressChanged := req.Street != nil || req.Number != nil || req.Neighborhood != nil
	if addressChanged {
		o.Address = ComposeAddress(o.Street, o.Number, o.Neighborhood)
	}

	if req.Stage != nil {
		if !req.Stage.Valid() {
			return nil, apperrors.New(apperrors.KindInvalidInput, "invalid stage")
		}
		o.Stage = *req.Stage
	}
	if req.LojaID != nil {
		lojaID := strings.TrimSpace(*req.LojaID)
		if lojaID == "" {
			return nil, apperrors.New(apperrors.KindInvalidInput, "loja is required")
		}
		o.LojaID = lojaID
	}
	if req.Details != nil {
		o.Details = strings.TrimSpace(*req.Details)
	}
	if req.Contacts != nil {
		for _, c := range req.Contacts {
			if strings.TrimSpace(c.Name) == "" || !c.Type.Valid() {
				return nil, apperrors.New(apperrors.KindInvalidInput, "invalid contact")
			}
		}
		o.Contacts = req.Contacts
	}

	if err := s.Store.Update(ctx, o); err != nil {
		if IsNotFound(err) {
			return nil, apperrors.New(apperrors.KindNotFound, "obra not found")
		}
		return nil, apperrors.New(apperrors.KindInternal, "failed to update obra")
	}

	if s.Cache != nil {
		_ = s.Cache.DeleteByID(ctx, id)
	}

	if addressChanged {
		s.geocode(ctx, o)
	}

	return o, nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.Cache != nil {
		_ = s.Cache.DeleteByID(ctx, id)
	}
}
