package reports

import (
	"context"
	"time"

	"github.com/radarobras/radar_api/internal/apperrors"
	"github.com/radarobras/radar_api/internal/identity"
	"github.com/radarobras/radar_api/internal/lojas"
	"github.com/radarobras/radar_api/internal/obras"
	"github.com/radarobras/radar_api/internal/users"
)

type ObraLister interface {
	List(ctx context.Context, f obras.ObraFilter) ([]*obras.Obra, error)
}

type LojaLister interface {
	List(ctx context.Context) ([]*lojas.Loja, error)
}

type Service struct {
	Obras    ObraLister
	Lojas    LojaLister
	PDF      *PDFExporter
	Cache    SummaryCache
	CacheTTL time.Duration
	Now      func() time.Time
}

// scope applies the same visibility rule the obras listing enforces:
// a vendedor only ever reports on their own loja. The restriction has to
// live in the filter so the cache key carries it; a key blind to identity
// would serve one role's summary to another.
func scope(ctx context.Context, f Filter) (Filter, string) {
	if role, _ := identity.Role(ctx); role == string(users.RoleVendedor) {
		lojaID, _ := identity.LojaID(ctx)
		f.LojaID = lojaID
		return f, "vendedor:" + lojaID + ":"
	}
	return f, ""
}

func (s *Service) load(ctx context.Context, f Filter) ([]*obras.Obra, map[string]string, error) {
	if s.Obras == nil {
		return nil, nil, apperrors.New(apperrors.KindInternal, "reports not configured")
	}
	if _, ok := identity.UserID(ctx); !ok {
		return nil, nil, apperrors.New(apperrors.KindUnauthorized, "unauthorized")
	}

	list, err := s.Obras.List(ctx, obras.ObraFilter{Limit: -1})
	if err != nil {
		return nil, nil, err
	}
	list = f.Apply(list)

	names := map[string]string{}
	if s.Lojas != nil {
		stores, err := s.Lojas.List(ctx)
		if err != nil {
			return nil, nil, apperrors.New(apperrors.KindInternal, "failed to load lojas")
		}
		for _, l := range stores {
			names[l.ID] = l.Name
		}
	}
	return list, names, nil
}

func (s *Service) Summary(ctx context.Context, f Filter) (*Summary, error) {
	if _, ok := identity.UserID(ctx); !ok {
		return nil, apperrors.New(apperrors.KindUnauthorized, "unauthorized")
	}

	f, prefix := scope(ctx, f)
	key := prefix + f.cacheKey()
	if s.Cache != nil {
		if cached, ok, err := s.Cache.Get(ctx, key); err == nil && ok {
			return cached, nil
		}
	}

	list, names, err := s.load(ctx, f)
	if err != nil {
		return nil, err
	}

	sum := Summarize(list, names)
	if s.Cache != nil && s.CacheTTL > 0 {
		_ = s.Cache.Set(ctx, key, sum, s.CacheTTL)
	}
	return sum, nil
}

// ExportPDF renders the filtered pipeline into a printable report and
// returns the bytes plus the suggested download filename.
func (s *Service) ExportPDF(ctx context.Context, f Filter) ([]byte, string, error) {
	f, _ = scope(ctx, f)
	list, names, err := s.load(ctx, f)
	if err != nil {
		return nil, "", err
	}

	exporter := s.PDF
	if exporter == nil {
		exporter = NewPDFExporter()
	}

	data, err := exporter.Render(ctx, list, names)
	if err != nil {
		return nil, "", apperrors.New(apperrors.KindInternal, "failed to render report")
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	filename := "relatorio_obras_" + now().Format("2006-01-02") + ".pdf"
	return data, filename, nil
}
