package obras

import (
	"context"
	"testing"

	"github.com/radarobras/radar_api/internal/apperrors"
	"github.com/radarobras/radar_api/internal/identity"
)

type geocoderStub struct {
	lat, lng float64
	err      error
	calls    int
}

func (g *geocoderStub) Lookup(ctx context.Context, address string) (float64, float64, error) {
	g.calls++
	return g.lat, g.lng, g.err
}

func TestCreateObraDefaults(t *testing.T) {
	store := &storeStub{}
	geo := &geocoderStub{lat: -29.68, lng: -53.80}
	svc := &Service{Store: store, Geocoder: geo}

	o, err := svc.Create(sellerCtx(), CreateObraRequest{
		Street:       "Rua das Flores",
		Number:       "120",
		Neighborhood: "Centro",
		LojaID:       "loja_1",
		Stage:        StageFundacao,
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if o.Status != StatusEntrada {
		t.Fatalf("expected entrada, got %s", o.Status)
	}
	if o.Address != "Rua das Flores, 120 - Centro" {
		t.Fatalf("unexpected address: %q", o.Address)
	}
	if o.ID == "" {
		t.Fatal("id not generated")
	}
	if o.Sales == nil || len(o.Sales) != 0 {
		t.Fatalf("expected empty ledger, got %v", o.Sales)
	}
	if geo.calls != 1 {
		t.Fatalf("expected one geocode lookup, got %d", geo.calls)
	}
	if o.Lat == nil || *o.Lat != -29.68 {
		t.Fatal("geocode result not applied")
	}
}

func TestCreateObraGeocodeFailureIsNotFatal(t *testing.T) {
	store := &storeStub{}
	geo := &geocoderStub{err: context.DeadlineExceeded}
	svc := &Service{Store: store, Geocoder: geo}

	o, err := svc.Create(sellerCtx(), CreateObraRequest{
		Street:       "Rua A",
		Neighborhood: "Camobi",
		LojaID:       "loja_1",
		Stage:        StageAlvenaria,
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if o.Lat != nil || o.Lng != nil {
		t.Fatal("coordinates set despite geocode failure")
	}
}

func TestCreateObraInvalidStage(t *testing.T) {
	svc := &Service{Store: &storeStub{}}

	_, err := svc.Create(sellerCtx(), CreateObraRequest{
		Street:       "Rua A",
		Neighborhood: "Centro",
		LojaID:       "loja_1",
		Stage:        Stage("demolicao"),
	})
	assertKind(t, err, apperrors.KindInvalidInput)
}

func TestComposeAddressWithoutNumber(t *testing.T) {
	if got := ComposeAddress("Rua A", "", "Centro"); got != "Rua A - Centro" {
		t.Fatalf("unexpected address: %q", got)
	}
}

func TestListForcesSellerLoja(t *testing.T) {
	store := &storeStub{obra: &Obra{ID: "obr_1", LojaID: "loja_1", Status: StatusEntrada}}
	svc := &Service{Store: store}

	var captured ObraFilter
	wrapped := &filterCaptureStore{storeStub: store, captured: &captured}
	svc.Store = wrapped

	ctx := identity.WithUser(context.Background(), "usr_1", "vendedor", "loja_7")
	if _, err := svc.List(ctx, ObraFilter{LojaID: "loja_2"}); err != nil {
		t.Fatalf("list error: %v", err)
	}
	if captured.LojaID != "loja_7" {
		t.Fatalf("seller filter not forced to own loja: %q", captured.LojaID)
	}
}

func TestListFailsClosedForSellerWithoutLoja(t *testing.T) {
	store := &storeStub{obra: &Obra{ID: "obr_1", LojaID: "loja_1", Status: StatusEntrada}}
	svc := &Service{Store: store}

	var captured ObraFilter
	captured.LojaID = "untouched"
	wrapped := &filterCaptureStore{storeStub: store, captured: &captured}
	svc.Store = wrapped

	ctx := identity.WithUser(context.Background(), "usr_1", "vendedor", "")
	list, err := svc.List(ctx, ObraFilter{})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("seller without loja saw %d obras", len(list))
	}
	if captured.LojaID != "untouched" {
		t.Fatal("store consulted for a seller without a loja")
	}
}

type filterCaptureStore struct {
	*storeStub
	captured *ObraFilter
}

func (s *filterCaptureStore) List(ctx context.Context, f ObraFilter) ([]*Obra, error) {
	*s.captured = f
	return s.storeStub.List(ctx, f)
}
