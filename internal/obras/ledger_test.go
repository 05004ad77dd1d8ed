package obras

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/radarobras/radar_api/internal/apperrors"
	"github.com/radarobras/radar_api/internal/identity"
	"github.com/radarobras/radar_api/internal/users"
)

// storeStub keeps a single obra in memory and applies MutateSales the way
// the repository does: atomically, against the current state.
type storeStub struct {
	obra     *Obra
	mutErr   error
	photoErr error
	statusFn func(id string, status Status)
	assigned struct {
		sellerID string
		status   Status
	}
}

func (s *storeStub) Create(ctx context.Context, o *Obra) error {
	s.obra = o
	return nil
}

func (s *storeStub) GetByID(ctx context.Context, id string) (*Obra, error) {
	if s.obra == nil || s.obra.ID != id {
		return nil, ErrNotFound
	}
	cp := *s.obra
	return &cp, nil
}

func (s *storeStub) List(ctx context.Context, f ObraFilter) ([]*Obra, error) {
	if s.obra == nil {
		return nil, nil
	}
	return []*Obra{s.obra}, nil
}

func (s *storeStub) Update(ctx context.Context, o *Obra) error {
	s.obra = o
	return nil
}

func (s *storeStub) UpdateStatus(ctx context.Context, id string, status Status) error {
	if s.obra == nil || s.obra.ID != id {
		return ErrNotFound
	}
	s.obra.Status = status
	if s.statusFn != nil {
		s.statusFn(id, status)
	}
	return nil
}

func (s *storeStub) AssignSeller(ctx context.Context, id, sellerID string, status Status) error {
	if s.obra == nil || s.obra.ID != id {
		return ErrNotFound
	}
	s.obra.SellerID = sellerID
	s.obra.Status = status
	s.assigned.sellerID = sellerID
	s.assigned.status = status
	return nil
}

func (s *storeStub) SetGeo(ctx context.Context, id string, lat, lng float64) error { return nil }

func (s *storeStub) AddPhoto(ctx context.Context, id, url string) error {
	if s.photoErr != nil {
		return s.photoErr
	}
	if s.obra == nil || s.obra.ID != id {
		return ErrNotFound
	}
	for _, p := range s.obra.Photos {
		if p == url {
			return nil
		}
	}
	s.obra.Photos = append(s.obra.Photos, url)
	return nil
}

func (s *storeStub) RemovePhoto(ctx context.Context, id, url string) error {
	if s.obra == nil || s.obra.ID != id {
		return ErrNotFound
	}
	for i, p := range s.obra.Photos {
		if p == url {
			s.obra.Photos = append(s.obra.Photos[:i], s.obra.Photos[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *storeStub) MutateSales(ctx context.Context, id string, fn func(o *Obra) error) (*Obra, error) {
	if s.mutErr != nil {
		return nil, s.mutErr
	}
	if s.obra == nil || s.obra.ID != id {
		return nil, ErrNotFound
	}
	if err := fn(s.obra); err != nil {
		return nil, err
	}
	cp := *s.obra
	return &cp, nil
}

type sellerStub struct {
	user *users.User
}

func (s *sellerStub) GetByID(ctx context.Context, id string) (*users.User, error) {
	if s.user == nil {
		return nil, users.ErrNotFound
	}
	return s.user, nil
}

func sellerCtx() context.Context {
	return identity.WithUser(context.Background(), "usr_1", "vendedor", "loja_1")
}

func newLedgerObra(status Status, sales ...Sale) *storeStub {
	if sales == nil {
		sales = []Sale{}
	}
	return &storeStub{obra: &Obra{ID: "obr_1", Status: status, Sales: sales}}
}

func TestAddSaleFirstSaleForcesGanha(t *testing.T) {
	store := newLedgerObra(StatusEmNegociacao)
	svc := &Service{Store: store}

	o, err := svc.AddSale(sellerCtx(), "obr_1", SaleInput{Value: 1500, Date: time.Now()})
	if err != nil {
		t.Fatalf("add sale error: %v", err)
	}
	if o.Status != StatusGanha {
		t.Fatalf("expected ganha, got %s", o.Status)
	}
	if len(o.Sales) != 1 {
		t.Fatalf("expected 1 sale, got %d", len(o.Sales))
	}
	if o.Sales[0].ID == "" {
		t.Fatal("sale id not generated")
	}
}

func TestAddSaleSecondSaleKeepsStatus(t *testing.T) {
	store := newLedgerObra(StatusPerdida, Sale{ID: "sal_1", Value: 100, Date: time.Now()})
	svc := &Service{Store: store}

	o, err := svc.AddSale(sellerCtx(), "obr_1", SaleInput{Value: 200, Date: time.Now()})
	if err != nil {
		t.Fatalf("add sale error: %v", err)
	}
	if o.Status != StatusPerdida {
		t.Fatalf("status changed on non-empty ledger: %s", o.Status)
	}
	if len(o.Sales) != 2 {
		t.Fatalf("expected 2 sales, got %d", len(o.Sales))
	}
}

func TestAddSaleRejectsNonPositiveValue(t *testing.T) {
	store := newLedgerObra(StatusEntrada)
	svc := &Service{Store: store}

	_, err := svc.AddSale(sellerCtx(), "obr_1", SaleInput{Value: -5, Date: time.Now()})
	assertKind(t, err, apperrors.KindInvalidInput)
	if len(store.obra.Sales) != 0 {
		t.Fatal("ledger changed by rejected sale")
	}
}

func TestAddSaleRejectsZeroDate(t *testing.T) {
	store := newLedgerObra(StatusEntrada)
	svc := &Service{Store: store}

	_, err := svc.AddSale(sellerCtx(), "obr_1", SaleInput{Value: 10})
	assertKind(t, err, apperrors.KindInvalidInput)
}

func TestEditSaleRetainsID(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	store := newLedgerObra(StatusGanha,
		Sale{ID: "sal_1", OrderNumber: "A1", Value: 100, Date: date},
		Sale{ID: "sal_2", OrderNumber: "A2", Value: 200, Date: date},
	)
	svc := &Service{Store: store}

	o, err := svc.EditSale(sellerCtx(), "obr_1", "sal_1", SaleInput{OrderNumber: "B9", Value: 350, Date: date})
	if err != nil {
		t.Fatalf("edit sale error: %v", err)
	}

	var matched int
	for _, s := range o.Sales {
		if s.ID == "sal_1" {
			matched++
			if s.Value != 350 || s.OrderNumber != "B9" {
				t.Fatalf("edit not applied: %+v", s)
			}
		}
		if s.Value == 100 {
			t.Fatal("old value still present after edit")
		}
	}
	if matched != 1 {
		t.Fatalf("expected exactly one record with the original id, got %d", matched)
	}
	if len(o.Sales) != 2 {
		t.Fatalf("ledger size changed by edit: %d", len(o.Sales))
	}
}

func TestEditSaleUnknownID(t *testing.T) {
	store := newLedgerObra(StatusGanha, Sale{ID: "sal_1", Value: 100, Date: time.Now()})
	svc := &Service{Store: store}

	_, err := svc.EditSale(sellerCtx(), "obr_1", "sal_x", SaleInput{Value: 1, Date: time.Now()})
	assertKind(t, err, apperrors.KindNotFound)
}

func TestDeleteLastSaleKeepsGanha(t *testing.T) {
	store := newLedgerObra(StatusGanha, Sale{ID: "sal_1", Value: 100, Date: time.Now()})
	svc := &Service{Store: store}

	o, err := svc.DeleteSale(sellerCtx(), "obr_1", "sal_1")
	if err != nil {
		t.Fatalf("delete sale error: %v", err)
	}
	if len(o.Sales) != 0 {
		t.Fatalf("expected empty ledger, got %d", len(o.Sales))
	}
	// Emptying the ledger deliberately does not revert the status.
	if o.Status != StatusGanha {
		t.Fatalf("status reverted on empty ledger: %s", o.Status)
	}
}

func TestLedgerConflictSurfacesAsConflict(t *testing.T) {
	store := newLedgerObra(StatusGanha)
	store.mutErr = ErrVersionConflict
	svc := &Service{Store: store}

	_, err := svc.AddSale(sellerCtx(), "obr_1", SaleInput{Value: 10, Date: time.Now()})
	assertKind(t, err, apperrors.KindConflict)
}

func TestLedgerTotal(t *testing.T) {
	o := &Obra{Sales: []Sale{{Value: 1000}, {Value: 500}}}
	if got := o.LedgerTotal(); got != 1500 {
		t.Fatalf("expected 1500, got %v", got)
	}
	empty := &Obra{}
	if got := empty.LedgerTotal(); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
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
