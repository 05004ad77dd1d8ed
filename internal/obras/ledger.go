package obras

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/radarobras/radar_api/internal"
	"github.com/radarobras/radar_api/internal/apperrors"
	"github.com/radarobras/radar_api/internal/identity"
	"github.com/radarobras/radar_api/internal/telemetry"
)

// NewSaleID builds a monotonic-time-based id. The hex suffix keeps collision
// probability negligible at the expected write rate of a few sales a second.
func NewSaleID() string {
	return "sal_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + internal.RandomHex(3)
}

func validateSaleInput(in SaleInput) error {
	if in.Value <= 0 || math.IsInf(in.Value, 0) || math.IsNaN(in.Value) {
		return apperrors.New(apperrors.KindInvalidInput, "sale value must be a positive number")
	}
	if in.Date.IsZero() {
		return apperrors.New(apperrors.KindInvalidInput, "sale date is required")
	}
	return nil
}

func (s *Service) requireLedgerAccess(ctx context.Context, obraID string) (string, error) {
	if s.Store == nil {
		return "", apperrors.New(apperrors.KindInternal, "obras store not configured")
	}
	requesterID, ok := identity.UserID(ctx)
	if !ok || strings.TrimSpace(requesterID) == "" {
		return "", apperrors.New(apperrors.KindUnauthorized, "unauthorized")
	}
	obraID = strings.TrimSpace(obraID)
	if obraID == "" {
		return "", apperrors.New(apperrors.KindInvalidInput, "id is required")
	}
	return obraID, nil
}

// AddSale appends a ledger entry. The first sale forces the obra to ganha;
// later sales never touch the status. Validation happens before any store
// write, so a rejected sale leaves the ledger untouched.
func (s *Service) AddSale(ctx context.Context, obraID string, in SaleInput) (*Obra, error) {
	obraID, err := s.requireLedgerAccess(ctx, obraID)
	if err != nil {
		return nil, err
	}
	if err := validateSaleInput(in); err != nil {
		return nil, err
	}

	sale := Sale{
		ID:          NewSaleID(),
		OrderNumber: strings.TrimSpace(in.OrderNumber),
		Value:       in.Value,
		Date:        in.Date,
	}

	o, err := s.Store.MutateSales(ctx, obraID, func(o *Obra) error {
		if len(o.Sales) == 0 {
			o.Status = StatusGanha
		}
		o.Sales = append(o.Sales, sale)
		return nil
	})
	if err != nil {
		return nil, s.ledgerError(err, "failed to register sale")
	}
	s.invalidate(ctx, obraID)

	telemetry.LogInfo(ctx, "sale registered",
		telemetry.LogString("event", "obra.sale.add"),
		telemetry.LogString("obra.id", obraID),
		telemetry.LogString("sale.id", sale.ID),
	)

	return o, nil
}

// EditSale replaces a ledger entry's fields in place, retaining its id. The
// entry is addressed by id inside a single transaction, so a failed edit
// can't leave the ledger missing the record.
func (s *Service) EditSale(ctx context.Context, obraID, saleID string, in SaleInput) (*Obra, error) {
	obraID, err := s.requireLedgerAccess(ctx, obraID)
	if err != nil {
		return nil, err
	}
	saleID = strings.TrimSpace(saleID)
	if saleID == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "sale id is required")
	}
	if err := validateSaleInput(in); err != nil {
		return nil, err
	}

	o, err := s.Store.MutateSales(ctx, obraID, func(o *Obra) error {
		for i := range o.Sales {
			if o.Sales[i].ID != saleID {
				continue
			}
			o.Sales[i].OrderNumber = strings.TrimSpace(in.OrderNumber)
			o.Sales[i].Value = in.Value
			o.Sales[i].Date = in.Date
			return nil
		}
		return ErrSaleNotFound
	})
	if err != nil {
		return nil, s.ledgerError(err, "failed to edit sale")
	}
	s.invalidate(ctx, obraID)

	return o, nil
}

// DeleteSale removes a ledger entry by id. Emptying the ledger does not
// revert the obra away from ganha.
func (s *Service) DeleteSale(ctx context.Context, obraID, saleID string) (*Obra, error) {
	obraID, err := s.requireLedgerAccess(ctx, obraID)
	if err != nil {
		return nil, err
	}
	saleID = strings.TrimSpace(saleID)
	if saleID == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "sale id is required")
	}

	o, err := s.Store.MutateSales(ctx, obraID, func(o *Obra) error {
		for i := range o.Sales {
			if o.Sales[i].ID != saleID {
				continue
			}
			o.Sales = append(o.Sales[:i], o.Sales[i+1:]...)
			return nil
		}
		return ErrSaleNotFound
	})
	if err != nil {
		return nil, s.ledgerError(err, "failed to delete sale")
	}
	s.invalidate(ctx, obraID)

	return o, nil
}

func (s *Service) ledgerError(err error, fallback string) error {
	switch {
	case IsNotFound(err):
		return apperrors.New(apperrors.KindNotFound, "obra not found")
	case err == ErrSaleNotFound:
		return apperrors.New(apperrors.KindNotFound, "sale not found")
	case err == ErrVersionConflict:
		return apperrors.New(apperrors.KindConflict, "obra modified concurrently, try again")
	default:
		if appErr, ok := err.(*apperrors.Error); ok {
			return appErr
		}
		return apperrors.New(apperrors.KindInternal, fallback)
	}
}
