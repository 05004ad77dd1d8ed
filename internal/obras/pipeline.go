package obras

import (
	"context"
	"strings"

	"github.com/radarobras/radar_api/internal/apperrors"
	"github.com/radarobras/radar_api/internal/identity"
	"github.com/radarobras/radar_api/internal/telemetry"
)

// MoveToStatus overwrites the pipeline position. Any status is reachable
// from any status; concurrent moves are last-write-wins at the store.
func (s *Service) MoveToStatus(ctx context.Context, id string, status Status) (*Obra, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "obras store not configured")
	}
	if requesterID, ok := identity.UserID(ctx); !ok || strings.TrimSpace(requesterID) == "" {
		return nil, apperrors.New(apperrors.KindUnauthorized, "unauthorized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "id is required")
	}
	if !status.Valid() {
		return nil, apperrors.New(apperrors.KindInvalidInput, "invalid status")
	}
	if status == StatusArquivada && !identity.CanManage(ctx) {
		return nil, apperrors.New(apperrors.KindForbidden, "forbidden")
	}

	if err := s.Store.UpdateStatus(ctx, id, status); err != nil {
		if IsNotFound(err) {
			return nil, apperrors.New(apperrors.KindNotFound, "obra not found")
		}
		return nil, apperrors.New(apperrors.KindInternal, "failed to move obra")
	}
	s.invalidate(ctx, id)

	telemetry.LogInfo(ctx, "obra moved",
		telemetry.LogString("event", "obra.move"),
		telemetry.LogString("obra.id", id),
		telemetry.LogString("obra.status", string(status)),
	)

	return s.GetByID(ctx, id)
}

// AssignSeller binds a seller and forces the obra to atribuida regardless of
// its prior position.
func (s *Service) AssignSeller(ctx context.Context, id, sellerID string) (*Obra, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "obras store not configured")
	}
	if requesterID, ok := identity.UserID(ctx); !ok || strings.TrimSpace(requesterID) == "" {
		return nil, apperrors.New(apperrors.KindUnauthorized, "unauthorized")
	}
	id = strings.TrimSpace(id)
	sellerID = strings.TrimSpace(sellerID)
	if id == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "id is required")
	}
	if sellerID == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "seller is required")
	}

	if s.Sellers != nil {
		seller, err := s.Sellers.GetByID(ctx, sellerID)
		if err != nil {
			return nil, apperrors.New(apperrors.KindInvalidInput, "seller not found")
		}
		if !seller.Role.CanSell() {
			return nil, apperrors.New(apperrors.KindInvalidInput, "user cannot be assigned as seller")
		}
	}

	if err := s.Store.AssignSeller(ctx, id, sellerID, StatusAtribuida); err != nil {
		if IsNotFound(err) {
			return nil, apperrors.New(apperrors.KindNotFound, "obra not found")
		}
		return nil, apperrors.New(apperrors.KindInternal, "failed to assign seller")
	}
	s.invalidate(ctx, id)

	telemetry.LogInfo(ctx, "seller assigned",
		telemetry.LogString("event", "obra.assign"),
		telemetry.LogString("obra.id", id),
		telemetry.LogString("seller.id", sellerID),
	)

	return s.GetByID(ctx, id)
}

// Archive is the one gated transition: admin or gerente only, enforced here
// from the request identity, never by hiding a button.
func (s *Service) Archive(ctx context.Context, id string) (*Obra, error) {
	if !identity.CanManage(ctx) {
		return nil, apperrors.New(apperrors.KindForbidden, "forbidden")
	}
	return s.MoveToStatus(ctx, id, StatusArquivada)
}
