package obras

import (
	"context"
	"testing"

	"github.com/radarobras/radar_api/internal/apperrors"
	"github.com/radarobras/radar_api/internal/identity"
	"github.com/radarobras/radar_api/internal/users"
)

func gerenteCtx() context.Context {
	return identity.WithUser(context.Background(), "usr_g", "gerente", "loja_1")
}

func TestAssignSellerFromTriagem(t *testing.T) {
	store := &storeStub{obra: &Obra{ID: "obr_1", Status: StatusTriagem}}
	sellers := &sellerStub{user: &users.User{ID: "seller-9", Role: "vendedor", LojaID: "loja_1"}}
	svc := &Service{Store: store, Sellers: sellers}

	o, err := svc.AssignSeller(gerenteCtx(), "obr_1", "seller-9")
	if err != nil {
		t.Fatalf("assign error: %v", err)
	}
	if o.Status != StatusAtribuida {
		t.Fatalf("expected atribuida, got %s", o.Status)
	}
	if o.SellerID != "seller-9" {
		t.Fatalf("expected seller-9, got %q", o.SellerID)
	}
}

func TestAssignSellerRequiresSeller(t *testing.T) {
	store := &storeStub{obra: &Obra{ID: "obr_1", Status: StatusTriagem}}
	svc := &Service{Store: store, Sellers: &sellerStub{}}

	_, err := svc.AssignSeller(gerenteCtx(), "obr_1", "")
	assertKind(t, err, apperrors.KindInvalidInput)
}

func TestAssignSellerUnknownUser(t *testing.T) {
	store := &storeStub{obra: &Obra{ID: "obr_1", Status: StatusTriagem}}
	svc := &Service{Store: store, Sellers: &sellerStub{}}

	_, err := svc.AssignSeller(gerenteCtx(), "obr_1", "ghost")
	assertKind(t, err, apperrors.KindInvalidInput)
}

func TestAssignSellerRejectsAdminRole(t *testing.T) {
	store := &storeStub{obra: &Obra{ID: "obr_1", Status: StatusTriagem}}
	sellers := &sellerStub{user: &users.User{ID: "usr_a", Role: "admin"}}
	svc := &Service{Store: store, Sellers: sellers}

	_, err := svc.AssignSeller(gerenteCtx(), "obr_1", "usr_a")
	assertKind(t, err, apperrors.KindInvalidInput)
}

func TestMoveToStatusLastWriteWins(t *testing.T) {
	store := &storeStub{obra: &Obra{ID: "obr_1", Status: StatusGanha}}
	svc := &Service{Store: store}

	// Any valid transition is accepted, including away from ganha.
	o, err := svc.MoveToStatus(gerenteCtx(), "obr_1", StatusEmNegociacao)
	if err != nil {
		t.Fatalf("move error: %v", err)
	}
	if o.Status != StatusEmNegociacao {
		t.Fatalf("expected em_negociacao, got %s", o.Status)
	}
}

func TestMoveToStatusInvalid(t *testing.T) {
	store := &storeStub{obra: &Obra{ID: "obr_1", Status: StatusEntrada}}
	svc := &Service{Store: store}

	_, err := svc.MoveToStatus(gerenteCtx(), "obr_1", Status("fechada"))
	assertKind(t, err, apperrors.KindInvalidInput)
}

func TestArchiveForbiddenForVendedor(t *testing.T) {
	store := &storeStub{obra: &Obra{ID: "obr_1", Status: StatusPerdida}}
	svc := &Service{Store: store}

	_, err := svc.Archive(sellerCtx(), "obr_1")
	assertKind(t, err, apperrors.KindForbidden)
	if store.obra.Status != StatusPerdida {
		t.Fatalf("status changed by forbidden archive: %s", store.obra.Status)
	}
}

func TestArchiveByGerente(t *testing.T) {
	store := &storeStub{obra: &Obra{ID: "obr_1", Status: StatusPerdida}}
	svc := &Service{Store: store}

	o, err := svc.Archive(gerenteCtx(), "obr_1")
	if err != nil {
		t.Fatalf("archive error: %v", err)
	}
	if o.Status != StatusArquivada {
		t.Fatalf("expected arquivada, got %s", o.Status)
	}
}

func TestMoveToStatusRequiresIdentity(t *testing.T) {
	store := &storeStub{obra: &Obra{ID: "obr_1", Status: StatusEntrada}}
	svc := &Service{Store: store}

	_, err := svc.MoveToStatus(context.Background(), "obr_1", StatusTriagem)
	assertKind(t, err, apperrors.KindUnauthorized)
}
