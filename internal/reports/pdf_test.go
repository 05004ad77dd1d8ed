package reports

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/radarobras/radar_api/internal/identity"
	"github.com/radarobras/radar_api/internal/lojas"
	"github.com/radarobras/radar_api/internal/obras"
)

type obraListerStub struct {
	list []*obras.Obra
}

func (s *obraListerStub) List(ctx context.Context, f obras.ObraFilter) ([]*obras.Obra, error) {
	return s.list, nil
}

type lojaListerStub struct {
	list []*lojas.Loja
}

func (s *lojaListerStub) List(ctx context.Context) ([]*lojas.Loja, error) {
	return s.list, nil
}

func TestRenderProducesPDF(t *testing.T) {
	o := obra("loja_1", obras.StatusGanha, obras.StageTelhado,
		obras.Sale{ID: "sal_1", OrderNumber: "P-10", Value: 1200, Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)},
	)
	o.Address = "Rua das Flores, 120 - Centro"
	o.Contacts = []obras.Contact{{Name: "João", Type: obras.ContactDono, Phone: "55 9999-0000"}}

	data, err := NewPDFExporter().Render(context.Background(), []*obras.Obra{o}, map[string]string{"loja_1": "Matriz"})
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output is not a pdf")
	}
}

func TestExportPDFFilename(t *testing.T) {
	svc := &Service{
		Obras: &obraListerStub{},
		Lojas: &lojaListerStub{},
		Now: func() time.Time {
			return time.Date(2025, 7, 3, 10, 0, 0, 0, time.UTC)
		},
	}

	ctx := identity.WithUser(context.Background(), "usr_1", "gerente", "loja_1")
	data, filename, err := svc.ExportPDF(ctx, Filter{})
	if err != nil {
		t.Fatalf("export error: %v", err)
	}
	if filename != "relatorio_obras_2025-07-03.pdf" {
		t.Fatalf("unexpected filename: %q", filename)
	}
	if len(data) == 0 {
		t.Fatal("empty pdf")
	}
}

func TestSummaryRequiresIdentity(t *testing.T) {
	svc := &Service{Obras: &obraListerStub{}}
	if _, err := svc.Summary(context.Background(), Filter{}); err == nil {
		t.Fatal("expected unauthorized error")
	}
}

func TestSummaryResolvesLojaNames(t *testing.T) {
	svc := &Service{
		Obras: &obraListerStub{list: []*obras.Obra{
			obra("loja_1", obras.StatusGanha, obras.StageTelhado, obras.Sale{Value: 300}),
		}},
		Lojas: &lojaListerStub{list: []*lojas.Loja{{ID: "loja_1", Name: "Matriz"}}},
	}

	ctx := identity.WithUser(context.Background(), "usr_1", "gerente", "loja_1")
	sum, err := svc.Summary(ctx, Filter{})
	if err != nil {
		t.Fatalf("summary error: %v", err)
	}
	if sum.TotalObras != 1 {
		t.Fatalf("expected 1 obra, got %d", sum.TotalObras)
	}
	if len(sum.RevenueByLoja) != 1 || sum.RevenueByLoja[0].Loja != "Matriz" {
		t.Fatalf("loja name not resolved: %+v", sum.RevenueByLoja)
	}
}
