package reports

import (
	"testing"
	"time"

	"github.com/radarobras/radar_api/internal/obras"
)

func obra(loja string, status obras.Status, stage obras.Stage, sales ...obras.Sale) *obras.Obra {
	return &obras.Obra{
		LojaID:    loja,
		Status:    status,
		Stage:     stage,
		Sales:     sales,
		CreatedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestRevenueSummary(t *testing.T) {
	list := []*obras.Obra{
		obra("loja_1", obras.StatusGanha, obras.StageFundacao,
			obras.Sale{ID: "sal_1", Value: 1000},
			obras.Sale{ID: "sal_2", Value: 500},
		),
		obra("loja_2", obras.StatusGanha, obras.StageTelhado,
			obras.Sale{ID: "sal_3", Value: 200},
		),
		obra("loja_1", obras.StatusEntrada, obras.StageFundacao),
	}

	rev := Revenue(list)
	if rev.Total != 1700 {
		t.Fatalf("expected total 1700, got %v", rev.Total)
	}
	if rev.Count != 2 {
		t.Fatalf("expected 2 qualifying obras, got %d", rev.Count)
	}
	if rev.Average != 850 {
		t.Fatalf("expected average 850, got %v", rev.Average)
	}
}

func TestRevenueSummarySkipsUnwonObras(t *testing.T) {
	list := []*obras.Obra{
		obra("loja_1", obras.StatusGanha, obras.StageFundacao, obras.Sale{ID: "sal_1", Value: 300}),
		obra("loja_1", obras.StatusPerdida, obras.StageFundacao, obras.Sale{ID: "sal_2", Value: 999}),
		obra("loja_1", obras.StatusGanha, obras.StageFundacao),
	}

	rev := Revenue(list)
	if rev.Total != 300 {
		t.Fatalf("expected total 300, got %v", rev.Total)
	}
	if rev.Count != 1 {
		t.Fatalf("expected 1 qualifying obra, got %d", rev.Count)
	}
}

func TestRevenueSummaryEmpty(t *testing.T) {
	rev := Revenue(nil)
	if rev.Total != 0 || rev.Count != 0 || rev.Average != 0 {
		t.Fatalf("expected zero summary, got %+v", rev)
	}
}

func TestRevenueByLojaOmitsZeroRevenue(t *testing.T) {
	names := map[string]string{"loja_1": "Matriz", "loja_2": "Filial"}
	list := []*obras.Obra{
		obra("loja_1", obras.StatusGanha, obras.StageFundacao, obras.Sale{Value: 1500}),
		obra("loja_2", obras.StatusEntrada, obras.StageFundacao),
	}

	byLoja := RevenueByLoja(list, names)
	if len(byLoja) != 1 {
		t.Fatalf("expected 1 loja with revenue, got %d", len(byLoja))
	}
	if byLoja[0].Loja != "Matriz" || byLoja[0].Revenue != 1500 {
		t.Fatalf("unexpected entry: %+v", byLoja[0])
	}
}

func TestCountByStatusIncludesZeroBuckets(t *testing.T) {
	list := []*obras.Obra{
		obra("loja_1", obras.StatusEntrada, obras.StageFundacao),
		obra("loja_1", obras.StatusEntrada, obras.StageFundacao),
		obra("loja_1", obras.StatusGanha, obras.StageTelhado),
	}

	counts := CountByStatus(list)
	if len(counts) != len(obras.AllStatuses) {
		t.Fatalf("expected %d buckets, got %d", len(obras.AllStatuses), len(counts))
	}
	got := map[obras.Status]int{}
	for _, c := range counts {
		got[c.Status] = c.Count
	}
	if got[obras.StatusEntrada] != 2 || got[obras.StatusGanha] != 1 || got[obras.StatusArquivada] != 0 {
		t.Fatalf("unexpected counts: %v", got)
	}
}

func TestCountByLojaUnknownBucket(t *testing.T) {
	names := map[string]string{"loja_1": "Matriz"}
	list := []*obras.Obra{
		obra("loja_1", obras.StatusEntrada, obras.StageFundacao),
		obra("loja_gone", obras.StatusEntrada, obras.StageFundacao),
	}

	counts := CountByLoja(list, names)
	got := map[string]int{}
	for _, c := range counts {
		got[c.Loja] = c.Count
	}
	if got["Matriz"] != 1 {
		t.Fatalf("expected Matriz=1, got %v", got)
	}
	if got[UnknownLoja] != 1 {
		t.Fatalf("expected %s=1, got %v", UnknownLoja, got)
	}
}

func TestFilterDateRangeInclusive(t *testing.T) {
	inRange := obra("loja_1", obras.StatusEntrada, obras.StageFundacao)
	inRange.CreatedAt = time.Date(2025, 6, 30, 23, 30, 0, 0, time.UTC)
	before := obra("loja_1", obras.StatusEntrada, obras.StageFundacao)
	before.CreatedAt = time.Date(2025, 5, 31, 23, 59, 59, 0, time.UTC)

	f := Filter{
		From: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	out := f.Apply([]*obras.Obra{inRange, before})
	if len(out) != 1 {
		t.Fatalf("expected 1 obra, got %d", len(out))
	}
	// 23:30 on the To day still matches: the upper bound is end of day.
	if out[0] != inRange {
		t.Fatal("wrong obra selected")
	}
}

func TestFilterComposesWithAnd(t *testing.T) {
	match := obra("loja_1", obras.StatusGanha, obras.StageTelhado)
	match.SellerID = "seller-9"
	wrongLoja := obra("loja_2", obras.StatusGanha, obras.StageTelhado)
	wrongLoja.SellerID = "seller-9"
	wrongStatus := obra("loja_1", obras.StatusEntrada, obras.StageTelhado)
	wrongStatus.SellerID = "seller-9"

	f := Filter{LojaID: "loja_1", Status: obras.StatusGanha, SellerID: "seller-9"}
	out := f.Apply([]*obras.Obra{match, wrongLoja, wrongStatus})
	if len(out) != 1 || out[0] != match {
		t.Fatalf("expected only the full match, got %d", len(out))
	}
}

func TestParseFilterRejectsBadStatus(t *testing.T) {
	if _, err := ParseFilter("", "fechada", "", "", "", ""); err == nil {
		t.Fatal("expected error for invalid status")
	}
	f, err := ParseFilter("loja_1", "ganha", "telhado", "seller-9", "2025-06-01", "2025-06-30")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if f.Status != obras.StatusGanha || f.Stage != obras.StageTelhado {
		t.Fatalf("unexpected filter: %+v", f)
	}
}
