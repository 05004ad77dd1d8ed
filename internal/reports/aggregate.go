package reports

import (
	"sort"

	"github.com/radarobras/radar_api/internal/obras"
)

// UnknownLoja labels obras whose loja id no longer resolves to a store.
const UnknownLoja = "Desconhecida"

type StatusCount struct {
	Status obras.Status `json:"status"`
	Count  int          `json:"count"`
}

type StageCount struct {
	Stage obras.Stage `json:"stage"`
	Count int         `json:"count"`
}

type LojaCount struct {
	Loja  string `json:"loja"`
	Count int    `json:"count"`
}

type LojaRevenue struct {
	Loja    string  `json:"loja"`
	Revenue float64 `json:"revenue"`
}

type RevenueSummary struct {
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

type Summary struct {
	TotalObras    int            `json:"totalObras"`
	ByStatus      []StatusCount  `json:"byStatus"`
	ByStage       []StageCount   `json:"byStage"`
	ByLoja        []LojaCount    `json:"byLoja"`
	Revenue       RevenueSummary `json:"revenue"`
	RevenueByLoja []LojaRevenue  `json:"revenueByLoja"`
}

// CountByStatus reports every pipeline status, zero counts included, in
// pipeline order.
func CountByStatus(list []*obras.Obra) []StatusCount {
	counts := make(map[obras.Status]int, len(obras.AllStatuses))
	for _, o := range list {
		counts[o.Status]++
	}
	out := make([]StatusCount, 0, len(obras.AllStatuses))
	for _, s := range obras.AllStatuses {
		out = append(out, StatusCount{Status: s, Count: counts[s]})
	}
	return out
}

func CountByStage(list []*obras.Obra) []StageCount {
	counts := make(map[obras.Stage]int, len(obras.AllStages))
	for _, o := range list {
		counts[o.Stage]++
	}
	out := make([]StageCount, 0, len(obras.AllStages))
	for _, s := range obras.AllStages {
		out = append(out, StageCount{Stage: s, Count: counts[s]})
	}
	return out
}

// CountByLoja groups by resolved store name. Ids missing from the name map
// fall into the UnknownLoja bucket instead of vanishing.
func CountByLoja(list []*obras.Obra, lojaNames map[string]string) []LojaCount {
	counts := make(map[string]int)
	for _, o := range list {
		counts[lojaName(o.LojaID, lojaNames)]++
	}
	out := make([]LojaCount, 0, len(counts))
	for loja, n := range counts {
		out = append(out, LojaCount{Loja: loja, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Loja < out[j].Loja
	})
	return out
}

// qualifies reports whether an obra counts toward revenue: won, with at
// least one ledger entry.
func qualifies(o *obras.Obra) bool {
	return o.Status == obras.StatusGanha && len(o.Sales) > 0
}

// Revenue totals qualifying obras. Average is the ticket per qualifying
// obra, zero when none qualify.
func Revenue(list []*obras.Obra) RevenueSummary {
	var sum RevenueSummary
	for _, o := range list {
		if !qualifies(o) {
			continue
		}
		sum.Total += o.LedgerTotal()
		sum.Count++
	}
	if sum.Count > 0 {
		sum.Average = sum.Total / float64(sum.Count)
	}
	return sum
}

// RevenueByLoja omits stores with zero revenue.
func RevenueByLoja(list []*obras.Obra, lojaNames map[string]string) []LojaRevenue {
	totals := make(map[string]float64)
	for _, o := range list {
		if !qualifies(o) {
			continue
		}
		if total := o.LedgerTotal(); total > 0 {
			totals[lojaName(o.LojaID, lojaNames)] += total
		}
	}
	out := make([]LojaRevenue, 0, len(totals))
	for loja, total := range totals {
		out = append(out, LojaRevenue{Loja: loja, Revenue: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Loja < out[j].Loja
	})
	return out
}

func Summarize(list []*obras.Obra, lojaNames map[string]string) *Summary {
	return &Summary{
		TotalObras:    len(list),
		ByStatus:      CountByStatus(list),
		ByStage:       CountByStage(list),
		ByLoja:        CountByLoja(list, lojaNames),
		Revenue:       Revenue(list),
		RevenueByLoja: RevenueByLoja(list, lojaNames),
	}
}

func lojaName(id string, names map[string]string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return UnknownLoja
}
