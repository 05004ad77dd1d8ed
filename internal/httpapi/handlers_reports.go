package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/radarobras/radar_api/internal/reports"
)

type ReportsService interface {
	Summary(ctx context.Context, f reports.Filter) (*reports.Summary, error)
	ExportPDF(ctx context.Context, f reports.Filter) ([]byte, string, error)
}

type ReportsHandler struct {
	Service ReportsService
}

// Summary Report
// @Summary Dashboard aggregations
// @Tags reports
// @Produce json
// @Security SessionAuth
// @Param loja query string false "loja id"
// @Param status query string false "pipeline status"
// @Param stage query string false "construction stage"
// @Param seller query string false "seller id"
// @Param from query string false "start date (YYYY-MM-DD)"
// @Param to query string false "end date (YYYY-MM-DD), inclusive"
// @Success 200 {object} reports.Summary
// @Failure 400 {string} string
// @Failure 401 {string} string
// @Failure 500 {string} string
// @Router /reports/summary [get]
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	f, ok := parseReportFilter(w, r)
	if !ok {
		return
	}

	sum, err := h.Service.Summary(r.Context(), f)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(sum)
}

// ExportPDF Report
// @Summary Export the filtered pipeline as PDF
// @Tags reports
// @Produce application/pdf
// @Security SessionAuth
// @Param loja query string false "loja id"
// @Param status query string false "pipeline status"
// @Param stage query string false "construction stage"
// @Param seller query string false "seller id"
// @Param from query string false "start date (YYYY-MM-DD)"
// @Param to query string false "end date (YYYY-MM-DD), inclusive"
// @Success 200 {file} binary
// @Failure 400 {string} string
// @Failure 401 {string} string
// @Failure 500 {string} string
// @Router /reports/pdf [get]
func (h *ReportsHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	f, ok := parseReportFilter(w, r)
	if !ok {
		return
	}

	data, filename, err := h.Service.ExportPDF(r.Context(), f)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func parseReportFilter(w http.ResponseWriter, r *http.Request) (reports.Filter, bool) {
	q := r.URL.Query()
	f, err := reports.ParseFilter(
		q.Get("loja"),
		q.Get("status"),
		q.Get("stage"),
		q.Get("seller"),
		q.Get("from"),
		q.Get("to"),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return reports.Filter{}, false
	}
	return f, true
}
