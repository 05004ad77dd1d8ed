package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/radarobras/radar_api/internal/obras"
)

// maxPhotoBytes caps a single upload at 10 MiB.
const maxPhotoBytes = 10 << 20

type ObrasService interface {
	Create(ctx context.Context, req obras.CreateObraRequest) (*obras.Obra, error)
	GetByID(ctx context.Context, id string) (*obras.Obra, error)
	List(ctx context.Context, f obras.ObraFilter) ([]*obras.Obra, error)
	Update(ctx context.Context, id string, req obras.UpdateObraRequest) (*obras.Obra, error)
	MoveToStatus(ctx context.Context, id string, status obras.Status) (*obras.Obra, error)
	AssignSeller(ctx context.Context, id, sellerID string) (*obras.Obra, error)
	Archive(ctx context.Context, id string) (*obras.Obra, error)
	AddSale(ctx context.Context, obraID string, in obras.SaleInput) (*obras.Obra, error)
	EditSale(ctx context.Context, obraID, saleID string, in obras.SaleInput) (*obras.Obra, error)
	DeleteSale(ctx context.Context, obraID, saleID string) (*obras.Obra, error)
	UploadPhoto(ctx context.Context, id, filename string, file io.Reader) (*obras.Obra, error)
	RemovePhoto(ctx context.Context, id, url string) (*obras.Obra, error)
}

type ObrasHandler struct {
	Service ObrasService
}

// Create Obra
// @Summary Create obra
// @Tags obras
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param body body ObraCreateDTO true "obra"
// @Success 201 {object} obras.Obra
// @Failure 400 {string} string
// @Failure 401 {string} string
// @Failure 500 {string} string
// @Router /obras [post]
func (h *ObrasHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ObraCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	o, err := h.Service.Create(r.Context(), obras.CreateObraRequest{
		Street:       req.Street,
		Number:       req.Number,
		Neighborhood: req.Neighborhood,
		Stage:        obras.Stage(req.Stage),
		LojaID:       req.LojaID,
		Details:      req.Details,
		Contacts:     contactsFromDTO(req.Contacts),
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(o)
}

// List Obras
// @Summary List obras
// @Tags obras
// @Produce json
// @Security SessionAuth
// @Param loja query string false "loja id"
// @Param seller query string false "seller id"
// @Param status query string false "pipeline status"
// @Param stage query string false "construction stage"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {array} obras.Obra
// @Failure 400 {string} string
// @Failure 401 {string} string
// @Failure 500 {string} string
// @Router /obras [get]
func (h *ObrasHandler) List(w http.ResponseWriter, r *http.Request) {
	f := obras.ObraFilter{
		LojaID:   strings.TrimSpace(r.URL.Query().Get("loja")),
		SellerID: strings.TrimSpace(r.URL.Query().Get("seller")),
	}
	if s := strings.TrimSpace(r.URL.Query().Get("status")); s != "" {
		st := obras.Status(s)
		if !st.Valid() {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
		f.Status = st
	}
	if s := strings.TrimSpace(r.URL.Query().Get("stage")); s != "" {
		sg := obras.Stage(s)
		if !sg.Valid() {
			http.Error(w, "invalid stage", http.StatusBadRequest)
			return
		}
		f.Stage = sg
	}
	if l := strings.TrimSpace(r.URL.Query().Get("limit")); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			f.Limit = v
		}
	}
	if o := strings.TrimSpace(r.URL.Query().Get("offset")); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			f.Offset = v
		}
	}

	list, err := h.Service.List(r.Context(), f)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// GetByID Obra
// @Summary Get obra by id
// @Tags obras
// @Produce json
// @Security SessionAuth
// @Param id path string true "obra id"
// @Success 200 {object} obras.Obra
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /obras/{id} [get]
func (h *ObrasHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	o, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(o)
}

// Update Obra
// @Summary Update obra
// @Tags obras
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path string true "obra id"
// @Param body body ObraUpdateDTO true "fields"
// @Success 200 {object} obras.Obra
// @Failure 400 {string} string
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /obras/{id} [put]
func (h *ObrasHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req ObraUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	update := obras.UpdateObraRequest{
		Street:       req.Street,
		Number:       req.Number,
		Neighborhood: req.Neighborhood,
		LojaID:       req.LojaID,
		Details:      req.Details,
		Contacts:     contactsFromDTO(req.Contacts),
	}
	if req.Stage != nil {
		stage := obras.Stage(*req.Stage)
		update.Stage = &stage
	}

	o, err := h.Service.Update(r.Context(), id, update)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(o)
}

// Move Obra
// @Summary Move obra to a pipeline status
// @Tags obras
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path string true "obra id"
// @Param body body MoveObraDTO true "target status"
// @Success 200 {object} obras.Obra
// @Failure 400 {string} string
// @Failure 403 {string} string
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /obras/{id}/move [post]
func (h *ObrasHandler) Move(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req MoveObraDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	o, err := h.Service.MoveToStatus(r.Context(), id, obras.Status(req.Status))
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(o)
}

// Assign Obra
// @Summary Assign a seller to an obra
// @Tags obras
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path string true "obra id"
// @Param body body AssignSellerDTO true "seller"
// @Success 200 {object} obras.Obra
// @Failure 400 {string} string
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /obras/{id}/assign [post]
func (h *ObrasHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req AssignSellerDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	o, err := h.Service.AssignSeller(r.Context(), id, req.SellerID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(o)
}

// Archive Obra
// @Summary Archive obra (admin or gerente)
// @Tags obras
// @Produce json
// @Security SessionAuth
// @Param id path string true "obra id"
// @Success 200 {object} obras.Obra
// @Failure 403 {string} string
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /obras/{id}/archive [post]
func (h *ObrasHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	o, err := h.Service.Archive(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(o)
}

// AddSale Obra
// @Summary Register a sale
// @Tags obras
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path string true "obra id"
// @Param body body SaleDTO true "sale"
// @Success 201 {object} obras.Obra
// @Failure 400 {string} string
// @Failure 404 {string} string
// @Failure 409 {string} string
// @Failure 500 {string} string
// @Router /obras/{id}/sales [post]
func (h *ObrasHandler) AddSale(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	req, ok := decodeSale(w, r)
	if !ok {
		return
	}

	o, err := h.Service.AddSale(r.Context(), id, req)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(o)
}

// EditSale Obra
// @Summary Edit a sale
// @Tags obras
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path string true "obra id"
// @Param saleId path string true "sale id"
// @Param body body SaleDTO true "sale"
// @Success 200 {object} obras.Obra
// @Failure 400 {string} string
// @Failure 404 {string} string
// @Failure 409 {string} string
// @Failure 500 {string} string
// @Router /obras/{id}/sales/{saleId} [put]
func (h *ObrasHandler) EditSale(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	saleID := strings.TrimSpace(chi.URLParam(r, "saleId"))

	req, ok := decodeSale(w, r)
	if !ok {
		return
	}

	o, err := h.Service.EditSale(r.Context(), id, saleID, req)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(o)
}

// DeleteSale Obra
// @Summary Delete a sale
// @Tags obras
// @Produce json
// @Security SessionAuth
// @Param id path string true "obra id"
// @Param saleId path string true "sale id"
// @Success 200 {object} obras.Obra
// @Failure 404 {string} string
// @Failure 409 {string} string
// @Failure 500 {string} string
// @Router /obras/{id}/sales/{saleId} [delete]
func (h *ObrasHandler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	saleID := strings.TrimSpace(chi.URLParam(r, "saleId"))

	o, err := h.Service.DeleteSale(r.Context(), id, saleID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(o)
}

// UploadPhoto Obra
// @Summary Upload a photo
// @Tags obras
// @Accept multipart/form-data
// @Produce json
// @Security SessionAuth
// @Param id path string true "obra id"
// @Param photo formData file true "image file"
// @Success 201 {object} obras.Obra
// @Failure 400 {string} string
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /obras/{id}/photos [post]
func (h *ObrasHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "photo file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	o, err := h.Service.UploadPhoto(r.Context(), id, header.Filename, file)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(o)
}

// RemovePhoto Obra
// @Summary Remove a photo
// @Tags obras
// @Produce json
// @Security SessionAuth
// @Param id path string true "obra id"
// @Param url query string true "photo url"
// @Success 200 {object} obras.Obra
// @Failure 400 {string} string
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /obras/{id}/photos [delete]
func (h *ObrasHandler) RemovePhoto(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	url := strings.TrimSpace(r.URL.Query().Get("url"))

	o, err := h.Service.RemovePhoto(r.Context(), id, url)
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(o)
}

func decodeSale(w http.ResponseWriter, r *http.Request) (obras.SaleInput, bool) {
	var req SaleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return obras.SaleInput{}, false
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return obras.SaleInput{}, false
	}
	return obras.SaleInput{
		OrderNumber: req.OrderNumber,
		Value:       req.Value,
		Date:        req.Date.UTC().Truncate(time.Second),
	}, true
}
