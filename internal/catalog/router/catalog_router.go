package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/covercraft/covershop/internal/catalog/service"
)

const maxImageUploadBytes = 16 << 20

// CatalogRouter exposes the manufacturer → series → model hierarchy and the
// equipment type classification.
type CatalogRouter struct {
	cs *service.CatalogService
}

func NewCatalogRouter(cs *service.CatalogService) *CatalogRouter {
	return &CatalogRouter{cs: cs}
}

func (cr *CatalogRouter) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/manufacturers", cr.HandleListManufacturers)
	mux.HandleFunc("POST /api/manufacturers", cr.HandleCreateManufacturer)
	mux.HandleFunc("GET /api/manufacturers/{id}", cr.HandleGetManufacturer)
	mux.HandleFunc("PUT /api/manufacturers/{id}", cr.HandleUpdateManufacturer)
	mux.HandleFunc("DELETE /api/manufacturers/{id}", cr.HandleDeleteManufacturer)

	mux.HandleFunc("GET /api/series", cr.HandleListSeries)
	mux.HandleFunc("POST /api/series", cr.HandleCreateSeries)
	mux.HandleFunc("GET /api/series/{id}", cr.HandleGetSeries)
	mux.HandleFunc("PUT /api/series/{id}", cr.HandleUpdateSeries)
	mux.HandleFunc("DELETE /api/series/{id}", cr.HandleDeleteSeries)

	mux.HandleFunc("GET /api/equipment-types", cr.HandleListEquipmentTypes)
	mux.HandleFunc("POST /api/equipment-types", cr.HandleCreateEquipmentType)
	mux.HandleFunc("GET /api/equipment-types/{id}", cr.HandleGetEquipmentType)
	mux.HandleFunc("PUT /api/equipment-types/{id}", cr.HandleUpdateEquipmentType)
	mux.HandleFunc("DELETE /api/equipment-types/{id}", cr.HandleDeleteEquipmentType)

	mux.HandleFunc("GET /api/models", cr.HandleListModels)
	mux.HandleFunc("POST /api/models", cr.HandleCreateModel)
	mux.HandleFunc("GET /api/models/{id}", cr.HandleGetModel)
	mux.HandleFunc("PUT /api/models/{id}", cr.HandleUpdateModel)
	mux.HandleFunc("DELETE /api/models/{id}", cr.HandleDeleteModel)
	mux.HandleFunc("POST /api/models/{id}/image", cr.HandleUploadModelImage)
}

// HandleListManufacturers handles GET /api/manufacturers
func (cr *CatalogRouter) HandleListManufacturers(w http.ResponseWriter, r *http.Request) {
	manufacturers, err := cr.cs.ListManufacturers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, manufacturers)
}

// HandleCreateManufacturer handles POST /api/manufacturers
func (cr *CatalogRouter) HandleCreateManufacturer(w http.ResponseWriter, r *http.Request) {
	var req service.ManufacturerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	manufacturer, err := cr.cs.CreateManufacturer(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, manufacturer)
}

// HandleGetManufacturer handles GET /api/manufacturers/{id}
func (cr *CatalogRouter) HandleGetManufacturer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	manufacturer, err := cr.cs.GetManufacturer(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, manufacturer)
}

// HandleUpdateManufacturer handles PUT /api/manufacturers/{id}
func (cr *CatalogRouter) HandleUpdateManufacturer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.ManufacturerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	manufacturer, err := cr.cs.UpdateManufacturer(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, manufacturer)
}

// HandleDeleteManufacturer handles DELETE /api/manufacturers/{id}
func (cr *CatalogRouter) HandleDeleteManufacturer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := cr.cs.DeleteManufacturer(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListSeries handles GET /api/series?manufacturerId={id}
func (cr *CatalogRouter) HandleListSeries(w http.ResponseWriter, r *http.Request) {
	manufacturerID, ok := queryUint(w, r, "manufacturerId")
	if !ok {
		return
	}
	series, err := cr.cs.ListSeries(r.Context(), manufacturerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// HandleCreateSeries handles POST /api/series
func (cr *CatalogRouter) HandleCreateSeries(w http.ResponseWriter, r *http.Request) {
	var req service.SeriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	series, err := cr.cs.CreateSeries(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, series)
}

// HandleGetSeries handles GET /api/series/{id}
func (cr *CatalogRouter) HandleGetSeries(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	series, err := cr.cs.GetSeries(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// HandleUpdateSeries handles PUT /api/series/{id}
func (cr *CatalogRouter) HandleUpdateSeries(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.SeriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	series, err := cr.cs.UpdateSeries(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// HandleDeleteSeries handles DELETE /api/series/{id}
func (cr *CatalogRouter) HandleDeleteSeries(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := cr.cs.DeleteSeries(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListEquipmentTypes handles GET /api/equipment-types
func (cr *CatalogRouter) HandleListEquipmentTypes(w http.ResponseWriter, r *http.Request) {
	equipmentTypes, err := cr.cs.ListEquipmentTypes(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, equipmentTypes)
}

// HandleCreateEquipmentType handles POST /api/equipment-types
func (cr *CatalogRouter) HandleCreateEquipmentType(w http.ResponseWriter, r *http.Request) {
	var req service.EquipmentTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	equipmentType, err := cr.cs.CreateEquipmentType(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, equipmentType)
}

// HandleGetEquipmentType handles GET /api/equipment-types/{id}
func (cr *CatalogRouter) HandleGetEquipmentType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	equipmentType, err := cr.cs.GetEquipmentType(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, equipmentType)
}

// HandleUpdateEquipmentType handles PUT /api/equipment-types/{id}
func (cr *CatalogRouter) HandleUpdateEquipmentType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.EquipmentTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	equipmentType, err := cr.cs.UpdateEquipmentType(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, equipmentType)
}

// HandleDeleteEquipmentType handles DELETE /api/equipment-types/{id}
func (cr *CatalogRouter) HandleDeleteEquipmentType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := cr.cs.DeleteEquipmentType(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListModels handles GET /api/models?seriesId=&equipmentTypeId=&offset=&limit=
func (cr *CatalogRouter) HandleListModels(w http.ResponseWriter, r *http.Request) {
	var filter service.ModelFilter
	var ok bool
	if filter.SeriesID, ok = queryUint(w, r, "seriesId"); !ok {
		return
	}
	if filter.EquipmentTypeID, ok = queryUint(w, r, "equipmentTypeId"); !ok {
		return
	}
	if filter.Offset, ok = queryInt(w, r, "offset"); !ok {
		return
	}
	if filter.Limit, ok = queryInt(w, r, "limit"); !ok {
		return
	}

	models, err := cr.cs.ListModels(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models)
}

// HandleCreateModel handles POST /api/models
func (cr *CatalogRouter) HandleCreateModel(w http.ResponseWriter, r *http.Request) {
	var req service.ModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	m, err := cr.cs.CreateModel(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// HandleGetModel handles GET /api/models/{id}
func (cr *CatalogRouter) HandleGetModel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	m, err := cr.cs.GetModel(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleUpdateModel handles PUT /api/models/{id}
func (cr *CatalogRouter) HandleUpdateModel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.ModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	m, err := cr.cs.UpdateModel(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleDeleteModel handles DELETE /api/models/{id}
func (cr *CatalogRouter) HandleDeleteModel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := cr.cs.DeleteModel(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUploadModelImage handles POST /api/models/{id}/image
// Multipart form with a "file" part; jpeg/png/webp only.
func (cr *CatalogRouter) HandleUploadModelImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("invalid multipart form: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing 'file' form field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		http.Error(w, "unsupported image type, expected .jpg, .jpeg, .png or .webp", http.StatusBadRequest)
		return
	}

	m, err := cr.cs.AttachModelImage(r.Context(), id, header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
