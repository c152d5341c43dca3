package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/covercraft/covershop/internal/catalog/service"
)

// MaterialRouter exposes fabrics, colour surcharges and the supplier price
// book.
type MaterialRouter struct {
	ms *service.MaterialService
}

func NewMaterialRouter(ms *service.MaterialService) *MaterialRouter {
	return &MaterialRouter{ms: ms}
}

func (mr *MaterialRouter) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/materials", mr.HandleListMaterials)
	mux.HandleFunc("POST /api/materials", mr.HandleCreateMaterial)
	mux.HandleFunc("GET /api/materials/{id}", mr.HandleGetMaterial)
	mux.HandleFunc("PUT /api/materials/{id}", mr.HandleUpdateMaterial)
	mux.HandleFunc("DELETE /api/materials/{id}", mr.HandleDeleteMaterial)
	mux.HandleFunc("POST /api/materials/{id}/colours", mr.HandleAddColourSurcharge)
	mux.HandleFunc("DELETE /api/materials/colours/{id}", mr.HandleDeleteColourSurcharge)

	mux.HandleFunc("GET /api/suppliers", mr.HandleListSuppliers)
	mux.HandleFunc("POST /api/suppliers", mr.HandleCreateSupplier)
	mux.HandleFunc("GET /api/suppliers/{id}", mr.HandleGetSupplier)
	mux.HandleFunc("PUT /api/suppliers/{id}", mr.HandleUpdateSupplier)
	mux.HandleFunc("DELETE /api/suppliers/{id}", mr.HandleDeleteSupplier)
	mux.HandleFunc("PUT /api/suppliers/{id}/materials", mr.HandleSetSupplierMaterial)
	mux.HandleFunc("DELETE /api/suppliers/materials/{id}", mr.HandleDeleteSupplierMaterial)
}

// HandleListMaterials handles GET /api/materials
func (mr *MaterialRouter) HandleListMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := mr.ms.ListMaterials(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, materials)
}

// HandleCreateMaterial handles POST /api/materials
func (mr *MaterialRouter) HandleCreateMaterial(w http.ResponseWriter, r *http.Request) {
	var req service.MaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	material, err := mr.ms.CreateMaterial(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, material)
}

// HandleGetMaterial handles GET /api/materials/{id}
func (mr *MaterialRouter) HandleGetMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	material, err := mr.ms.GetMaterial(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, material)
}

// HandleUpdateMaterial handles PUT /api/materials/{id}
func (mr *MaterialRouter) HandleUpdateMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.MaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	material, err := mr.ms.UpdateMaterial(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, material)
}

// HandleDeleteMaterial handles DELETE /api/materials/{id}
func (mr *MaterialRouter) HandleDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := mr.ms.DeleteMaterial(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddColourSurcharge handles POST /api/materials/{id}/colours
func (mr *MaterialRouter) HandleAddColourSurcharge(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.ColourSurchargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	surcharge, err := mr.ms.AddColourSurcharge(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, surcharge)
}

// HandleDeleteColourSurcharge handles DELETE /api/materials/colours/{id}
func (mr *MaterialRouter) HandleDeleteColourSurcharge(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := mr.ms.DeleteColourSurcharge(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListSuppliers handles GET /api/suppliers
func (mr *MaterialRouter) HandleListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := mr.ms.ListSuppliers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suppliers)
}

// HandleCreateSupplier handles POST /api/suppliers
func (mr *MaterialRouter) HandleCreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req service.SupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	supplier, err := mr.ms.CreateSupplier(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, supplier)
}

// HandleGetSupplier handles GET /api/suppliers/{id}
func (mr *MaterialRouter) HandleGetSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	supplier, err := mr.ms.GetSupplier(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, supplier)
}

// HandleUpdateSupplier handles PUT /api/suppliers/{id}
func (mr *MaterialRouter) HandleUpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.SupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	supplier, err := mr.ms.UpdateSupplier(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, supplier)
}

// HandleDeleteSupplier handles DELETE /api/suppliers/{id}
func (mr *MaterialRouter) HandleDeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := mr.ms.DeleteSupplier(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetSupplierMaterial handles PUT /api/suppliers/{id}/materials
func (mr *MaterialRouter) HandleSetSupplierMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.SupplierMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	entry, err := mr.ms.SetSupplierMaterial(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HandleDeleteSupplierMaterial handles DELETE /api/suppliers/materials/{id}
func (mr *MaterialRouter) HandleDeleteSupplierMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := mr.ms.DeleteSupplierMaterial(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
