package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/covercraft/covershop/internal/amazon/service"
)

// ExportRouter exposes the marketplace export projector.
type ExportRouter struct {
	es *service.ExportService
}

func NewExportRouter(es *service.ExportService) *ExportRouter {
	return &ExportRouter{es: es}
}

func (er *ExportRouter) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/export/preview", er.HandlePreview)
	mux.HandleFunc("POST /api/export/download/xlsx", er.HandleDownloadXLSX)
	mux.HandleFunc("POST /api/export/download/csv", er.HandleDownloadCSV)
}

type exportRequest struct {
	ModelIDs    []uint              `json:"model_ids"`
	ListingType service.ListingType `json:"listing_type"`
}

func decodeExportRequest(w http.ResponseWriter, r *http.Request) (*exportRequest, bool) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return nil, false
	}
	if req.ListingType == "" {
		req.ListingType = service.ListingTypeIndividual
	}
	return &req, true
}

// HandlePreview handles POST /api/export/preview
// Body: {"model_ids": [...], "listing_type": "individual"}
func (er *ExportRouter) HandlePreview(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeExportRequest(w, r)
	if !ok {
		return
	}
	preview, err := er.es.Preview(r.Context(), req.ModelIDs, req.ListingType)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// HandleDownloadXLSX handles POST /api/export/download/xlsx
// Same body as preview; responds with an attachment workbook.
func (er *ExportRouter) HandleDownloadXLSX(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeExportRequest(w, r)
	if !ok {
		return
	}
	preview, err := er.es.Preview(r.Context(), req.ModelIDs, req.ListingType)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", preview.TemplateCode+"_export.xlsx"))
	if err := er.es.WriteXLSX(preview, w); err != nil {
		http.Error(w, fmt.Sprintf("failed to write workbook: %v", err), http.StatusInternalServerError)
		return
	}
}

// HandleDownloadCSV handles POST /api/export/download/csv
// Same body as preview; responds with an attachment CSV.
func (er *ExportRouter) HandleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeExportRequest(w, r)
	if !ok {
		return
	}
	preview, err := er.es.Preview(r.Context(), req.ModelIDs, req.ListingType)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", preview.TemplateCode+"_export.csv"))
	if err := er.es.WriteCSV(preview, w); err != nil {
		http.Error(w, fmt.Sprintf("failed to write csv: %v", err), http.StatusInternalServerError)
		return
	}
}
