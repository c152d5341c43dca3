package router

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/covercraft/covershop/internal/amazon/service"
)

const maxWorkbookUploadBytes = 32 << 20

// TemplateRouter exposes the Amazon template pipeline: workbook import,
// filename matching and the stored template mutation API.
type TemplateRouter struct {
	ts       *service.TemplateService
	importer *service.TemplateImporter
}

func NewTemplateRouter(ts *service.TemplateService, importer *service.TemplateImporter) *TemplateRouter {
	return &TemplateRouter{ts: ts, importer: importer}
}

func (tr *TemplateRouter) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/templates", tr.HandleListProductTypes)
	mux.HandleFunc("POST /api/templates/import", tr.HandleImport)
	mux.HandleFunc("GET /api/templates/match", tr.HandleMatchFilename)
	mux.HandleFunc("GET /api/templates/{code}", tr.HandleGetProductType)
	mux.HandleFunc("DELETE /api/templates/{code}", tr.HandleDeleteProductType)
	mux.HandleFunc("GET /api/templates/{code}/fields", tr.HandleGetFields)
	mux.HandleFunc("GET /api/templates/{code}/header-rows", tr.HandleGetHeaderRows)

	mux.HandleFunc("GET /api/templates/fields/{id}", tr.HandleGetField)
	mux.HandleFunc("PATCH /api/templates/fields/{id}", tr.HandleUpdateField)
	mux.HandleFunc("POST /api/templates/fields/{id}/values", tr.HandleAddFieldValue)
	mux.HandleFunc("DELETE /api/templates/fields/{id}/values/{valueId}", tr.HandleDeleteFieldValue)

	mux.HandleFunc("GET /api/templates/equipment-type-links", tr.HandleListLinks)
	mux.HandleFunc("POST /api/templates/equipment-type-links", tr.HandleCreateLink)
	mux.HandleFunc("DELETE /api/templates/equipment-type-links/{id}", tr.HandleDeleteLink)
}

// HandleListProductTypes handles GET /api/templates
func (tr *TemplateRouter) HandleListProductTypes(w http.ResponseWriter, r *http.Request) {
	productTypes, err := tr.ts.ListProductTypes(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productTypes)
}

// HandleImport handles POST /api/templates/import
// Multipart form: "file" (.xlsx or .xls workbook) and "product_code".
func (tr *TemplateRouter) HandleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxWorkbookUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("invalid multipart form: %v", err), http.StatusBadRequest)
		return
	}

	productCode := strings.TrimSpace(r.FormValue("product_code"))
	if productCode == "" {
		http.Error(w, "missing 'product_code' form field", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing 'file' form field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx", ".xls":
	default:
		http.Error(w, "unsupported file type, expected .xlsx or .xls", http.StatusBadRequest)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read upload: %v", err), http.StatusBadRequest)
		return
	}

	result, err := tr.importer.Import(r.Context(), content, header.Filename, productCode)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// HandleMatchFilename handles GET /api/templates/match?filename=&product_code=
// The result is advisory only; the client uses it to pick a confirmation
// prompt before uploading.
func (tr *TemplateRouter) HandleMatchFilename(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	productCode := r.URL.Query().Get("product_code")
	if filename == "" || productCode == "" {
		http.Error(w, "missing 'filename' or 'product_code' query parameter", http.StatusBadRequest)
		return
	}

	result := service.MatchFilename(filename, productCode)
	writeJSON(w, http.StatusOK, map[string]service.MatchResult{"result": result})
}

// HandleGetProductType handles GET /api/templates/{code}
func (tr *TemplateRouter) HandleGetProductType(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		http.Error(w, "missing code in path", http.StatusBadRequest)
		return
	}
	productType, err := tr.ts.GetProductType(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productType)
}

// HandleDeleteProductType handles DELETE /api/templates/{code}
func (tr *TemplateRouter) HandleDeleteProductType(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		http.Error(w, "missing code in path", http.StatusBadRequest)
		return
	}
	if err := tr.ts.DeleteProductType(r.Context(), code); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetFields handles GET /api/templates/{code}/fields
func (tr *TemplateRouter) HandleGetFields(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		http.Error(w, "missing code in path", http.StatusBadRequest)
		return
	}
	fields, err := tr.ts.GetFields(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fields)
}

// HandleGetHeaderRows handles GET /api/templates/{code}/header-rows
func (tr *TemplateRouter) HandleGetHeaderRows(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		http.Error(w, "missing code in path", http.StatusBadRequest)
		return
	}
	headerRows, err := tr.ts.GetHeaderRows(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, headerRows)
}

// HandleGetField handles GET /api/templates/fields/{id}
func (tr *TemplateRouter) HandleGetField(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	field, err := tr.ts.GetField(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, field)
}

// HandleUpdateField handles PATCH /api/templates/fields/{id}
// Body: {required?, selected_value?, custom_value?} — absent keys are left
// untouched, empty strings clear.
func (tr *TemplateRouter) HandleUpdateField(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.UpdateFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	field, err := tr.ts.UpdateField(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, field)
}

// HandleAddFieldValue handles POST /api/templates/fields/{id}/values
// Body: {"value": "..."}
func (tr *TemplateRouter) HandleAddFieldValue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Value == "" {
		http.Error(w, "value cannot be empty", http.StatusBadRequest)
		return
	}
	value, err := tr.ts.AddFieldValue(r.Context(), id, req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, value)
}

// HandleDeleteFieldValue handles DELETE /api/templates/fields/{id}/values/{valueId}
func (tr *TemplateRouter) HandleDeleteFieldValue(w http.ResponseWriter, r *http.Request) {
	fieldID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	valueID, ok := pathID(w, r, "valueId")
	if !ok {
		return
	}
	if err := tr.ts.DeleteFieldValue(r.Context(), fieldID, valueID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListLinks handles GET /api/templates/equipment-type-links
func (tr *TemplateRouter) HandleListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := tr.ts.ListLinks(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

// HandleCreateLink handles POST /api/templates/equipment-type-links
// Body: {"equipmentTypeId": ..., "productTypeId": ...}
func (tr *TemplateRouter) HandleCreateLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EquipmentTypeID uint `json:"equipmentTypeId"`
		ProductTypeID   uint `json:"productTypeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	link, err := tr.ts.CreateLink(r.Context(), req.EquipmentTypeID, req.ProductTypeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// HandleDeleteLink handles DELETE /api/templates/equipment-type-links/{id}
func (tr *TemplateRouter) HandleDeleteLink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := tr.ts.DeleteLink(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
