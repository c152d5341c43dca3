package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/covercraft/covershop/internal/amazon/service"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
}

// writeServiceError maps template pipeline sentinels onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateValue),
		errors.Is(err, service.ErrDuplicateLink):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrBadWorkbook),
		errors.Is(err, service.ErrValueNotAllowed),
		errors.Is(err, service.ErrNoModels),
		errors.Is(err, service.ErrNoTemplateLink),
		errors.Is(err, service.ErrMixedTemplates),
		errors.Is(err, service.ErrListingTypeUnsupported):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := r.PathValue(name)
	if raw == "" {
		http.Error(w, "missing "+name+" in path", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		http.Error(w, "invalid "+name+": must be a positive integer", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}
