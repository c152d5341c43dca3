package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/covercraft/covershop/internal/catalog/service"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
}

// writeServiceError maps service sentinels onto HTTP statuses: conflicts to
// 409, validation failures to 400, missing records to 404, everything else
// to 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateName),
		errors.Is(err, service.ErrDuplicateAssignment):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrColourNotAvailable),
		errors.Is(err, service.ErrNoShippingRate),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrOrderHasNoLines):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// pathID parses the named path segment as an unsigned id, writing a 400 on
// failure.
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

// queryUint parses an optional unsigned query parameter.
func queryUint(w http.ResponseWriter, r *http.Request, name string) (*uint, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		http.Error(w, "invalid '"+name+"' query parameter, must be an integer", http.StatusBadRequest)
		return nil, false
	}
	id := uint(parsed)
	return &id, true
}

// queryInt parses an optional integer query parameter.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		http.Error(w, "invalid '"+name+"' query parameter, must be an integer", http.StatusBadRequest)
		return nil, false
	}
	return &parsed, true
}
