package storage

import (
	"io"
	"log/slog"
	"net/http"
)

// HTTPHandler serves stored objects back over the local public URL. Only the
// local driver routes through here; S3 objects are fetched from presigned
// URLs directly.
type HTTPHandler struct {
	files *FileStore
}

func NewHTTPHandler(files *FileStore) *HTTPHandler {
	return &HTTPHandler{files: files}
}

func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/files/{key}", h.Serve)
}

// Serve handles GET /api/files/{key}
func (h *HTTPHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		http.Error(w, "missing key in path", http.StatusBadRequest)
		return
	}

	reader, contentType, err := h.files.Open(r.Context(), key)
	if err != nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, reader); err != nil {
		slog.ErrorContext(r.Context(), "failed to stream file", "key", key, "error", err)
	}
}
