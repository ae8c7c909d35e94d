package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Handler serves finished report runs over HTTP
type Handler struct {
	catalog *Catalog
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog *Catalog, logger *zap.Logger) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  logger,
	}
}

// Routes registers every endpoint on a new mux
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/health", h.Health)
	mux.HandleFunc("/v1/runs", h.ListRuns)
	mux.HandleFunc("/v1/runs/", h.GetRun)
	mux.HandleFunc("/artifacts/", h.GetArtifact)
	return mux
}

// ListRuns returns the manifests of all report folders
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	manifests, err := h.catalog.List()
	if err != nil {
		h.logger.Error("Failed to list runs", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(manifests),
		"runs":  manifests,
	})
}

// GetRun returns the manifest of one report folder
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	folder := strings.TrimPrefix(r.URL.Path, "/v1/runs/")
	m, err := h.catalog.Get(folder)
	if err != nil {
		if errors.Is(err, ErrRunNotFound) {
			http.Error(w, "run not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to load run", zap.String("folder", folder), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// GetArtifact serves /artifacts/{folder}/{file} from a report folder
func (h *Handler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	folder, file, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/artifacts/"), "/")
	path, err := h.catalog.Artifact(folder, file)
	if err != nil {
		if errors.Is(err, ErrArtifactNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("Failed to open artifact", zap.String("folder", folder), zap.String("file", file), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.ServeFile(w, r, path)
}

// Health handles health check requests
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
