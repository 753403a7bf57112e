package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-notes/pkg/simplenotes"
)

// FilesHandler serves the /api/files endpoints
type FilesHandler struct {
	service simplenotes.Service
	metrics *Metrics
	logger  *slog.Logger
}

// NewFilesHandler creates a files handler. metrics may be nil.
func NewFilesHandler(service simplenotes.Service, metrics *Metrics, logger *slog.Logger) *FilesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FilesHandler{
		service: service,
		metrics: metrics,
		logger:  logger,
	}
}

// Routes returns the router for files endpoints
func (h *FilesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListFiles)
	r.Get("/index", h.GetIndex)
	r.Get("/{name}", h.GetFile)
	r.Post("/", h.SaveFile)
	r.Delete("/{name}", h.DeleteFile)
	return r
}

// ListFilesResponse is the body of GET /api/files
type ListFilesResponse struct {
	Files []string `json:"files"`
}

// IndexResponse is the body of GET /api/files/index
type IndexResponse struct {
	Files []*simplenotes.FileRecord `json:"files"`
}

// FileContentResponse is the body of GET /api/files/{name}
type FileContentResponse struct {
	Content string `json:"content"`
}

// SaveFileResponse is the body of POST /api/files
type SaveFileResponse struct {
	Message  string   `json:"message"`
	Name     string   `json:"name"`
	FileURL  string   `json:"file_url"`
	Status   string   `json:"status"`
	Warnings []string `json:"warnings,omitempty"`
}

// DeleteFileResponse is the body of DELETE /api/files/{name}
type DeleteFileResponse struct {
	Message  string   `json:"message"`
	Status   string   `json:"status"`
	Warnings []string `json:"warnings,omitempty"`
}

func (h *FilesHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListFileNames(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to list files", err)
		return
	}
	h.metrics.observeStatus("list", result.Status)

	render.JSON(w, r, ListFilesResponse{Files: result.Names})
}

func (h *FilesHandler) GetIndex(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListFileIndex(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to get file index", err)
		return
	}
	h.metrics.observeStatus("index", result.Status)

	render.JSON(w, r, IndexResponse{Files: result.Files})
}

func (h *FilesHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	content, err := h.service.GetFileContent(r.Context(), name)
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to read file", err)
		return
	}

	render.JSON(w, r, FileContentResponse{Content: content})
}

func (h *FilesHandler) SaveFile(w http.ResponseWriter, r *http.Request) {
	var req simplenotes.SaveFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request", "error", err)
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.SaveFile(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, "Error saving file", err)
		return
	}
	h.metrics.observeStatus("save", result.Status)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, SaveFileResponse{
		Message:  "File saved successfully",
		Name:     result.Name,
		FileURL:  result.FileURL,
		Status:   string(result.Status.Outcome()),
		Warnings: result.Status.Warnings(),
	})
}

func (h *FilesHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	result, err := h.service.DeleteFile(r.Context(), name)
	if err != nil {
		writeServiceError(w, r, h.logger, "Error deleting file", err)
		return
	}
	h.metrics.observeStatus("delete", result.Status)

	render.JSON(w, r, DeleteFileResponse{
		Message:  "File " + name + " deleted successfully",
		Status:   string(result.Status.Outcome()),
		Warnings: result.Status.Warnings(),
	})
}
