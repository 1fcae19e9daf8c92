package handler

import (
	"log/slog"
	"net/http"

	"uigen/internal/httputil"
	"uigen/internal/service/project"
)

// ProjectHandler handles project HTTP requests.
type ProjectHandler struct {
	projects *project.Service
	logger   *slog.Logger
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(projects *project.Service, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

// List retrieves the user's project summaries.
// GET /api/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	summaries, err := h.projects.List(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, summaries)
}

// Create creates a new project owned by the authenticated user.
// POST /api/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req project.CreateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.projects.Create(r.Context(), userID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, created)
}

// Get retrieves one project with its deserialized transcript and files.
// GET /api/projects/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project id is required")
		return
	}

	view, err := h.projects.Get(r.Context(), id, userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, view)
}
