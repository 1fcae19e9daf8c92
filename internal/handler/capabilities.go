package handler

import (
	"log/slog"
	"net/http"

	"uigen/internal/capabilities"
	"uigen/internal/httputil"
)

// CapabilitiesHandler serves the model capability catalog.
type CapabilitiesHandler struct {
	registry *capabilities.Registry
	logger   *slog.Logger
}

// NewCapabilitiesHandler creates a new capabilities handler.
func NewCapabilitiesHandler(registry *capabilities.Registry, logger *slog.Logger) *CapabilitiesHandler {
	return &CapabilitiesHandler{registry: registry, logger: logger}
}

type providerCapabilitiesResponse struct {
	Provider string                           `json:"provider"`
	Name     string                           `json:"name"`
	Models   []capabilities.ModelCapabilities `json:"models"`
}

// List returns every provider's models.
// GET /api/models/capabilities
func (h *CapabilitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	providers := h.registry.Providers()

	response := make([]providerCapabilitiesResponse, 0, len(providers))
	for _, provider := range providers {
		name, err := h.registry.ProviderName(provider)
		if err != nil {
			handleError(w, h.logger, err)
			return
		}
		models, err := h.registry.ListProviderModels(provider)
		if err != nil {
			handleError(w, h.logger, err)
			return
		}
		response = append(response, providerCapabilitiesResponse{
			Provider: provider,
			Name:     name,
			Models:   models,
		})
	}

	httputil.RespondJSON(w, http.StatusOK, response)
}
