package handler

import (
	"net/http"

	"github.com/mcoot/lfg/internal/api/middleware"
	"github.com/mcoot/lfg/internal/api/response"
	"github.com/mcoot/lfg/internal/services/advisor"
)

// AdvisorHandler serves lobby suggestions
type AdvisorHandler struct {
	advisor *advisor.Service
}

// NewAdvisorHandler creates a new advisor handler
func NewAdvisorHandler(svc *advisor.Service) *AdvisorHandler {
	return &AdvisorHandler{advisor: svc}
}

// Suggest handles GET /api/v1/suggestions. Failures are part of the text,
// so this always answers 200.
func (h *AdvisorHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	select {
	case s := <-h.advisor.SuggestAsync(r.Context(), username):
		response.JSON(w, http.StatusOK, response.SuggestionFromService(s))
	case <-r.Context().Done():
	}
}
