package handler

import (
	"net/http"

	"github.com/mcoot/lfg/internal/api/middleware"
	"github.com/mcoot/lfg/internal/api/sse"
	"github.com/mcoot/lfg/internal/model"
)

// EventsHandler streams lobby events
type EventsHandler struct {
	hub *sse.Hub
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *sse.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream handles GET /api/v1/events; ?lobby=<name> limits the stream to one lobby
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())
	h.hub.ServeSSE(w, r, username, model.LobbyName(r.URL.Query().Get("lobby")))
}
