package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/lfg/internal/api/middleware"
	"github.com/mcoot/lfg/internal/api/request"
	"github.com/mcoot/lfg/internal/api/response"
	"github.com/mcoot/lfg/internal/model"
	"github.com/mcoot/lfg/internal/services/lobby"
)

// LobbyHandler handles lobby endpoints
type LobbyHandler struct {
	lobbyController lobby.ControllerInterface
}

// NewLobbyHandler creates a new lobby handler
func NewLobbyHandler(lobbyController lobby.ControllerInterface) *LobbyHandler {
	return &LobbyHandler{
		lobbyController: lobbyController,
	}
}

func lobbyName(r *http.Request) model.LobbyName {
	return model.LobbyName(mux.Vars(r)["name"])
}

// List handles GET /api/v1/lobbies
func (h *LobbyHandler) List(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	views, err := h.lobbyController.Board(r.Context(), username)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.LobbyListFromViews(views))
}

// Create handles POST /api/v1/lobbies
func (h *LobbyHandler) Create(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	var req request.CreateLobbyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rating, err := req.RequiredRating.Parse("required_rating")
	if err != nil {
		WriteError(w, err)
		return
	}

	created, err := h.lobbyController.CreateLobby(r.Context(), username, req.Name, rating)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.LobbyFromModel(created))
}

// Get handles GET /api/v1/lobbies/{name}
func (h *LobbyHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	view, err := h.lobbyController.View(r.Context(), lobbyName(r), username)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.LobbyFromView(view))
}

// Join handles POST /api/v1/lobbies/{name}/join
func (h *LobbyHandler) Join(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	joined, err := h.lobbyController.JoinLobby(r.Context(), lobbyName(r), username)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.LobbyFromModel(joined))
}

// Leave handles POST /api/v1/lobbies/{name}/leave
func (h *LobbyHandler) Leave(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	if err := h.lobbyController.LeaveLobby(r.Context(), lobbyName(r), username); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Delete handles DELETE /api/v1/lobbies/{name}
func (h *LobbyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	if err := h.lobbyController.DeleteLobby(r.Context(), lobbyName(r), username); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
