package handler

import (
	"context"
	"net/http"

	"github.com/mcoot/lfg/internal/api/middleware"
	"github.com/mcoot/lfg/internal/api/request"
	"github.com/mcoot/lfg/internal/api/response"
	"github.com/mcoot/lfg/internal/model"
	"github.com/mcoot/lfg/internal/services/auth"
	"github.com/mcoot/lfg/internal/services/directory"
)

// Directory is the account surface the handlers use
type Directory interface {
	Register(ctx context.Context, reg directory.Registration) (*model.Account, error)
	GetAccount(ctx context.Context, username model.Username) (*model.Account, error)
	EmailDomain() string
}

// Sessions is the session surface the handlers use
type Sessions interface {
	Login(ctx context.Context, username, password string) (*auth.Session, error)
	Logout(token string)
}

// AccountHandler handles account endpoints
type AccountHandler struct {
	directory Directory
	sessions  Sessions
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(dir Directory, sessions Sessions) *AccountHandler {
	return &AccountHandler{
		directory: dir,
		sessions:  sessions,
	}
}

// Register handles POST /api/v1/accounts/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	reg := directory.Registration{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Role:     req.Role,
	}
	rating, err := req.Rating.Parse("rating")
	if err != nil {
		// Report earlier problems first
		if _, vErr := reg.Validate(h.directory.EmailDomain()); vErr != nil {
			WriteError(w, vErr)
			return
		}
		WriteError(w, err)
		return
	}
	reg.Rating = rating

	account, err := h.directory.Register(r.Context(), reg)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AccountFromModel(account))
}

// Login handles POST /api/v1/accounts/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Logout handles POST /api/v1/accounts/logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(middleware.ExtractToken(r))
	http.SetCookie(w, &http.Cookie{
		Name:   middleware.SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	response.NoContent(w)
}

// GetMe handles GET /api/v1/accounts/me. The account is re-read so rating
// and role are current.
func (h *AccountHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())

	account, err := h.directory.GetAccount(r.Context(), username)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AccountFromModel(account))
}
