package handler

import (
	"net/http"

	"github.com/mcoot/judgecore/internal/api/middleware"
	"github.com/mcoot/judgecore/internal/api/request"
	"github.com/mcoot/judgecore/internal/api/response"
	"github.com/mcoot/judgecore/internal/services/auth"
)

// AuthHandler handles account endpoints
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	session, err := h.authService.Register(r.Context(), auth.Credentials{
		Username: req.Username,
		Password: req.Password,
		Nickname: req.Nickname,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.AuthResponseFromSession(session))
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		WriteError(w, NewInvalidRequestError("username and password are required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}
