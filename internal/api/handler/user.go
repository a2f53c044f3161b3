package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/judgecore/internal/api/middleware"
	"github.com/mcoot/judgecore/internal/api/request"
	"github.com/mcoot/judgecore/internal/api/response"
	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/services/chat"
	"github.com/mcoot/judgecore/internal/services/user"
)

// UserHandler handles profile, role and private message endpoints
type UserHandler struct {
	userService *user.Service
	chatService *chat.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *user.Service, chatService *chat.Service) *UserHandler {
	return &UserHandler{
		userService: userService,
		chatService: chatService,
	}
}

// Get handles GET /api/v1/users/{userID}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.UserID(mux.Vars(r)["userID"])

	u, err := h.userService.GetProfile(r.Context(), middleware.GetRequester(r.Context()), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(u))
}

// Update handles PATCH /api/v1/users/{userID}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := model.UserID(mux.Vars(r)["userID"])

	var req request.UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := h.userService.UpdateProfile(r.Context(), middleware.GetRequester(r.Context()), id, user.ProfileUpdate{
		Nickname: req.Nickname,
		Bio:      req.Bio,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(u))
}

// SetRole handles PUT /api/v1/users/{userID}/role
func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	id := model.UserID(mux.Vars(r)["userID"])

	var req request.SetRoleRequest
	if !decode(w, r, &req) {
		return
	}

	role, err := model.ParseSystemRole(req.Role)
	if err != nil {
		WriteError(w, err)
		return
	}

	u, err := h.userService.SetRole(r.Context(), middleware.GetRequester(r.Context()), id, role)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(u))
}

// SendMessage handles POST /api/v1/users/{userID}/messages
func (h *UserHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	to := model.UserID(mux.Vars(r)["userID"])

	var req request.MessageRequest
	if !decode(w, r, &req) {
		return
	}

	msg, err := h.chatService.SendPrivateMessage(r.Context(), middleware.GetRequester(r.Context()), to, req.Content)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, msg)
}

// Messages handles GET /api/v1/users/{userID}/messages, the conversation
// between the requester and the given user
func (h *UserHandler) Messages(w http.ResponseWriter, r *http.Request) {
	with := model.UserID(mux.Vars(r)["userID"])

	msgs, err := h.chatService.PrivateHistory(r.Context(), middleware.GetRequester(r.Context()), with)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.List(w, msgs)
}
