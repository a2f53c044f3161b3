package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/judgecore/internal/api/middleware"
	"github.com/mcoot/judgecore/internal/api/request"
	"github.com/mcoot/judgecore/internal/api/response"
	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/services/chat"
)

// ChatHandler handles chat room endpoints
type ChatHandler struct {
	chatService *chat.Service
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *chat.Service) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// CreateRoom handles POST /api/v1/rooms
func (h *ChatHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if !decode(w, r, &req) {
		return
	}

	room, err := h.chatService.CreateRoom(r.Context(), middleware.GetRequester(r.Context()), chat.RoomInput{
		Name:    req.Name,
		Private: req.Private,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, room)
}

// Join handles POST /api/v1/rooms/{roomID}/join
func (h *ChatHandler) Join(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["roomID"])

	if err := h.chatService.JoinRoom(r.Context(), middleware.GetRequester(r.Context()), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Send handles POST /api/v1/rooms/{roomID}/messages
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["roomID"])

	var req request.MessageRequest
	if !decode(w, r, &req) {
		return
	}

	msg, err := h.chatService.SendRoomMessage(r.Context(), middleware.GetRequester(r.Context()), id, req.Content)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, msg)
}

// History handles GET /api/v1/rooms/{roomID}/messages
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["roomID"])

	msgs, err := h.chatService.RoomHistory(r.Context(), middleware.GetRequester(r.Context()), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.List(w, msgs)
}
