package handler

import (
	"net/http"

	"github.com/mcoot/judgecore/internal/api/middleware"
	"github.com/mcoot/judgecore/internal/broadcast"
)

// EventsHandler upgrades clients to the broadcast WebSocket
type EventsHandler struct {
	transport *broadcast.Transport
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(transport *broadcast.Transport) *EventsHandler {
	return &EventsHandler{
		transport: transport,
	}
}

// Connect handles GET /api/v1/ws. Anonymous clients may connect; what they
// can subscribe to is up to the transport's authorizer.
func (h *EventsHandler) Connect(w http.ResponseWriter, r *http.Request) {
	h.transport.Serve(w, r, middleware.GetRequester(r.Context()))
}
