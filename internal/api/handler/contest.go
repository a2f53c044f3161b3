package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/judgecore/internal/api/middleware"
	"github.com/mcoot/judgecore/internal/api/request"
	"github.com/mcoot/judgecore/internal/api/response"
	"github.com/mcoot/judgecore/internal/dependencies/clock"
	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/services/contest"
)

// ContestHandler handles contest endpoints
type ContestHandler struct {
	contestService *contest.Service
	clock          clock.Clock
}

// NewContestHandler creates a new contest handler
func NewContestHandler(contestService *contest.Service, clk clock.Clock) *ContestHandler {
	return &ContestHandler{
		contestService: contestService,
		clock:          clk,
	}
}

func contestID(r *http.Request) model.ContestID {
	return model.ContestID(mux.Vars(r)["contestID"])
}

// Get handles GET /api/v1/contests/{contestID}
func (h *ContestHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.contestService.Get(r.Context(), middleware.GetRequester(r.Context()), contestID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ContestFromModel(c, h.clock.Now()))
}

// Update handles PATCH /api/v1/contests/{contestID}
func (h *ContestHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateContestRequest
	if !decode(w, r, &req) {
		return
	}

	c, warning, err := h.contestService.Update(r.Context(), middleware.GetRequester(r.Context()), contestID(r), contest.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Private:     req.Private,
		BeginTime:   req.BeginTime,
		EndTime:     req.EndTime,
		Problems:    problemIDs(req.Problems),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ContestUpdateResponse{
		Contest: response.ContestFromModel(c, h.clock.Now()),
		Warning: warning,
	})
}

// Register handles POST /api/v1/contests/{contestID}/register
func (h *ContestHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := h.contestService.Register(r.Context(), middleware.GetRequester(r.Context()), contestID(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// SetParticipant handles PUT /api/v1/contests/{contestID}/participants/{userID}.
// An empty role removes the participant.
func (h *ContestHandler) SetParticipant(w http.ResponseWriter, r *http.Request) {
	var req request.SetRoleRequest
	if !decode(w, r, &req) {
		return
	}

	role, err := model.ParseContestRole(req.Role)
	if err != nil {
		WriteError(w, err)
		return
	}

	userID := model.UserID(mux.Vars(r)["userID"])
	if err := h.contestService.SetParticipant(r.Context(), middleware.GetRequester(r.Context()), contestID(r), userID, role); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Participants handles GET /api/v1/contests/{contestID}/participants
func (h *ContestHandler) Participants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.contestService.Participants(r.Context(), middleware.GetRequester(r.Context()), contestID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.List(w, participants)
}

// Permissions handles GET /api/v1/contests/{contestID}/permissions. Each
// capability query parameter is evaluated; with none, every capability is.
func (h *ContestHandler) Permissions(w http.ResponseWriter, r *http.Request) {
	id := contestID(r)

	var caps []model.Capability
	for _, c := range r.URL.Query()["capability"] {
		caps = append(caps, model.Capability(c))
	}

	perms, err := h.contestService.Permissions(r.Context(), middleware.GetRequester(r.Context()), id, caps)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Live(w, http.StatusOK, response.PermissionsResponse{ContestID: id, Permissions: perms})
}

// Standings handles GET /api/v1/contests/{contestID}/standings
func (h *ContestHandler) Standings(w http.ResponseWriter, r *http.Request) {
	id := contestID(r)

	rows, err := h.contestService.Standings(r.Context(), middleware.GetRequester(r.Context()), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Live(w, http.StatusOK, response.StandingsFromRows(id, rows))
}
