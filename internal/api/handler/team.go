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
	"github.com/mcoot/judgecore/internal/services/problem"
	"github.com/mcoot/judgecore/internal/services/team"
)

// TeamHandler handles team endpoints and the team-owned problem and contest collections
type TeamHandler struct {
	teamService    *team.Service
	problemService *problem.Service
	contestService *contest.Service
	clock          clock.Clock
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService *team.Service, problemService *problem.Service, contestService *contest.Service, clk clock.Clock) *TeamHandler {
	return &TeamHandler{
		teamService:    teamService,
		problemService: problemService,
		contestService: contestService,
		clock:          clk,
	}
}

// Create handles POST /api/v1/teams
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTeamRequest
	if !decode(w, r, &req) {
		return
	}

	t, err := h.teamService.Create(r.Context(), middleware.GetRequester(r.Context()), team.CreateInput{
		Name:    req.Name,
		Private: req.Private,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, t)
}

// Get handles GET /api/v1/teams/{teamID}
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.TeamID(mux.Vars(r)["teamID"])

	t, err := h.teamService.Get(r.Context(), middleware.GetRequester(r.Context()), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, t)
}

// Members handles GET /api/v1/teams/{teamID}/members
func (h *TeamHandler) Members(w http.ResponseWriter, r *http.Request) {
	id := model.TeamID(mux.Vars(r)["teamID"])

	members, err := h.teamService.Members(r.Context(), middleware.GetRequester(r.Context()), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.List(w, members)
}

// SetMember handles PUT /api/v1/teams/{teamID}/members/{userID}.
// An empty role removes the member.
func (h *TeamHandler) SetMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req request.SetRoleRequest
	if !decode(w, r, &req) {
		return
	}

	role, err := model.ParseTeamRole(req.Role)
	if err != nil {
		WriteError(w, err)
		return
	}

	err = h.teamService.SetMember(r.Context(), middleware.GetRequester(r.Context()),
		model.TeamID(vars["teamID"]), model.UserID(vars["userID"]), role)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// CreateProblem handles POST /api/v1/teams/{teamID}/problems
func (h *TeamHandler) CreateProblem(w http.ResponseWriter, r *http.Request) {
	id := model.TeamID(mux.Vars(r)["teamID"])

	var req request.CreateProblemRequest
	if !decode(w, r, &req) {
		return
	}

	p, err := h.problemService.Create(r.Context(), middleware.GetRequester(r.Context()), id, problem.CreateInput{
		Title:       req.Title,
		Private:     req.Private,
		AllowSubmit: req.AllowSubmit,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, p)
}

// CreateContest handles POST /api/v1/teams/{teamID}/contests
func (h *TeamHandler) CreateContest(w http.ResponseWriter, r *http.Request) {
	id := model.TeamID(mux.Vars(r)["teamID"])

	var req request.CreateContestRequest
	if !decode(w, r, &req) {
		return
	}

	c, err := h.contestService.Create(r.Context(), middleware.GetRequester(r.Context()), id, contest.CreateInput{
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

	response.Created(w, response.ContestFromModel(c, h.clock.Now()))
}

func problemIDs(ids []string) []model.ProblemID {
	if ids == nil {
		return nil
	}
	out := make([]model.ProblemID, len(ids))
	for i, id := range ids {
		out[i] = model.ProblemID(id)
	}
	return out
}
