package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/judgecore/internal/api/middleware"
	"github.com/mcoot/judgecore/internal/api/request"
	"github.com/mcoot/judgecore/internal/api/response"
	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/services/judge"
	"github.com/mcoot/judgecore/internal/services/problem"
)

// ProblemHandler handles problem viewing and submission
type ProblemHandler struct {
	problemService *problem.Service
	judgeService   *judge.Service
}

// NewProblemHandler creates a new problem handler
func NewProblemHandler(problemService *problem.Service, judgeService *judge.Service) *ProblemHandler {
	return &ProblemHandler{
		problemService: problemService,
		judgeService:   judgeService,
	}
}

// Get handles GET /api/v1/problems/{problemID}. The optional contest_id query
// parameter views the problem through a contest.
func (h *ProblemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.ProblemID(mux.Vars(r)["problemID"])
	contestID := model.ContestID(r.URL.Query().Get("contest_id"))

	p, err := h.problemService.Get(r.Context(), middleware.GetRequester(r.Context()), id, contestID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, p)
}

// Submit handles POST /api/v1/problems/{problemID}/submissions
func (h *ProblemHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id := model.ProblemID(mux.Vars(r)["problemID"])

	var req request.SubmitRequest
	if !decode(w, r, &req) {
		return
	}

	record, err := h.judgeService.Submit(r.Context(), middleware.GetRequester(r.Context()), id, judge.SubmitInput{
		ContestID: model.ContestID(req.ContestID),
		Language:  req.Language,
		Code:      req.Code,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Submitted(w, string(record.ID), record)
}
