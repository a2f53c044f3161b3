package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/judgecore/internal/api/middleware"
	"github.com/mcoot/judgecore/internal/api/request"
	"github.com/mcoot/judgecore/internal/api/response"
	"github.com/mcoot/judgecore/internal/model"
	"github.com/mcoot/judgecore/internal/services/judge"
)

// RecordHandler handles submission record endpoints
type RecordHandler struct {
	judgeService *judge.Service
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(judgeService *judge.Service) *RecordHandler {
	return &RecordHandler{
		judgeService: judgeService,
	}
}

// Get handles GET /api/v1/records/{recordID}
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.RecordID(mux.Vars(r)["recordID"])

	record, err := h.judgeService.Get(r.Context(), middleware.GetRequester(r.Context()), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Live(w, http.StatusOK, record)
}

// UpdateVerdict handles PUT /api/v1/records/{recordID}/verdict
func (h *RecordHandler) UpdateVerdict(w http.ResponseWriter, r *http.Request) {
	id := model.RecordID(mux.Vars(r)["recordID"])

	var req request.VerdictRequest
	if !decode(w, r, &req) {
		return
	}

	record, err := h.judgeService.UpdateVerdict(r.Context(), middleware.GetRequester(r.Context()), id, judge.VerdictInput{
		Verdict:  model.Verdict(req.Verdict),
		Score:    req.Score,
		TimeMs:   req.TimeMs,
		MemoryKB: req.MemoryKB,
		Message:  req.Message,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Live(w, http.StatusOK, record)
}
