package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swipehq/interview-assistant/internal/services"
	"github.com/swipehq/interview-assistant/internal/utils"
)

type CandidateHandler struct {
	svc       services.CandidateService
	interview services.InterviewService
}

func NewCandidateHandler(svc services.CandidateService, interview services.InterviewService) *CandidateHandler {
	return &CandidateHandler{svc: svc, interview: interview}
}

// List returns completed candidates, rank-ordered by default. Supports
// ?search= substring over name/email and ?sort=score|recent|name.
func (h *CandidateHandler) List(c *gin.Context) {
	records, err := h.svc.List(c.Request.Context(), c.Query("search"), c.Query("sort"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": records, "count": len(records)})
}

func (h *CandidateHandler) Get(c *gin.Context) {
	id := c.Param("candidate_id")
	if id == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CandidateHandler.Get", "missing candidate_id", nil))
		return
	}

	record, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// WipeAll destroys every completed record and discards the live session.
func (h *CandidateHandler) WipeAll(c *gin.Context) {
	if err := h.svc.WipeAll(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	if err := h.interview.Reset(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
