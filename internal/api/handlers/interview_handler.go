package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/swipehq/interview-assistant/internal/models"
	"github.com/swipehq/interview-assistant/internal/services"
	"github.com/swipehq/interview-assistant/internal/utils"
)

type InterviewHandler struct {
	svc services.InterviewService
}

func NewInterviewHandler(svc services.InterviewService) *InterviewHandler {
	return &InterviewHandler{svc: svc}
}

// UploadResume starts a fresh session from a multipart resume upload. Clients
// that extract text locally may send it in the "text" field; otherwise the
// raw document goes through the server-side extractor.
func (h *InterviewHandler) UploadResume(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.UploadResume", "missing multipart field 'file'", err))
		return
	}
	if fh.Size <= 0 || fh.Size > 10<<20 {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.UploadResume", "file too large (max 10MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "InterviewHandler.UploadResume", "failed to open upload", err))
		return
	}
	defer file.Close()

	mimeType := fh.Header.Get("Content-Type")
	state, err := h.svc.StartFromResume(c.Request.Context(), services.StartUpload{
		FileName: fh.Filename,
		MimeType: mimeType,
		FileSize: int(fh.Size),
		Text:     c.PostForm("text"),
		File:     file,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// Get returns the live session snapshot.
func (h *InterviewHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.State())
}

type profileFieldReq struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value" binding:"required"`
}

func (h *InterviewHandler) SubmitProfileField(c *gin.Context) {
	var req profileFieldReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.SubmitProfileField", "field and value are required", err))
		return
	}

	field := models.RequiredField(strings.ToLower(strings.TrimSpace(req.Field)))
	switch field {
	case models.FieldName, models.FieldEmail, models.FieldPhone:
	default:
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.SubmitProfileField", "field must be name, email or phone", nil))
		return
	}

	state, err := h.svc.SubmitProfileField(c.Request.Context(), field, req.Value)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type answerReq struct {
	Answer string `json:"answer"`
}

func (h *InterviewHandler) SubmitAnswer(c *gin.Context) {
	var req answerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.SubmitAnswer", "invalid body", err))
		return
	}

	state, err := h.svc.SubmitAnswer(c.Request.Context(), req.Answer)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SaveDraft keeps the latest in-progress answer so expiry auto-submits it.
func (h *InterviewHandler) SaveDraft(c *gin.Context) {
	var req answerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.SaveDraft", "invalid body", err))
		return
	}

	h.svc.SetAnswerDraft(req.Answer)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *InterviewHandler) Reset(c *gin.Context) {
	if err := h.svc.Reset(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.State())
}
