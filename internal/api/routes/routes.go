package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/swipehq/interview-assistant/internal/api/handlers"
)

type Deps struct {
	Interview *handlers.InterviewHandler
	Candidate *handlers.CandidateHandler
	WS        *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.POST("/interview/resume", d.Interview.UploadResume)
	r.GET("/interview", d.Interview.Get)
	r.POST("/interview/profile", d.Interview.SubmitProfileField)
	r.POST("/interview/answer", d.Interview.SubmitAnswer)
	r.POST("/interview/draft", d.Interview.SaveDraft)
	r.POST("/interview/reset", d.Interview.Reset)

	r.GET("/candidates", d.Candidate.List)
	r.GET("/candidates/:candidate_id", d.Candidate.Get)
	r.DELETE("/candidates", d.Candidate.WipeAll)

	// WebSocket
	r.GET("/ws/interview", d.WS.InterviewWS)
}
