package resume

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/swipehq/interview-assistant/internal/models"
)

const summarySystemPrompt = `You are an expert technical recruiter. Summarize a candidate's resume into a short paragraph (max 60 words) highlighting role focus, seniority, standout achievements, and key technologies. Respond ONLY with natural language sentences.`

const (
	summaryTimeout    = 6 * time.Second
	summarySnippetMax = 4000
)

// Generator matches the question source's generation contract.
type Generator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
}

// Summarizer produces the short recruiter-style resume summary. Failure is
// never surfaced: the summary is simply absent.
type Summarizer struct {
	gen Generator
	log *logrus.Logger
}

func NewSummarizer(gen Generator, log *logrus.Logger) *Summarizer {
	return &Summarizer{gen: gen, log: log}
}

var fencedBlock = regexp.MustCompile("(?s)```.*?```")

// Summarize returns the summary, or "" when unavailable.
func (s *Summarizer) Summarize(ctx context.Context, profile models.CandidateProfile, resumeText string) string {
	if s.gen == nil || resumeText == "" {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()

	text, err := s.gen.GenerateContent(ctx, summarySystemPrompt, buildSummaryPrompt(profile, resumeText))
	if err != nil {
		if s.log != nil {
			s.log.WithError(err).Warn("resume summarization failed")
		}
		return ""
	}
	return strings.TrimSpace(fencedBlock.ReplaceAllString(text, ""))
}

func buildSummaryPrompt(profile models.CandidateProfile, resumeText string) string {
	var basics []string
	if profile.Name != "" {
		basics = append(basics, "Name: "+profile.Name)
	}
	if profile.Email != "" {
		basics = append(basics, "Email: "+profile.Email)
	}
	if profile.Phone != "" {
		basics = append(basics, "Phone: "+profile.Phone)
	}
	snippet := resumeText
	if len(snippet) > summarySnippetMax {
		snippet = snippet[:summarySnippetMax]
	}
	return strings.TrimSpace(strings.Join(basics, "\n") + "\nResume:\n" + snippet)
}
