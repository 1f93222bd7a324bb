// Package questions produces the six-question interview set: two easy, two
// medium, two hard, in that order. An external generator provides tailored
// questions; any failure degrades to the static bank, never to an error.
package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/swipehq/interview-assistant/internal/models"
)

const systemPrompt = `You are Swipe's technical interview assistant. Generate exactly six full-stack interview questions (React + Node.js focus).
Return ONLY valid JSON with this shape:
{
  "questions": [
    {
      "prompt": string,
      "difficulty": "easy" | "medium" | "hard",
      "keywords": string[]
    }
  ]
}
Rules:
- Two questions per difficulty in this order: easy, easy, medium, medium, hard, hard.
- Prompts must be concise but specific to technical depth.
- Provide 3-5 focus keywords per question.
- Do not include explanations or markdown fences.`

const (
	defaultTimeout   = 6 * time.Second
	maxKeywords      = 5
	resumeSnippetMax = 1200
)

// Generator is the narrow contract with the external text-generation service.
type Generator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
}

type generatedQuestion struct {
	Prompt     string   `json:"prompt"`
	Difficulty string   `json:"difficulty"`
	Keywords   []string `json:"keywords"`
}

type generatedSet struct {
	Questions []generatedQuestion `json:"questions"`
}

// Source builds question sets. A nil generator always uses the fallback bank.
type Source struct {
	gen     Generator
	log     *logrus.Logger
	rng     *rand.Rand
	timeout time.Duration
}

func NewSource(gen Generator, log *logrus.Logger) *Source {
	return &Source{
		gen:     gen,
		log:     log,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		timeout: defaultTimeout,
	}
}

// SetTimeout overrides the generation deadline.
func (s *Source) SetTimeout(d time.Duration) { s.timeout = d }

// SetRand overrides the fallback sampling source.
func (s *Source) SetRand(rng *rand.Rand) { s.rng = rng }

// Generate returns exactly six ordered questions. It never fails: the only
// observable degradation is that the static bank was used.
func (s *Source) Generate(ctx context.Context, profile models.CandidateProfile, resumeText string) []models.Question {
	if s.gen == nil {
		return Fallback(s.rng)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.gen.GenerateContent(ctx, systemPrompt, buildUserPrompt(profile, resumeText))
	if err != nil {
		s.warn("question generation failed, using static bank", err)
		return Fallback(s.rng)
	}

	parsed, ok := parseQuestionJSON(text)
	if !ok || len(parsed.Questions) < 6 {
		s.warn("generator returned insufficient questions, using static bank", nil)
		return Fallback(s.rng)
	}

	return reconcile(parsed.Questions[:6])
}

// reconcile maps raw generator entries onto the canonical difficulty order.
// An unparseable difficulty takes the position's canonical one; if any entry
// still mismatches its position afterwards, all six are force-relabeled so the
// two-two-two distribution is never violated.
func reconcile(raw []generatedQuestion) []models.Question {
	mapped := make([]models.Question, len(raw))
	for i, item := range raw {
		difficulty, ok := parseDifficulty(item.Difficulty)
		if !ok {
			difficulty = DifficultyOrder[i]
		}
		prompt := strings.TrimSpace(item.Prompt)
		if prompt == "" {
			prompt = fmt.Sprintf("Placeholder question %d", i+1)
		}
		mapped[i] = models.Question{
			ID:         uuid.NewString(),
			Prompt:     prompt,
			Difficulty: difficulty,
			Keywords:   sanitizeKeywords(item.Keywords),
			MaxTime:    TimerSeconds[difficulty],
			Order:      i + 1,
		}
	}

	for i := range mapped {
		if mapped[i].Difficulty != DifficultyOrder[i] {
			for j := range mapped {
				mapped[j].Difficulty = DifficultyOrder[j]
				mapped[j].MaxTime = TimerSeconds[DifficultyOrder[j]]
			}
			break
		}
	}
	return mapped
}

func parseDifficulty(value string) (models.Difficulty, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch {
	case strings.Contains(normalized, "easy"):
		return models.DifficultyEasy, true
	case strings.Contains(normalized, "medium"):
		return models.DifficultyMedium, true
	case strings.Contains(normalized, "hard"):
		return models.DifficultyHard, true
	}
	return "", false
}

func sanitizeKeywords(keywords []string) []string {
	out := make([]string, 0, maxKeywords)
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		out = append(out, kw)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}

var fencedJSON = regexp.MustCompile("(?is)```json(.*?)```")

func parseQuestionJSON(text string) (generatedSet, bool) {
	raw := text
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		raw = m[1]
	}
	var parsed generatedSet
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return generatedSet{}, false
	}
	return parsed, true
}

func buildUserPrompt(profile models.CandidateProfile, resumeText string) string {
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

	prompt := "Interview the candidate for a senior full-stack (React + Node.js) role. Tailor the questions using their profile when available.\n" +
		strings.Join(basics, "\n")
	if resumeText != "" {
		snippet := resumeText
		if len(snippet) > resumeSnippetMax {
			snippet = snippet[:resumeSnippetMax]
		}
		prompt += "\nCandidate resume excerpt:\n" + snippet
	}
	return strings.TrimSpace(prompt)
}

func (s *Source) warn(msg string, err error) {
	if s.log == nil {
		return
	}
	entry := s.log.WithField("component", "question_source")
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Warn(msg)
}
