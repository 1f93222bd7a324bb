// Package scoring grades a finished interview transcript. Evaluate is a pure
// function: identical input always yields identical output.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/swipehq/interview-assistant/internal/models"
)

var difficultyWeight = map[models.Difficulty]int{
	models.DifficultyEasy:   12,
	models.DifficultyMedium: 17,
	models.DifficultyHard:   21,
}

var targetWords = map[models.Difficulty]int{
	models.DifficultyEasy:   35,
	models.DifficultyMedium: 55,
	models.DifficultyHard:   75,
}

// Weight returns the score ceiling for a difficulty band.
func Weight(d models.Difficulty) int { return difficultyWeight[d] }

type EvaluatedEntry struct {
	Entry           models.TranscriptEntry `json:"entry"`
	Question        models.Question        `json:"question"`
	Score           int                    `json:"score"`
	Weight          int                    `json:"weight"`
	Factor          float64                `json:"factor"`
	Notes           string                 `json:"notes"`
	MatchedKeywords []string               `json:"matched_keywords"`
}

type Evaluation struct {
	TotalScore int              `json:"total_score"`
	Entries    []EvaluatedEntry `json:"entries"`
	Summary    string           `json:"summary"`
	Strengths  []string         `json:"strengths"`
	Gaps       []string         `json:"gaps"`
}

func clampTotal(sum int) int {
	if sum < 0 {
		return 0
	}
	if sum > 100 {
		return 100
	}
	return sum
}

func wordCount(s string) int {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0
	}
	return len(strings.Fields(trimmed))
}

func scoreEntry(answer string, q models.Question, autoSubmitted bool, elapsedMs int64) (score, weight int, factor float64, notes string, matched []string) {
	trimmed := strings.TrimSpace(answer)
	lower := strings.ToLower(trimmed)

	for _, kw := range q.Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}

	coverage := 0.5 // neutral when the question carries no keywords
	if len(q.Keywords) > 0 {
		coverage = float64(len(matched)) / float64(len(q.Keywords))
	}

	lengthScore := math.Min(float64(wordCount(trimmed))/float64(targetWords[q.Difficulty]), 1)

	paceScore := 0.0
	if !autoSubmitted && q.MaxTime > 0 {
		paceScore = math.Min(float64(elapsedMs)/float64(q.MaxTime*1000), 1)
	}

	factor = 0.5*coverage + 0.3*lengthScore + 0.2*paceScore
	factor = math.Max(0, math.Min(1, factor))
	weight = difficultyWeight[q.Difficulty]
	score = int(math.Round(float64(weight) * factor))

	switch {
	case len(matched) == 0:
		notes = fmt.Sprintf("Needs stronger coverage on %s.", strings.Join(q.Keywords, ", "))
	case len(matched) < len(q.Keywords):
		notes = fmt.Sprintf("Touched on %s; expand on remaining areas.", strings.Join(matched, ", "))
	default:
		notes = "Comprehensive answer covering all focus areas."
	}
	if autoSubmitted {
		notes += " Response auto-submitted when time expired."
	}
	return score, weight, factor, notes, matched
}

func bandDescriptor(score int) string {
	switch {
	case score >= 85:
		return "outstanding full-stack capability with confident communication"
	case score >= 70:
		return "solid hands-on experience across the stack"
	case score >= 55:
		return "promising core skills with room to deepen practical knowledge"
	default:
		return "foundational familiarity and strong motivation to keep improving"
	}
}

// orderedSet preserves insertion order so summaries are deterministic.
type orderedSet struct {
	items []string
	seen  map[string]bool
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]bool{}}
}

func (s *orderedSet) add(v string) {
	if s.seen[v] {
		return
	}
	s.seen[v] = true
	s.items = append(s.items, v)
}

func (s *orderedSet) remove(v string) {
	if !s.seen[v] {
		return
	}
	delete(s.seen, v)
	for i, item := range s.items {
		if item == v {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
}

func head(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	return items
}

func buildSummary(profile models.CandidateProfile, score int, entries []EvaluatedEntry) (summary string, strengths, gaps []string) {
	firstName := "The candidate"
	if profile.Name != "" {
		firstName = strings.Fields(profile.Name)[0]
	}

	strengthSet := newOrderedSet()
	gapSet := newOrderedSet()
	for _, item := range entries {
		for _, kw := range item.MatchedKeywords {
			strengthSet.add(kw)
		}
		// A question with zero matches flags its lead keyword as a gap; the
		// gap designation wins over any earlier strength credit.
		if len(item.MatchedKeywords) == 0 && len(item.Question.Keywords) > 0 {
			lead := item.Question.Keywords[0]
			strengthSet.remove(lead)
			gapSet.add(lead)
		}
	}

	strengths = strengthSet.items
	gaps = gapSet.items

	strengthsText := "Showed enthusiasm but should deepen core technical storytelling."
	if len(strengths) > 0 {
		strengthsText = fmt.Sprintf("Strengths included %s.", strings.Join(head(strengths, 3), ", "))
	}
	gapsText := "Covered the essential areas effectively."
	if len(gaps) > 0 {
		gapsText = fmt.Sprintf("Follow-up discussion on %s will be valuable.", strings.Join(head(gaps, 3), ", "))
	}

	summary = fmt.Sprintf("%s demonstrated %s. %s %s", firstName, bandDescriptor(score), strengthsText, gapsText)
	return summary, strengths, gaps
}

// Evaluate maps a finished session to per-question scores, an aggregate
// 0-100 score and a narrative summary.
func Evaluate(s models.InterviewSession) Evaluation {
	entries := make([]EvaluatedEntry, 0, len(s.Transcript))
	for _, entry := range s.Transcript {
		q := s.QuestionByID(entry.QuestionID)
		if q == nil {
			// Defensive: a stale transcript entry scores zero instead of
			// failing the whole evaluation.
			entries = append(entries, EvaluatedEntry{
				Entry: entry,
				Question: models.Question{
					ID:         entry.QuestionID,
					Prompt:     entry.Prompt,
					Difficulty: models.DifficultyEasy,
					Keywords:   []string{},
					MaxTime:    20,
				},
				Score:           0,
				Weight:          difficultyWeight[models.DifficultyEasy],
				Factor:          0,
				Notes:           "Question reference missing.",
				MatchedKeywords: []string{},
			})
			continue
		}
		score, weight, factor, notes, matched := scoreEntry(entry.Answer, *q, entry.AutoSubmitted, entry.ElapsedMs)
		entries = append(entries, EvaluatedEntry{
			Entry:           entry,
			Question:        *q,
			Score:           score,
			Weight:          weight,
			Factor:          factor,
			Notes:           notes,
			MatchedKeywords: matched,
		})
	}

	raw := 0
	for _, item := range entries {
		raw += item.Score
	}
	total := clampTotal(raw)
	summary, strengths, gaps := buildSummary(s.Profile, total, entries)

	return Evaluation{
		TotalScore: total,
		Entries:    entries,
		Summary:    summary,
		Strengths:  strengths,
		Gaps:       gaps,
	}
}
