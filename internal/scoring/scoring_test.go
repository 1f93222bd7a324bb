package scoring

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/swipehq/interview-assistant/internal/models"
)

func sessionWith(questions []models.Question, transcript []models.TranscriptEntry) models.InterviewSession {
	return models.InterviewSession{
		Profile:    models.CandidateProfile{Name: "Jane Doe", Email: "jane@example.com", Phone: "+14155550101"},
		Questions:  questions,
		Transcript: transcript,
	}
}

func answerOfWords(n int, seed ...string) string {
	words := append([]string{}, seed...)
	for len(words) < n {
		words = append(words, "detail")
	}
	return strings.Join(words[:n], " ")
}

func TestScoreEntryPartialCoverage(t *testing.T) {
	q := models.Question{
		ID: "q1", Difficulty: models.DifficultyEasy, MaxTime: 20,
		Keywords: []string{"redux", "persist", "context"},
	}
	// 2/3 keywords, 40 words (past the 35-word easy target), 15s of 20s used:
	// factor = 0.5*(2/3) + 0.3*1 + 0.2*0.75 = 0.7833 -> round(12*0.7833) = 9
	answer := answerOfWords(40, "we", "used", "redux", "with", "persist")
	eval := Evaluate(sessionWith([]models.Question{q}, []models.TranscriptEntry{
		{QuestionID: "q1", Answer: answer, ElapsedMs: 15000},
	}))

	require.Len(t, eval.Entries, 1)
	entry := eval.Entries[0]
	require.Equal(t, 9, entry.Score)
	require.Equal(t, 12, entry.Weight)
	require.Equal(t, []string{"redux", "persist"}, entry.MatchedKeywords)
	require.Equal(t, "Touched on redux, persist; expand on remaining areas.", entry.Notes)
	require.Equal(t, 9, eval.TotalScore)
}

func TestScoreEntryFullCoverage(t *testing.T) {
	q := models.Question{
		ID: "q1", Difficulty: models.DifficultyMedium, MaxTime: 60,
		Keywords: []string{"middleware", "jwt"},
	}
	answer := answerOfWords(55, "the", "middleware", "chain", "verifies", "jwt", "tokens")
	eval := Evaluate(sessionWith([]models.Question{q}, []models.TranscriptEntry{
		{QuestionID: "q1", Answer: answer, ElapsedMs: 60000},
	}))

	// coverage 1, length 1, pace 1 -> full medium weight
	require.Equal(t, 17, eval.Entries[0].Score)
	require.Equal(t, "Comprehensive answer covering all focus areas.", eval.Entries[0].Notes)
}

func TestAutoSubmittedEmptyAnswerScoresZero(t *testing.T) {
	q := models.Question{
		ID: "q1", Difficulty: models.DifficultyHard, MaxTime: 120,
		Keywords: []string{"ci/cd", "testing"},
	}
	eval := Evaluate(sessionWith([]models.Question{q}, []models.TranscriptEntry{
		{QuestionID: "q1", Answer: "", ElapsedMs: 120000, AutoSubmitted: true},
	}))

	entry := eval.Entries[0]
	require.Equal(t, 0, entry.Score)
	require.Contains(t, entry.Notes, "Needs stronger coverage on ci/cd, testing.")
	require.Contains(t, entry.Notes, "Response auto-submitted when time expired.")
}

func TestAutoSubmitZeroesPaceOnly(t *testing.T) {
	q := models.Question{
		ID: "q1", Difficulty: models.DifficultyEasy, MaxTime: 20,
		Keywords: []string{"redux"},
	}
	answer := answerOfWords(35, "redux", "everywhere")
	manual := Evaluate(sessionWith([]models.Question{q}, []models.TranscriptEntry{
		{QuestionID: "q1", Answer: answer, ElapsedMs: 20000},
	}))
	auto := Evaluate(sessionWith([]models.Question{q}, []models.TranscriptEntry{
		{QuestionID: "q1", Answer: answer, ElapsedMs: 20000, AutoSubmitted: true},
	}))

	// identical coverage and length; only the 0.2 pace term differs
	require.Equal(t, 12, manual.Entries[0].Score)
	require.Equal(t, 10, auto.Entries[0].Score)
}

func TestNoKeywordsNeutralCoverage(t *testing.T) {
	q := models.Question{ID: "q1", Difficulty: models.DifficultyEasy, MaxTime: 20}
	eval := Evaluate(sessionWith([]models.Question{q}, []models.TranscriptEntry{
		{QuestionID: "q1", Answer: answerOfWords(35), ElapsedMs: 20000},
	}))

	// coverage defaults to 0.5: factor = 0.25 + 0.3 + 0.2 = 0.75 -> 9
	require.Equal(t, 9, eval.Entries[0].Score)
}

func TestMissingQuestionReferenceScoresZero(t *testing.T) {
	eval := Evaluate(sessionWith(nil, []models.TranscriptEntry{
		{QuestionID: "ghost", Prompt: "gone", Answer: "anything"},
	}))

	require.Equal(t, 0, eval.Entries[0].Score)
	require.Equal(t, "Question reference missing.", eval.Entries[0].Notes)
}

func TestGapDesignationWinsOverStrength(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Difficulty: models.DifficultyEasy, MaxTime: 20, Keywords: []string{"redux", "persist"}},
		{ID: "q2", Difficulty: models.DifficultyEasy, MaxTime: 20, Keywords: []string{"redux", "context"}},
	}
	eval := Evaluate(sessionWith(questions, []models.TranscriptEntry{
		{QuestionID: "q1", Answer: "we lean on redux heavily", ElapsedMs: 10000},
		{QuestionID: "q2", Answer: "no relevant terms here", ElapsedMs: 10000},
	}))

	// q1 credits redux as a strength; q2 matches nothing so its lead keyword
	// (redux) flips to a gap, overriding the earlier credit.
	require.NotContains(t, eval.Strengths, "redux")
	require.Contains(t, eval.Gaps, "redux")
}

func TestSummaryUsesFirstNameAndBand(t *testing.T) {
	q := models.Question{
		ID: "q1", Difficulty: models.DifficultyHard, MaxTime: 120,
		Keywords: []string{"ci/cd"},
	}
	eval := Evaluate(sessionWith([]models.Question{q}, []models.TranscriptEntry{
		{QuestionID: "q1", Answer: answerOfWords(75, "ci/cd", "pipelines"), ElapsedMs: 120000},
	}))

	require.True(t, strings.HasPrefix(eval.Summary, "Jane demonstrated "))
	require.Contains(t, eval.Summary, "Strengths included ci/cd.")
}

func TestEvaluateIsDeterministic(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Difficulty: models.DifficultyEasy, MaxTime: 20, Keywords: []string{"redux", "persist"}},
		{ID: "q2", Difficulty: models.DifficultyMedium, MaxTime: 60, Keywords: []string{"jwt"}},
	}
	transcript := []models.TranscriptEntry{
		{QuestionID: "q1", Answer: "redux all day", ElapsedMs: 9000},
		{QuestionID: "q2", Answer: "", ElapsedMs: 60000, AutoSubmitted: true},
	}
	first := Evaluate(sessionWith(questions, transcript))
	second := Evaluate(sessionWith(questions, transcript))
	require.Equal(t, first, second)
}

func TestTotalStaysWithinBounds(t *testing.T) {
	var questions []models.Question
	var transcript []models.TranscriptEntry
	for i, d := range []models.Difficulty{
		models.DifficultyEasy, models.DifficultyEasy,
		models.DifficultyMedium, models.DifficultyMedium,
		models.DifficultyHard, models.DifficultyHard,
	} {
		q := models.Question{ID: fmt.Sprintf("q%d", i+1), Difficulty: d, MaxTime: 20, Keywords: []string{"go"}}
		questions = append(questions, q)
		transcript = append(transcript, models.TranscriptEntry{
			QuestionID: q.ID,
			Answer:     answerOfWords(100, "go", "go", "go"),
			ElapsedMs:  20000,
		})
	}

	eval := Evaluate(sessionWith(questions, transcript))
	require.GreaterOrEqual(t, eval.TotalScore, 0)
	require.LessOrEqual(t, eval.TotalScore, 100)
	for _, entry := range eval.Entries {
		require.GreaterOrEqual(t, entry.Score, 0)
		require.LessOrEqual(t, entry.Score, entry.Weight)
	}
}
