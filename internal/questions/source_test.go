package questions

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/swipehq/interview-assistant/internal/models"
)

type stubGenerator struct {
	response string
	err      error
	called   bool
}

func (g *stubGenerator) GenerateContent(_ context.Context, _, _ string) (string, error) {
	g.called = true
	return g.response, g.err
}

func generatorJSON(t *testing.T, difficulties []string, keywords [][]string) string {
	t.Helper()
	var set generatedSet
	for i, d := range difficulties {
		kw := []string{"topic"}
		if i < len(keywords) {
			kw = keywords[i]
		}
		set.Questions = append(set.Questions, generatedQuestion{
			Prompt:     "Generated question",
			Difficulty: d,
			Keywords:   kw,
		})
	}
	b, err := json.Marshal(set)
	require.NoError(t, err)
	return string(b)
}

func canonical() []string {
	return []string{"easy", "easy", "medium", "medium", "hard", "hard"}
}

func requireCanonicalShape(t *testing.T, qs []models.Question) {
	t.Helper()
	require.Len(t, qs, 6)
	for i, q := range qs {
		require.Equal(t, DifficultyOrder[i], q.Difficulty, "position %d", i)
		require.Equal(t, TimerSeconds[q.Difficulty], q.MaxTime, "position %d", i)
		require.Equal(t, i+1, q.Order)
		require.NotEmpty(t, q.ID)
		require.NotEmpty(t, q.Prompt)
	}
}

func TestGenerateUsesGeneratorOutput(t *testing.T) {
	gen := &stubGenerator{response: generatorJSON(t, canonical(), nil)}
	src := NewSource(gen, nil)

	qs := src.Generate(context.Background(), models.CandidateProfile{Name: "Jane"}, "resume text")

	require.True(t, gen.called)
	requireCanonicalShape(t, qs)
	require.Equal(t, "Generated question", qs[0].Prompt)
}

func TestGenerateParsesFencedJSON(t *testing.T) {
	gen := &stubGenerator{response: "```json\n" + generatorJSON(t, canonical(), nil) + "\n```"}
	src := NewSource(gen, nil)

	qs := src.Generate(context.Background(), models.CandidateProfile{}, "")
	requireCanonicalShape(t, qs)
	require.Equal(t, "Generated question", qs[0].Prompt)
}

func TestGenerateFallsBackOnError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exceeded")}
	src := NewSource(gen, nil)
	src.SetRand(rand.New(rand.NewSource(1)))

	qs := src.Generate(context.Background(), models.CandidateProfile{}, "")
	requireCanonicalShape(t, qs)
}

func TestGenerateFallsBackOnShortSet(t *testing.T) {
	gen := &stubGenerator{response: generatorJSON(t, []string{"easy", "medium", "hard"}, nil)}
	src := NewSource(gen, nil)
	src.SetRand(rand.New(rand.NewSource(1)))

	qs := src.Generate(context.Background(), models.CandidateProfile{}, "")
	requireCanonicalShape(t, qs)
	// fallback prompts come from the static bank, not the generator
	require.NotEqual(t, "Generated question", qs[0].Prompt)
}

func TestGenerateFallsBackOnInvalidJSON(t *testing.T) {
	gen := &stubGenerator{response: "sorry, I cannot help with that"}
	src := NewSource(gen, nil)
	src.SetRand(rand.New(rand.NewSource(1)))

	requireCanonicalShape(t, src.Generate(context.Background(), models.CandidateProfile{}, ""))
}

func TestGenerateWithNilGeneratorUsesBank(t *testing.T) {
	src := NewSource(nil, nil)
	src.SetRand(rand.New(rand.NewSource(1)))
	requireCanonicalShape(t, src.Generate(context.Background(), models.CandidateProfile{}, ""))
}

func TestReconcileForceRelabelsMismatchedOrder(t *testing.T) {
	// generator emitted a valid distribution in the wrong order: every
	// position gets the canonical difficulty instead
	gen := &stubGenerator{response: generatorJSON(t, []string{"hard", "hard", "medium", "medium", "easy", "easy"}, nil)}
	src := NewSource(gen, nil)

	requireCanonicalShape(t, src.Generate(context.Background(), models.CandidateProfile{}, ""))
}

func TestReconcileFillsUnparseableDifficultyFromPosition(t *testing.T) {
	gen := &stubGenerator{response: generatorJSON(t, []string{"easy", "trivial", "medium", "medium", "hard", "hard"}, nil)}
	src := NewSource(gen, nil)

	requireCanonicalShape(t, src.Generate(context.Background(), models.CandidateProfile{}, ""))
}

func TestSanitizeKeywordsTrimsAndCaps(t *testing.T) {
	keywords := [][]string{{" redux ", "", "persist", "context", "hooks", "state", "overflow"}}
	gen := &stubGenerator{response: generatorJSON(t, canonical(), keywords)}
	src := NewSource(gen, nil)

	qs := src.Generate(context.Background(), models.CandidateProfile{}, "")
	require.Equal(t, []string{"redux", "persist", "context", "hooks", "state"}, qs[0].Keywords)
}

func TestFallbackShape(t *testing.T) {
	qs := Fallback(rand.New(rand.NewSource(42)))
	requireCanonicalShape(t, qs)

	seen := map[string]bool{}
	for _, q := range qs {
		require.False(t, seen[q.Prompt], "duplicate prompt %q", q.Prompt)
		seen[q.Prompt] = true
		require.NotEmpty(t, q.Keywords)
	}
}
