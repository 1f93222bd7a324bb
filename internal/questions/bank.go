package questions

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/swipehq/interview-assistant/internal/models"
)

// DifficultyOrder is the canonical sequence of a six-question set.
var DifficultyOrder = []models.Difficulty{
	models.DifficultyEasy, models.DifficultyEasy,
	models.DifficultyMedium, models.DifficultyMedium,
	models.DifficultyHard, models.DifficultyHard,
}

// TimerSeconds is the fixed per-difficulty time budget.
var TimerSeconds = map[models.Difficulty]int{
	models.DifficultyEasy:   20,
	models.DifficultyMedium: 60,
	models.DifficultyHard:   120,
}

type template struct {
	prompt     string
	difficulty models.Difficulty
	keywords   []string
}

var bank = []template{
	{
		"Explain how you would manage global state in a React application that needs offline persistence.",
		models.DifficultyEasy,
		[]string{"redux", "persist", "context"},
	},
	{
		"What strategies do you use to optimise React rendering performance?",
		models.DifficultyEasy,
		[]string{"memoization", "useMemo", "profiling"},
	},
	{
		"How do you secure sensitive environment configuration across React and Node deployments?",
		models.DifficultyEasy,
		[]string{"environment variables", "secrets", "vault"},
	},
	{
		"Describe how you would design an Express middleware pipeline to handle authentication and rate limiting.",
		models.DifficultyMedium,
		[]string{"middleware", "jwt", "rate limiting"},
	},
	{
		"How do you structure a REST API in Node.js to support versioning and backward compatibility?",
		models.DifficultyMedium,
		[]string{"versioning", "routing", "backward compatibility"},
	},
	{
		"Explain your debugging process when a React/Node feature regresses after deployment.",
		models.DifficultyMedium,
		[]string{"observability", "logs", "rollback"},
	},
	{
		"Walk through your approach to designing a production-ready CI/CD workflow for a full-stack application.",
		models.DifficultyHard,
		[]string{"ci/cd", "testing", "deployment"},
	},
	{
		"Discuss how you would architect a scalable real-time notification system for a dashboard product.",
		models.DifficultyHard,
		[]string{"websockets", "scaling", "queues"},
	},
	{
		"Describe how you would split a monolithic Node backend into scalable microservices.",
		models.DifficultyHard,
		[]string{"microservices", "communication", "observability"},
	},
}

func byDifficulty(d models.Difficulty) []template {
	var out []template
	for _, t := range bank {
		if t.difficulty == d {
			out = append(out, t)
		}
	}
	return out
}

// pick samples count templates uniformly without replacement, wrapping around
// via modulo when the pool is smaller than count.
func pick(rng *rand.Rand, templates []template, count int) []template {
	if len(templates) == 0 {
		return nil
	}
	pool := append([]template(nil), templates...)
	var selected []template
	for len(selected) < count && len(pool) > 0 {
		i := rng.Intn(len(pool))
		selected = append(selected, pool[i])
		pool = append(pool[:i], pool[i+1:]...)
	}
	for len(selected) < count {
		selected = append(selected, templates[len(selected)%len(templates)])
	}
	return selected
}

// Fallback builds a six-question set from the static bank: two per difficulty
// in canonical order. Prompt choice is randomized; count and difficulty order
// are not.
func Fallback(rng *rand.Rand) []models.Question {
	var ordered []template
	ordered = append(ordered, pick(rng, byDifficulty(models.DifficultyEasy), 2)...)
	ordered = append(ordered, pick(rng, byDifficulty(models.DifficultyMedium), 2)...)
	ordered = append(ordered, pick(rng, byDifficulty(models.DifficultyHard), 2)...)

	out := make([]models.Question, len(ordered))
	for i, t := range ordered {
		out[i] = models.Question{
			ID:         uuid.NewString(),
			Prompt:     t.prompt,
			Difficulty: t.difficulty,
			Keywords:   append([]string(nil), t.keywords...),
			MaxTime:    TimerSeconds[t.difficulty],
			Order:      i + 1,
		}
	}
	return out
}
