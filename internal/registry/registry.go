// Package registry maintains the in-memory ranked collection of completed
// candidate records. Ordering is recomputed in full on every upsert: score
// descending, ties broken by completion time descending.
package registry

import (
	"sort"

	"github.com/swipehq/interview-assistant/internal/models"
)

type Registry struct {
	items map[string]models.CandidateRecord
	order []string
}

func New() *Registry {
	return &Registry{items: map[string]models.CandidateRecord{}}
}

// Upsert inserts or overwrites the record at its id and recomputes the rank
// order over all records. Upserting an unchanged record leaves the order
// untouched.
func (r *Registry) Upsert(record models.CandidateRecord) {
	if _, ok := r.items[record.ID]; !ok {
		r.order = append(r.order, record.ID)
	}
	r.items[record.ID] = record

	sort.SliceStable(r.order, func(i, j int) bool {
		left, right := r.items[r.order[i]], r.items[r.order[j]]
		if left.Score != right.Score {
			return left.Score > right.Score
		}
		return left.CompletedAt.After(right.CompletedAt)
	})
}

// Get looks a record up by id.
func (r *Registry) Get(id string) (models.CandidateRecord, bool) {
	record, ok := r.items[id]
	return record, ok
}

// Ranked returns all records in rank order.
func (r *Registry) Ranked() []models.CandidateRecord {
	out := make([]models.CandidateRecord, 0, len(r.order))
	for _, id := range r.order {
		if record, ok := r.items[id]; ok {
			out = append(out, record)
		}
	}
	return out
}

func (r *Registry) Len() int { return len(r.items) }

// Clear empties the registry.
func (r *Registry) Clear() {
	r.items = map[string]models.CandidateRecord{}
	r.order = nil
}
