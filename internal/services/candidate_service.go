package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/swipehq/interview-assistant/internal/cache"
	"github.com/swipehq/interview-assistant/internal/models"
	"github.com/swipehq/interview-assistant/internal/registry"
	pgrepo "github.com/swipehq/interview-assistant/internal/repositories/postgres"
	"github.com/swipehq/interview-assistant/internal/utils"
)

const (
	SortByScore  = "score"
	SortByRecent = "recent"
	SortByName   = "name"
)

const (
	leaderboardCacheKey = "candidates:ranked"
	leaderboardCacheTTL = 30 * time.Second
)

type CandidateService interface {
	Hydrate(ctx context.Context) error
	SaveRecord(ctx context.Context, record models.CandidateRecord) error
	List(ctx context.Context, search, sortKey string) ([]models.CandidateRecord, error)
	Get(ctx context.Context, id string) (*models.CandidateRecord, error)
	WipeAll(ctx context.Context) error
}

type candidateService struct {
	mu    sync.RWMutex
	reg   *registry.Registry
	repo  pgrepo.CandidateRepository
	files pgrepo.ResumeFileRepository
	cache cache.Cache
	log   *logrus.Logger
}

func NewCandidateService(repo pgrepo.CandidateRepository, files pgrepo.ResumeFileRepository, c cache.Cache, log *logrus.Logger) CandidateService {
	return &candidateService{
		reg:   registry.New(),
		repo:  repo,
		files: files,
		cache: c,
		log:   log,
	}
}

// Hydrate rebuilds the in-memory ranking from the durable store.
func (s *candidateService) Hydrate(ctx context.Context) error {
	const op = "CandidateService.Hydrate"

	if s.repo == nil {
		return nil
	}
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to load candidate records", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range records {
		s.reg.Upsert(record)
	}
	return nil
}

func (s *candidateService) SaveRecord(ctx context.Context, record models.CandidateRecord) error {
	const op = "CandidateService.SaveRecord"

	if record.ID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "record id is required", nil)
	}

	s.mu.Lock()
	s.reg.Upsert(record)
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.Upsert(ctx, &record); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to persist candidate record", err)
		}
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, leaderboardCacheKey)
	}
	return nil
}

func (s *candidateService) ranked(ctx context.Context) []models.CandidateRecord {
	if s.cache != nil {
		var cached []models.CandidateRecord
		if hit, err := s.cache.GetJSON(ctx, leaderboardCacheKey, &cached); err == nil && hit {
			return cached
		}
	}

	s.mu.RLock()
	records := s.reg.Ranked()
	s.mu.RUnlock()

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, leaderboardCacheKey, records, leaderboardCacheTTL)
	}
	return records
}

// List filters by name/email substring and re-sorts for display. The ranked
// order (score desc, recency tiebreak) is the default.
func (s *candidateService) List(ctx context.Context, search, sortKey string) ([]models.CandidateRecord, error) {
	records := s.ranked(ctx)

	if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
		filtered := records[:0:0]
		for _, record := range records {
			if strings.Contains(strings.ToLower(record.Profile.Name), term) ||
				strings.Contains(strings.ToLower(record.Profile.Email), term) {
				filtered = append(filtered, record)
			}
		}
		records = filtered
	}

	switch sortKey {
	case SortByRecent:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].CompletedAt.After(records[j].CompletedAt)
		})
	case SortByName:
		sort.SliceStable(records, func(i, j int) bool {
			return strings.ToLower(records[i].Profile.Name) < strings.ToLower(records[j].Profile.Name)
		})
	default:
		// already in rank order
	}
	return records, nil
}

func (s *candidateService) Get(ctx context.Context, id string) (*models.CandidateRecord, error) {
	const op = "CandidateService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate id is required", nil)
	}

	s.mu.RLock()
	record, ok := s.reg.Get(id)
	s.mu.RUnlock()
	if ok {
		return &record, nil
	}

	if s.repo != nil {
		out, err := s.repo.GetByID(ctx, id)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeInternal, op, "failed to get candidate", err)
		}
	}
	return nil, utils.E(utils.CodeNotFound, op, "candidate not found", nil)
}

// WipeAll destroys every completed record: registry, rows and cache.
func (s *candidateService) WipeAll(ctx context.Context) error {
	const op = "CandidateService.WipeAll"

	s.mu.Lock()
	s.reg.Clear()
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.DeleteAll(ctx); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to delete candidate records", err)
		}
	}
	if s.files != nil {
		if err := s.files.DeleteAll(ctx); err != nil && s.log != nil {
			s.log.WithError(err).Warn("failed to delete resume file rows")
		}
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, leaderboardCacheKey)
	}
	return nil
}
