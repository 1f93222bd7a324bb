package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/swipehq/interview-assistant/internal/models"
	"github.com/swipehq/interview-assistant/internal/utils"
)

type CandidateRepository interface {
	Upsert(ctx context.Context, record *models.CandidateRecord) error
	GetByID(ctx context.Context, id string) (*models.CandidateRecord, error)
	ListAll(ctx context.Context) ([]models.CandidateRecord, error)
	DeleteAll(ctx context.Context) error
}

type candidateRepo struct {
	db *gorm.DB
}

func NewCandidateRepo(db *gorm.DB) CandidateRepository {
	return &candidateRepo{db: db}
}

// Upsert overwrites the row wholesale; a re-run interview replaces the prior
// record rather than merging into it.
func (r *candidateRepo) Upsert(ctx context.Context, record *models.CandidateRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "email", "phone", "resume_text", "resume_summary",
				"score", "summary", "strengths", "gaps", "transcript", "completed_at",
			}),
		}).
		Create(record).Error
}

func (r *candidateRepo) GetByID(ctx context.Context, id string) (*models.CandidateRecord, error) {
	var record models.CandidateRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &record, err
}

func (r *candidateRepo) ListAll(ctx context.Context) ([]models.CandidateRecord, error) {
	var records []models.CandidateRecord
	err := r.db.WithContext(ctx).
		Order("score DESC, completed_at DESC").
		Find(&records).Error
	return records, err
}

func (r *candidateRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&models.CandidateRecord{}).Error
}
