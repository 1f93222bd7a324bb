package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// CandidateRecord is the durable, read-only outcome of one completed session.
// Re-running an interview for the same id overwrites the row wholesale.
type CandidateRecord struct {
	ID      string           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Profile CandidateProfile `gorm:"embedded" json:"profile"`

	ResumeText    string `gorm:"column:resume_text;type:text" json:"resume_text,omitempty"`
	ResumeSummary string `gorm:"column:resume_summary;type:text" json:"resume_summary,omitempty"`

	Score   int    `gorm:"column:score;type:integer" json:"score"`
	Summary string `gorm:"column:summary;type:text" json:"summary"`

	Strengths pq.StringArray `gorm:"column:strengths;type:text[]" json:"strengths"`
	Gaps      pq.StringArray `gorm:"column:gaps;type:text[]" json:"gaps"`

	// Full transcript, frozen at completion (JSONB, []TranscriptEntry shape).
	Transcript datatypes.JSON `gorm:"column:transcript;type:jsonb" json:"transcript"`

	CompletedAt time.Time `gorm:"column:completed_at;type:timestamptz;index" json:"completed_at"`
}

func (CandidateRecord) TableName() string { return "candidate_records" }
