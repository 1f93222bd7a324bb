package models

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type RequiredField string

const (
	FieldName  RequiredField = "name"
	FieldEmail RequiredField = "email"
	FieldPhone RequiredField = "phone"
)

type ChatRole string

const (
	RoleAssistant ChatRole = "assistant"
	RoleCandidate ChatRole = "candidate"
	RoleSystem    ChatRole = "system"
)

type SessionStatus string

const (
	StatusIdle              SessionStatus = "idle"
	StatusCollectingProfile SessionStatus = "collecting-profile"
	StatusInterview         SessionStatus = "interview"
	StatusCompleted         SessionStatus = "completed"
)

// CandidateProfile holds the contact fields collected before the interview.
// Empty string means the field has not been supplied yet.
type CandidateProfile struct {
	Name  string `bson:"name,omitempty" json:"name,omitempty" gorm:"column:name;type:text"`
	Email string `bson:"email,omitempty" json:"email,omitempty" gorm:"column:email;type:text"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty" gorm:"column:phone;type:text"`
}

func (p CandidateProfile) Field(f RequiredField) string {
	switch f {
	case FieldName:
		return p.Name
	case FieldEmail:
		return p.Email
	case FieldPhone:
		return p.Phone
	}
	return ""
}

func (p CandidateProfile) Complete() bool {
	return p.Name != "" && p.Email != "" && p.Phone != ""
}

// Question is immutable once created.
type Question struct {
	ID         string     `bson:"id" json:"id"`
	Prompt     string     `bson:"prompt" json:"prompt"`
	Difficulty Difficulty `bson:"difficulty" json:"difficulty"`
	Keywords   []string   `bson:"keywords" json:"keywords"`
	MaxTime    int        `bson:"max_time" json:"max_time"` // seconds
	Order      int        `bson:"order" json:"order"`       // 1-based position
}

type ChatMessage struct {
	ID        string    `bson:"id" json:"id"`
	Role      ChatRole  `bson:"role" json:"role"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// TranscriptEntry freezes a copy of the question at answer time so later
// question-set mutation cannot retroactively change history.
type TranscriptEntry struct {
	ID            string     `bson:"id" json:"id"`
	QuestionID    string     `bson:"question_id" json:"question_id"`
	Prompt        string     `bson:"prompt" json:"prompt"`
	Difficulty    Difficulty `bson:"difficulty" json:"difficulty"`
	Answer        string     `bson:"answer" json:"answer"`
	ElapsedMs     int64      `bson:"elapsed_ms" json:"elapsed_ms"`
	AutoSubmitted bool       `bson:"auto_submitted" json:"auto_submitted"`
	Scored        bool       `bson:"scored" json:"scored"`
	Score         int        `bson:"score" json:"score"`
	Notes         string     `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
}

// CountdownState is an immutable deadline snapshot. At most one exists per
// session; its presence implies an unanswered active question.
type CountdownState struct {
	QuestionID  string    `bson:"question_id" json:"question_id"`
	DurationMs  int64     `bson:"duration_ms" json:"duration_ms"`
	StartedAt   time.Time `bson:"started_at" json:"started_at"`
	Deadline    time.Time `bson:"deadline" json:"deadline"`
	RemainingMs int64     `bson:"remaining_ms" json:"remaining_ms"` // snapshot at creation
}

// InterviewSession is the aggregate root for the single live interview.
type InterviewSession struct {
	Active               bool              `bson:"active" json:"active"`
	Status               SessionStatus     `bson:"status" json:"status"`
	CandidateID          string            `bson:"candidate_id" json:"candidate_id"`
	Profile              CandidateProfile  `bson:"profile" json:"profile"`
	ResumeText           string            `bson:"resume_text,omitempty" json:"resume_text,omitempty"`
	ResumeSummary        string            `bson:"resume_summary,omitempty" json:"resume_summary,omitempty"`
	ResumeFileName       string            `bson:"resume_file_name,omitempty" json:"resume_file_name,omitempty"`
	MissingFields        []RequiredField   `bson:"missing_fields" json:"missing_fields"`
	Chat                 []ChatMessage     `bson:"chat" json:"chat"`
	Questions            []Question        `bson:"questions" json:"questions"`
	CurrentQuestionIndex int               `bson:"current_question_index" json:"current_question_index"`
	Transcript           []TranscriptEntry `bson:"transcript" json:"transcript"`
	Countdown            *CountdownState   `bson:"countdown,omitempty" json:"countdown,omitempty"`
	CreatedAt            time.Time         `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt            time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// QuestionByID returns the question with the given id, or nil.
func (s *InterviewSession) QuestionByID(id string) *Question {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i]
		}
	}
	return nil
}

// CurrentQuestion returns the active question, or nil when none is active.
func (s *InterviewSession) CurrentQuestion() *Question {
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentQuestionIndex]
}

// Answered reports whether a transcript entry already exists for the question.
func (s *InterviewSession) Answered(questionID string) bool {
	for i := range s.Transcript {
		if s.Transcript[i].QuestionID == questionID {
			return true
		}
	}
	return false
}
