// Package session implements the interview session state machine. The machine
// is the single owner of the live session aggregate; every transition is a
// command method that replaces state atomically, so callers can persist or
// inspect a consistent snapshot after any command.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/swipehq/interview-assistant/internal/models"
)

// StartParams carries everything needed to open a fresh session.
type StartParams struct {
	CandidateID    string
	ResumeText     string
	ResumeSummary  string
	ResumeFileName string
	Profile        models.CandidateProfile
	MissingFields  []models.RequiredField
}

// Machine drives one interview session through
// idle -> collecting-profile -> interview -> completed. It performs no I/O and
// expects its commands to be invoked serially by a single driving caller.
type Machine struct {
	state models.InterviewSession
	now   func() time.Time
}

func NewMachine() *Machine {
	m := &Machine{now: func() time.Time { return time.Now().UTC() }}
	m.state = initialState()
	return m
}

// SetClock overrides the machine's time source.
func (m *Machine) SetClock(now func() time.Time) { m.now = now }

func initialState() models.InterviewSession {
	return models.InterviewSession{
		Status:               models.StatusIdle,
		MissingFields:        []models.RequiredField{},
		Chat:                 []models.ChatMessage{},
		Questions:            []models.Question{},
		CurrentQuestionIndex: -1,
		Transcript:           []models.TranscriptEntry{},
	}
}

// Start opens a new session, discarding any prior one. The missing-fields list
// determines the branch: non-empty -> collecting-profile, empty -> interview.
func (m *Machine) Start(p StartParams) {
	now := m.now()
	status := models.StatusInterview
	if len(p.MissingFields) > 0 {
		status = models.StatusCollectingProfile
	}
	missing := make([]models.RequiredField, len(p.MissingFields))
	copy(missing, p.MissingFields)

	m.state = models.InterviewSession{
		Active:               true,
		Status:               status,
		CandidateID:          p.CandidateID,
		Profile:              p.Profile,
		ResumeText:           p.ResumeText,
		ResumeSummary:        p.ResumeSummary,
		ResumeFileName:       p.ResumeFileName,
		MissingFields:        missing,
		Chat:                 []models.ChatMessage{},
		Questions:            []models.Question{},
		CurrentQuestionIndex: -1,
		Transcript:           []models.TranscriptEntry{},
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// RecordChatMessage appends to the chat log, generating id and timestamp when
// absent. The log is append-only; dedup by id is the caller's concern.
func (m *Machine) RecordChatMessage(msg models.ChatMessage) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = m.now()
	}
	m.state.Chat = append(m.state.Chat, msg)
	m.touch()
}

// HasChatMessage reports whether a chat message with the id was recorded.
func (m *Machine) HasChatMessage(id string) bool {
	for i := range m.state.Chat {
		if m.state.Chat[i].ID == id {
			return true
		}
	}
	return false
}

// SetMissingFields replaces the outstanding-field list and re-derives status.
func (m *Machine) SetMissingFields(fields []models.RequiredField) {
	missing := make([]models.RequiredField, len(fields))
	copy(missing, fields)
	m.state.MissingFields = missing
	if len(missing) > 0 {
		m.state.Status = models.StatusCollectingProfile
	} else {
		m.state.Status = models.StatusInterview
	}
	m.touch()
}

// UpdateProfileField overwrites one profile field. Supplying the last
// outstanding required field moves the session into the interview.
func (m *Machine) UpdateProfileField(field models.RequiredField, value string) {
	switch field {
	case models.FieldName:
		m.state.Profile.Name = value
	case models.FieldEmail:
		m.state.Profile.Email = value
	case models.FieldPhone:
		m.state.Profile.Phone = value
	default:
		return
	}

	remaining := m.state.MissingFields[:0]
	removed := false
	for _, f := range m.state.MissingFields {
		if f == field {
			removed = true
			continue
		}
		remaining = append(remaining, f)
	}
	m.state.MissingFields = remaining
	if removed && len(remaining) == 0 && m.state.Status == models.StatusCollectingProfile {
		m.state.Status = models.StatusInterview
	}
	m.touch()
}

// SetQuestions replaces the full question list.
func (m *Machine) SetQuestions(questions []models.Question) {
	qs := make([]models.Question, len(questions))
	copy(qs, questions)
	m.state.Questions = qs
	if len(qs) > 0 {
		m.state.CurrentQuestionIndex = 0
	} else {
		m.state.CurrentQuestionIndex = -1
	}
	m.touch()
}

// GoToQuestion sets the active question index. Bounds validity is the
// caller's responsibility; no clamping is performed.
func (m *Machine) GoToQuestion(index int) {
	m.state.CurrentQuestionIndex = index
	m.touch()
}

// SetCountdown replaces the countdown wholesale; nil clears it.
func (m *Machine) SetCountdown(cd *models.CountdownState) {
	if cd != nil {
		c := *cd
		m.state.Countdown = &c
	} else {
		m.state.Countdown = nil
	}
	m.touch()
}

// RecordAnswer appends a transcript entry for the question. Unknown question
// ids and already-answered questions are silent no-ops; the former guards
// against stale references, the latter keeps the one-entry-per-question
// invariant even if the driver misfires.
func (m *Machine) RecordAnswer(questionID, answer string, elapsedMs int64, autoSubmitted bool) bool {
	q := m.state.QuestionByID(questionID)
	if q == nil || m.state.Answered(questionID) {
		return false
	}
	m.state.Transcript = append(m.state.Transcript, models.TranscriptEntry{
		ID:            uuid.NewString(),
		QuestionID:    questionID,
		Prompt:        q.Prompt,
		Difficulty:    q.Difficulty,
		Answer:        answer,
		ElapsedMs:     elapsedMs,
		AutoSubmitted: autoSubmitted,
		CreatedAt:     m.now(),
	})
	m.touch()
	return true
}

// UpdateTranscriptScore folds a per-question score into the transcript.
// Silent no-op when no entry exists for the question.
func (m *Machine) UpdateTranscriptScore(questionID string, score int, notes string) bool {
	for i := range m.state.Transcript {
		if m.state.Transcript[i].QuestionID == questionID {
			m.state.Transcript[i].Scored = true
			m.state.Transcript[i].Score = score
			m.state.Transcript[i].Notes = notes
			m.touch()
			return true
		}
	}
	return false
}

func (m *Machine) SetStatus(status models.SessionStatus) {
	m.state.Status = status
	m.touch()
}

// Complete marks the session finished and clears the countdown. Scoring output
// must be folded in before calling this.
func (m *Machine) Complete() {
	m.state.Active = false
	m.state.Status = models.StatusCompleted
	m.state.Countdown = nil
	m.touch()
}

// Reset unconditionally returns to the virgin initial state.
func (m *Machine) Reset() {
	m.state = initialState()
}

// Restore replaces the machine state with a previously persisted session.
func (m *Machine) Restore(s models.InterviewSession) {
	if s.Chat == nil {
		s.Chat = []models.ChatMessage{}
	}
	if s.Questions == nil {
		s.Questions = []models.Question{}
	}
	if s.Transcript == nil {
		s.Transcript = []models.TranscriptEntry{}
	}
	if s.MissingFields == nil {
		s.MissingFields = []models.RequiredField{}
	}
	m.state = s
}

// NextRequiredField returns the first outstanding field, or "".
func (m *Machine) NextRequiredField() models.RequiredField {
	if len(m.state.MissingFields) > 0 {
		return m.state.MissingFields[0]
	}
	return ""
}

// InterviewComplete reports whether every question has a recorded answer.
func (m *Machine) InterviewComplete() bool {
	return len(m.state.Questions) > 0 && len(m.state.Transcript) >= len(m.state.Questions)
}

// State exposes the live aggregate for read-only use by the owning service.
func (m *Machine) State() *models.InterviewSession { return &m.state }

// Snapshot returns a deep copy safe to hand outside the single-writer scope.
func (m *Machine) Snapshot() models.InterviewSession {
	s := m.state
	s.MissingFields = append([]models.RequiredField(nil), m.state.MissingFields...)
	s.Chat = append([]models.ChatMessage(nil), m.state.Chat...)
	s.Questions = make([]models.Question, len(m.state.Questions))
	for i, q := range m.state.Questions {
		q.Keywords = append([]string(nil), q.Keywords...)
		s.Questions[i] = q
	}
	s.Transcript = append([]models.TranscriptEntry(nil), m.state.Transcript...)
	if m.state.Countdown != nil {
		cd := *m.state.Countdown
		s.Countdown = &cd
	}
	return s
}

func (m *Machine) touch() { m.state.UpdatedAt = m.now() }
