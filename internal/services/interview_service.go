package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/swipehq/interview-assistant/internal/countdown"
	"github.com/swipehq/interview-assistant/internal/events"
	"github.com/swipehq/interview-assistant/internal/models"
	mongorepo "github.com/swipehq/interview-assistant/internal/repositories/mongo"
	pgrepo "github.com/swipehq/interview-assistant/internal/repositories/postgres"
	"github.com/swipehq/interview-assistant/internal/resume"
	"github.com/swipehq/interview-assistant/internal/scoring"
	"github.com/swipehq/interview-assistant/internal/session"
	"github.com/swipehq/interview-assistant/internal/storage"
	"github.com/swipehq/interview-assistant/internal/utils"
)

// QuestionSource yields the six-question set; it degrades internally and
// never fails.
type QuestionSource interface {
	Generate(ctx context.Context, profile models.CandidateProfile, resumeText string) []models.Question
}

// Summarizer yields the optional resume summary ("" when unavailable).
type Summarizer interface {
	Summarize(ctx context.Context, profile models.CandidateProfile, resumeText string) string
}

// Tracker is the background countdown runner.
type Tracker interface {
	Track(cd models.CountdownState)
	Clear()
}

type StartUpload struct {
	FileName string
	MimeType string
	FileSize int
	Text     string    // pre-extracted resume text, if the client supplies it
	File     io.Reader // raw document for object storage, may be nil
}

type InterviewService interface {
	StartFromResume(ctx context.Context, up StartUpload) (models.InterviewSession, error)
	SubmitProfileField(ctx context.Context, field models.RequiredField, value string) (models.InterviewSession, error)
	SubmitAnswer(ctx context.Context, answer string) (models.InterviewSession, error)
	SetAnswerDraft(answer string)
	HandleExpiry(questionID string)
	State() models.InterviewSession
	Reset(ctx context.Context) error
	Restore(ctx context.Context) error
}

type interviewService struct {
	mu      sync.Mutex
	machine *session.Machine
	drafts  map[string]string

	questions  QuestionSource
	summarizer Summarizer
	extractor  resume.Extractor
	tracker    Tracker
	store      mongorepo.SessionStore
	files      pgrepo.ResumeFileRepository
	uploader   storage.Uploader
	candidates CandidateService
	publisher  events.Publisher
	log        *logrus.Logger
	now        func() time.Time
}

type InterviewDeps struct {
	Questions  QuestionSource
	Summarizer Summarizer
	Extractor  resume.Extractor
	Tracker    Tracker
	Store      mongorepo.SessionStore
	Files      pgrepo.ResumeFileRepository
	Uploader   storage.Uploader
	Candidates CandidateService
	Publisher  events.Publisher
	Logger     *logrus.Logger
}

func NewInterviewService(d InterviewDeps) InterviewService {
	return &interviewService{
		machine:    session.NewMachine(),
		drafts:     map[string]string{},
		questions:  d.Questions,
		summarizer: d.Summarizer,
		extractor:  d.Extractor,
		tracker:    d.Tracker,
		store:      d.Store,
		files:      d.Files,
		uploader:   d.Uploader,
		candidates: d.Candidates,
		publisher:  d.Publisher,
		log:        d.Logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func fieldPrompt(field models.RequiredField) string {
	switch field {
	case models.FieldName:
		return "Could you please tell me your full name before we begin?"
	case models.FieldEmail:
		return "May I have your email address so we can stay in touch?"
	case models.FieldPhone:
		return "What is the best phone number to reach you on?"
	}
	return "Could you provide the missing information?"
}

func formatQuestionPrompt(index, total int, q models.Question) string {
	return fmt.Sprintf("Question %d of %d (%s): %s",
		index, total, strings.ToUpper(string(q.Difficulty)), q.Prompt)
}

// StartFromResume opens a fresh session from an uploaded resume, fully
// replacing any prior session.
func (s *interviewService) StartFromResume(ctx context.Context, up StartUpload) (models.InterviewSession, error) {
	const op = "InterviewService.StartFromResume"

	if err := resume.CheckFile(up.FileName, up.MimeType); err != nil {
		return models.InterviewSession{}, err
	}

	text := strings.TrimSpace(up.Text)
	if text == "" {
		if s.extractor == nil || up.File == nil {
			return models.InterviewSession{}, utils.E(utils.CodeInvalidArgument, op,
				"resume text could not be extracted from the upload", nil)
		}
		extracted, err := s.extractor.Extract(ctx, up.FileName, up.File)
		if err != nil {
			return models.InterviewSession{}, utils.E(utils.CodeInvalidArgument, op,
				"resume text could not be extracted from the upload", err)
		}
		text = strings.TrimSpace(extracted)
		up.File = nil // consumed by extraction
	}

	extraction := resume.Parse(text)
	candidateID := uuid.NewString()

	s.storeResumeFile(ctx, candidateID, up)

	summary := ""
	if s.summarizer != nil {
		summary = s.summarizer.Summarize(ctx, extraction.Profile, text)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracker.Clear()
	s.drafts = map[string]string{}
	s.machine.Start(session.StartParams{
		CandidateID:    candidateID,
		ResumeText:     text,
		ResumeSummary:  summary,
		ResumeFileName: up.FileName,
		Profile:        extraction.Profile,
		MissingFields:  extraction.Missing,
	})

	s.say("assistant-welcome",
		"Thanks for sharing your resume. I will ask a few quick questions to get everything ready.")
	if summary != "" {
		s.say("assistant-resume-summary", "Here is what I gathered from your resume: "+summary)
	}

	if next := s.machine.NextRequiredField(); next != "" {
		s.say("assistant-missing-"+string(next), fieldPrompt(next))
	} else {
		s.say("assistant-ready",
			"Great! Let us move into the interview questions. Take your time and answer honestly.")
		s.beginInterview(ctx)
	}

	s.persist(ctx)
	return s.machine.Snapshot(), nil
}

func (s *interviewService) storeResumeFile(ctx context.Context, candidateID string, up StartUpload) {
	if s.uploader == nil || up.File == nil {
		return
	}
	objectName := "resumes/" + candidateID + strings.ToLower(filepath.Ext(up.FileName))
	storedPath, err := s.uploader.Upload(ctx, objectName, up.MimeType, up.File)
	if err != nil {
		if s.log != nil {
			s.log.WithError(err).Warn("failed to store resume file")
		}
		return
	}
	if s.files == nil {
		return
	}
	row := &models.ResumeFile{
		ID:          uuid.NewString(),
		CandidateID: candidateID,
		FileName:    up.FileName,
		FilePath:    storedPath,
		FileSize:    up.FileSize,
		MimeType:    up.MimeType,
		UploadAt:    s.now(),
	}
	if err := s.files.Insert(ctx, row); err != nil && s.log != nil {
		s.log.WithError(err).Warn("failed to persist resume file metadata")
	}
}

// SubmitProfileField records one contact field during profile collection.
func (s *interviewService) SubmitProfileField(ctx context.Context, field models.RequiredField, value string) (models.InterviewSession, error) {
	const op = "InterviewService.SubmitProfileField"

	value = strings.TrimSpace(value)
	if value == "" {
		return models.InterviewSession{}, utils.E(utils.CodeInvalidArgument, op, "value is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.machine.State()
	if !state.Active {
		return models.InterviewSession{}, utils.E(utils.CodeInvalidArgument, op, "no active session", nil)
	}

	s.sayAs(models.RoleCandidate, "", value)
	s.machine.UpdateProfileField(field, value)

	if next := s.machine.NextRequiredField(); next != "" {
		s.say("assistant-missing-"+string(next), fieldPrompt(next))
	} else if state.Status == models.StatusInterview && len(state.Questions) == 0 {
		s.say("assistant-ready",
			"Great! Let us move into the interview questions. Take your time and answer honestly.")
		s.beginInterview(ctx)
	}

	s.persist(ctx)
	return s.machine.Snapshot(), nil
}

// beginInterview fetches the question set, announces the first question and
// arms its countdown. Callers hold the lock.
func (s *interviewService) beginInterview(ctx context.Context) {
	state := s.machine.State()
	qs := s.questions.Generate(ctx, state.Profile, state.ResumeText)
	s.machine.SetQuestions(qs)
	if len(qs) == 0 {
		return
	}
	s.machine.GoToQuestion(0)
	s.askCurrentQuestion()
}

// askCurrentQuestion announces the active question (dedup by message id) and
// starts its time box.
func (s *interviewService) askCurrentQuestion() {
	state := s.machine.State()
	q := state.CurrentQuestion()
	if q == nil {
		return
	}
	s.say("assistant-question-"+q.ID,
		formatQuestionPrompt(state.CurrentQuestionIndex+1, len(state.Questions), *q))

	cd := countdown.New(q.ID, time.Duration(q.MaxTime)*time.Second, s.now())
	s.machine.SetCountdown(&cd)
	s.tracker.Track(cd)
}

// SubmitAnswer records a manual submission for the active question.
func (s *interviewService) SubmitAnswer(ctx context.Context, answer string) (models.InterviewSession, error) {
	const op = "InterviewService.SubmitAnswer"

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.machine.State()
	if !state.Active || state.Status != models.StatusInterview {
		return models.InterviewSession{}, utils.E(utils.CodeInvalidArgument, op, "no interview in progress", nil)
	}
	q := state.CurrentQuestion()
	if q == nil {
		return models.InterviewSession{}, utils.E(utils.CodeInvalidArgument, op, "no active question", nil)
	}
	if state.Answered(q.ID) {
		return models.InterviewSession{}, utils.E(utils.CodeConflict, op, "question already answered", nil)
	}

	durationMs := int64(q.MaxTime) * 1000
	remaining := durationMs
	if state.Countdown != nil && state.Countdown.QuestionID == q.ID {
		remaining = countdown.Remaining(state.Countdown, s.now())
	}
	elapsed := durationMs - remaining
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > durationMs {
		elapsed = durationMs
	}

	s.recordSubmission(ctx, *q, strings.TrimSpace(answer), elapsed, false)
	return s.machine.Snapshot(), nil
}

// SetAnswerDraft stores the candidate's in-progress answer so that expiry
// auto-submits what was typed so far.
func (s *interviewService) SetAnswerDraft(answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.machine.State().CurrentQuestion()
	if q == nil {
		return
	}
	s.drafts[q.ID] = answer
}

// HandleExpiry is the countdown worker's callback: the deadline passed before
// a manual submission. Auto and manual submission are mutually exclusive; the
// already-answered guard resolves the race.
func (s *interviewService) HandleExpiry(questionID string) {
	ctx := context.Background()

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.machine.State()
	if !state.Active || state.Status != models.StatusInterview {
		return
	}
	q := state.QuestionByID(questionID)
	if q == nil {
		if s.log != nil {
			s.log.WithField("question_id", questionID).Warn("expiry for unknown question ignored")
		}
		return
	}
	if state.Answered(questionID) {
		return
	}

	draft := strings.TrimSpace(s.drafts[questionID])
	s.recordSubmission(ctx, *q, draft, int64(q.MaxTime)*1000, true)
}

// recordSubmission is the shared tail of manual submission and auto-submit.
// Callers hold the lock and have validated the question.
func (s *interviewService) recordSubmission(ctx context.Context, q models.Question, answer string, elapsedMs int64, autoSubmitted bool) {
	if answer != "" {
		s.sayAs(models.RoleCandidate, "", answer)
	}

	if !s.machine.RecordAnswer(q.ID, answer, elapsedMs, autoSubmitted) {
		if s.log != nil {
			s.log.WithField("question_id", q.ID).Warn("answer for unknown or answered question ignored")
		}
		return
	}

	s.tracker.Clear()
	s.machine.SetCountdown(nil)
	delete(s.drafts, q.ID)

	state := s.machine.State()
	nextIndex := state.CurrentQuestionIndex + 1
	hasNext := nextIndex < len(state.Questions)

	if autoSubmitted {
		content := "Time is up. Wrapping up your interview."
		if hasNext {
			content = "Time is up. Moving to the next question."
		}
		s.say("assistant-autosubmit-"+q.ID, content)
	}

	if hasNext {
		s.machine.GoToQuestion(nextIndex)
		s.askCurrentQuestion()
	}

	if s.machine.InterviewComplete() {
		s.finalize(ctx)
	}

	s.persist(ctx)
}

// finalize scores the transcript, saves the candidate record and completes
// the session. Runs before Complete so scores land in the live transcript.
func (s *interviewService) finalize(ctx context.Context) {
	state := s.machine.State()
	if state.CandidateID == "" || !state.Profile.Complete() {
		if s.log != nil {
			s.log.Warn("finalize skipped: incomplete candidate profile")
		}
		return
	}

	evaluation := scoring.Evaluate(s.machine.Snapshot())
	for _, item := range evaluation.Entries {
		s.machine.UpdateTranscriptScore(item.Entry.QuestionID, item.Score, item.Notes)
	}

	transcript, err := json.Marshal(s.machine.State().Transcript)
	if err != nil {
		transcript = []byte("[]")
	}

	record := models.CandidateRecord{
		ID:            state.CandidateID,
		Profile:       state.Profile,
		ResumeText:    state.ResumeText,
		ResumeSummary: state.ResumeSummary,
		Score:         evaluation.TotalScore,
		Summary:       evaluation.Summary,
		Strengths:     pq.StringArray(evaluation.Strengths),
		Gaps:          pq.StringArray(evaluation.Gaps),
		Transcript:    datatypes.JSON(transcript),
		CompletedAt:   s.now(),
	}
	if s.candidates != nil {
		if err := s.candidates.SaveRecord(ctx, record); err != nil && s.log != nil {
			s.log.WithError(err).Error("failed to save candidate record")
		}
	}

	s.say("assistant-summary", fmt.Sprintf(
		"Your interview is complete. Final score: %d/100. %s",
		evaluation.TotalScore, evaluation.Summary))

	s.machine.Complete()

	if s.publisher != nil {
		s.publisher.Publish(ctx, events.Event{
			Type:  events.TypeCompleted,
			Score: evaluation.TotalScore,
		})
	}
	if s.log != nil {
		s.log.WithFields(logrus.Fields{
			"candidate_id": state.CandidateID,
			"score":        evaluation.TotalScore,
		}).Info("interview completed")
	}
}

func (s *interviewService) State() models.InterviewSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Snapshot()
}

// Reset discards the live session without persisting it to the registry.
func (s *interviewService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracker.Clear()
	s.drafts = map[string]string{}
	s.machine.Reset()

	if s.store != nil {
		if err := s.store.Delete(ctx); err != nil && s.log != nil {
			s.log.WithError(err).Warn("failed to delete persisted session")
		}
	}
	if s.publisher != nil {
		s.publisher.Publish(ctx, events.Event{Type: events.TypeStatus, Status: string(models.StatusIdle)})
	}
	return nil
}

// Restore re-admits a persisted in-progress session on process start. A live
// countdown is re-derived from its absolute deadline, so time that passed
// while the process was unloaded counts down (or auto-expires on the next
// poll).
func (s *interviewService) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	saved, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil
		}
		return err
	}
	if saved.Status == models.StatusIdle || saved.Status == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.machine.Restore(*saved)
	if saved.Countdown != nil {
		saved.Countdown.RemainingMs = countdown.Remaining(saved.Countdown, s.now())
		s.tracker.Track(*saved.Countdown)
	}
	if s.log != nil {
		s.log.WithFields(logrus.Fields{
			"status":       saved.Status,
			"candidate_id": saved.CandidateID,
		}).Info("restored in-progress session")
	}
	return nil
}

// say records an assistant chat message, skipping ids already present.
func (s *interviewService) say(id, content string) {
	s.sayAs(models.RoleAssistant, id, content)
}

func (s *interviewService) sayAs(role models.ChatRole, id, content string) {
	if id != "" && s.machine.HasChatMessage(id) {
		return
	}
	msg := models.ChatMessage{ID: id, Role: role, Content: content}
	s.machine.RecordChatMessage(msg)

	if s.publisher != nil {
		chat := s.machine.State().Chat
		recorded := chat[len(chat)-1]
		s.publisher.Publish(context.Background(), events.Event{Type: events.TypeChat, Message: &recorded})
	}
}

func (s *interviewService) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	snapshot := s.machine.Snapshot()
	if err := s.store.Save(ctx, &snapshot); err != nil && s.log != nil {
		s.log.WithError(err).Warn("failed to persist session")
	}
}
