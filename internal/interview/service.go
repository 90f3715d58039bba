package interview

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pitchlane/interview-platform/internal/observability/metrics"
	"github.com/pitchlane/interview-platform/pkg/logging"
)

const (
	defaultStoreTimeout = 5 * time.Second
	defaultSinkTimeout  = 10 * time.Second
	sessionLockStripes  = 64
)

var pathUnsafePattern = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ServiceConfig carries the collaborators of the interview Service. Store is
// required; everything else has a sensible default.
type ServiceConfig struct {
	Store        SessionStore
	Sink         ReportSink
	Analyzer     *Analyzer
	Builder      *ReportBuilder
	Questions    []Question
	Logger       *logging.Logger
	Metrics      *metrics.InterviewMetrics
	StoreTimeout time.Duration
	SinkTimeout  time.Duration
}

// Service drives the interview state machine. It is the only writer of
// session state; per-session stripe locks serialize submissions in-process
// and the store's compare-and-swap covers multi-process races.
type Service struct {
	store        SessionStore
	sink         ReportSink
	analyzer     *Analyzer
	builder      *ReportBuilder
	questions    []Question
	logger       *logging.Logger
	metrics      *metrics.InterviewMetrics
	storeTimeout time.Duration
	sinkTimeout  time.Duration

	locks [sessionLockStripes]sync.Mutex

	now   func() time.Time
	newID func() string
}

// NewService wires an interview service from its config.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Store == nil {
		panic("interview: session store cannot be nil")
	}
	if cfg.Sink == nil {
		cfg.Sink = NewMemorySink()
	}
	if cfg.Analyzer == nil {
		cfg.Analyzer = NewAnalyzer(DefaultHeuristics())
	}
	if cfg.Builder == nil {
		cfg.Builder = NewReportBuilder()
	}
	if len(cfg.Questions) == 0 {
		cfg.Questions = DefaultQuestions()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}
	if cfg.SinkTimeout <= 0 {
		cfg.SinkTimeout = defaultSinkTimeout
	}
	return &Service{
		store:        cfg.Store,
		sink:         cfg.Sink,
		analyzer:     cfg.Analyzer,
		builder:      cfg.Builder,
		questions:    cfg.Questions,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		storeTimeout: cfg.StoreTimeout,
		sinkTimeout:  cfg.SinkTimeout,
		now:          func() time.Time { return time.Now().UTC() },
		newID:        func() string { return uuid.NewString() },
	}
}

// StartResult is returned when a new interview session is opened.
type StartResult struct {
	SessionID      string `json:"session_id"`
	Greeting       string `json:"greeting"`
	Question       string `json:"question"`
	QuestionNumber int    `json:"question_number"`
	TotalQuestions int    `json:"total_questions"`
}

// SubmitResult reports the outcome of one recorded response.
type SubmitResult struct {
	SessionID      string         `json:"session_id"`
	Analysis       AnalysisResult `json:"analysis"`
	Message        string         `json:"message"`
	NextQuestion   string         `json:"next_question,omitempty"`
	FollowUp       bool           `json:"follow_up"`
	QuestionNumber int            `json:"question_number,omitempty"`
	Progress       Progress       `json:"progress"`
	Completed      bool           `json:"interview_completed"`
	ReportLocation string         `json:"report_location,omitempty"`
}

// StatusResult is the public snapshot of a session.
type StatusResult struct {
	SessionID       string        `json:"session_id"`
	FounderName     string        `json:"founder_name"`
	StartupName     string        `json:"startup_name,omitempty"`
	Status          SessionStatus `json:"status"`
	Progress        Progress      `json:"progress"`
	CurrentQuestion string        `json:"current_question,omitempty"`
	StartedAt       time.Time     `json:"started_at"`
	EndedAt         *time.Time    `json:"ended_at,omitempty"`
	ReportLocation  string        `json:"report_location,omitempty"`
}

// EndResult is returned when a session is finalized.
type EndResult struct {
	SessionID          string         `json:"session_id"`
	Status             SessionStatus  `json:"status"`
	Message            string         `json:"message"`
	Report             *SummaryReport `json:"report"`
	ReportLocation     string         `json:"report_location,omitempty"`
	ReportTextLocation string         `json:"report_text_location,omitempty"`
}

// StartSession opens a new session and returns the greeting plus the first
// question.
func (s *Service) StartSession(ctx context.Context, founderName, startupName string) (*StartResult, error) {
	founderName = strings.TrimSpace(founderName)
	startupName = strings.TrimSpace(startupName)
	if founderName == "" {
		s.metrics.ObserveSessionStarted("rejected")
		return nil, fmt.Errorf("%w: founder_name is required", ErrValidation)
	}

	session := &InterviewSession{
		SessionID:   s.newID(),
		FounderName: founderName,
		StartupName: startupName,
		Status:      StatusActive,
		Responses:   []ResponseRecord{},
		StartedAt:   s.now(),
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := s.store.Put(storeCtx, session); err != nil {
		s.metrics.ObserveSessionStarted("error")
		return nil, err
	}

	s.metrics.ObserveSessionStarted("started")
	s.logger.Info("interview session started",
		"session_id", session.SessionID,
		"founder_name", founderName,
		"startup_name", startupName,
	)

	return &StartResult{
		SessionID:      session.SessionID,
		Greeting:       greeting(founderName, startupName),
		Question:       s.questions[0].Text,
		QuestionNumber: 1,
		TotalQuestions: len(s.questions),
	}, nil
}

// SubmitResponse records one answer, analyzes it, and advances the state
// machine. A brief answer to a primary question triggers one follow-up for
// that question; an answered follow-up always advances.
func (s *Service) SubmitResponse(ctx context.Context, sessionID, responseText string) (*SubmitResult, error) {
	started := s.now()
	responseText = strings.TrimSpace(responseText)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", ErrValidation)
	}
	if responseText == "" {
		return nil, fmt.Errorf("%w: response text is required", ErrValidation)
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Terminal() {
		return nil, ErrSessionCompleted
	}
	if session.CurrentQuestionIndex >= len(s.questions) {
		return nil, ErrSessionCompleted
	}

	question := s.questions[session.CurrentQuestionIndex]
	answeringFollowUp := session.PendingFollowUp != ""
	questionText := question.Text
	if answeringFollowUp {
		questionText = session.PendingFollowUp
	}

	analysis := s.analyzer.Analyze(responseText, question.Category)
	session.Responses = append(session.Responses, ResponseRecord{
		QuestionText: questionText,
		Category:     question.Category,
		ResponseText: responseText,
		FollowUp:     answeringFollowUp,
		Timestamp:    s.now(),
		Analysis:     analysis,
	})

	result := &SubmitResult{
		SessionID: sessionID,
		Analysis:  analysis,
		FollowUp:  false,
	}

	wordCount := len(strings.Fields(responseText))
	brief := wordCount < s.analyzer.Heuristics().BriefWordCount

	switch {
	case !answeringFollowUp && brief && len(question.FollowUps) > 0:
		// Probe once for depth; the follow-up answer advances regardless.
		session.PendingFollowUp = question.FollowUps[0]
		result.Message = "Thank you for that response. " + session.PendingFollowUp
		result.NextQuestion = session.PendingFollowUp
		result.FollowUp = true
		result.QuestionNumber = session.CurrentQuestionIndex + 1
	default:
		session.PendingFollowUp = ""
		session.CurrentQuestionIndex++
		if session.CurrentQuestionIndex < len(s.questions) {
			next := s.questions[session.CurrentQuestionIndex]
			result.Message = "Great, thank you for that detailed response. Let's move on to the next topic. " + next.Text
			result.NextQuestion = next.Text
			result.QuestionNumber = session.CurrentQuestionIndex + 1
		} else {
			session.Status = StatusCompleted
			ended := s.now()
			session.EndedAt = &ended
			s.aggregate(session)
			result.Message = "Thank you for answering all the questions. Let me prepare a summary of our discussion."
			result.Completed = true
		}
	}
	result.Progress = s.progress(session)

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := s.store.Put(storeCtx, session); err != nil {
		return nil, err
	}

	if result.Completed {
		// The response record is committed at this point, so a sink outage
		// must not fail the submit. EndSession re-attempts persistence while
		// ReportLocation stays empty.
		if err := s.buildAndPersistReport(ctx, session); err != nil {
			s.logger.Error("report persistence failed at completion",
				"session_id", sessionID,
				"error", err,
			)
		}
		result.ReportLocation = session.ReportLocation
	}

	s.metrics.ObserveResponse(string(question.Category), answeringFollowUp)
	s.metrics.ObserveSubmitLatency(string(question.Category), s.now().Sub(started).Seconds())
	if result.Completed {
		s.metrics.ObserveSessionEnded(string(StatusCompleted))
	}
	s.logger.Info("response recorded",
		"session_id", sessionID,
		"category", question.Category,
		"follow_up", answeringFollowUp,
		"questions_answered", session.QuestionsAnswered(),
		"completed", result.Completed,
	)

	return result, nil
}

// GetStatus returns the public snapshot of a session.
func (s *Service) GetStatus(ctx context.Context, sessionID string) (*StatusResult, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	status := &StatusResult{
		SessionID:      session.SessionID,
		FounderName:    session.FounderName,
		StartupName:    session.StartupName,
		Status:         session.Status,
		Progress:       s.progress(session),
		StartedAt:      session.StartedAt,
		EndedAt:        session.EndedAt,
		ReportLocation: session.ReportLocation,
	}
	if !session.Terminal() && session.CurrentQuestionIndex < len(s.questions) {
		if session.PendingFollowUp != "" {
			status.CurrentQuestion = session.PendingFollowUp
		} else {
			status.CurrentQuestion = s.questions[session.CurrentQuestionIndex].Text
		}
	}
	return status, nil
}

// EndSession finalizes a session and returns the summary report. Completed
// sessions normally already carry report locations written during the final
// submit; ending one regenerates the same report and returns those locations.
// If the completion-time sink write failed, or the session is abandoned
// early, this is where the report gets persisted, so the operation is safe
// to retry after a sink failure.
func (s *Service) EndSession(ctx context.Context, sessionID string) (*EndResult, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", ErrValidation)
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.Terminal() {
		if session.QuestionsAnswered() >= len(s.questions) {
			session.Status = StatusCompleted
		} else {
			session.Status = StatusAbandoned
		}
		ended := s.now()
		session.EndedAt = &ended
		session.PendingFollowUp = ""
		s.aggregate(session)

		storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		err := s.store.Put(storeCtx, session)
		cancel()
		if err != nil {
			return nil, err
		}
		s.metrics.ObserveSessionEnded(string(session.Status))
	}

	report, err := s.builder.BuildReport(session)
	if err != nil {
		return nil, err
	}

	if session.ReportLocation == "" {
		if err := s.persistReport(ctx, session, report); err != nil {
			return nil, err
		}
	}

	s.logger.Info("interview session ended",
		"session_id", sessionID,
		"status", session.Status,
		"report_location", session.ReportLocation,
	)

	return &EndResult{
		SessionID:          sessionID,
		Status:             session.Status,
		Message:            completionMessage(session.FounderName),
		Report:             report,
		ReportLocation:     session.ReportLocation,
		ReportTextLocation: session.ReportTextLocation,
	}, nil
}

// GetSession returns the full stored session (admin surface).
func (s *Service) GetSession(ctx context.Context, sessionID string) (*InterviewSession, error) {
	return s.loadSession(ctx, sessionID)
}

// DeleteSession removes a session from the store (admin surface).
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session_id is required", ErrValidation)
	}
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := s.store.Delete(storeCtx, sessionID); err != nil {
		return err
	}
	s.logger.Info("interview session deleted", "session_id", sessionID)
	return nil
}

// buildAndPersistReport materializes the summary report for a terminal
// session unless its locations are already recorded.
func (s *Service) buildAndPersistReport(ctx context.Context, session *InterviewSession) error {
	if session.ReportLocation != "" {
		return nil
	}
	report, err := s.builder.BuildReport(session)
	if err != nil {
		return err
	}
	return s.persistReport(ctx, session, report)
}

// persistReport renders both report formats, writes them to the sink, and
// records the locations on the session.
func (s *Service) persistReport(ctx context.Context, session *InterviewSession, report *SummaryReport) error {
	jsonBytes, err := report.RenderJSON()
	if err != nil {
		return err
	}
	textBytes := []byte(report.RenderText())

	base := s.reportBasePath(session)

	sinkCtx, cancel := context.WithTimeout(ctx, s.sinkTimeout)
	defer cancel()

	jsonLocation, err := s.sink.Put(sinkCtx, base+".json", jsonBytes, "application/json")
	if err != nil {
		s.metrics.ObserveReportWrite("error")
		return err
	}
	textLocation, err := s.sink.Put(sinkCtx, base+".txt", textBytes, "text/plain")
	if err != nil {
		s.metrics.ObserveReportWrite("error")
		return err
	}
	s.metrics.ObserveReportWrite("ok")

	session.ReportLocation = jsonLocation
	session.ReportTextLocation = textLocation

	storeCtx, storeCancel := context.WithTimeout(ctx, s.storeTimeout)
	defer storeCancel()
	return s.store.Put(storeCtx, session)
}

// reportBasePath derives the sink path from stored session data only, so
// repeated EndSession calls address the same objects.
func (s *Service) reportBasePath(session *InterviewSession) string {
	stamp := session.StartedAt
	if session.EndedAt != nil {
		stamp = *session.EndedAt
	}
	founder := pathUnsafePattern.ReplaceAllString(session.FounderName, "_")
	return fmt.Sprintf("reports/%s_%s_%s", founder, session.SessionID, stamp.UTC().Format("20060102_150405"))
}

// aggregate folds per-response analysis into the session-level summary
// fields.
func (s *Service) aggregate(session *InterviewSession) {
	session.OverallSentiment = meanSentiment(session.Responses)
	session.OverallConfidence = meanConfidence(session.Responses)
	session.KeyInsights, session.RedFlags, session.PositiveSignals = aggregateSignals(session.Responses)
}

func (s *Service) progress(session *InterviewSession) Progress {
	total := len(s.questions)
	answered := session.QuestionsAnswered()
	if answered > total {
		answered = total
	}
	pct := 0.0
	if total > 0 {
		pct = math.Round(float64(answered)/float64(total)*1000) / 10
	}
	return Progress{
		QuestionsAnswered: answered,
		TotalQuestions:    total,
		Percentage:        pct,
	}
}

func (s *Service) loadSession(ctx context.Context, sessionID string) (*InterviewSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", ErrValidation)
	}
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.store.Get(storeCtx, sessionID)
}

func (s *Service) sessionLock(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return &s.locks[h.Sum32()%sessionLockStripes]
}

func greeting(founderName, startupName string) string {
	subject := "your startup"
	if startupName != "" {
		subject = startupName
	}
	return fmt.Sprintf(`Hello %s! Thank you for taking the time to speak with me today about %s.

I'm here to conduct an investment evaluation interview to better understand your business, market opportunity, and growth potential. This will be a conversational discussion where I'll ask you about various aspects of your startup.

The interview will cover topics like the problem you're solving, your target customers, current traction, business model, competitive landscape, and your fundraising plans. Feel free to provide as much detail as you'd like, and I may ask follow-up questions to dive deeper into specific areas.

Are you ready to begin? Let's start with the first question.`, founderName, subject)
}

func completionMessage(founderName string) string {
	return fmt.Sprintf("Thank you, %s! The interview is now complete. I've prepared a comprehensive summary report that will be available for review.", founderName)
}
