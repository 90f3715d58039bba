package interview

import (
	"time"
)

// Category identifies the topical bucket a question belongs to.
type Category string

const (
	CategoryProblem       Category = "problem"
	CategoryCustomers     Category = "customers"
	CategoryTraction      Category = "traction"
	CategoryBusinessModel Category = "business_model"
	CategoryCompetition   Category = "competition"
	CategoryFundraising   Category = "fundraising"
)

// SessionStatus represents the lifecycle of an interview session.
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
	StatusAbandoned SessionStatus = "abandoned"
)

// Question is one entry of the fixed question bank.
type Question struct {
	Text      string   `json:"text" yaml:"text"`
	Category  Category `json:"category" yaml:"category"`
	FollowUps []string `json:"follow_ups,omitempty" yaml:"follow_ups,omitempty"`
}

// AnalysisResult is the output of the response analyzer. It is never mutated
// after creation.
type AnalysisResult struct {
	SentimentScore  float64  `json:"sentiment_score" dynamodbav:"sentimentScore"`
	ConfidenceScore float64  `json:"confidence_score" dynamodbav:"confidenceScore"`
	KeyInsights     []string `json:"key_insights" dynamodbav:"keyInsights"`
	RedFlags        []string `json:"red_flags" dynamodbav:"redFlags"`
	PositiveSignals []string `json:"positive_signals" dynamodbav:"positiveSignals"`
}

// ResponseRecord captures one answered prompt, including an answered
// follow-up. Records are append-only.
type ResponseRecord struct {
	QuestionText string         `json:"question_text" dynamodbav:"questionText"`
	Category     Category       `json:"category" dynamodbav:"category"`
	ResponseText string         `json:"response_text" dynamodbav:"responseText"`
	FollowUp     bool           `json:"follow_up,omitempty" dynamodbav:"followUp,omitempty"`
	Timestamp    time.Time      `json:"timestamp" dynamodbav:"timestamp"`
	Analysis     AnalysisResult `json:"analysis" dynamodbav:"analysis"`
}

// InterviewSession is the full persisted state of one founder's interview.
// The state machine is the only writer; stores round-trip it verbatim.
type InterviewSession struct {
	SessionID            string           `json:"session_id" dynamodbav:"sessionId"`
	FounderName          string           `json:"founder_name" dynamodbav:"founderName"`
	StartupName          string           `json:"startup_name,omitempty" dynamodbav:"startupName,omitempty"`
	Status               SessionStatus    `json:"status" dynamodbav:"status"`
	CurrentQuestionIndex int              `json:"current_question_index" dynamodbav:"currentQuestionIndex"`
	Responses            []ResponseRecord `json:"responses" dynamodbav:"responses"`
	// PendingFollowUp holds the text of an issued follow-up awaiting an
	// answer. Empty when the next prompt is a primary question.
	PendingFollowUp    string     `json:"pending_follow_up,omitempty" dynamodbav:"pendingFollowUp,omitempty"`
	StartedAt          time.Time  `json:"started_at" dynamodbav:"startedAt"`
	EndedAt            *time.Time `json:"ended_at,omitempty" dynamodbav:"endedAt,omitempty"`
	OverallSentiment   float64    `json:"overall_sentiment" dynamodbav:"overallSentiment"`
	OverallConfidence  float64    `json:"overall_confidence" dynamodbav:"overallConfidence"`
	KeyInsights        []string   `json:"key_insights,omitempty" dynamodbav:"keyInsights,omitempty"`
	RedFlags           []string   `json:"red_flags,omitempty" dynamodbav:"redFlags,omitempty"`
	PositiveSignals    []string   `json:"positive_signals,omitempty" dynamodbav:"positiveSignals,omitempty"`
	ReportLocation     string     `json:"report_location,omitempty" dynamodbav:"reportLocation,omitempty"`
	ReportTextLocation string     `json:"report_text_location,omitempty" dynamodbav:"reportTextLocation,omitempty"`
	// Revision is the optimistic-concurrency token checked by every store
	// put. Zero means the session has never been persisted.
	Revision int64 `json:"revision" dynamodbav:"revision"`
}

// Terminal reports whether the session has reached a final state.
func (s *InterviewSession) Terminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusAbandoned
}

// QuestionsAnswered returns the number of primary questions completed.
// Answered follow-ups add response records without advancing this count.
func (s *InterviewSession) QuestionsAnswered() int {
	return s.CurrentQuestionIndex
}

// Clone returns a deep copy, so callers can mutate freely without aliasing
// the stored value.
func (s *InterviewSession) Clone() *InterviewSession {
	if s == nil {
		return nil
	}
	out := *s
	if s.EndedAt != nil {
		ended := *s.EndedAt
		out.EndedAt = &ended
	}
	out.Responses = make([]ResponseRecord, len(s.Responses))
	for i, r := range s.Responses {
		rc := r
		rc.Analysis.KeyInsights = append([]string(nil), r.Analysis.KeyInsights...)
		rc.Analysis.RedFlags = append([]string(nil), r.Analysis.RedFlags...)
		rc.Analysis.PositiveSignals = append([]string(nil), r.Analysis.PositiveSignals...)
		out.Responses[i] = rc
	}
	out.KeyInsights = append([]string(nil), s.KeyInsights...)
	out.RedFlags = append([]string(nil), s.RedFlags...)
	out.PositiveSignals = append([]string(nil), s.PositiveSignals...)
	return &out
}

// Progress describes how far along an interview is.
type Progress struct {
	QuestionsAnswered int     `json:"questions_answered"`
	TotalQuestions    int     `json:"total_questions"`
	Percentage        float64 `json:"percentage"`
}
