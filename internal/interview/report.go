package interview

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// SummaryReport is the durable report contract. The JSON field names are
// consumed downstream and must not change.
type SummaryReport struct {
	InterviewSummary   InterviewSummary   `json:"interview_summary"`
	KeyInsights        ReportInsights     `json:"key_insights"`
	FundraisingDetails FundraisingDetails `json:"fundraising_details"`
	OverallAssessment  OverallAssessment  `json:"overall_assessment"`
	DetailedResponses  []DetailedResponse `json:"detailed_responses"`
}

type InterviewSummary struct {
	FounderName    string `json:"founder_name"`
	StartupName    string `json:"startup_name"`
	SessionID      string `json:"session_id"`
	InterviewDate  string `json:"interview_date"`
	TotalQuestions int    `json:"total_questions"`
}

type ReportInsights struct {
	Strengths            []string             `json:"strengths"`
	Risks                []string             `json:"risks"`
	Opportunities        []string             `json:"opportunities"`
	CompetitiveLandscape CompetitiveLandscape `json:"competitive_landscape"`
}

type CompetitiveLandscape struct {
	Analysis                  string `json:"analysis"`
	DifferentiationMentioned  bool   `json:"differentiation_mentioned"`
	CompetitiveAdvantageClear bool   `json:"competitive_advantage_clear"`
}

type FundraisingDetails struct {
	FundingGoal      string `json:"funding_goal"`
	UseOfFunds       string `json:"use_of_funds"`
	FundingTimeline  string `json:"funding_timeline"`
	FundingReadiness string `json:"funding_readiness"`
}

type OverallAssessment struct {
	SentimentScore  float64  `json:"sentiment_score"`
	ConfidenceScore float64  `json:"confidence_score"`
	Recommendation  string   `json:"recommendation"`
	NextSteps       []string `json:"next_steps"`
}

type DetailedResponse struct {
	Question   string   `json:"question"`
	Response   string   `json:"response"`
	Category   Category `json:"category"`
	Insights   []string `json:"insights"`
	Sentiment  float64  `json:"sentiment"`
	Confidence float64  `json:"confidence"`
}

var (
	fundingAmountPattern = regexp.MustCompile(`\$[\d,]+(?:\.\d+)?\s?(?:[KMBkmb]\b|million|billion)?`)
	timelinePattern      = regexp.MustCompile(`(?i)\d+\s*(?:months?|weeks?|years?|quarters?)`)
)

// recommendationRule is one rung of the recommendation ladder, evaluated in
// order against the aggregated scores.
type recommendationRule struct {
	minSentiment  float64
	minConfidence float64
	label         string
}

// nextStepRule contributes a step when its predicate matches the aggregates.
type nextStepRule struct {
	when func(redFlags, positiveSignals []string) bool
	step string
}

// ReportBuilder aggregates a terminal session into a SummaryReport. It only
// reads session data; the state machine remains the sole session writer.
type ReportBuilder struct {
	ladder           []recommendationRule
	cautionFlagCount int
	cautionLabel     string
	fallbackLabel    string
	nextSteps        []nextStepRule
	opportunityWords []string
}

// NewReportBuilder returns a builder with the default rule tables.
func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{
		ladder: []recommendationRule{
			{minSentiment: 0.5, minConfidence: 0.7, label: "Strong candidate - proceed to next stage"},
			{minSentiment: 0.2, minConfidence: 0.5, label: "Promising candidate - requires further evaluation"},
		},
		cautionFlagCount: 3,
		cautionLabel:     "Proceed with caution - multiple red flags identified",
		fallbackLabel:    "Not recommended - low confidence or negative sentiment",
		nextSteps: []nextStepRule{
			{
				when: func(redFlags, _ []string) bool { return len(redFlags) > 0 },
				step: "Address identified red flags in follow-up discussion",
			},
			{
				when: func(_, positiveSignals []string) bool { return len(positiveSignals) > 3 },
				step: "Schedule detailed due diligence meeting",
			},
			{
				when: func(redFlags, _ []string) bool { return containsFundingFlag(redFlags) },
				step: "Review financial projections and business plan",
			},
			{
				when: func(_, _ []string) bool { return true },
				step: "Conduct reference checks with customers and partners",
			},
		},
		opportunityWords: []string{"market", "growth", "traction", "scale", "expansion", "opportunity"},
	}
}

// BuildReport produces the summary report for a terminal session. Calling it
// on an active session is an error; it never mutates the session.
func (b *ReportBuilder) BuildReport(session *InterviewSession) (*SummaryReport, error) {
	if session == nil {
		return nil, fmt.Errorf("%w: nil session", ErrValidation)
	}
	if !session.Terminal() {
		return nil, ErrSessionNotTerminal
	}

	sentiment := meanSentiment(session.Responses)
	confidence := meanConfidence(session.Responses)
	insights, redFlags, positives := aggregateSignals(session.Responses)

	interviewDate := session.StartedAt
	if session.EndedAt != nil {
		interviewDate = *session.EndedAt
	}

	report := &SummaryReport{
		InterviewSummary: InterviewSummary{
			FounderName:    session.FounderName,
			StartupName:    session.StartupName,
			SessionID:      session.SessionID,
			InterviewDate:  interviewDate.UTC().Format(time.RFC3339),
			TotalQuestions: len(session.Responses),
		},
		KeyInsights: ReportInsights{
			Strengths:            positives,
			Risks:                redFlags,
			Opportunities:        b.opportunities(insights),
			CompetitiveLandscape: competitiveLandscape(session.Responses),
		},
		FundraisingDetails: fundraisingDetails(session.Responses),
		OverallAssessment: OverallAssessment{
			SentimentScore:  sentiment,
			ConfidenceScore: confidence,
			Recommendation:  b.recommendation(sentiment, confidence, redFlags),
			NextSteps:       b.buildNextSteps(redFlags, positives),
		},
		DetailedResponses: detailedResponses(session.Responses),
	}
	return report, nil
}

// recommendation walks the ladder after the red-flag override.
func (b *ReportBuilder) recommendation(sentiment, confidence float64, redFlags []string) string {
	if len(redFlags) > b.cautionFlagCount {
		return b.cautionLabel
	}
	for _, rule := range b.ladder {
		if sentiment > rule.minSentiment && confidence > rule.minConfidence {
			return rule.label
		}
	}
	return b.fallbackLabel
}

func (b *ReportBuilder) buildNextSteps(redFlags, positives []string) []string {
	steps := []string{}
	for _, rule := range b.nextSteps {
		if rule.when(redFlags, positives) {
			steps = appendUnique(steps, rule.step)
		}
	}
	return steps
}

// opportunities keeps the insights that read as market or growth signals.
func (b *ReportBuilder) opportunities(insights []string) []string {
	out := []string{}
	for _, insight := range insights {
		lower := strings.ToLower(insight)
		if containsAny(lower, b.opportunityWords) {
			out = appendUnique(out, insight)
		}
	}
	return out
}

func containsFundingFlag(redFlags []string) bool {
	for _, flag := range redFlags {
		if strings.Contains(strings.ToLower(flag), "funding") {
			return true
		}
	}
	return false
}

func meanSentiment(responses []ResponseRecord) float64 {
	if len(responses) == 0 {
		return 0.0
	}
	total := 0.0
	for _, r := range responses {
		total += r.Analysis.SentimentScore
	}
	return total / float64(len(responses))
}

func meanConfidence(responses []ResponseRecord) float64 {
	if len(responses) == 0 {
		return 0.0
	}
	total := 0.0
	for _, r := range responses {
		total += r.Analysis.ConfidenceScore
	}
	return total / float64(len(responses))
}

// aggregateSignals unions the per-response lists preserving first-seen order.
func aggregateSignals(responses []ResponseRecord) (insights, redFlags, positives []string) {
	insights, redFlags, positives = []string{}, []string{}, []string{}
	for _, r := range responses {
		for _, v := range r.Analysis.KeyInsights {
			insights = appendUnique(insights, v)
		}
		for _, v := range r.Analysis.RedFlags {
			redFlags = appendUnique(redFlags, v)
		}
		for _, v := range r.Analysis.PositiveSignals {
			positives = appendUnique(positives, v)
		}
	}
	return insights, redFlags, positives
}

// competitiveLandscape derives boolean flags from the competition-category
// response specifically.
func competitiveLandscape(responses []ResponseRecord) CompetitiveLandscape {
	for _, r := range responses {
		if r.Category != CategoryCompetition || r.FollowUp {
			continue
		}
		lower := strings.ToLower(r.ResponseText)
		return CompetitiveLandscape{
			Analysis:                  r.ResponseText,
			DifferentiationMentioned:  containsAny(lower, []string{"different", "unique"}),
			CompetitiveAdvantageClear: containsAny(lower, []string{"advantage", "moat"}),
		}
	}
	return CompetitiveLandscape{Analysis: "No competition data provided"}
}

// fundraisingDetails extracts funding figures from the fundraising-category
// response.
func fundraisingDetails(responses []ResponseRecord) FundraisingDetails {
	for _, r := range responses {
		if r.Category != CategoryFundraising || r.FollowUp {
			continue
		}
		goal := "Not specified"
		if m := fundingAmountPattern.FindString(r.ResponseText); m != "" {
			goal = strings.TrimSpace(m)
		}
		timeline := "Not specified"
		if m := timelinePattern.FindString(r.ResponseText); m != "" {
			timeline = strings.TrimSpace(m)
		}
		readiness := "Low"
		switch {
		case goal != "Not specified" && timeline != "Not specified":
			readiness = "High"
		case goal != "Not specified" || timeline != "Not specified":
			readiness = "Medium"
		}
		return FundraisingDetails{
			FundingGoal:      goal,
			UseOfFunds:       r.ResponseText,
			FundingTimeline:  timeline,
			FundingReadiness: readiness,
		}
	}
	return FundraisingDetails{
		FundingGoal:      "Not specified",
		UseOfFunds:       "Not specified",
		FundingTimeline:  "Not specified",
		FundingReadiness: "Low",
	}
}

func detailedResponses(responses []ResponseRecord) []DetailedResponse {
	out := make([]DetailedResponse, 0, len(responses))
	for _, r := range responses {
		out = append(out, DetailedResponse{
			Question:   r.QuestionText,
			Response:   r.ResponseText,
			Category:   r.Category,
			Insights:   r.Analysis.KeyInsights,
			Sentiment:  r.Analysis.SentimentScore,
			Confidence: r.Analysis.ConfidenceScore,
		})
	}
	return out
}

// RenderJSON serializes the report for the sink.
func (r *SummaryReport) RenderJSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("interview: marshal report: %w", err)
	}
	return data, nil
}

// RenderText produces the human-readable memo rendering of the same report.
func (r *SummaryReport) RenderText() string {
	var b strings.Builder

	b.WriteString("INVESTMENT INTERVIEW SUMMARY REPORT\n")
	b.WriteString("====================================\n\n")
	fmt.Fprintf(&b, "Founder: %s\n", r.InterviewSummary.FounderName)
	fmt.Fprintf(&b, "Startup: %s\n", r.InterviewSummary.StartupName)
	fmt.Fprintf(&b, "Date: %s\n", r.InterviewSummary.InterviewDate)
	fmt.Fprintf(&b, "Session ID: %s\n\n", r.InterviewSummary.SessionID)

	b.WriteString("KEY INSIGHTS\n============\n")
	writeBulletSection(&b, "Strengths:", r.KeyInsights.Strengths)
	writeBulletSection(&b, "Risks:", r.KeyInsights.Risks)
	writeBulletSection(&b, "Opportunities:", r.KeyInsights.Opportunities)

	b.WriteString("\nFUNDRAISING DETAILS\n===================\n")
	fmt.Fprintf(&b, "Funding Goal: %s\n", r.FundraisingDetails.FundingGoal)
	fmt.Fprintf(&b, "Use of Funds: %s\n", r.FundraisingDetails.UseOfFunds)
	fmt.Fprintf(&b, "Funding Timeline: %s\n", r.FundraisingDetails.FundingTimeline)
	fmt.Fprintf(&b, "Funding Readiness: %s\n", r.FundraisingDetails.FundingReadiness)

	b.WriteString("\nOVERALL ASSESSMENT\n==================\n")
	fmt.Fprintf(&b, "Sentiment Score: %.2f\n", r.OverallAssessment.SentimentScore)
	fmt.Fprintf(&b, "Confidence Score: %.2f\n", r.OverallAssessment.ConfidenceScore)
	fmt.Fprintf(&b, "Recommendation: %s\n\n", r.OverallAssessment.Recommendation)
	writeBulletSection(&b, "Next Steps:", r.OverallAssessment.NextSteps)

	b.WriteString("\nCOMPETITIVE LANDSCAPE\n=====================\n")
	fmt.Fprintf(&b, "%s\n", r.KeyInsights.CompetitiveLandscape.Analysis)

	return b.String()
}

func writeBulletSection(b *strings.Builder, title string, items []string) {
	b.WriteString(title + "\n")
	if len(items) == 0 {
		b.WriteString("- None noted\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}
