package interview

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// detailedAnswers maps each question category to a detailed founder answer.
func detailedAnswers() map[Category]string {
	return map[Category]string{
		CategoryProblem: "Small businesses waste hours every week on manual invoicing, and the market for " +
			"automation tools is worth $4 billion. We validated the problem with 80 interviews and the data shows " +
			"it is urgent for owners who cannot afford back-office staff at this stage of their growth.",
		CategoryCustomers: "Our target customers are b2b bookkeeping firms with 5 to 50 employees. We reach them " +
			"through partnerships with accounting software vendors and have proven channels that convert at 8%, " +
			"which keeps our acquisition costs predictable and low across every segment we serve today.",
		CategoryTraction: "We are growing 20% month over month with $50K MRR, strong retention above 95%, and " +
			"data shows expansion revenue from existing accounts. We are excited about the momentum and have " +
			"validated pricing with more than 200 paying customers across three market segments already.",
		CategoryBusinessModel: "We run a subscription saas model with recurring revenue, pricing starts at $99 " +
			"per month per seat. Gross margins are 85% and our customer lifetime value is proven at $12,000, " +
			"which gives us confident unit economics that scale with every new cohort we onboard.",
		CategoryCompetition: "We compete with legacy invoicing suites but we are different because our unique " +
			"automation engine gives us a clear advantage, a data moat from transaction history, and proven " +
			"switching costs. We have validated this differentiation with win rates above 60% in direct deals.",
		CategoryFundraising: "We are raising $2 million to fund product development and sales hiring over the " +
			"next 18 months. The milestones are $150K MRR and expansion into two new markets, and data shows " +
			"our burn gives us confident runway with this raise plus existing revenue growth.",
	}
}

// completedSessionFixture returns a terminal session with one response per
// question, analyzed with the default heuristics.
func completedSessionFixture(t *testing.T) *InterviewSession {
	t.Helper()

	answers := detailedAnswers()
	analyzer := NewAnalyzer(DefaultHeuristics())
	started := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	ended := started.Add(25 * time.Minute)

	session := &InterviewSession{
		SessionID:   "sess-fixture-1",
		FounderName: "Sarah Johnson",
		StartupName: "EcoTech Solutions",
		Status:      StatusCompleted,
		StartedAt:   started,
		EndedAt:     &ended,
		Responses:   []ResponseRecord{},
	}
	for i, q := range DefaultQuestions() {
		text := answers[q.Category]
		require.NotEmpty(t, text, "missing fixture answer for %s", q.Category)
		session.Responses = append(session.Responses, ResponseRecord{
			QuestionText: q.Text,
			Category:     q.Category,
			ResponseText: text,
			Timestamp:    started.Add(time.Duration(i+1) * time.Minute),
			Analysis:     analyzer.Analyze(text, q.Category),
		})
	}
	session.CurrentQuestionIndex = len(session.Responses)
	session.OverallSentiment = meanSentiment(session.Responses)
	session.OverallConfidence = meanConfidence(session.Responses)
	session.KeyInsights, session.RedFlags, session.PositiveSignals = aggregateSignals(session.Responses)
	return session
}
