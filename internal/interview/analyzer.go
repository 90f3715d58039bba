package interview

import (
	"strings"
	"unicode"
)

// Analyzer scores a single response with deterministic heuristics. It is
// pure computation: no I/O, no state, and it never fails — malformed or
// empty input degrades to minimum scores and empty lists.
type Analyzer struct {
	h Heuristics
}

// NewAnalyzer builds an analyzer from the given rule tables.
func NewAnalyzer(h Heuristics) *Analyzer {
	return &Analyzer{h: h}
}

// Heuristics exposes the active rule tables (for the follow-up policy).
func (a *Analyzer) Heuristics() Heuristics {
	return a.h
}

// Analyze scores a response against the category's rule tables.
func (a *Analyzer) Analyze(text string, category Category) AnalysisResult {
	result := AnalysisResult{
		KeyInsights:     []string{},
		RedFlags:        []string{},
		PositiveSignals: []string{},
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return result
	}

	lower := strings.ToLower(trimmed)
	wordCount := len(strings.Fields(trimmed))
	numeric := hasNumericData(trimmed)

	result.SentimentScore = a.sentiment(lower)
	result.ConfidenceScore = a.confidence(lower, wordCount, numeric)

	for _, rule := range a.h.Insights[category] {
		if rule.matches(lower, numeric) {
			result.KeyInsights = appendUnique(result.KeyInsights, rule.Message)
		}
	}

	result.RedFlags = a.redFlags(lower, wordCount, numeric, category)
	result.PositiveSignals = a.positiveSignals(lower, wordCount, numeric)

	return result
}

// sentiment starts neutral and nudges the score per matched keyword,
// clamped to [-1, 1].
func (a *Analyzer) sentiment(lower string) float64 {
	score := 0.0
	for _, kw := range a.h.PositiveKeywords {
		if strings.Contains(lower, kw) {
			score += a.h.SentimentStep
		}
	}
	for _, kw := range a.h.NegativeKeywords {
		if strings.Contains(lower, kw) {
			score -= a.h.SentimentStep
		}
	}
	return clamp(score, -1.0, 1.0)
}

// confidence blends response length with specificity signals. Very short
// answers are capped at a low ceiling regardless of content.
func (a *Analyzer) confidence(lower string, wordCount int, numeric bool) float64 {
	lengthFactor := float64(wordCount) / float64(a.h.DetailedWordCount)
	if lengthFactor > 1.0 {
		lengthFactor = 1.0
	}
	score := 0.2 + 0.3*lengthFactor
	if numeric {
		score += 0.3
	}
	if containsAny(lower, a.h.ConfidentPhrases) {
		score += 0.2
	}
	if containsAny(lower, a.h.HedgingPhrases) {
		score -= 0.2
	}
	if wordCount < a.h.BriefWordCount && score > a.h.ShortAnswerCeiling {
		score = a.h.ShortAnswerCeiling
	}
	return clamp(score, 0.0, 1.0)
}

func (a *Analyzer) redFlags(lower string, wordCount int, numeric bool, category Category) []string {
	flags := []string{}

	if containsAny(lower, a.h.HedgingPhrases) {
		flags = appendUnique(flags, "Uncertainty about key aspects")
	}
	if wordCount < a.h.BriefWordCount {
		flags = appendUnique(flags, "Very brief response - may lack depth")
	}
	if containsAny(lower, []string{"confidential", "can't share", "cannot share"}) {
		flags = appendUnique(flags, "Lack of transparency")
	}
	for _, rule := range a.h.RedFlags[category] {
		if rule.matches(lower, numeric) {
			flags = appendUnique(flags, rule.Message)
		}
	}
	// A fundraising answer is expected to name an amount.
	if category == CategoryFundraising && !numeric {
		flags = appendUnique(flags, "No funding amount specified")
	}
	return flags
}

func (a *Analyzer) positiveSignals(lower string, wordCount int, numeric bool) []string {
	signals := []string{}
	if numeric {
		signals = appendUnique(signals, "Specific metrics provided")
	}
	if wordCount >= a.h.DetailedWordCount {
		signals = appendUnique(signals, "Detailed, comprehensive response")
	}
	if containsAny(lower, a.h.ConfidentPhrases) {
		signals = appendUnique(signals, "Evidence-based, confident phrasing")
	}
	return signals
}

func (r SignalRule) matches(lower string, numeric bool) bool {
	if r.RequiresNumber && !numeric {
		return false
	}
	return containsAny(lower, r.Keywords)
}

// hasNumericData reports whether the text carries digits, currency symbols
// or percentages.
func hasNumericData(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) || r == '$' || r == '%' {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
