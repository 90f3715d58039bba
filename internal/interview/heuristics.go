package interview

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SignalRule is one table-driven pattern the analyzer matches against a
// response. Keywords are substring matches on the lowercased text; a rule
// fires when any keyword matches and, if RequiresNumber is set, the response
// contains numeric data (digits, currency or percentages).
type SignalRule struct {
	Keywords       []string `yaml:"keywords"`
	RequiresNumber bool     `yaml:"requires_number"`
	Message        string   `yaml:"message"`
}

// Heuristics holds every keyword list and threshold the analyzer and the
// follow-up policy use. The exact values are tunable configuration, not a
// behavioral contract; DefaultHeuristics documents the shipped defaults.
type Heuristics struct {
	// Sentiment
	PositiveKeywords []string `yaml:"positive_keywords"`
	NegativeKeywords []string `yaml:"negative_keywords"`
	SentimentStep    float64  `yaml:"sentiment_step"`

	// Confidence
	DetailedWordCount  int      `yaml:"detailed_word_count"`
	BriefWordCount     int      `yaml:"brief_word_count"`
	ShortAnswerCeiling float64  `yaml:"short_answer_ceiling"`
	ConfidentPhrases   []string `yaml:"confident_phrases"`
	HedgingPhrases     []string `yaml:"hedging_phrases"`

	// Category-specific insight and red-flag patterns
	Insights map[Category][]SignalRule `yaml:"insights"`
	RedFlags map[Category][]SignalRule `yaml:"red_flags"`
}

// DefaultHeuristics returns the shipped rule tables.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		PositiveKeywords: []string{
			"growing", "strong", "excited", "profitable", "successful",
			"confident", "passionate", "momentum", "optimistic",
		},
		NegativeKeywords: []string{
			"struggling", "difficult", "unsure", "declining", "worried",
			"concerned", "challenging", "losing",
		},
		SentimentStep: 0.25,

		DetailedWordCount:  40,
		BriefWordCount:     8,
		ShortAnswerCeiling: 0.3,
		ConfidentPhrases: []string{
			"confident", "proven", "validated", "tested", "evidence", "data shows",
		},
		HedgingPhrases: []string{
			"not sure", "don't know", "haven't decided", "no idea", "maybe",
		},

		Insights: map[Category][]SignalRule{
			CategoryProblem: {
				{Keywords: []string{"market"}, RequiresNumber: true, Message: "Market size quantified"},
				{Keywords: []string{"urgent", "critical"}, Message: "Problem urgency highlighted"},
			},
			CategoryCustomers: {
				{Keywords: []string{"enterprise"}, Message: "Enterprise customer focus"},
				{Keywords: []string{"b2b", "b2c"}, Message: "Clear customer segment identified"},
			},
			CategoryTraction: {
				{Keywords: []string{"growth", "growing", "users", "revenue", "mrr", "arr", "customers"}, RequiresNumber: true, Message: "Traction metrics mentioned"},
				{Keywords: []string{"retention", "churn"}, Message: "Retention awareness shown"},
			},
			CategoryBusinessModel: {
				{Keywords: []string{"subscription", "saas", "recurring"}, Message: "Recurring revenue model"},
				{Keywords: []string{"pricing", "$"}, Message: "Pricing strategy discussed"},
			},
			CategoryCompetition: {
				{Keywords: []string{"different", "unique", "unlike"}, Message: "Differentiation mentioned"},
				{Keywords: []string{"advantage", "moat"}, Message: "Competitive advantage identified"},
			},
			CategoryFundraising: {
				{Keywords: []string{"$", "million", "billion", "raise", "raising"}, RequiresNumber: true, Message: "Specific funding amount mentioned"},
				{Keywords: []string{"milestone", "goal"}, Message: "Clear funding goals outlined"},
			},
		},
		RedFlags: map[Category][]SignalRule{
			CategoryCompetition: {
				{Keywords: []string{"no competition", "no competitors"}, Message: "Claims no competition - may indicate market misunderstanding"},
			},
		},
	}
}

// LoadHeuristics reads a YAML override file on top of the defaults. Only
// fields present in the file replace the shipped values.
func LoadHeuristics(path string) (Heuristics, error) {
	h := DefaultHeuristics()
	if path == "" {
		return h, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return h, fmt.Errorf("interview: read heuristics file: %w", err)
	}
	if err := yaml.Unmarshal(data, &h); err != nil {
		return h, fmt.Errorf("interview: parse heuristics file: %w", err)
	}
	return h, nil
}
