package interview

// DefaultQuestions returns the fixed investment question bank. Order is a
// contract: problem, customers, traction, business_model, competition,
// fundraising.
func DefaultQuestions() []Question {
	return []Question{
		{
			Text:     "What problem is your startup solving?",
			Category: CategoryProblem,
			FollowUps: []string{
				"How did you identify this problem?",
				"What makes this problem urgent and important?",
				"How big is this problem in terms of market size?",
			},
		},
		{
			Text:     "Who are your target customers?",
			Category: CategoryCustomers,
			FollowUps: []string{
				"How do you reach your target customers?",
				"What's your customer acquisition strategy?",
				"How do you validate product-market fit?",
			},
		},
		{
			Text:     "What is your current traction (users, revenue, growth)?",
			Category: CategoryTraction,
			FollowUps: []string{
				"What are your key growth metrics?",
				"How has your growth rate changed over time?",
				"What's driving your growth?",
			},
		},
		{
			Text:     "What is your business model?",
			Category: CategoryBusinessModel,
			FollowUps: []string{
				"How do you price your product/service?",
				"What's your customer lifetime value?",
				"How scalable is your business model?",
			},
		},
		{
			Text:     "Who are your competitors and how are you different?",
			Category: CategoryCompetition,
			FollowUps: []string{
				"What's your competitive advantage?",
				"How do you plan to maintain your differentiation?",
				"What barriers to entry exist in your market?",
			},
		},
		{
			Text:     "What is your fundraising goal and how will you use the capital?",
			Category: CategoryFundraising,
			FollowUps: []string{
				"What milestones will this funding help you achieve?",
				"How long will this funding last?",
				"What's your next funding round timeline?",
			},
		},
	}
}
