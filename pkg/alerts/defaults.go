package alerts

import "time"

// DefaultRules returns the rule set the platform ships with. Deployments can
// register additional rules on top.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "drug-activity",
			Severity: "high",
			Cooldown: 10 * time.Minute,
			Conditions: []Condition{
				PatternCondition{Name: "drugs"},
			},
		},
		{
			Name:     "payment-coordination",
			Severity: "medium",
			Cooldown: 15 * time.Minute,
			Conditions: []Condition{
				PatternCondition{Name: "money"},
				KeywordCondition{Words: []string{"cash", "transfer", "bitcoin", "crypto", "wallet"}},
			},
		},
		{
			Name:     "surveillance-evasion",
			Severity: "high",
			Cooldown: 10 * time.Minute,
			Conditions: []Condition{
				PatternCondition{Name: "suspicious"},
				SentimentCondition{Label: "NEGATIVE"},
			},
		},
	}
}
