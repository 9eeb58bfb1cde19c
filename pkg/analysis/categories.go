package analysis

// Category is a named group of regex-based detection rules with a score
// weight. Categories are configuration: they are supplied at construction
// time and never mutated afterwards.
type Category struct {
	Name     string
	Patterns []string
	Weight   int
}

// DefaultCategories returns the built-in risk categories. Single-category
// hits are weak signals on their own (these are common words); the analyzer
// escalates when several categories co-occur in one conversation.
func DefaultCategories() []Category {
	return []Category{
		{
			Name: "drugs",
			Patterns: []string{
				`(?i)cocaine|heroin|meth|drug|pills?|weed|marijuana`,
				`(?i)dealer|supply|stash|batch|pure|quality`,
				`(?i)grams?|kilos?|ounces?|pounds?`,
				`(?i)delivery|pickup|drop.?off|meet.?up`,
			},
			Weight: 40,
		},
		{
			Name: "money",
			Patterns: []string{
				`(?i)\$\d+k?`,
				`(?i)cash|money|payment|transfer`,
				`(?i)bitcoin|crypto|wallet`,
			},
			Weight: 30,
		},
		{
			Name: "suspicious",
			Patterns: []string{
				`(?i)cops?|police|feds?`,
				`(?i)careful|quiet|private|secret`,
				`(?i)burner|phone|secure|encrypted`,
			},
			Weight: 30,
		},
	}
}
