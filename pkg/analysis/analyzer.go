package analysis

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/vigia-labs/vigia/pkg/ai"
)

// cooccurrenceFactor amplifies the summed category weights when more than
// one category matched. Multi-category co-occurrence (quantity, money and
// secrecy vocabulary together) is the actual signal worth escalating.
const cooccurrenceFactor = 1.5

const maxRiskLevel = 100

// Match is a single pattern hit with its span in the analyzed text.
type Match struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// SentimentResult carries the classifier verdict, or the classification
// error when the classifier failed. Classification failure never blocks
// risk scoring.
type SentimentResult struct {
	Label string  `json:"label,omitempty"`
	Score float64 `json:"score,omitempty"`
	Err   string  `json:"error,omitempty"`
}

// Assessment is the result of analyzing one unit of conversation text.
type Assessment struct {
	RiskLevel   int                `json:"risk_level"`
	RiskFactors []string           `json:"risk_factors"`
	Matches     map[string][]Match `json:"matches"`
	Sentiment   SentimentResult    `json:"sentiment"`
	Keywords    []string           `json:"keywords"`
}

type compiledCategory struct {
	name     string
	patterns []*regexp.Regexp
	weight   int
}

// ContentAnalyzer scans conversation text against categorized risk patterns
// and a sentiment classifier. It holds no per-call state and is safe to use
// from multiple goroutines.
type ContentAnalyzer struct {
	categories []compiledCategory
	classifier ai.SentimentClassifier
}

// NewContentAnalyzerParams contains configuration for creating a ContentAnalyzer.
type NewContentAnalyzerParams struct {
	// Classifier is invoked once per analyzed text. May be nil, in which
	// case every assessment carries a sentiment error.
	Classifier ai.SentimentClassifier
	// Categories defaults to DefaultCategories when empty. Order is
	// significant: risk factors are reported in category order.
	Categories []Category
}

// NewContentAnalyzer compiles the category patterns and returns an analyzer.
// An invalid pattern is a configuration error and fails construction.
func NewContentAnalyzer(params NewContentAnalyzerParams) (*ContentAnalyzer, error) {
	categories := params.Categories
	if len(categories) == 0 {
		categories = DefaultCategories()
	}

	compiled := make([]compiledCategory, 0, len(categories))
	for _, cat := range categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("risk category with empty name")
		}
		if len(cat.Patterns) == 0 {
			return nil, fmt.Errorf("risk category %q has no patterns", cat.Name)
		}
		cc := compiledCategory{
			name:     cat.Name,
			patterns: make([]*regexp.Regexp, 0, len(cat.Patterns)),
			weight:   cat.Weight,
		}
		for _, p := range cat.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("risk category %q: invalid pattern %q: %w", cat.Name, p, err)
			}
			cc.patterns = append(cc.patterns, re)
		}
		compiled = append(compiled, cc)
	}

	return &ContentAnalyzer{
		categories: compiled,
		classifier: params.Classifier,
	}, nil
}

// Analyze scores a block of conversation text for risk signals and tone.
// It always returns a complete assessment: a sentiment classification
// failure is captured in the result instead of aborting the scan.
func (a *ContentAnalyzer) Analyze(ctx context.Context, text string) Assessment {
	result := Assessment{
		RiskFactors: []string{},
		Matches:     map[string][]Match{},
	}

	for _, cat := range a.categories {
		var matches []Match
		for _, re := range cat.patterns {
			for _, span := range re.FindAllStringIndex(text, -1) {
				matches = append(matches, Match{
					Text:  text[span[0]:span[1]],
					Start: span[0],
					End:   span[1],
				})
			}
		}
		if len(matches) > 0 {
			result.Matches[cat.name] = matches
			result.RiskFactors = append(result.RiskFactors, cat.name)
		}
	}

	score := 0
	for _, cat := range a.categories {
		if _, ok := result.Matches[cat.name]; ok {
			score += cat.weight
		}
	}
	if len(result.RiskFactors) > 1 {
		score = int(float64(score) * cooccurrenceFactor)
	}
	if score > maxRiskLevel {
		score = maxRiskLevel
	}
	if score < 0 {
		score = 0
	}
	result.RiskLevel = score

	result.Keywords = keywordsFromMatches(result.RiskFactors, result.Matches)

	if a.classifier == nil {
		result.Sentiment = SentimentResult{Err: "no sentiment classifier configured"}
		return result
	}
	sentiment, err := a.classifier.ClassifySentiment(ctx, text)
	if err != nil {
		result.Sentiment = SentimentResult{Err: err.Error()}
	} else {
		result.Sentiment = SentimentResult{
			Label: sentiment.Label,
			Score: sentiment.Score,
		}
	}

	return result
}

// keywordsFromMatches flattens matched texts into a lowercased, deduplicated
// keyword list, preserving category then match order.
func keywordsFromMatches(factors []string, matches map[string][]Match) []string {
	seen := make(map[string]bool)
	keywords := []string{}
	for _, factor := range factors {
		for _, m := range matches[factor] {
			kw := strings.ToLower(strings.TrimSpace(m.Text))
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
