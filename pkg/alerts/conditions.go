package alerts

import (
	"errors"
	"fmt"
	"strings"
)

// Condition is one criterion of a rule. All conditions of a rule must match
// for the rule to fire. The concrete types are KeywordCondition,
// PatternCondition and SentimentCondition.
type Condition interface {
	// Describe returns a short human-readable form used in
	// Alert.MatchedConditions.
	Describe() string

	validate() error
	matches(content Content) bool
}

// KeywordCondition matches when any of its words appears in the content's
// keywords. Comparison is case-insensitive.
type KeywordCondition struct {
	Words []string
}

func (c KeywordCondition) Describe() string {
	return fmt.Sprintf("keyword:%s", strings.Join(c.Words, ","))
}

func (c KeywordCondition) validate() error {
	if len(c.Words) == 0 {
		return errors.New("keyword condition requires at least one word")
	}
	for _, word := range c.Words {
		if strings.TrimSpace(word) == "" {
			return errors.New("keyword condition contains an empty word")
		}
	}
	return nil
}

func (c KeywordCondition) matches(content Content) bool {
	for _, word := range c.Words {
		for _, keyword := range content.Keywords {
			if strings.EqualFold(word, keyword) {
				return true
			}
		}
	}
	return false
}

// PatternCondition matches when the content reports a risk factor with the
// given name.
type PatternCondition struct {
	Name string
}

func (c PatternCondition) Describe() string {
	return fmt.Sprintf("pattern:%s", c.Name)
}

func (c PatternCondition) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("pattern condition requires a name")
	}
	return nil
}

func (c PatternCondition) matches(content Content) bool {
	for _, name := range content.PatternMatches {
		if name == c.Name {
			return true
		}
	}
	return false
}

// SentimentCondition matches when the content's sentiment label equals the
// configured label.
type SentimentCondition struct {
	Label string
}

func (c SentimentCondition) Describe() string {
	return fmt.Sprintf("sentiment:%s", c.Label)
}

func (c SentimentCondition) validate() error {
	if strings.TrimSpace(c.Label) == "" {
		return errors.New("sentiment condition requires a label")
	}
	return nil
}

func (c SentimentCondition) matches(content Content) bool {
	return content.Sentiment == c.Label
}
