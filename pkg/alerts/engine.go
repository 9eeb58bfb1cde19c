package alerts

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vigia-labs/vigia/pkg/logger"
)

const (
	historyCapacity = 8
	duplicateWindow = 5
)

// Content is the analyzed material a rule set is evaluated against:
// extracted keywords, the names of matched risk categories, the sentiment
// label, and a short summary used for alert deduplication.
type Content struct {
	Keywords       []string
	PatternMatches []string
	Sentiment      string
	Summary        string
}

// Rule describes when an alert fires. All conditions must match
// (conjunctive). Cooldown suppresses re-firing for the given duration after
// the rule last fired.
type Rule struct {
	Name       string
	Severity   string
	Cooldown   time.Duration
	Conditions []Condition
}

// Alert is one fired rule instance.
type Alert struct {
	RuleName          string    `json:"rule_name"`
	Severity          string    `json:"severity"`
	Timestamp         time.Time `json:"timestamp"`
	MatchedConditions []string  `json:"matched_conditions"`
	Summary           string    `json:"summary"`
}

// Handler receives every fired alert. Handler errors are logged and never
// stop delivery to the remaining handlers.
type Handler func(ctx context.Context, alert Alert) error

// Engine evaluates registered rules against analyzed content and fans fired
// alerts out to handlers. State is guarded by a mutex so concurrent
// ProcessContent calls keep the cooldown and deduplication contracts.
type Engine struct {
	mu       sync.Mutex
	rules    []Rule
	history  map[string]*alertRing
	handlers []Handler

	now func() time.Time
}

// NewEngineParams contains configuration for creating an Engine.
type NewEngineParams struct {
	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// NewEngine creates an Engine with no rules or handlers.
func NewEngine(params NewEngineParams) *Engine {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		history: map[string]*alertRing{},
		now:     now,
	}
}

// AddRule registers a rule after validating it. Invalid rules are rejected
// outright rather than silently never firing.
func (e *Engine) AddRule(rule Rule) error {
	if strings.TrimSpace(rule.Name) == "" {
		return fmt.Errorf("rule name must not be empty")
	}
	if len(rule.Conditions) == 0 {
		return fmt.Errorf("rule %q has no conditions", rule.Name)
	}
	if rule.Cooldown < 0 {
		return fmt.Errorf("rule %q has a negative cooldown", rule.Name)
	}
	for i, condition := range rule.Conditions {
		if condition == nil {
			return fmt.Errorf("rule %q condition %d is nil", rule.Name, i)
		}
		if err := condition.validate(); err != nil {
			return fmt.Errorf("rule %q condition %d: %w", rule.Name, i, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, existing := range e.rules {
		if existing.Name == rule.Name {
			return fmt.Errorf("rule %q already registered", rule.Name)
		}
	}
	e.rules = append(e.rules, rule)
	e.history[rule.Name] = newAlertRing(historyCapacity)
	return nil
}

// AddHandler registers a handler for fired alerts.
func (e *Engine) AddHandler(handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
}

// Rules returns the registered rules in registration order.
func (e *Engine) Rules() []Rule {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Rule(nil), e.rules...)
}

// History returns the retained alerts of a rule in chronological order.
func (e *Engine) History(ruleName string) []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	ring, ok := e.history[ruleName]
	if !ok {
		return nil
	}
	return ring.all()
}

// ProcessContent evaluates all rules against the content and returns the
// alerts that actually fired. A rule fires when every condition matches, its
// cooldown has elapsed, and the content's summary is not a duplicate of a
// recent alert. Fired alerts are recorded in history before handlers run.
func (e *Engine) ProcessContent(ctx context.Context, content Content) []Alert {
	var fired []Alert
	var handlers []Handler

	e.mu.Lock()
	now := e.now().UTC()
	for _, rule := range e.rules {
		matched := evaluate(rule, content)
		if matched == nil {
			continue
		}
		ring := e.history[rule.Name]
		if last, ok := ring.last(); ok && now.Sub(last.Timestamp) < rule.Cooldown {
			continue
		}
		if isDuplicate(ring, content.Summary) {
			continue
		}
		alert := Alert{
			RuleName:          rule.Name,
			Severity:          rule.Severity,
			Timestamp:         now,
			MatchedConditions: matched,
			Summary:           content.Summary,
		}
		ring.push(alert)
		fired = append(fired, alert)
	}
	handlers = append(handlers, e.handlers...)
	e.mu.Unlock()

	for _, alert := range fired {
		for _, handler := range handlers {
			if err := handler(ctx, alert); err != nil {
				logger.Error("alert handler failed", "rule", alert.RuleName, "error", err)
			}
		}
	}
	return fired
}

// evaluate returns the descriptions of the matched conditions, or nil when
// any condition fails. Evaluation short-circuits on the first miss.
func evaluate(rule Rule, content Content) []string {
	matched := make([]string, 0, len(rule.Conditions))
	for _, condition := range rule.Conditions {
		if !condition.matches(content) {
			return nil
		}
		matched = append(matched, condition.Describe())
	}
	return matched
}

func isDuplicate(ring *alertRing, summary string) bool {
	for _, previous := range ring.recent(duplicateWindow) {
		if previous.Summary == summary {
			return true
		}
	}
	return false
}
