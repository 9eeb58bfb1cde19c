package alerts

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"
)

func newTestEngine(t *testing.T, now func() time.Time, rules ...Rule) *Engine {
	t.Helper()
	engine := NewEngine(NewEngineParams{Now: now})
	for _, rule := range rules {
		if err := engine.AddRule(rule); err != nil {
			t.Fatalf("AddRule(%q): %v", rule.Name, err)
		}
	}
	return engine
}

func TestAddRuleValidation(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{
			name: "valid rule",
			rule: Rule{
				Name:       "drug-talk",
				Conditions: []Condition{KeywordCondition{Words: []string{"kilo"}}},
			},
			wantErr: false,
		},
		{
			name:    "empty name",
			rule:    Rule{Conditions: []Condition{PatternCondition{Name: "drugs"}}},
			wantErr: true,
		},
		{
			name:    "no conditions",
			rule:    Rule{Name: "empty"},
			wantErr: true,
		},
		{
			name: "negative cooldown",
			rule: Rule{
				Name:       "negative",
				Cooldown:   -time.Minute,
				Conditions: []Condition{PatternCondition{Name: "drugs"}},
			},
			wantErr: true,
		},
		{
			name: "keyword condition without words",
			rule: Rule{
				Name:       "no-words",
				Conditions: []Condition{KeywordCondition{}},
			},
			wantErr: true,
		},
		{
			name: "pattern condition without name",
			rule: Rule{
				Name:       "no-pattern",
				Conditions: []Condition{PatternCondition{}},
			},
			wantErr: true,
		},
		{
			name: "sentiment condition without label",
			rule: Rule{
				Name:       "no-label",
				Conditions: []Condition{SentimentCondition{}},
			},
			wantErr: true,
		},
		{
			name: "nil condition",
			rule: Rule{
				Name:       "nil-condition",
				Conditions: []Condition{nil},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(NewEngineParams{})
			err := engine.AddRule(tt.rule)
			if (err != nil) != tt.wantErr {
				t.Errorf("AddRule() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddRuleRejectsDuplicateName(t *testing.T) {
	engine := NewEngine(NewEngineParams{})
	rule := Rule{Name: "dup", Conditions: []Condition{PatternCondition{Name: "drugs"}}}

	if err := engine.AddRule(rule); err != nil {
		t.Fatalf("first AddRule: %v", err)
	}
	if err := engine.AddRule(rule); err == nil {
		t.Error("expected error on duplicate rule name")
	}
}

func TestProcessContentConjunctive(t *testing.T) {
	rule := Rule{
		Name:     "drug-deal",
		Severity: "high",
		Conditions: []Condition{
			KeywordCondition{Words: []string{"kilo", "stash"}},
			PatternCondition{Name: "drugs"},
			SentimentCondition{Label: "NEGATIVE"},
		},
	}

	tests := []struct {
		name    string
		content Content
		want    int
	}{
		{
			name: "all conditions match",
			content: Content{
				Keywords:       []string{"kilo", "cash"},
				PatternMatches: []string{"drugs", "money"},
				Sentiment:      "NEGATIVE",
				Summary:        "two kilos for cash",
			},
			want: 1,
		},
		{
			name: "keyword misses",
			content: Content{
				Keywords:       []string{"cash"},
				PatternMatches: []string{"drugs"},
				Sentiment:      "NEGATIVE",
			},
			want: 0,
		},
		{
			name: "pattern misses",
			content: Content{
				Keywords:       []string{"kilo"},
				PatternMatches: []string{"money"},
				Sentiment:      "NEGATIVE",
			},
			want: 0,
		},
		{
			name: "sentiment misses",
			content: Content{
				Keywords:       []string{"kilo"},
				PatternMatches: []string{"drugs"},
				Sentiment:      "NEUTRAL",
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(t, nil, rule)
			alerts := engine.ProcessContent(context.Background(), tt.content)
			if len(alerts) != tt.want {
				t.Errorf("expected %d alerts, got %d", tt.want, len(alerts))
			}
		})
	}
}

func TestProcessContentMatchedConditions(t *testing.T) {
	rule := Rule{
		Name:     "wiretap",
		Severity: "medium",
		Conditions: []Condition{
			KeywordCondition{Words: []string{"burner"}},
			PatternCondition{Name: "suspicious"},
		},
	}
	engine := newTestEngine(t, nil, rule)

	alerts := engine.ProcessContent(context.Background(), Content{
		Keywords:       []string{"burner"},
		PatternMatches: []string{"suspicious"},
		Summary:        "switch to the burner",
	})

	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	expected := []string{"keyword:burner", "pattern:suspicious"}
	if !reflect.DeepEqual(alerts[0].MatchedConditions, expected) {
		t.Errorf("expected matched conditions %v, got %v", expected, alerts[0].MatchedConditions)
	}
	if alerts[0].Severity != "medium" || alerts[0].Summary != "switch to the burner" {
		t.Errorf("unexpected alert %+v", alerts[0])
	}
}

func TestKeywordMatchIsCaseInsensitive(t *testing.T) {
	rule := Rule{
		Name:       "case",
		Conditions: []Condition{KeywordCondition{Words: []string{"Stash"}}},
	}
	engine := newTestEngine(t, nil, rule)

	alerts := engine.ProcessContent(context.Background(), Content{Keywords: []string{"stash"}})
	if len(alerts) != 1 {
		t.Errorf("expected case-insensitive keyword match, got %d alerts", len(alerts))
	}
}

func TestCooldownSuppressesRefire(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rule := Rule{
		Name:       "cooldown",
		Cooldown:   10 * time.Minute,
		Conditions: []Condition{PatternCondition{Name: "drugs"}},
	}
	engine := newTestEngine(t, func() time.Time { return current }, rule)

	content := func(summary string) Content {
		return Content{PatternMatches: []string{"drugs"}, Summary: summary}
	}

	if got := engine.ProcessContent(context.Background(), content("first call")); len(got) != 1 {
		t.Fatalf("expected first alert to fire, got %d", len(got))
	}

	current = current.Add(9 * time.Minute)
	if got := engine.ProcessContent(context.Background(), content("second call")); len(got) != 0 {
		t.Errorf("expected suppression inside cooldown, got %d alerts", len(got))
	}

	current = current.Add(2 * time.Minute)
	got := engine.ProcessContent(context.Background(), content("third call"))
	if len(got) != 1 {
		t.Fatalf("expected alert after cooldown elapsed, got %d", len(got))
	}
	if !got[0].Timestamp.Equal(current) {
		t.Errorf("expected timestamp %v, got %v", current, got[0].Timestamp)
	}
}

func TestDuplicateSummarySuppressed(t *testing.T) {
	rule := Rule{
		Name:       "dedup",
		Conditions: []Condition{PatternCondition{Name: "money"}},
	}
	engine := newTestEngine(t, nil, rule)
	content := Content{PatternMatches: []string{"money"}, Summary: "wire the money"}

	if got := engine.ProcessContent(context.Background(), content); len(got) != 1 {
		t.Fatalf("expected first alert, got %d", len(got))
	}
	if got := engine.ProcessContent(context.Background(), content); len(got) != 0 {
		t.Errorf("expected duplicate summary to be suppressed, got %d alerts", len(got))
	}

	other := Content{PatternMatches: []string{"money"}, Summary: "different summary"}
	if got := engine.ProcessContent(context.Background(), other); len(got) != 1 {
		t.Errorf("expected distinct summary to fire, got %d alerts", len(got))
	}
}

func TestDuplicateWindowIsBounded(t *testing.T) {
	rule := Rule{
		Name:       "window",
		Conditions: []Condition{PatternCondition{Name: "money"}},
	}
	engine := newTestEngine(t, nil, rule)

	fire := func(summary string) []Alert {
		return engine.ProcessContent(context.Background(), Content{
			PatternMatches: []string{"money"},
			Summary:        summary,
		})
	}

	fire("repeat me")
	for i := 0; i < duplicateWindow; i++ {
		fire(fmt.Sprintf("filler %d", i))
	}

	// The original summary has fallen out of the dedup window.
	if got := fire("repeat me"); len(got) != 1 {
		t.Errorf("expected summary outside dedup window to fire, got %d alerts", len(got))
	}
}

func TestHistoryIsBounded(t *testing.T) {
	rule := Rule{
		Name:       "bounded",
		Conditions: []Condition{PatternCondition{Name: "money"}},
	}
	engine := newTestEngine(t, nil, rule)

	for i := 0; i < historyCapacity+4; i++ {
		engine.ProcessContent(context.Background(), Content{
			PatternMatches: []string{"money"},
			Summary:        fmt.Sprintf("call %d", i),
		})
	}

	history := engine.History("bounded")
	if len(history) != historyCapacity {
		t.Fatalf("expected history length %d, got %d", historyCapacity, len(history))
	}
	if history[0].Summary != "call 4" || history[len(history)-1].Summary != fmt.Sprintf("call %d", historyCapacity+3) {
		t.Errorf("expected oldest entries evicted, got first=%q last=%q",
			history[0].Summary, history[len(history)-1].Summary)
	}
}

func TestHandlerErrorsAreIsolated(t *testing.T) {
	rule := Rule{
		Name:       "handlers",
		Conditions: []Condition{PatternCondition{Name: "drugs"}},
	}
	engine := newTestEngine(t, nil, rule)

	var delivered []string
	engine.AddHandler(func(ctx context.Context, alert Alert) error {
		return errors.New("notification channel down")
	})
	engine.AddHandler(func(ctx context.Context, alert Alert) error {
		delivered = append(delivered, alert.RuleName)
		return nil
	})

	alerts := engine.ProcessContent(context.Background(), Content{
		PatternMatches: []string{"drugs"},
		Summary:        "handler test",
	})

	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if !reflect.DeepEqual(delivered, []string{"handlers"}) {
		t.Errorf("expected second handler to run despite first failing, got %v", delivered)
	}
}

func TestHistoryRecordedBeforeHandlers(t *testing.T) {
	rule := Rule{
		Name:       "ordering",
		Conditions: []Condition{PatternCondition{Name: "drugs"}},
	}
	engine := newTestEngine(t, nil, rule)

	var seen int
	engine.AddHandler(func(ctx context.Context, alert Alert) error {
		seen = len(engine.History(alert.RuleName))
		return nil
	})

	engine.ProcessContent(context.Background(), Content{
		PatternMatches: []string{"drugs"},
		Summary:        "ordering test",
	})

	if seen != 1 {
		t.Errorf("expected handler to observe the alert in history, got %d entries", seen)
	}
}

func TestHistoryUnknownRule(t *testing.T) {
	engine := NewEngine(NewEngineParams{})
	if history := engine.History("missing"); history != nil {
		t.Errorf("expected nil history for unknown rule, got %v", history)
	}
}
