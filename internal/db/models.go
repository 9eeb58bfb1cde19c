package db

import (
	"encoding/json"
	"time"
)

type Call struct {
	ID            int64     `json:"id"`
	PublicID      string    `json:"public_id"`
	Pin           string    `json:"pin"`
	Source        string    `json:"source"`
	Destination   string    `json:"destination"`
	Language      *string   `json:"language,omitempty"`
	RecordingKey  *string   `json:"recording_key,omitempty"`
	Transcription *string   `json:"transcription,omitempty"`
	Status        string    `json:"status"`
	RiskLevel     *int32    `json:"risk_level,omitempty"`
	RiskFactors   []string  `json:"risk_factors"`
	Keywords      []string  `json:"keywords"`
	Sentiment     *string   `json:"sentiment,omitempty"`
	Summary       *string   `json:"summary,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CallAlert struct {
	ID                int64     `json:"id"`
	CallPublicID      string    `json:"call_public_id"`
	RuleName          string    `json:"rule_name"`
	Severity          string    `json:"severity"`
	MatchedConditions []string  `json:"matched_conditions"`
	Summary           string    `json:"summary"`
	TriggeredAt       time.Time `json:"triggered_at"`
}

type ContactEdge struct {
	ID           int64           `json:"id"`
	Source       string          `json:"source"`
	Target       string          `json:"target"`
	SourceType   string          `json:"source_type"`
	TargetType   string          `json:"target_type"`
	Weight       float64         `json:"weight"`
	Interactions json.RawMessage `json:"interactions"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
