// Package events defines the topics and payloads exchanged with the scoring
// app and with presentation consumers.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	// TopicHoleUpdated is published by the scoring app whenever a hole entry changes.
	TopicHoleUpdated = "scoring.hole.updated.v1"
	// TopicMatchUpdated is published when match metadata (sides, status, length) changes.
	TopicMatchUpdated = "scoring.match.updated.v1"
	// TopicStandingsUpdated is published after a division table is rewritten.
	TopicStandingsUpdated = "standings.updated.v1"

	// MetadataCorrelationID carries the correlation id across services.
	MetadataCorrelationID = "correlation_id"
)

// HoleUpdatedPayload announces a changed hole.
type HoleUpdatedPayload struct {
	MatchID    string `json:"match_id"`
	Division   string `json:"division"`
	HoleNumber int    `json:"hole_number"`
}

// MatchUpdatedPayload announces a changed match.
type MatchUpdatedPayload struct {
	MatchID  string `json:"match_id"`
	Division string `json:"division"`
}

// StandingSummary is one row of a published table.
type StandingSummary struct {
	TeamID         string  `json:"team_id"`
	Name           string  `json:"name"`
	Position       int     `json:"position"`
	PositionChange int     `json:"position_change"`
	Points         float64 `json:"points"`
	MatchesPlayed  int     `json:"matches_played"`
}

// StandingsUpdatedPayload announces a recomputed division table.
type StandingsUpdatedPayload struct {
	Division         string            `json:"division"`
	RunID            string            `json:"run_id"`
	Hash             string            `json:"hash"`
	LatestSession    string            `json:"latest_session,omitempty"`
	InsufficientData bool              `json:"insufficient_data"`
	Findings         int               `json:"findings"`
	ComputedAt       time.Time         `json:"computed_at"`
	Standings        []StandingSummary `json:"standings"`
}

// NewMessage encodes payload as JSON into a watermill message.
func NewMessage(payload any, correlationID string) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", payload, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if correlationID != "" {
		msg.Metadata.Set(MetadataCorrelationID, correlationID)
	}
	return msg, nil
}

// Decode unmarshals a message payload into T.
func Decode[T any](msg *message.Message) (T, error) {
	var out T
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		return out, fmt.Errorf("failed to unmarshal %T: %w", out, err)
	}
	return out, nil
}
