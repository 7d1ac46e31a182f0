// Package events defines the payloads published through the outbox.
package events

import "time"

// TargetValidated is emitted when a moderator confirms a 14 km achievement.
type TargetValidated struct {
	TargetID    string    `json:"target_id"`
	RunnerID    string    `json:"runner_id"`
	DistanceKM  float64   `json:"distance_km"`
	ValidatedAt time.Time `json:"validated_at"`
}
