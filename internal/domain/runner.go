// Package domain defines the business logic for the run-tracking admin service.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrTargetNotFound is returned when a target achievement cannot be located.
	ErrTargetNotFound = errors.New("target achievement not found")
)

// ValidationStatus represents the moderation state of a target achievement.
type ValidationStatus string

const (
	ValidationPending   ValidationStatus = "pending"
	ValidationValidated ValidationStatus = "validated"
)

// AchievementStatus classifies a runner's progress toward the distance target.
// It is derived from cumulative distance and is independent of the
// per-achievement validation workflow.
type AchievementStatus string

const (
	StatusAchieved   AchievementStatus = "achieved"
	StatusInProgress AchievementStatus = "in_progress"
	StatusNotStarted AchievementStatus = "not_started"
)

// TargetDistanceKM is the default qualifying distance for a target achievement.
const TargetDistanceKM = 14.0

// Runner is the canonical runner record stored in PostgreSQL.
type Runner struct {
	ID              string
	Name            string
	Rank            string
	Unit            string
	TotalDistanceKM float64
	TotalSessions   int
	CreatedAt       time.Time
}

// TargetAchievement records a single qualifying session that met the distance
// target. Rows are read-only evidence except for the validation transition.
type TargetAchievement struct {
	ID           string
	RunnerID     string
	RunnerName   string
	RunnerRank   string
	DistanceKM   float64
	DurationSec  int
	AchievedDate time.Time
	Validation   ValidationStatus
}
