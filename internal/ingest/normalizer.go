// Package ingest is the single normalization boundary for duck-typed legacy
// records. The admin panel's earlier exports drifted across near-duplicate
// schemas (totalDistance vs total_distance, createdAt vs created_at); every
// spelling is absorbed here once, and the rest of the service only ever sees
// the canonical domain structs.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/pieinspace/runTrackingAdmin/internal/domain"
)

// RawRunner mirrors every field spelling observed in legacy runner exports.
type RawRunner struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Rank               *string  `json:"rank"`
	Unit               *string  `json:"kesatuan"`
	TotalDistance      *float64 `json:"totalDistance"`
	TotalDistanceSnake *float64 `json:"total_distance"`
	TotalSessions      *int     `json:"totalSessions"`
	TotalSessionsSnake *int     `json:"total_sessions"`
	CreatedAt          *string  `json:"createdAt"`
	CreatedAtSnake     *string  `json:"created_at"`
}

// RawTarget mirrors the legacy 14 km achievement export rows.
type RawTarget struct {
	ID               string   `json:"id"`
	RunnerID         string   `json:"runner_id"`
	Name             string   `json:"name"`
	Rank             *string  `json:"rank"`
	DistanceKM       *float64 `json:"distance_km"`
	DurationSec      *int     `json:"duration_sec"`
	TimeTaken        *string  `json:"time_taken"`
	AchievedDate     string   `json:"achieved_date"`
	DateCreated      string   `json:"date_created"`
	ValidationStatus string   `json:"validation_status"`
}

// Normalizer converts raw records into canonical domain structs, logging
// data-quality warnings for malformed values instead of dropping rows.
type Normalizer struct {
	logger *log.Logger
}

// NewNormalizer builds a Normalizer. A nil logger falls back to the default.
func NewNormalizer(logger *log.Logger) *Normalizer {
	if logger == nil {
		logger = log.Default()
	}
	return &Normalizer{logger: logger}
}

// DecodeRunners reads a legacy JSON array and normalizes each record.
func (n *Normalizer) DecodeRunners(r io.Reader) ([]domain.Runner, error) {
	var raw []RawRunner
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode runner export: %w", err)
	}
	runners := make([]domain.Runner, 0, len(raw))
	for _, rec := range raw {
		runners = append(runners, n.Runner(rec))
	}
	return runners, nil
}

// Runner normalizes one raw runner record, applying defaults exactly once.
func (n *Normalizer) Runner(raw RawRunner) domain.Runner {
	runner := domain.Runner{
		ID:              strings.TrimSpace(raw.ID),
		Name:            strings.TrimSpace(raw.Name),
		Rank:            stringOr(raw.Rank, "-"),
		Unit:            stringOr(raw.Unit, ""),
		TotalDistanceKM: floatOr(raw.TotalDistance, raw.TotalDistanceSnake),
		TotalSessions:   intOr(raw.TotalSessions, raw.TotalSessionsSnake),
	}
	if runner.TotalDistanceKM < 0 {
		n.logger.Printf("ingest: runner %s has negative distance %.2f, clamping to 0", runner.ID, runner.TotalDistanceKM)
		runner.TotalDistanceKM = 0
	}
	if runner.TotalSessions < 0 {
		runner.TotalSessions = 0
	}

	if created := stringOr(raw.CreatedAt, stringOr(raw.CreatedAtSnake, "")); created != "" {
		ts, err := parseDate(created)
		if err != nil {
			n.logger.Printf("ingest: runner %s has malformed created_at %q, keeping record", runner.ID, created)
		} else {
			runner.CreatedAt = ts
		}
	}
	return runner
}

// DecodeTargets reads a legacy JSON array of achievement rows and normalizes
// each record.
func (n *Normalizer) DecodeTargets(r io.Reader) ([]domain.TargetAchievement, error) {
	var raw []RawTarget
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode target export: %w", err)
	}
	targets := make([]domain.TargetAchievement, 0, len(raw))
	for _, rec := range raw {
		targets = append(targets, n.Target(rec))
	}
	return targets, nil
}

// Target normalizes one raw achievement record. A missing duration is
// recovered from the preformatted time string when possible.
func (n *Normalizer) Target(raw RawTarget) domain.TargetAchievement {
	target := domain.TargetAchievement{
		ID:         strings.TrimSpace(raw.ID),
		RunnerID:   strings.TrimSpace(raw.RunnerID),
		RunnerName: strings.TrimSpace(raw.Name),
		RunnerRank: stringOr(raw.Rank, "-"),
		Validation: domain.ValidationPending,
	}
	if target.RunnerID == "" {
		target.RunnerID = target.ID
	}
	if raw.DistanceKM != nil && *raw.DistanceKM > 0 {
		target.DistanceKM = *raw.DistanceKM
	}
	switch {
	case raw.DurationSec != nil && *raw.DurationSec > 0:
		target.DurationSec = *raw.DurationSec
	case raw.TimeTaken != nil:
		sec, err := domain.ParseTime(*raw.TimeTaken)
		if err != nil {
			n.logger.Printf("ingest: target %s has malformed time_taken %q", target.ID, *raw.TimeTaken)
		} else {
			target.DurationSec = sec
		}
	}

	if raw.ValidationStatus == string(domain.ValidationValidated) {
		target.Validation = domain.ValidationValidated
	}

	achieved := raw.AchievedDate
	if achieved == "" {
		achieved = raw.DateCreated
	}
	if achieved != "" {
		ts, err := parseDate(achieved)
		if err != nil {
			// Malformed dates keep the record; reports include it and flag
			// the row for operator attention.
			n.logger.Printf("ingest: target %s has malformed achieved_date %q, keeping record", target.ID, achieved)
		} else {
			target.AchievedDate = ts
		}
	}
	return target
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func stringOr(value *string, fallback string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback
	}
	return strings.TrimSpace(*value)
}

func floatOr(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

func intOr(values ...*int) int {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}
