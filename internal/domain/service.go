package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunnerRepository captures persistence operations over runner records.
type RunnerRepository interface {
	ListRunners(ctx context.Context) ([]Runner, error)
	UpsertRunners(ctx context.Context, runners []Runner) (int, error)
}

// TargetRepository captures persistence operations over target achievements.
type TargetRepository interface {
	ListTargets(ctx context.Context) ([]TargetAchievement, error)
	GetTarget(ctx context.Context, id string) (*TargetAchievement, error)
	// MarkValidated applies the pending->validated transition as a single
	// conditional update. It returns nil when no pending row matched, leaving
	// the caller to distinguish "missing" from "already validated".
	MarkValidated(ctx context.Context, id string, at time.Time) (*TargetAchievement, error)
	// UpsertTargets inserts or refreshes achievement rows. A row that is
	// already validated must never be downgraded back to pending.
	UpsertTargets(ctx context.Context, targets []TargetAchievement) (int, error)
}

// Service orchestrates the achievement pipeline workflows.
type Service struct {
	runners RunnerRepository
	targets TargetRepository
}

// NewService constructs a Service.
func NewService(runners RunnerRepository, targets TargetRepository) *Service {
	return &Service{runners: runners, targets: targets}
}

// ListRunners fetches all registered runners.
func (s *Service) ListRunners(ctx context.Context) ([]Runner, error) {
	runners, err := s.runners.ListRunners(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch runners: %w", err)
	}
	return runners, nil
}

// ListTargets fetches all recorded target achievements, newest first.
func (s *Service) ListTargets(ctx context.Context) ([]TargetAchievement, error) {
	targets, err := s.targets.ListTargets(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch targets: %w", err)
	}
	return targets, nil
}

// ValidateTarget drives the pending->validated transition for one achievement.
// The transition is effective at most once; repeat calls return the already
// validated record unchanged. Unknown identifiers yield ErrTargetNotFound.
func (s *Service) ValidateTarget(ctx context.Context, id string) (*TargetAchievement, error) {
	updated, err := s.targets.MarkValidated(ctx, id, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("validate target %s: %w", id, err)
	}
	if updated != nil {
		return updated, nil
	}

	// No pending row matched: either the record does not exist or another
	// caller already won the transition.
	current, err := s.targets.GetTarget(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("validate target %s: %w", id, err)
	}
	if current == nil {
		return nil, ErrTargetNotFound
	}
	return current, nil
}

// ImportRunners upserts a batch of already-normalized runner records,
// assigning identifiers where the legacy export carried none.
func (s *Service) ImportRunners(ctx context.Context, runners []Runner) (int, error) {
	now := time.Now().UTC()
	for i := range runners {
		if runners[i].ID == "" {
			runners[i].ID = uuid.NewString()
		}
		if runners[i].CreatedAt.IsZero() {
			runners[i].CreatedAt = now
		}
	}
	count, err := s.runners.UpsertRunners(ctx, runners)
	if err != nil {
		return 0, fmt.Errorf("import runners: %w", err)
	}
	return count, nil
}

// ImportTargets upserts a batch of already-normalized achievement records,
// assigning identifiers where the legacy export carried none. Records without
// an achieved date keep the zero value; reports flag those rows instead of
// inventing a date.
func (s *Service) ImportTargets(ctx context.Context, targets []TargetAchievement) (int, error) {
	for i := range targets {
		if targets[i].ID == "" {
			targets[i].ID = uuid.NewString()
		}
		if targets[i].Validation == "" {
			targets[i].Validation = ValidationPending
		}
	}
	count, err := s.targets.UpsertTargets(ctx, targets)
	if err != nil {
		return 0, fmt.Errorf("import targets: %w", err)
	}
	return count, nil
}

// DashboardStats summarizes the dashboard counters and the most recent
// achievements for the landing table.
type DashboardStats struct {
	TotalRunners      int
	TotalAchievements int
	Validated         int
	Pending           int
	Recent            []TargetAchievement
}

// Stats assembles dashboard counters from the current runner and target sets.
func (s *Service) Stats(ctx context.Context, recentLimit int) (*DashboardStats, error) {
	runners, err := s.runners.ListRunners(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch runners: %w", err)
	}
	targets, err := s.targets.ListTargets(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch targets: %w", err)
	}

	stats := &DashboardStats{
		TotalRunners:      len(runners),
		TotalAchievements: len(targets),
	}
	for _, t := range targets {
		if t.Validation == ValidationValidated {
			stats.Validated++
		} else {
			stats.Pending++
		}
	}

	if recentLimit > len(targets) {
		recentLimit = len(targets)
	}
	if recentLimit < 0 {
		recentLimit = 0
	}
	stats.Recent = targets[:recentLimit]
	return stats, nil
}
