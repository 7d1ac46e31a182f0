package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubRunnerRepo struct {
	runners  []Runner
	upserted []Runner
	err      error
}

func (s *stubRunnerRepo) ListRunners(ctx context.Context) ([]Runner, error) {
	return s.runners, s.err
}

func (s *stubRunnerRepo) UpsertRunners(ctx context.Context, runners []Runner) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.upserted = runners
	return len(runners), nil
}

type stubTargetRepo struct {
	targets     map[string]*TargetAchievement
	upserted    []TargetAchievement
	markedCalls int
	err         error
}

func (s *stubTargetRepo) ListTargets(ctx context.Context) ([]TargetAchievement, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]TargetAchievement, 0, len(s.targets))
	for _, t := range s.targets {
		out = append(out, *t)
	}
	return out, nil
}

func (s *stubTargetRepo) GetTarget(ctx context.Context, id string) (*TargetAchievement, error) {
	if s.err != nil {
		return nil, s.err
	}
	target, ok := s.targets[id]
	if !ok {
		return nil, nil
	}
	copied := *target
	return &copied, nil
}

func (s *stubTargetRepo) MarkValidated(ctx context.Context, id string, at time.Time) (*TargetAchievement, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.markedCalls++
	target, ok := s.targets[id]
	if !ok || target.Validation != ValidationPending {
		return nil, nil
	}
	target.Validation = ValidationValidated
	copied := *target
	return &copied, nil
}

func (s *stubTargetRepo) UpsertTargets(ctx context.Context, targets []TargetAchievement) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.upserted = targets
	return len(targets), nil
}

func TestValidateTargetTransitionsPendingRecord(t *testing.T) {
	repo := &stubTargetRepo{targets: map[string]*TargetAchievement{
		"T9": {ID: "T9", RunnerID: "R1", DistanceKM: 14.5, Validation: ValidationPending},
	}}
	service := NewService(&stubRunnerRepo{}, repo)

	updated, err := service.ValidateTarget(context.Background(), "T9")
	require.NoError(t, err)
	require.Equal(t, "T9", updated.ID)
	require.Equal(t, ValidationValidated, updated.Validation)
}

func TestValidateTargetIsIdempotent(t *testing.T) {
	repo := &stubTargetRepo{targets: map[string]*TargetAchievement{
		"T9": {ID: "T9", RunnerID: "R1", DistanceKM: 14.5, Validation: ValidationPending},
	}}
	service := NewService(&stubRunnerRepo{}, repo)

	first, err := service.ValidateTarget(context.Background(), "T9")
	require.NoError(t, err)

	second, err := service.ValidateTarget(context.Background(), "T9")
	require.NoError(t, err)
	require.Equal(t, first, second, "second call must observe the same final record")
	require.Equal(t, ValidationValidated, second.Validation)
}

func TestValidateTargetUnknownID(t *testing.T) {
	repo := &stubTargetRepo{targets: map[string]*TargetAchievement{}}
	service := NewService(&stubRunnerRepo{}, repo)

	_, err := service.ValidateTarget(context.Background(), "missing")
	require.ErrorIs(t, err, ErrTargetNotFound)
	require.Empty(t, repo.targets, "failed validation must not mutate any record")
}

func TestValidateTargetPropagatesRepoError(t *testing.T) {
	repo := &stubTargetRepo{err: errors.New("connection refused")}
	service := NewService(&stubRunnerRepo{}, repo)

	_, err := service.ValidateTarget(context.Background(), "T9")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrTargetNotFound)
}

func TestImportRunnersAssignsIdentifiers(t *testing.T) {
	repo := &stubRunnerRepo{}
	service := NewService(repo, &stubTargetRepo{})

	count, err := service.ImportRunners(context.Background(), []Runner{
		{Name: "Budi Santoso"},
		{ID: "R7", Name: "Siti Rahma", CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.NotEmpty(t, repo.upserted[0].ID)
	require.False(t, repo.upserted[0].CreatedAt.IsZero())
	require.Equal(t, "R7", repo.upserted[1].ID)
}

func TestImportTargetsAssignsIdentifiersAndDefaults(t *testing.T) {
	repo := &stubTargetRepo{}
	service := NewService(&stubRunnerRepo{}, repo)

	count, err := service.ImportTargets(context.Background(), []TargetAchievement{
		{RunnerID: "R1", RunnerName: "Budi Santoso", DistanceKM: 14.2, DurationSec: 4230},
		{ID: "T7", RunnerID: "R2", DistanceKM: 15, Validation: ValidationValidated},
	})
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.NotEmpty(t, repo.upserted[0].ID)
	require.Equal(t, ValidationPending, repo.upserted[0].Validation)
	require.Equal(t, "T7", repo.upserted[1].ID)
	require.Equal(t, ValidationValidated, repo.upserted[1].Validation)
}

func TestStatsPartitionsValidationCounts(t *testing.T) {
	targets := map[string]*TargetAchievement{
		"T1": {ID: "T1", Validation: ValidationValidated},
		"T2": {ID: "T2", Validation: ValidationPending},
		"T3": {ID: "T3", Validation: ValidationPending},
	}
	service := NewService(
		&stubRunnerRepo{runners: []Runner{{ID: "R1"}, {ID: "R2"}}},
		&stubTargetRepo{targets: targets},
	)

	stats, err := service.Stats(context.Background(), 8)
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalRunners)
	require.Equal(t, 3, stats.TotalAchievements)
	require.Equal(t, 1, stats.Validated)
	require.Equal(t, 2, stats.Pending)
	require.Equal(t, stats.TotalAchievements, stats.Validated+stats.Pending)
	require.Len(t, stats.Recent, 3)
}
