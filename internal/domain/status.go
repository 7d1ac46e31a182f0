package domain

// Classify maps a runner's cumulative distance onto the achievement taxonomy.
// The target boundary is inclusive on the achieved side only.
func Classify(totalDistanceKM float64) AchievementStatus {
	return ClassifyAgainst(totalDistanceKM, TargetDistanceKM)
}

// ClassifyAgainst classifies a cumulative distance against an explicit target.
func ClassifyAgainst(totalDistanceKM, targetKM float64) AchievementStatus {
	switch {
	case totalDistanceKM >= targetKM:
		return StatusAchieved
	case totalDistanceKM > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}
