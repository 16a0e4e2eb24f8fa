// Package judge decides submissions. It compares a reported integer with the
// expected output; nothing is executed.
package judge

import (
	"time"

	"online-judge/internal/domain"
)

// FailurePenalty is the score delta applied to every failed submission.
const FailurePenalty = -5

// PointsFor returns the score awarded for solving a problem of the given difficulty.
func PointsFor(d domain.Difficulty) int {
	switch d.Tier() {
	case domain.TierMedium:
		return 20
	case domain.TierHard:
		return 30
	default:
		return 10
	}
}

// Evaluate judges submitted against the problem's expected output.
func Evaluate(p domain.Problem, submitted int) domain.Outcome {
	if submitted == p.ExpectedOutput {
		return domain.Outcome{Passed: true, Points: PointsFor(p.Difficulty)}
	}
	return domain.Outcome{Passed: false, Points: FailurePenalty}
}

// Timed runs Evaluate and records how long it took. The duration is display data only.
func Timed(p domain.Problem, submitted int, now func() time.Time) domain.Outcome {
	start := now()
	out := Evaluate(p, submitted)
	out.Elapsed = now().Sub(start)
	return out
}
