package judge

import (
	"testing"
	"time"

	"online-judge/internal/domain"
)

func TestPointsFor(t *testing.T) {
	cases := []struct {
		in   domain.Difficulty
		want int
	}{
		{"easy", 10},
		{"EASY", 10},
		{"Easy", 10},
		{"medium", 20},
		{"Medium", 20},
		{"hard", 30},
		{"HARD", 30},
		{"", 10},
		{"impossible", 10},
	}
	for _, tc := range cases {
		if got := PointsFor(tc.in); got != tc.want {
			t.Fatalf("PointsFor(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestEvaluate(t *testing.T) {
	p := domain.Problem{Title: "Sum", Difficulty: "Hard", Inputs: []int{2, 2}, ExpectedOutput: 4}

	for x := -10; x <= 10; x++ {
		out := Evaluate(p, x)
		if x == 4 {
			if !out.Passed || out.Points != 30 {
				t.Fatalf("expected pass with 30 points, got %+v", out)
			}
			continue
		}
		if out.Passed || out.Points != FailurePenalty {
			t.Fatalf("answer %d: expected fail with -5, got %+v", x, out)
		}
	}
}

func TestTimedDoesNotChangeVerdict(t *testing.T) {
	p := domain.Problem{Title: "Sum", Difficulty: "Easy", ExpectedOutput: 4}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Hour)
	}

	out := Timed(p, 4, clock)
	if !out.Passed || out.Points != 10 {
		t.Fatalf("expected pass, got %+v", out)
	}
	if out.Elapsed != time.Hour {
		t.Fatalf("expected elapsed 1h, got %v", out.Elapsed)
	}
	if Timed(p, 5, clock).Passed {
		t.Fatalf("expected fail for wrong answer")
	}
}
