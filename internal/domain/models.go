package domain

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty is the difficulty label exactly as entered or loaded from the catalog.
// Any string is accepted; Tier maps it onto the closed scoring variant.
type Difficulty string

// Tier is the closed set of difficulty levels that carry a point value.
type Tier int

const (
	TierEasy Tier = iota
	TierMedium
	TierHard
)

func (t Tier) String() string {
	switch t {
	case TierMedium:
		return "Medium"
	case TierHard:
		return "Hard"
	default:
		return "Easy"
	}
}

// Tier resolves the label case-insensitively; unrecognized labels fall back to TierEasy.
func (d Difficulty) Tier() Tier {
	switch strings.ToLower(string(d)) {
	case "medium":
		return TierMedium
	case "hard":
		return TierHard
	default:
		return TierEasy
	}
}

// Problem is an immutable catalog entry. Only ExpectedOutput takes part in judging.
type Problem struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Difficulty     Difficulty `json:"difficulty"`
	Inputs         []int      `json:"inputs"`
	ExpectedOutput int        `json:"expectedOutput"`
}

// ProblemSummary is a catalog listing row. Number is the 1-indexed catalog position.
type ProblemSummary struct {
	Number     int        `json:"number"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Difficulty Difficulty `json:"difficulty"`
	Points     int        `json:"points"`
}

// NewProblem carries the raw fields an admin front-end collects for a new problem.
type NewProblem struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Difficulty     string `json:"difficulty"`
	Inputs         string `json:"inputs"` // comma separated
	ExpectedOutput string `json:"expectedOutput"`
}

// Outcome is the result of judging one submission. Points is the signed score delta.
type Outcome struct {
	Passed  bool          `json:"passed"`
	Points  int           `json:"points"`
	Elapsed time.Duration `json:"elapsed"`
}

// HistoryEntry records one judged submission.
type HistoryEntry struct {
	ProblemTitle string        `json:"problemTitle"`
	Passed       bool          `json:"passed"`
	Points       int           `json:"points"`
	Elapsed      time.Duration `json:"elapsed"`
	At           time.Time     `json:"at"`
}

func (h HistoryEntry) String() string {
	if h.Passed {
		return fmt.Sprintf("%s ✅ (%d pts, %d ms)", h.ProblemTitle, h.Points, h.Elapsed.Milliseconds())
	}
	return fmt.Sprintf("%s ❌ (%d penalty)", h.ProblemTitle, h.Points)
}

// User is a session-scoped participant. Values handed out by the registry are
// snapshots; mutating them has no effect on stored state.
type User struct {
	ID        string         `json:"id"`
	Username  string         `json:"username"`
	Score     int            `json:"score"`
	Penalties int            `json:"penalties"`
	History   []HistoryEntry `json:"history,omitempty"`
	JoinedAt  time.Time      `json:"joinedAt"`
}

// SubmissionResult is what a front-end renders after a submission.
type SubmissionResult struct {
	Problem   string  `json:"problem"`
	Outcome   Outcome `json:"outcome"`
	Score     int     `json:"score"`
	Penalties int     `json:"penalties"`
}

// LeaderboardEntry is a ranked view of a user.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Score     int    `json:"score"`
	Penalties int    `json:"penalties"`
}

// Leaderboard is the score-descending ranking of every registered user.
type Leaderboard struct {
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
