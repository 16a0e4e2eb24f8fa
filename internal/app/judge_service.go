package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"
	"online-judge/internal/catalog"
	"online-judge/internal/domain"
	"online-judge/internal/judge"
	"online-judge/internal/leaderboard"
	"online-judge/internal/registry"
)

// SessionTracker records which users are logged in (in-memory, Redis, etc).
// Touch marks activity so expiring markers outlive long sessions.
type SessionTracker interface {
	Start(ctx context.Context, user domain.User) error
	Touch(ctx context.Context, userID string) error
	End(ctx context.Context, userID string) error
	Active(ctx context.Context) (int, error)
}

// LeaderboardPublisher mirrors the ranking somewhere outside the process.
type LeaderboardPublisher interface {
	Publish(ctx context.Context, lb domain.Leaderboard) error
}

// Deps wires a JudgeService. Publisher and Now are optional.
type Deps struct {
	Catalog   *catalog.Store
	Users     *registry.Registry
	Admin     *AdminGate
	Sessions  SessionTracker
	Publisher LeaderboardPublisher
	Log       logrus.FieldLogger
	Now       func() time.Time
}

// JudgeService is everything a front-end needs: browse, submit, history,
// leaderboard and the admin catalog operations.
type JudgeService struct {
	catalog   *catalog.Store
	users     *registry.Registry
	board     *leaderboard.Board
	admin     *AdminGate
	sessions  SessionTracker
	publisher LeaderboardPublisher
	log       logrus.FieldLogger
	now       func() time.Time

	// publishMu orders snapshot, mirror and broadcast across writers.
	publishMu sync.Mutex

	mu          sync.Mutex
	subscribers map[chan domain.Leaderboard]struct{}
}

func NewJudgeService(d Deps) *JudgeService {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &JudgeService{
		catalog:     d.Catalog,
		users:       d.Users,
		board:       leaderboard.NewBoardWithClock(d.Users, now),
		admin:       d.Admin,
		sessions:    d.Sessions,
		publisher:   d.Publisher,
		log:         d.Log,
		now:         now,
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// Login registers a new session user. It always succeeds; the session marker is best effort.
func (s *JudgeService) Login(ctx context.Context, username string) domain.User {
	user := s.users.Register(username)
	if err := s.sessions.Start(ctx, user); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("session start not recorded")
	}
	s.announce(ctx)
	return user
}

// Logout ends the session. The user stays on the leaderboard.
func (s *JudgeService) Logout(ctx context.Context, userID string) error {
	if _, err := s.users.Get(userID); err != nil {
		return err
	}
	if err := s.sessions.End(ctx, userID); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("session end not recorded")
	}
	return nil
}

func (s *JudgeService) ActiveSessions(ctx context.Context) (int, error) {
	return s.sessions.Active(ctx)
}

// ListProblems returns the catalog as numbered rows.
func (s *JudgeService) ListProblems() []domain.ProblemSummary {
	problems := s.catalog.List()
	out := make([]domain.ProblemSummary, len(problems))
	for i, p := range problems {
		out[i] = domain.ProblemSummary{
			Number:     i + 1,
			Title:      p.Title,
			Slug:       slug.Make(p.Title),
			Difficulty: p.Difficulty,
			Points:     judge.PointsFor(p.Difficulty),
		}
	}
	return out
}

// Problem looks up a problem by its 1-indexed number.
func (s *JudgeService) Problem(number int) (domain.Problem, error) {
	return s.catalog.Get(number)
}

// Submit judges answer for problem number on behalf of userID. Selection and
// format errors leave the user untouched.
func (s *JudgeService) Submit(ctx context.Context, userID string, number int, answer string) (domain.SubmissionResult, error) {
	if _, err := s.users.Get(userID); err != nil {
		return domain.SubmissionResult{}, err
	}
	if err := s.sessions.Touch(ctx, userID); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("session activity not recorded")
	}
	problem, err := s.catalog.Get(number)
	if err != nil {
		return domain.SubmissionResult{}, err
	}
	submitted, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return domain.SubmissionResult{}, fmt.Errorf("%w: %w", domain.ErrInvalidAnswerFormat, err)
	}

	outcome := judge.Timed(problem, submitted, s.now)
	user, err := s.users.ApplyOutcome(userID, problem, outcome)
	if err != nil {
		return domain.SubmissionResult{}, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"problem": problem.Title,
		"passed":  outcome.Passed,
		"points":  outcome.Points,
	}).Info("submission judged")
	s.announce(ctx)

	return domain.SubmissionResult{
		Problem:   problem.Title,
		Outcome:   outcome,
		Score:     user.Score,
		Penalties: user.Penalties,
	}, nil
}

// User returns a snapshot of a registered user.
func (s *JudgeService) User(userID string) (domain.User, error) {
	return s.users.Get(userID)
}

func (s *JudgeService) History(userID string) ([]domain.HistoryEntry, error) {
	return s.users.HistoryOf(userID)
}

func (s *JudgeService) Leaderboard() domain.Leaderboard {
	return s.board.Current()
}

// CheckAdmin validates the admin secret without doing anything else.
func (s *JudgeService) CheckAdmin(secret string) error {
	if err := s.admin.Check(secret); err != nil {
		s.log.Warn("admin secret rejected")
		return err
	}
	return nil
}

// AddProblem parses the raw fields and appends the problem to the catalog.
func (s *JudgeService) AddProblem(ctx context.Context, secret string, fields domain.NewProblem) (domain.Problem, error) {
	if err := s.CheckAdmin(secret); err != nil {
		return domain.Problem{}, err
	}
	p, err := ParseNewProblem(fields)
	if err != nil {
		return domain.Problem{}, err
	}
	if err := s.catalog.Append(ctx, p); err != nil {
		return domain.Problem{}, err
	}
	return p, nil
}

// ParseNewProblem converts admin-entered fields into a Problem.
func ParseNewProblem(fields domain.NewProblem) (domain.Problem, error) {
	inputs, err := catalog.ParseInputs(fields.Inputs)
	if err != nil {
		return domain.Problem{}, fmt.Errorf("%w: inputs: %w", domain.ErrInvalidProblem, err)
	}
	expected, err := strconv.Atoi(strings.TrimSpace(fields.ExpectedOutput))
	if err != nil {
		return domain.Problem{}, fmt.Errorf("%w: expected output: %w", domain.ErrInvalidProblem, err)
	}
	p := domain.Problem{
		Title:          fields.Title,
		Description:    fields.Description,
		Difficulty:     domain.Difficulty(fields.Difficulty),
		Inputs:         inputs,
		ExpectedOutput: expected,
	}
	if err := catalog.CheckFields(p); err != nil {
		return domain.Problem{}, fmt.Errorf("%w: %w", domain.ErrInvalidProblem, err)
	}
	return p, nil
}

// Subscribe returns a channel that receives the leaderboard after every change.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *JudgeService) Subscribe() (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	s.mu.Lock()
	ch <- s.board.Fresh()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *JudgeService) announce(ctx context.Context) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	lb := s.board.Fresh()

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, lb); err != nil {
			s.log.WithError(err).Warn("leaderboard mirror update failed")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- lb:
		default:
			// slow subscriber: drop its oldest update
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}
