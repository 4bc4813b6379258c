package app

import (
	"context"
	"fmt"
	"log"

	"tiered-quiz-service/internal/domain"
)

// QuestionBank exposes the immutable question tiers.
type QuestionBank interface {
	Tier(d domain.Difficulty) []domain.Question
}

// PointsLedger is the durable user -> points store. AddPoints must apply the
// delta atomically inside the store; callers never lock around it.
type PointsLedger interface {
	Register(ctx context.Context, userID, userName string) error
	Remove(ctx context.Context, userID string) error
	ReadPoints(ctx context.Context, userID string) (int64, error)
	AddPoints(ctx context.Context, userID string, delta int64) (int64, error)
	Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)
}

// ScoringService contains the quiz and ledger use cases.
type ScoringService struct {
	bank   QuestionBank
	ledger PointsLedger
	feed   *LeaderboardFeed
}

func NewScoringService(bank QuestionBank, ledger PointsLedger, feed *LeaderboardFeed) *ScoringService {
	if feed == nil {
		feed = NewLeaderboardFeed()
	}
	return &ScoringService{bank: bank, ledger: ledger, feed: feed}
}

// ListQuestions returns a tier without correct indices.
func (s *ScoringService) ListQuestions(difficulty string) ([]domain.PublicQuestion, error) {
	d, err := domain.ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	questions := s.bank.Tier(d)
	out := make([]domain.PublicQuestion, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.Public())
	}
	return out, nil
}

// SubmitAnswer evaluates a submission against the exact question it names and
// applies the resulting points. When the ledger write fails the verdict is
// still returned alongside the error.
func (s *ScoringService) SubmitAnswer(ctx context.Context, sub domain.AnswerSubmission) (domain.AnswerResult, error) {
	outcome, err := s.evaluate(sub)
	if err != nil {
		return domain.AnswerResult{}, err
	}

	awarded := PointsFor(outcome.Difficulty, outcome.CorrectCount)
	result := domain.AnswerResult{Correct: outcome.CorrectCount > 0, Awarded: awarded}

	total, err := s.ledger.AddPoints(ctx, outcome.UserID, int64(awarded))
	if err != nil {
		return result, fmt.Errorf("apply points: %w", err)
	}
	result.Total = total

	if awarded != 0 {
		s.publish(ctx)
	}
	return result, nil
}

func (s *ScoringService) evaluate(sub domain.AnswerSubmission) (domain.ScoringOutcome, error) {
	d, err := domain.ParseDifficulty(sub.Difficulty)
	if err != nil {
		return domain.ScoringOutcome{}, err
	}
	questions := s.bank.Tier(d)
	if sub.QuestionIndex < 0 || sub.QuestionIndex >= len(questions) {
		return domain.ScoringOutcome{}, fmt.Errorf("%w: question %d of %d in %s", domain.ErrIndexOutOfRange, sub.QuestionIndex, len(questions), d)
	}

	correct, err := Evaluate(questions[sub.QuestionIndex], sub.AnswerIndex)
	if err != nil {
		return domain.ScoringOutcome{}, err
	}

	outcome := domain.ScoringOutcome{UserID: sub.UserID, Difficulty: d}
	if correct {
		outcome.CorrectCount = 1
	}
	return outcome, nil
}

// RegisterUser creates an account with zero points.
func (s *ScoringService) RegisterUser(ctx context.Context, userID, userName string) error {
	if err := s.ledger.Register(ctx, userID, userName); err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

// DeleteUser removes an account; repeated calls fail with domain.ErrNotFound.
func (s *ScoringService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.ledger.Remove(ctx, userID); err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

func (s *ScoringService) GetPoints(ctx context.Context, userID string) (int64, error) {
	return s.ledger.ReadPoints(ctx, userID)
}

func (s *ScoringService) GetLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return s.ledger.Leaderboard(ctx)
}

// Subscribe returns a channel of leaderboard snapshots, starting with the current one.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *ScoringService) Subscribe(ctx context.Context) (<-chan []domain.LeaderboardEntry, func(), error) {
	initial, err := s.ledger.Leaderboard(ctx)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.feed.Subscribe(initial)
	return ch, cancel, nil
}

func (s *ScoringService) publish(ctx context.Context) {
	if !s.feed.HasSubscribers() {
		return
	}
	entries, err := s.ledger.Leaderboard(ctx)
	if err != nil {
		log.Printf("leaderboard broadcast skipped: %v", err)
		return
	}
	s.feed.Publish(entries)
}
