package memory

import (
	"context"
	"fmt"

	"tiered-quiz-service/internal/domain"
	"golang.org/x/sync/errgroup"
)

// QuestionLoader fetches one tier of questions from a backing source (file, Postgres, cache).
type QuestionLoader interface {
	LoadTier(ctx context.Context, d domain.Difficulty) ([]domain.Question, error)
}

// QuestionBank is the process-wide question set. It is never mutated after
// construction, so concurrent readers need no locking.
type QuestionBank struct {
	tiers map[domain.Difficulty][]domain.Question
}

// NewQuestionBank validates and copies tiers. Every tier must be present.
func NewQuestionBank(tiers map[domain.Difficulty][]domain.Question) (*QuestionBank, error) {
	bank := &QuestionBank{tiers: make(map[domain.Difficulty][]domain.Question, len(domain.Difficulties))}
	for _, d := range domain.Difficulties {
		questions, ok := tiers[d]
		if !ok {
			return nil, fmt.Errorf("question bank: missing tier %s", d)
		}
		copied := make([]domain.Question, len(questions))
		for i, q := range questions {
			if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Answers) {
				return nil, fmt.Errorf("question bank: %s[%d]: correct index %d of %d: %w", d, i, q.CorrectIndex, len(q.Answers), domain.ErrIndexOutOfRange)
			}
			answers := make([]string, len(q.Answers))
			copy(answers, q.Answers)
			copied[i] = domain.Question{Text: q.Text, Answers: answers, CorrectIndex: q.CorrectIndex}
		}
		bank.tiers[d] = copied
	}
	return bank, nil
}

// LoadQuestionBank loads all tiers from loader concurrently.
func LoadQuestionBank(ctx context.Context, loader QuestionLoader) (*QuestionBank, error) {
	loaded := make([][]domain.Question, len(domain.Difficulties))
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range domain.Difficulties {
		i, d := i, d
		g.Go(func() error {
			questions, err := loader.LoadTier(gctx, d)
			if err != nil {
				return fmt.Errorf("load tier %s: %w", d, err)
			}
			loaded[i] = questions
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tiers := make(map[domain.Difficulty][]domain.Question, len(loaded))
	for i, d := range domain.Difficulties {
		tiers[d] = loaded[i]
	}
	return NewQuestionBank(tiers)
}

// Tier returns the questions of d, or nil for an unknown tier.
// The returned slice is shared and must not be modified.
func (b *QuestionBank) Tier(d domain.Difficulty) []domain.Question {
	return b.tiers[d]
}

// StaticQuestionLoader serves tiers from an in-memory map (useful for tests/demos).
type StaticQuestionLoader struct {
	tiers map[domain.Difficulty][]domain.Question
}

func NewStaticQuestionLoader(tiers map[domain.Difficulty][]domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{tiers: tiers}
}

func (l *StaticQuestionLoader) LoadTier(_ context.Context, d domain.Difficulty) ([]domain.Question, error) {
	if questions, ok := l.tiers[d]; ok {
		return questions, nil
	}
	return nil, fmt.Errorf("%w: no questions for %s", domain.ErrInvalidDifficulty, d)
}
