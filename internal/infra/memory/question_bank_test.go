package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tiered-quiz-service/internal/domain"
)

func TestLoadQuestionBankLoadsEveryTier(t *testing.T) {
	loader := &countingLoader{QuestionLoader: NewStaticQuestionLoader(sampleTiers())}

	bank, err := LoadQuestionBank(context.Background(), loader)
	if err != nil {
		t.Fatalf("load bank: %v", err)
	}
	if loader.count() != len(domain.Difficulties) {
		t.Fatalf("expected one load per tier, got %d", loader.count())
	}
	for _, d := range domain.Difficulties {
		if len(bank.Tier(d)) != 1 {
			t.Fatalf("expected 1 question in %s, got %d", d, len(bank.Tier(d)))
		}
	}
	if bank.Tier("impossible") != nil {
		t.Fatalf("expected nil tier for unknown difficulty")
	}
}

func TestLoadQuestionBankFailsOnMissingTier(t *testing.T) {
	tiers := sampleTiers()
	delete(tiers, domain.VeryHard)

	_, err := LoadQuestionBank(context.Background(), NewStaticQuestionLoader(tiers))
	if err == nil {
		t.Fatalf("expected error for missing tier")
	}
}

func TestNewQuestionBankRejectsBadCorrectIndex(t *testing.T) {
	tiers := sampleTiers()
	tiers[domain.Hard] = []domain.Question{{Text: "broken", Answers: []string{"a", "b"}, CorrectIndex: 2}}

	if _, err := NewQuestionBank(tiers); !errors.Is(err, domain.ErrIndexOutOfRange) {
		t.Fatalf("expected index error, got %v", err)
	}
}

func TestQuestionBankIsolatedFromSource(t *testing.T) {
	tiers := sampleTiers()
	bank, err := NewQuestionBank(tiers)
	if err != nil {
		t.Fatalf("new bank: %v", err)
	}
	tiers[domain.Easy][0].Answers[0] = "mutated"
	if bank.Tier(domain.Easy)[0].Answers[0] == "mutated" {
		t.Fatalf("bank must not alias loader data")
	}
}

type countingLoader struct {
	QuestionLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadTier(ctx context.Context, d domain.Difficulty) ([]domain.Question, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.QuestionLoader.LoadTier(ctx, d)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func sampleTiers() map[domain.Difficulty][]domain.Question {
	return map[domain.Difficulty][]domain.Question{
		domain.Easy:     {{Text: "What is 2 + 2?", Answers: []string{"3", "4", "5"}, CorrectIndex: 1}},
		domain.Medium:   {{Text: "Capital of Australia?", Answers: []string{"Sydney", "Canberra"}, CorrectIndex: 1}},
		domain.Hard:     {{Text: "Boiling point of water in K?", Answers: []string{"373", "273"}, CorrectIndex: 0}},
		domain.VeryHard: {{Text: "Smallest prime above 100?", Answers: []string{"101", "103"}, CorrectIndex: 0}},
	}
}
