package file

import (
	"context"
	"fmt"
	"os"

	"tiered-quiz-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// QuestionLoader reads a YAML question bank keyed by tier:
//
//	easy:
//	  - question: "What is 2 + 2?"
//	    answers: ["3", "4", "5"]
//	    correct_index: 1
type QuestionLoader struct {
	tiers map[domain.Difficulty][]domain.Question
}

// NewQuestionLoader parses path once; unknown tier keys are rejected.
func NewQuestionLoader(path string) (*QuestionLoader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseQuestions(data)
}

// ParseQuestions builds a loader from raw YAML.
func ParseQuestions(data []byte) (*QuestionLoader, error) {
	raw := map[string][]domain.Question{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	tiers := make(map[domain.Difficulty][]domain.Question, len(raw))
	for name, questions := range raw {
		d, err := domain.ParseDifficulty(name)
		if err != nil {
			return nil, fmt.Errorf("parse questions: %w", err)
		}
		tiers[d] = questions
	}
	return &QuestionLoader{tiers: tiers}, nil
}

func (l *QuestionLoader) LoadTier(_ context.Context, d domain.Difficulty) ([]domain.Question, error) {
	questions, ok := l.tiers[d]
	if !ok {
		return nil, fmt.Errorf("questions file has no %s tier", d)
	}
	return questions, nil
}
