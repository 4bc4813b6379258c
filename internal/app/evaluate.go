package app

import (
	"fmt"

	"tiered-quiz-service/internal/domain"
)

// Evaluate reports whether answerIndex selects the correct choice of q.
// Matching is by index only; answer text may repeat within a choice set.
func Evaluate(q domain.Question, answerIndex int) (bool, error) {
	if answerIndex < 0 || answerIndex >= len(q.Answers) {
		return false, fmt.Errorf("%w: answer %d of %d", domain.ErrIndexOutOfRange, answerIndex, len(q.Answers))
	}
	return answerIndex == q.CorrectIndex, nil
}
