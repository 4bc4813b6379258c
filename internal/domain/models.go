package domain

import (
	"fmt"
	"sort"
)

// Difficulty selects both a question bank partition and a scoring multiplier.
type Difficulty string

const (
	Easy     Difficulty = "easy"
	Medium   Difficulty = "medium"
	Hard     Difficulty = "hard"
	VeryHard Difficulty = "very_hard"
)

// Difficulties lists every tier in ascending order.
var Difficulties = []Difficulty{Easy, Medium, Hard, VeryHard}

// ParseDifficulty validates a raw tier name.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch d := Difficulty(raw); d {
	case Easy, Medium, Hard, VeryHard:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, raw)
}

// Question is a multiple-choice question. CorrectIndex points into Answers.
type Question struct {
	Text         string   `json:"question" yaml:"question"`
	Answers      []string `json:"answers" yaml:"answers"`
	CorrectIndex int      `json:"correct_index" yaml:"correct_index"`
}

// Public strips the correct index for clients.
func (q Question) Public() PublicQuestion {
	answers := make([]string, len(q.Answers))
	copy(answers, q.Answers)
	return PublicQuestion{Text: q.Text, Answers: answers}
}

// PublicQuestion is the client-facing view of a Question.
type PublicQuestion struct {
	Text    string   `json:"question"`
	Answers []string `json:"answers"`
}

// AnswerSubmission models one answer sent by a client.
type AnswerSubmission struct {
	Difficulty    string
	QuestionIndex int
	AnswerIndex   int
	UserID        string
}

// ScoringOutcome carries an evaluation result to the ledger update.
type ScoringOutcome struct {
	UserID       string
	Difficulty   Difficulty
	CorrectCount int
}

// AnswerResult summarizes a submission for the caller.
type AnswerResult struct {
	Correct bool  `json:"correct"`
	Awarded int   `json:"awarded"`
	Total   int64 `json:"total"`
}

// UserAccount is a persisted ledger row.
type UserAccount struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Points   int64  `json:"points"`
}

// LeaderboardEntry is a read-only projection of an account.
type LeaderboardEntry struct {
	UserID   string `json:"-"`
	UserName string `json:"user_name"`
	Points   int64  `json:"points"`
}

// SortLeaderboard orders entries by points descending, then user id ascending.
func SortLeaderboard(entries []LeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].UserID < entries[j].UserID
	})
}
