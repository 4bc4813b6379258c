package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tiered-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionStore reads and writes question tiers stored as JSONB in question_tiers.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

func (s *QuestionStore) LoadTier(ctx context.Context, d domain.Difficulty) ([]domain.Question, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM question_tiers WHERE difficulty=$1`, string(d)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("load tier %s: no rows", d)
	}
	if err != nil {
		return nil, fmt.Errorf("load tier %s: %w", d, err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal tier %s: %w", d, err)
	}
	return questions, nil
}

// SaveTier replaces the stored questions of a tier.
func (s *QuestionStore) SaveTier(ctx context.Context, d domain.Difficulty, questions []domain.Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("marshal tier %s: %w", d, err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO question_tiers (difficulty, data) VALUES ($1, $2::jsonb)
		 ON CONFLICT (difficulty) DO UPDATE SET data = EXCLUDED.data`,
		string(d), string(data),
	)
	if err != nil {
		return fmt.Errorf("save tier %s: %w", d, err)
	}
	return nil
}
