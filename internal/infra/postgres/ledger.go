package postgres

import (
	"context"
	"errors"
	"fmt"

	"tiered-quiz-service/internal/domain"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const uniqueViolation = "23505"

// Ledger stores accounts in the users table. Increments are a single UPDATE
// so Postgres row locking serializes concurrent deltas for one user.
type Ledger struct {
	pool *pgxpool.Pool
}

func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

func (l *Ledger) Register(ctx context.Context, userID, userName string) error {
	_, err := l.pool.Exec(ctx, `INSERT INTO users (user_id, user_name, points) VALUES ($1, $2, 0)`, userID, userName)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateUser
		}
		return storeErr("register user", err)
	}
	return nil
}

func (l *Ledger) Remove(ctx context.Context, userID string) error {
	tag, err := l.pool.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return storeErr("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (l *Ledger) ReadPoints(ctx context.Context, userID string) (int64, error) {
	var points int64
	err := l.pool.QueryRow(ctx, `SELECT points FROM users WHERE user_id = $1`, userID).Scan(&points)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, storeErr("read points", err)
	}
	return points, nil
}

func (l *Ledger) AddPoints(ctx context.Context, userID string, delta int64) (int64, error) {
	var total int64
	err := l.pool.QueryRow(ctx,
		`UPDATE users SET points = points + $2 WHERE user_id = $1 RETURNING points`,
		userID, delta,
	).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, storeErr("add points", err)
	}
	return total, nil
}

func (l *Ledger) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	rows, err := l.pool.Query(ctx, `SELECT user_id, user_name, points FROM users ORDER BY points DESC, user_id ASC`)
	if err != nil {
		return nil, storeErr("leaderboard", err)
	}
	defer rows.Close()

	entries := []domain.LeaderboardEntry{}
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.UserName, &e.Points); err != nil {
			return nil, storeErr("scan leaderboard", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("leaderboard rows", err)
	}
	return entries, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
