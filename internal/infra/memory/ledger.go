package memory

import (
	"context"
	"sync"

	"tiered-quiz-service/internal/domain"
)

// Ledger is an in-memory implementation of app.PointsLedger. Every operation
// holds the mutex for its whole read-modify-write.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[string]*domain.UserAccount
}

func NewLedger() *Ledger {
	return &Ledger{accounts: make(map[string]*domain.UserAccount)}
}

func (l *Ledger) Register(_ context.Context, userID, userName string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.accounts[userID]; ok {
		return domain.ErrDuplicateUser
	}
	l.accounts[userID] = &domain.UserAccount{UserID: userID, UserName: userName}
	return nil
}

func (l *Ledger) Remove(_ context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.accounts[userID]; !ok {
		return domain.ErrNotFound
	}
	delete(l.accounts, userID)
	return nil
}

func (l *Ledger) ReadPoints(_ context.Context, userID string) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	account, ok := l.accounts[userID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return account.Points, nil
}

func (l *Ledger) AddPoints(_ context.Context, userID string, delta int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	account, ok := l.accounts[userID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	account.Points += delta
	return account.Points, nil
}

func (l *Ledger) Leaderboard(_ context.Context) ([]domain.LeaderboardEntry, error) {
	l.mu.RLock()
	entries := make([]domain.LeaderboardEntry, 0, len(l.accounts))
	for _, account := range l.accounts {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:   account.UserID,
			UserName: account.UserName,
			Points:   account.Points,
		})
	}
	l.mu.RUnlock()

	domain.SortLeaderboard(entries)
	return entries, nil
}
