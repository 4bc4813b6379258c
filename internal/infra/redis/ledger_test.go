package redis

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tiered-quiz-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestLedgerLifecycle(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	ledger := NewLedger(newClient(mr))

	if err := ledger.Register(ctx, "a", "Alice"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := ledger.Register(ctx, "a", "Bob"); !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if _, err := ledger.ReadPoints(ctx, "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := ledger.AddPoints(ctx, "ghost", 3); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on add, got %v", err)
	}
	if mr.Exists("ledger:user:ghost") {
		t.Fatalf("add must not create missing accounts")
	}

	if _, err := ledger.AddPoints(ctx, "a", 5); err != nil {
		t.Fatalf("add: %v", err)
	}
	total, err := ledger.AddPoints(ctx, "a", 7)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if total != 12 {
		t.Fatalf("expected 12, got %d", total)
	}
	points, err := ledger.ReadPoints(ctx, "a")
	if err != nil || points != 12 {
		t.Fatalf("expected 12 points, got %d (%v)", points, err)
	}

	if err := ledger.Remove(ctx, "a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := ledger.Remove(ctx, "a"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on repeat remove, got %v", err)
	}
	lb, err := ledger.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(lb) != 0 {
		t.Fatalf("expected empty leaderboard after removal, got %+v", lb)
	}
}

func TestLedgerConcurrentAddsAreNotLost(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	ledger := NewLedger(newClient(mr))
	if err := ledger.Register(ctx, "u", "User"); err != nil {
		t.Fatalf("register: %v", err)
	}

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.AddPoints(ctx, "u", 1); err != nil {
				t.Errorf("add: %v", err)
			}
		}()
	}
	wg.Wait()

	points, err := ledger.ReadPoints(ctx, "u")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if points != n {
		t.Fatalf("expected %d, got %d", n, points)
	}
}

func TestLedgerLeaderboardOrdering(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	ledger := NewLedger(newClient(mr))
	for _, u := range []struct {
		id, name string
		points   int64
	}{
		{"c", "Carol", 10},
		{"a", "Alice", 30},
		{"b", "Bob", 10},
	} {
		if err := ledger.Register(ctx, u.id, u.name); err != nil {
			t.Fatalf("register: %v", err)
		}
		if _, err := ledger.AddPoints(ctx, u.id, u.points); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	lb, err := ledger.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	want := []domain.LeaderboardEntry{
		{UserID: "a", UserName: "Alice", Points: 30},
		{UserID: "b", UserName: "Bob", Points: 10},
		{UserID: "c", UserName: "Carol", Points: 10},
	}
	if len(lb) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), lb)
	}
	for i := range want {
		if lb[i] != want[i] {
			t.Fatalf("position %d: expected %+v, got %+v", i, want[i], lb[i])
		}
	}
}

func TestLedgerLargeTotalsStayExact(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	ledger := NewLedger(newClient(mr))
	if err := ledger.Register(ctx, "a", "Alice"); err != nil {
		t.Fatalf("register: %v", err)
	}

	const big = int64(1)<<53 + 1
	total, err := ledger.AddPoints(ctx, "a", big)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if total != big {
		t.Fatalf("expected %d, got %d", big, total)
	}
	if total, err = ledger.AddPoints(ctx, "a", 2); err != nil || total != big+2 {
		t.Fatalf("expected %d, got %d (%v)", big+2, total, err)
	}

	lb, err := ledger.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(lb) != 1 || lb[0].Points != big+2 {
		t.Fatalf("expected exact leaderboard total %d, got %+v", big+2, lb)
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
