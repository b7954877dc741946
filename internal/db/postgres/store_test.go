package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"fishnuke.gg/discord-bot/internal/ledger"
)

// Тесты идут против живой БД: TEST_DATABASE_URL=postgres://... go test ./internal/db/postgres
func openTest(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан")
	}
	ctx := context.Background()
	pool, err := NewPoolFromDSN(ctx, dsn, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	if err := RunMigrations(ctx, pool); err != nil {
		pool.Close()
		t.Fatal(err)
	}
	// второй прогон миграций ничего не делает
	if err := RunMigrations(ctx, pool); err != nil {
		pool.Close()
		t.Fatal(err)
	}
	for _, table := range []string{"ledger_entries", "cooldowns", "items", "pets", "accounts"} {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			pool.Close()
			t.Fatal(err)
		}
	}
	s := NewStore(pool, ledger.Defaults{StartingBalance: 500, PetName: "Lucky"})
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAccountLifecycle(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	err := s.Atomic(ctx, func(tx ledger.Tx) error {
		a, err := tx.Account(ctx, 1)
		if err != nil {
			return err
		}
		if a.Balance != 500 {
			t.Fatalf("starting balance = %d", a.Balance)
		}
		a.Balance = -40
		a.FishCount = 12
		return tx.SaveAccount(ctx, a)
	})
	if err != nil {
		t.Fatal(err)
	}

	top, err := s.Top(ctx, ledger.MetricFish, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 || top[0].Value != 12 {
		t.Fatalf("top: %+v", top)
	}
	rich, _ := s.Top(ctx, ledger.MetricBalance, 5)
	if rich[0].Value != 0 {
		t.Fatalf("balance not clamped: %d", rich[0].Value)
	}
}

func TestStampActionMonotonic(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	later := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	err := s.Atomic(ctx, func(tx ledger.Tx) error {
		if _, err := tx.Account(ctx, 1); err != nil {
			return err
		}
		if err := tx.StampAction(ctx, 1, ledger.ActionDaily, later); err != nil {
			return err
		}
		if err := tx.StampAction(ctx, 1, ledger.ActionDaily, later.Add(-time.Hour)); err != nil {
			return err
		}
		got, err := tx.LastAction(ctx, 1, ledger.ActionDaily)
		if err != nil {
			return err
		}
		if !got.Equal(later) {
			return fmt.Errorf("last action went back in time: %v", got)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestAtomicRollsBack(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Atomic(ctx, func(tx ledger.Tx) error {
		if _, err := tx.Account(ctx, 7); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	top, _ := s.Top(ctx, ledger.MetricBalance, 5)
	if len(top) != 0 {
		t.Fatalf("account survived rollback: %+v", top)
	}
}

// Параллельные списания с одного аккаунта не теряют обновлений: строка под FOR UPDATE.
func TestConcurrentDebits(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Atomic(ctx, func(tx ledger.Tx) error {
				a, err := tx.Account(ctx, 1)
				if err != nil {
					return err
				}
				a.Balance -= 10
				return tx.SaveAccount(ctx, a)
			})
		}()
	}
	wg.Wait()

	top, err := s.Top(ctx, ledger.MetricBalance, 1)
	if err != nil {
		t.Fatal(err)
	}
	if top[0].Value != 400 {
		t.Fatalf("balance = %d, want 400", top[0].Value)
	}
}
