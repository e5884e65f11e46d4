package optimistic_test

import (
	"errors"
	"testing"

	"lingocast/internal/optimistic"
)

func TestUpdateCommits(t *testing.T) {
	cell := optimistic.NewCell(1.0)
	var seen float64
	err := cell.Update(1.25, func(v float64) error {
		seen = v
		if got := cell.Get(); got != 1.25 {
			t.Fatalf("expected optimistic value visible during apply, got %v", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if seen != 1.25 || cell.Get() != 1.25 || cell.Confirmed() != 1.25 {
		t.Fatalf("unexpected state: seen=%v current=%v confirmed=%v", seen, cell.Get(), cell.Confirmed())
	}
}

func TestUpdateRollsBackOnFailure(t *testing.T) {
	cell := optimistic.NewCell("a")
	boom := errors.New("rejected")
	if err := cell.Update("b", func(string) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected apply error, got %v", err)
	}
	if cell.Get() != "a" || cell.Confirmed() != "a" {
		t.Fatalf("expected rollback to prior value, got current=%q confirmed=%q", cell.Get(), cell.Confirmed())
	}
}

func TestSupersededRollbackIsIgnored(t *testing.T) {
	cell := optimistic.NewCell(0)
	first := cell.Begin(1)
	second := cell.Begin(2)
	if first.Rollback() {
		t.Fatal("expected superseded rollback to be ignored")
	}
	if cell.Get() != 2 {
		t.Fatalf("expected newer value to survive, got %d", cell.Get())
	}
	if !second.Rollback() {
		t.Fatal("expected latest change to roll back")
	}
	if cell.Get() != 1 {
		t.Fatalf("expected rollback to the value seen by the latest change, got %d", cell.Get())
	}
}
