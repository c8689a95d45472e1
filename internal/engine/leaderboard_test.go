package engine

import (
	"context"
	"testing"
)

func TestLeaderboard_OrderingAndValuation(t *testing.T) {
	gw := &fakeGateway{prices: map[string]float64{"X": 50.0}}
	eng, _ := newTestEngine(t, gw)

	rich := fundedUser(t, eng, "rich")
	poor := fundedUser(t, eng, "poor")

	// rich holds 10 X bought at 50; poor spends the same but the
	// price then doubles, so marked-to-market they flip.
	if _, err := eng.Buy(context.Background(), rich.ID, "X", 10); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if _, err := eng.Buy(context.Background(), poor.ID, "X", 20); err != nil {
		t.Fatalf("buy failed: %v", err)
	}

	gw.prices["X"] = 100.0
	entries := eng.Leaderboard(context.Background(), 0)

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Username != "poor" {
		t.Errorf("expected poor on top after price doubled, got %+v", entries)
	}
	// poor: 100000 - 20*50 cash + 20*100 market = 101000
	if entries[0].TotalValue != 101000 {
		t.Errorf("expected total 101000, got %.2f", entries[0].TotalValue)
	}
	if entries[0].Cash != 99000 || entries[0].PortfolioValue != 2000 {
		t.Errorf("unexpected breakdown: %+v", entries[0])
	}
}

func TestLeaderboard_SwallowsPerSymbolFetchFailures(t *testing.T) {
	gw := &fakeGateway{prices: map[string]float64{"GOOD": 10.0, "BAD": 10.0}}
	eng, _ := newTestEngine(t, gw)
	user := fundedUser(t, eng, "mixedbag")

	if _, err := eng.Buy(context.Background(), user.ID, "GOOD", 5); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if _, err := eng.Buy(context.Background(), user.ID, "BAD", 5); err != nil {
		t.Fatalf("buy failed: %v", err)
	}

	// BAD stops quoting; the board still computes, excluding it.
	delete(gw.prices, "BAD")

	entries := eng.Leaderboard(context.Background(), 0)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].PortfolioValue != 50 {
		t.Errorf("expected portfolio value 50 (BAD excluded), got %.2f", entries[0].PortfolioValue)
	}
}

func TestLeaderboard_Truncation(t *testing.T) {
	gw := &fakeGateway{prices: map[string]float64{}}
	eng, _ := newTestEngine(t, gw)

	for i := 0; i < 4; i++ {
		name := string(rune('a'+i)) + "trader"
		if _, err := eng.Register(name, "secret123"); err != nil {
			t.Fatalf("register failed: %v", err)
		}
	}

	entries := eng.Leaderboard(context.Background(), 2)
	if len(entries) != 2 {
		t.Errorf("expected truncation to 2 entries, got %d", len(entries))
	}
}
