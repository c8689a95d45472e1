package engine

import (
	"context"
	"log/slog"
	"sort"

	"github.com/papertrade/paper-trading-simulator/internal/models"
)

const maxLeaderboardSize = 100

// Leaderboard ranks all users by cash plus mark-to-market portfolio
// value, descending, truncated to at most 100 entries. Prices are
// fetched fresh per computation; a failed fetch excludes that symbol
// from the user's valuation instead of failing the whole board.
func (e *Engine) Leaderboard(ctx context.Context, limit int) []models.LeaderboardEntry {
	if limit <= 0 || limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}

	users := e.store.AllUsers()
	entries := make([]models.LeaderboardEntry, 0, len(users))

	for _, user := range users {
		portfolioValue := 0.0
		for symbol, holding := range user.Portfolio {
			price, err := e.gateway.CurrentPrice(ctx, symbol)
			if err != nil {
				e.logger.Warn("leaderboard price fetch failed",
					slog.String("symbol", symbol),
					slog.String("user_id", user.ID),
					"error", err,
				)
				continue
			}
			portfolioValue += price * float64(holding.Quantity)
		}

		entries = append(entries, models.LeaderboardEntry{
			Username:       user.Username,
			TotalValue:     user.Cash + portfolioValue,
			Cash:           user.Cash,
			PortfolioValue: portfolioValue,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalValue > entries[j].TotalValue
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
