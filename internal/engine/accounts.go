package engine

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/papertrade/paper-trading-simulator/internal/auth"
	"github.com/papertrade/paper-trading-simulator/internal/models"
)

const defaultHistoryLimit = 50

func newUserID() string {
	b := make([]byte, 12)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Register creates an account with zero cash and an empty portfolio.
// Usernames are unique case-insensitively.
func (e *Engine) Register(username, password string) (*models.User, error) {
	if len(username) < 3 || len(username) > 20 {
		return nil, ErrInvalidUsername
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           newUserID(),
		Username:     username,
		PasswordHash: hash,
		Cash:         0,
		Portfolio:    make(map[string]models.Holding),
		CreatedAt:    nowMillis(),
	}
	if err := e.store.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// CompleteTutorial grants the one-time starting cash award.
func (e *Engine) CompleteTutorial(userID string) (*models.User, error) {
	e.locks.LockUser(userID)
	defer e.locks.UnlockUser(userID)

	user, ok := e.store.UserByID(userID)
	if !ok {
		return nil, ErrUserNotFound
	}
	if user.TutorialDone {
		return nil, ErrTutorialDone
	}

	user.TutorialDone = true
	user.Cash = e.award
	e.store.PutUser(user)
	return user, nil
}

// Portfolio returns the user's cash and holdings. Total value is at
// cost basis; mark-to-market valuation lives on the leaderboard path.
func (e *Engine) Portfolio(userID string) (models.PortfolioResponse, error) {
	user, ok := e.store.UserByID(userID)
	if !ok {
		return models.PortfolioResponse{}, ErrUserNotFound
	}

	totalValue := user.Cash
	for _, h := range user.Portfolio {
		totalValue += h.AvgPrice * float64(h.Quantity)
	}

	return models.PortfolioResponse{
		Portfolio:   user.Portfolio,
		CashBalance: user.Cash,
		TotalValue:  totalValue,
	}, nil
}

// History returns the user's ledger entries, newest first.
func (e *Engine) History(userID string, limit int) ([]models.Transaction, error) {
	if _, ok := e.store.UserByID(userID); !ok {
		return nil, ErrUserNotFound
	}
	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}
	return e.store.TransactionsByUser(userID, limit), nil
}
