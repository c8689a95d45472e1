// Package ledger holds the in-memory user and transaction collections
// and their whole-collection persistence.
package ledger

import (
	"github.com/papertrade/paper-trading-simulator/internal/models"
)

// Backend is the durable store behind the in-memory collections.
// Loads return empty state when nothing has been persisted yet; saves
// rewrite the whole collection.
type Backend interface {
	LoadUsers() (map[string]*models.User, error)
	SaveUsers(users map[string]*models.User) error
	LoadTransactions() ([]models.Transaction, error)
	SaveTransactions(transactions []models.Transaction) error
	Close() error
}
