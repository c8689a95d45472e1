package ledger

import (
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/papertrade/paper-trading-simulator/internal/models"
)

// ErrUsernameTaken is returned when a registration collides with an
// existing username (case-insensitive).
var ErrUsernameTaken = errors.New("Username already taken")

// Store is the in-memory ledger: the users map and the append-only
// transaction list, backed by whole-collection persistence. Reads
// hand out clones; the live records never leave the store.
//
// A persistence failure after a mutation is logged and surfaced to the
// operator through the log, but the in-memory mutation stands.
type Store struct {
	mu           sync.RWMutex
	users        map[string]*models.User
	transactions []models.Transaction
	backend      Backend
	logger       *slog.Logger
}

// Open loads both collections from the backend. Absent data is an
// empty ledger, not an error.
func Open(backend Backend, logger *slog.Logger) (*Store, error) {
	users, err := backend.LoadUsers()
	if err != nil {
		return nil, err
	}
	transactions, err := backend.LoadTransactions()
	if err != nil {
		return nil, err
	}
	return &Store{
		users:        users,
		transactions: transactions,
		backend:      backend,
		logger:       logger,
	}, nil
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// UserByID returns a snapshot of the user, if present.
func (s *Store) UserByID(id string) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	return u.Clone(), true
}

// UserByUsername looks a user up case-insensitively.
func (s *Store) UserByUsername(username string) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u.Clone(), true
		}
	}
	return nil, false
}

// AllUsers returns snapshots of every account.
func (s *Store) AllUsers() []*models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Clone())
	}
	return out
}

// CreateUser registers a new account and persists the users
// collection. Username uniqueness is case-insensitive.
func (s *Store) CreateUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return ErrUsernameTaken
		}
	}
	s.users[u.ID] = u.Clone()
	s.persistUsersLocked()
	return nil
}

// PutUser replaces a user record and persists the users collection.
func (s *Store) PutUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u.Clone()
	s.persistUsersLocked()
}

// SettleTrade applies a settled trade: the updated user record and the
// new ledger entry land together, then both collections are persisted.
func (s *Store) SettleTrade(u *models.User, tx models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u.Clone()
	s.transactions = append(s.transactions, tx)
	s.persistUsersLocked()
	s.persistTransactionsLocked()
}

// TransactionsByUser returns the user's ledger entries, newest first,
// capped at limit (limit <= 0 means no cap).
func (s *Store) TransactionsByUser(userID string, limit int) []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Transaction, 0)
	// Walk newest-appended first so equal timestamps keep ledger
	// recency, then sort for callers that need strict ordering.
	for i := len(s.transactions) - 1; i >= 0; i-- {
		if t := s.transactions[i]; t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CountTransactionsSince counts the user's ledger entries with a
// timestamp at or after since. Used by the rapid-trading guard.
func (s *Store) CountTransactionsSince(userID string, since int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, t := range s.transactions {
		if t.UserID == userID && t.Timestamp >= since {
			count++
		}
	}
	return count
}

// TransactionCount reports the total ledger length.
func (s *Store) TransactionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transactions)
}

func (s *Store) persistUsersLocked() {
	if err := s.backend.SaveUsers(s.users); err != nil {
		s.logger.Error("failed to persist users collection", "error", err)
	}
}

func (s *Store) persistTransactionsLocked() {
	if err := s.backend.SaveTransactions(s.transactions); err != nil {
		s.logger.Error("failed to persist transactions collection", "error", err)
	}
}
