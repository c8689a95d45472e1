package ledger

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/papertrade/paper-trading-simulator/internal/models"
)

// FileBackend persists each collection as one flat JSON file in a data
// directory. Every save rewrites the whole file in place; a crash
// mid-write can corrupt it. Known weakness, kept for simplicity.
type FileBackend struct {
	usersPath        string
	transactionsPath string
}

func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileBackend{
		usersPath:        filepath.Join(dir, "users.json"),
		transactionsPath: filepath.Join(dir, "transactions.json"),
	}, nil
}

func (f *FileBackend) LoadUsers() (map[string]*models.User, error) {
	users := make(map[string]*models.User)
	if err := readJSONFile(f.usersPath, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (f *FileBackend) SaveUsers(users map[string]*models.User) error {
	return writeJSONFile(f.usersPath, users)
}

func (f *FileBackend) LoadTransactions() ([]models.Transaction, error) {
	transactions := make([]models.Transaction, 0)
	if err := readJSONFile(f.transactionsPath, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (f *FileBackend) SaveTransactions(transactions []models.Transaction) error {
	return writeJSONFile(f.transactionsPath, transactions)
}

func (f *FileBackend) Close() error { return nil }

// readJSONFile decodes path into v. A missing file is empty state, not
// an error.
func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSONFile(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
