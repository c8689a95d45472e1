package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/papertrade/paper-trading-simulator/internal/models"
)

// PostgresBackend stores each collection as JSON records in its own
// table. Saves rewrite the whole table inside a transaction, keeping
// the same whole-collection semantics as the file backend.
type PostgresBackend struct {
	db *sql.DB
}

// NewPostgresBackend connects and ensures the two tables exist.
func NewPostgresBackend(host, port, user, password, dbname string) (*PostgresBackend, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	schema := []string{
		`CREATE TABLE IF NOT EXISTS ledger_users (
			id TEXT PRIMARY KEY,
			record JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ledger_transactions (
			seq SERIAL PRIMARY KEY,
			record JSONB NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("error creating schema: %w", err)
		}
	}

	return &PostgresBackend{db: db}, nil
}

func (p *PostgresBackend) LoadUsers() (map[string]*models.User, error) {
	rows, err := p.db.Query("SELECT record FROM ledger_users")
	if err != nil {
		return nil, fmt.Errorf("error loading users: %w", err)
	}
	defer rows.Close()

	users := make(map[string]*models.User)
	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return nil, err
		}
		var u models.User
		if err := json.Unmarshal(record, &u); err != nil {
			return nil, err
		}
		users[u.ID] = &u
	}
	return users, rows.Err()
}

func (p *PostgresBackend) SaveUsers(users map[string]*models.User) error {
	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("error saving users: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("TRUNCATE ledger_users"); err != nil {
		return fmt.Errorf("error saving users: %w", err)
	}
	for id, u := range users {
		record, err := json.Marshal(u)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			"INSERT INTO ledger_users (id, record) VALUES ($1, $2)", id, record,
		); err != nil {
			return fmt.Errorf("error saving users: %w", err)
		}
	}
	return tx.Commit()
}

func (p *PostgresBackend) LoadTransactions() ([]models.Transaction, error) {
	rows, err := p.db.Query("SELECT record FROM ledger_transactions ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("error loading transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0)
	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return nil, err
		}
		var t models.Transaction
		if err := json.Unmarshal(record, &t); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (p *PostgresBackend) SaveTransactions(transactions []models.Transaction) error {
	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("error saving transactions: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("TRUNCATE ledger_transactions RESTART IDENTITY"); err != nil {
		return fmt.Errorf("error saving transactions: %w", err)
	}
	for _, t := range transactions {
		record, err := json.Marshal(t)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			"INSERT INTO ledger_transactions (record) VALUES ($1)", record,
		); err != nil {
			return fmt.Errorf("error saving transactions: %w", err)
		}
	}
	return tx.Commit()
}

func (p *PostgresBackend) Close() error {
	return p.db.Close()
}
