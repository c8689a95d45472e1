package models

// Transaction types recorded in the ledger.
const (
	TradeTypeBuy  = "BUY"
	TradeTypeSell = "SELL"
)

// Holding represents a position in a single stock
type Holding struct {
	Quantity int     `json:"quantity"`
	AvgPrice float64 `json:"avg_price"`
}

// User represents a user in the system
type User struct {
	ID           string             `json:"id"`
	Username     string             `json:"username"`
	PasswordHash string             `json:"password_hash"`
	Cash         float64            `json:"cash"`
	Portfolio    map[string]Holding `json:"portfolio"`
	TutorialDone bool               `json:"tutorial_done"`
	CreatedAt    int64              `json:"created_at"` // unix millis
}

// Clone returns a deep copy so callers can hand out snapshots
// without exposing the live portfolio map.
func (u *User) Clone() *User {
	c := *u
	c.Portfolio = make(map[string]Holding, len(u.Portfolio))
	for sym, h := range u.Portfolio {
		c.Portfolio[sym] = h
	}
	return &c
}

// Transaction is an append-only ledger entry for a settled trade
type Transaction struct {
	UserID    string  `json:"user_id"`
	Type      string  `json:"type"` // "BUY" or "SELL"
	Symbol    string  `json:"symbol"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"` // execution price at settlement time
	Timestamp int64   `json:"timestamp"`
}

// TradeRequest - what client sends to buy or sell stocks
type TradeRequest struct {
	Symbol   string `json:"symbol" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// RegisterRequest - what client sends to create an account
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest - credentials presented for a session token
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TradeResponse - what we send back after a settled trade
type TradeResponse struct {
	Cash      float64            `json:"cash"`
	Portfolio map[string]Holding `json:"portfolio"`
}

// PortfolioResponse - what we send back to client
type PortfolioResponse struct {
	Portfolio   map[string]Holding `json:"portfolio"`
	CashBalance float64            `json:"cash_balance"`
	TotalValue  float64            `json:"total_value"`
}

// LeaderboardEntry is one row of the leaderboard
type LeaderboardEntry struct {
	Username       string  `json:"username"`
	TotalValue     float64 `json:"total_value"`
	Cash           float64 `json:"cash"`
	PortfolioValue float64 `json:"portfolio_value"`
}
