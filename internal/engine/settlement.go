package engine

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/papertrade/paper-trading-simulator/internal/activity"
	"github.com/papertrade/paper-trading-simulator/internal/ledger"
	"github.com/papertrade/paper-trading-simulator/internal/market"
	"github.com/papertrade/paper-trading-simulator/internal/models"
)

// tradeResult is what a settlement job reports back.
type tradeResult struct {
	Response models.TradeResponse
	Err      error
}

// tradeJob is one validated-and-priced trade waiting for its mutation
// phase. The price was fetched before the job was queued; from here on
// nothing suspends, so the mutation phase runs atomically.
type tradeJob struct {
	userID    string
	symbol    string
	tradeType string
	quantity  int
	price     float64
	resultCh  chan tradeResult
}

// Engine is the settlement core. All cash/portfolio mutations for
// trades are funneled through its job queue; per-user locks keep the
// mutation phase serialized per account even with multiple workers.
type Engine struct {
	store   *ledger.Store
	gateway market.Gateway
	sink    *activity.Sink
	logger  *slog.Logger

	award   float64
	workers int

	jobQueue chan tradeJob
	stopCh   chan struct{}
	wg       sync.WaitGroup
	locks    *userLockTable
}

// New builds an engine. workers is the settlement worker count; 1
// gives a single-writer mutation path, which is the default.
func New(store *ledger.Store, gateway market.Gateway, sink *activity.Sink, logger *slog.Logger, award float64, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		store:    store,
		gateway:  gateway,
		sink:     sink,
		logger:   logger,
		award:    award,
		workers:  workers,
		jobQueue: make(chan tradeJob, 100),
		stopCh:   make(chan struct{}),
		locks:    newUserLockTable(),
	}
}

// Start starts the settlement workers.
func (e *Engine) Start() {
	for i := 0; i < e.workers; i++ {
		e.wg.Add(1)
		go e.worker(i)
	}
	e.logger.Info("settlement workers started", slog.Int("workers", e.workers))
}

// Stop gracefully stops all workers.
func (e *Engine) Stop() {
	close(e.stopCh)
	e.wg.Wait()
	e.logger.Info("settlement engine stopped")
}

func (e *Engine) worker(id int) {
	defer e.wg.Done()

	for {
		select {
		case <-e.stopCh:
			return
		case job := <-e.jobQueue:
			job.resultCh <- e.settle(job)
		}
	}
}

// Buy fetches the current price and settles a purchase against the
// user's cash. The price fetch is the only suspension point; the
// mutation phase runs on a settlement worker.
func (e *Engine) Buy(ctx context.Context, userID, symbol string, quantity int) (models.TradeResponse, error) {
	return e.trade(ctx, userID, symbol, models.TradeTypeBuy, quantity)
}

// Sell fetches the current price and settles a sale against the
// user's holding.
func (e *Engine) Sell(ctx context.Context, userID, symbol string, quantity int) (models.TradeResponse, error) {
	return e.trade(ctx, userID, symbol, models.TradeTypeSell, quantity)
}

func (e *Engine) trade(ctx context.Context, userID, symbol, tradeType string, quantity int) (models.TradeResponse, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" || quantity == 0 {
		return models.TradeResponse{}, ErrSymbolAndQuantity
	}

	price, err := e.gateway.CurrentPrice(ctx, symbol)
	if err != nil {
		return models.TradeResponse{}, err
	}

	resultCh := make(chan tradeResult, 1)
	e.jobQueue <- tradeJob{
		userID:    userID,
		symbol:    symbol,
		tradeType: tradeType,
		quantity:  quantity,
		price:     price,
		resultCh:  resultCh,
	}

	result := <-resultCh
	return result.Response, result.Err
}

// settle executes a single trade's mutation phase with the user's
// lock held. A rejected trade leaves cash, portfolio and the ledger
// untouched.
func (e *Engine) settle(job tradeJob) tradeResult {
	e.locks.LockUser(job.userID)
	defer e.locks.UnlockUser(job.userID)

	if err := e.ValidateTrade(job.userID, job.symbol, job.quantity, job.price); err != nil {
		return tradeResult{Err: err}
	}

	user, ok := e.store.UserByID(job.userID)
	if !ok {
		return tradeResult{Err: ErrUserNotFound}
	}

	switch job.tradeType {
	case models.TradeTypeBuy:
		cost := job.price * float64(job.quantity)
		if cost > user.Cash {
			return tradeResult{Err: ErrInsufficientFunds}
		}
		user.Cash -= cost

		holding := user.Portfolio[job.symbol]
		newQuantity := holding.Quantity + job.quantity
		// Weighted-average cost basis: total dollars over total
		// shares, not an average of prices.
		holding.AvgPrice = (holding.AvgPrice*float64(holding.Quantity) + cost) / float64(newQuantity)
		holding.Quantity = newQuantity
		user.Portfolio[job.symbol] = holding

	case models.TradeTypeSell:
		holding, held := user.Portfolio[job.symbol]
		if !held || holding.Quantity < job.quantity {
			return tradeResult{Err: ErrInsufficientShares}
		}
		user.Cash += job.price * float64(job.quantity)

		holding.Quantity -= job.quantity
		if holding.Quantity == 0 {
			// Exhausted positions leave the portfolio entirely.
			delete(user.Portfolio, job.symbol)
		} else {
			// AvgPrice stays put; realized P&L is derived, not stored.
			user.Portfolio[job.symbol] = holding
		}
	}

	tx := models.Transaction{
		UserID:    job.userID,
		Type:      job.tradeType,
		Symbol:    job.symbol,
		Quantity:  job.quantity,
		Price:     job.price,
		Timestamp: nowMillis(),
	}
	e.store.SettleTrade(user, tx)

	e.logger.Info("trade settled",
		slog.String("user_id", job.userID),
		slog.String("type", job.tradeType),
		slog.String("symbol", job.symbol),
		slog.Int("quantity", job.quantity),
		slog.Float64("price", job.price),
	)

	return tradeResult{Response: models.TradeResponse{
		Cash:      user.Cash,
		Portfolio: user.Portfolio,
	}}
}
