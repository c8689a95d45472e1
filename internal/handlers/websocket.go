package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// PriceUpdate represents a stock price update pushed to clients.
type PriceUpdate struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins (for development and demo)
	},
}

const streamInterval = 5 * time.Second

// streamPrices handles WebSocket connections for live quotes. Clients
// pass ?symbols=AAPL,MSFT; each tick re-fetches every symbol from the
// market gateway and pushes whatever resolved. A failed fetch skips
// that symbol for the tick.
func (a *API) streamPrices(c *gin.Context) {
	symbols := strings.Split(strings.ToUpper(c.DefaultQuery("symbols", "AAPL,GOOGL,MSFT,TSLA,AMZN")), ",")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		a.logger.Warn("websocket upgrade error", "error", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, symbol := range symbols {
				symbol = strings.TrimSpace(symbol)
				if symbol == "" {
					continue
				}
				price, err := a.gateway.CurrentPrice(ctx, symbol)
				if err != nil {
					a.logger.Warn("price stream fetch failed", "symbol", symbol, "error", err)
					continue
				}
				update := PriceUpdate{Symbol: symbol, Price: price, Timestamp: time.Now()}
				if err := conn.WriteJSON(update); err != nil {
					return
				}
			}
		}
	}
}
