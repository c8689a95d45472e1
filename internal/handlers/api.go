package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/papertrade/paper-trading-simulator/internal/activity"
	"github.com/papertrade/paper-trading-simulator/internal/auth"
	"github.com/papertrade/paper-trading-simulator/internal/engine"
	"github.com/papertrade/paper-trading-simulator/internal/ledger"
	"github.com/papertrade/paper-trading-simulator/internal/market"
	"github.com/papertrade/paper-trading-simulator/internal/models"
)

// API wires the settlement core to the HTTP boundary.
type API struct {
	engine    *engine.Engine
	store     *ledger.Store
	gateway   market.Gateway
	sink      *activity.Sink
	logger    *slog.Logger
	jwtSecret []byte
}

func NewAPI(eng *engine.Engine, store *ledger.Store, gateway market.Gateway, sink *activity.Sink, logger *slog.Logger, jwtSecret []byte) *API {
	return &API{
		engine:    eng,
		store:     store,
		gateway:   gateway,
		sink:      sink,
		logger:    logger,
		jwtSecret: jwtSecret,
	}
}

// Router builds the gin router with all routes configured.
func (a *API) Router() *gin.Engine {
	router := gin.Default()

	api := router.Group("/api")
	{
		api.POST("/register", a.register)
		api.POST("/login", a.login)

		authed := api.Group("")
		authed.Use(a.authenticate)
		{
			authed.POST("/tutorial/complete", a.completeTutorial)
			authed.POST("/trades/buy", a.buy)
			authed.POST("/trades/sell", a.sell)
			authed.GET("/portfolio", a.portfolio)
			authed.GET("/trades", a.history)
		}

		api.GET("/leaderboard", a.leaderboard)
		api.GET("/quote/:symbol", a.quote)
		api.GET("/chart/:symbol", a.chart)
		api.GET("/activity", a.recentActivity)
	}

	router.GET("/ws/prices", a.streamPrices)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	return router
}

// respondClientError maps a settlement failure onto the response. The
// body carries only the stable reason string, never internal detail.
func (a *API) respondClientError(c *gin.Context, err error) {
	if engine.IsClientError(err) || err == ledger.ErrUsernameTaken {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Gateway and internal failures.
	a.logger.Error("request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "Gateway unavailable"})
}

func (a *API) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := a.engine.Register(req.Username, req.Password)
	if err != nil {
		a.respondClientError(c, err)
		return
	}

	token, err := auth.NewToken(user, a.jwtSecret, auth.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"user_id":  user.ID,
		"username": user.Username,
		"cash":     user.Cash,
	})
}

func (a *API) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := a.store.UserByUsername(req.Username)
	if !ok || !auth.CheckPassword(user.PasswordHash, req.Password) {
		a.sink.Record(req.Username, activity.KindFailedLogin, "bad credentials")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.NewToken(user, a.jwtSecret, auth.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user_id": user.ID})
}

// authenticate resolves the bearer token to a user id; downstream
// handlers trust the resolved id unconditionally.
func (a *API) authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrUnauthorized.Error()})
		return
	}

	userID, err := auth.ParseToken(parts[1], a.jwtSecret)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.Set("userID", userID)
	c.Next()
}

func (a *API) completeTutorial(c *gin.Context) {
	user, err := a.engine.CompleteTutorial(c.GetString("userID"))
	if err != nil {
		a.respondClientError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cash": user.Cash})
}

func (a *API) buy(c *gin.Context) {
	a.trade(c, a.engine.Buy)
}

func (a *API) sell(c *gin.Context) {
	a.trade(c, a.engine.Sell)
}

func (a *API) trade(c *gin.Context, settle func(ctx context.Context, userID, symbol string, quantity int) (models.TradeResponse, error)) {
	var req models.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": engine.ErrSymbolAndQuantity.Error()})
		return
	}

	resp, err := settle(c.Request.Context(), c.GetString("userID"), req.Symbol, req.Quantity)
	if err != nil {
		a.respondClientError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a *API) portfolio(c *gin.Context) {
	resp, err := a.engine.Portfolio(c.GetString("userID"))
	if err != nil {
		a.respondClientError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a *API) history(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	trades, err := a.engine.History(c.GetString("userID"), limit)
	if err != nil {
		a.respondClientError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trades": trades, "count": len(trades)})
}

func (a *API) leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries := a.engine.Leaderboard(c.Request.Context(), limit)
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

func (a *API) quote(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	price, err := a.gateway.CurrentPrice(c.Request.Context(), symbol)
	if err != nil {
		a.respondClientError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "price": price})
}

func (a *API) chart(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	rng := c.DefaultQuery("range", "1mo")
	interval := c.DefaultQuery("interval", "1d")

	series, err := a.gateway.Series(c.Request.Context(), symbol, rng, interval)
	if err != nil {
		a.respondClientError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

func (a *API) recentActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	c.JSON(http.StatusOK, gin.H{"events": a.sink.Recent(limit)})
}
