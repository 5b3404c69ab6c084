package kioskapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nocts/fuelflow/pkg/fuel"
	"github.com/nocts/fuelflow/pkg/transactions"
	"go.uber.org/zap"
)

// Run boots the kiosk HTTP facade over the supplied transaction store.
func Run(ctx context.Context, cfg Config, store transactions.Store) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("zap init: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	handler, err := newHandler(cfg, store, logger)
	if err != nil {
		return err
	}
	router := setupRouter(cfg, handler)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("kioskd listening", zap.String("addr", cfg.ListenAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("server shutdown error", zap.Error(shutdownErr))
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func newHandler(cfg Config, store transactions.Store, logger *zap.Logger) (*httpHandler, error) {
	engine, err := fuel.NewEngine(cfg.Prices(),
		fuel.WithPumpCount(cfg.PumpCount),
		fuel.WithOperationLogger(&activationLogger{logger: logger}),
	)
	if err != nil {
		return nil, fmt.Errorf("engine init: %w", err)
	}
	ledger, err := transactions.NewService(store, time.Now,
		transactions.WithOperationLogger(&ledgerLogger{logger: logger}),
	)
	if err != nil {
		return nil, fmt.Errorf("ledger init: %w", err)
	}
	return &httpHandler{
		logger: logger,
		engine: engine,
		ledger: ledger,
		cfg:    cfg,
	}, nil
}

func setupRouter(cfg Config, handler *httpHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Origin", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/api/login", handler.handleLogin)

	api := router.Group("/api")
	api.Use(sessionMiddleware(cfg))

	api.POST("/logout", handler.handleLogout)
	api.GET("/session", handler.handleSession)
	api.POST("/activate", handler.handleActivate)
	api.GET("/transactions", handler.handleListTransactions)
	api.DELETE("/transactions", handler.handleClearTransactions)

	return router
}

type httpHandler struct {
	logger *zap.Logger
	engine *fuel.Engine
	ledger *transactions.Service
	cfg    Config
}

func (handler *httpHandler) handleLogin(ctx *gin.Context) {
	var request loginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	if !checkCredentials(handler.cfg, request.StaffID, request.Password) {
		ctx.JSON(http.StatusUnauthorized, errorResponse("invalid_credentials", "Invalid credentials"))
		return
	}
	token, err := issueSessionToken(handler.cfg, time.Now())
	if err != nil {
		handler.logger.Error("session token issue failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("session_error", "could not start session"))
		return
	}
	ctx.SetCookie(handler.cfg.SessionCookieName, token, int(handler.cfg.SessionTTL.Seconds()), "/", "", false, true)
	ctx.JSON(http.StatusOK, gin.H{
		"staff_id": handler.cfg.StaffID,
		"name":     handler.cfg.StaffName,
		"role":     defaultStaffRole,
	})
}

func (handler *httpHandler) handleLogout(ctx *gin.Context) {
	ctx.SetCookie(handler.cfg.SessionCookieName, "", -1, "/", "", false, true)
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (handler *httpHandler) handleSession(ctx *gin.Context) {
	claims := getClaims(ctx)
	if claims == nil {
		ctx.JSON(http.StatusUnauthorized, errorResponse("unauthorized", "missing session"))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"staff_id": claims.StaffID,
		"name":     claims.StaffName,
		"role":     claims.Role,
		"expires":  claims.ExpiresAt.Unix(),
	})
}

func (handler *httpHandler) handleActivate(ctx *gin.Context) {
	var request activateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}

	// The discount_applied flag is accepted on the wire but eligibility is
	// always recomputed from the barcode.
	outcome := handler.engine.Activate(ctx.Request.Context(), fuel.ActivationRequest{
		PumpNumber: request.PumpNumber,
		Amount:     request.Amount,
		Barcode:    request.Barcode,
	})
	if !outcome.Success {
		ctx.JSON(http.StatusOK, activateResponse{Success: false, Message: outcome.Message})
		return
	}

	transactionID, err := handler.ledger.Add(ctx.Request.Context(), transactions.AddInput{
		TransactionID:   outcome.TransactionID,
		PumpNumber:      request.PumpNumber,
		Amount:          request.Amount,
		Barcode:         request.Barcode,
		DiscountApplied: transactions.DiscountApplied(outcome.SubsidyLiters, outcome.DiscountPercent),
		FuelLiters:      outcome.FuelLiters,
		SubsidyLiters:   outcome.SubsidyLiters,
		SubsidyType:     outcome.SubsidyType,
		DiscountPercent: outcome.DiscountPercent,
		PricePerLiter:   outcome.PricePerLiter,
	})
	if err != nil {
		handler.logger.Error("transaction append failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("ledger_error", "could not record transaction"))
		return
	}

	ctx.JSON(http.StatusOK, activateResponse{
		Success:         true,
		TransactionID:   transactionID,
		FuelLiters:      outcome.FuelLiters,
		SubsidyLiters:   outcome.SubsidyLiters,
		PricePerLiter:   outcome.PricePerLiter,
		SubsidyType:     outcome.SubsidyType,
		DiscountPercent: outcome.DiscountPercent,
		Message:         outcome.Message,
	})
}

func (handler *httpHandler) handleListTransactions(ctx *gin.Context) {
	var (
		records []transactions.Record
		err     error
	)
	month := ctx.Query("month")
	status := ctx.Query("status")
	switch {
	case month != "":
		records, err = handler.ledger.ListByMonth(ctx.Request.Context(), month)
	case status != "":
		parsed := transactions.Status(status)
		if parsed != transactions.StatusEligible && parsed != transactions.StatusIneligible {
			ctx.JSON(http.StatusBadRequest, errorResponse("invalid_status", "status must be Eligible or Ineligible"))
			return
		}
		records, err = handler.ledger.ListByStatus(ctx.Request.Context(), parsed)
	default:
		records, err = handler.ledger.List(ctx.Request.Context())
	}
	if err != nil {
		handler.logger.Error("transaction list failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("ledger_error", "could not read transactions"))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"transactions": records})
}

func (handler *httpHandler) handleClearTransactions(ctx *gin.Context) {
	if err := handler.ledger.ClearAll(ctx.Request.Context()); err != nil {
		handler.logger.Error("transaction clear failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse("ledger_error", "could not clear transactions"))
		return
	}
	ctx.Status(http.StatusNoContent)
}

func errorResponse(code string, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

type loginRequest struct {
	StaffID  string `json:"staff_id"`
	Password string `json:"password"`
}

type activateRequest struct {
	PumpNumber      int     `json:"pump_number"`
	Amount          float64 `json:"amount"`
	Barcode         string  `json:"barcode"`
	DiscountApplied bool    `json:"discount_applied"`
}

type activateResponse struct {
	Success         bool    `json:"success"`
	TransactionID   string  `json:"transaction_id,omitempty"`
	FuelLiters      float64 `json:"fuel_liters"`
	SubsidyLiters   float64 `json:"subsidy_liters"`
	PricePerLiter   float64 `json:"price_per_liter"`
	SubsidyType     string  `json:"subsidy_type,omitempty"`
	DiscountPercent int     `json:"discount_percent"`
	Message         string  `json:"message,omitempty"`
}

// activationLogger forwards engine operation logs to zap.
type activationLogger struct {
	logger *zap.Logger
}

func (adapter *activationLogger) LogOperation(_ context.Context, entry fuel.OperationLog) {
	adapter.logger.Info("pump activation",
		zap.String("operation", entry.Operation),
		zap.Int("pump", entry.PumpNumber),
		zap.Float64("amount", entry.Amount),
		zap.String("transaction_id", entry.TransactionID),
		zap.Bool("eligible", entry.Eligible),
		zap.String("status", entry.Status),
	)
}

// ledgerLogger forwards ledger operation logs to zap.
type ledgerLogger struct {
	logger *zap.Logger
}

func (adapter *ledgerLogger) LogOperation(_ context.Context, entry transactions.OperationLog) {
	fields := []zap.Field{
		zap.String("operation", entry.Operation),
		zap.String("transaction_id", entry.TransactionID),
		zap.String("status", entry.Status),
	}
	if entry.RecordStatus != "" {
		fields = append(fields, zap.String("record_status", entry.RecordStatus.String()))
	}
	if entry.Error != nil {
		fields = append(fields, zap.Error(entry.Error))
		adapter.logger.Error("ledger operation", fields...)
		return
	}
	adapter.logger.Info("ledger operation", fields...)
}
