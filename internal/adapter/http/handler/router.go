package handler

import (
	"centre-ledger/internal/adapter/http/middleware"
	"centre-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	LedgerSvc      ports.LedgerService
	TransferSvc    ports.TransferService
	SettlementSvc  ports.SettlementService
	ReportingSvc   ports.ReportingService
	TokenSvc       ports.TokenService
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Deep health check: pings PostgreSQL and Redis.
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	walletHandler := NewWalletHandler(deps.WalletSvc)
	ledgerHandler := NewLedgerHandler(deps.LedgerSvc)
	transferHandler := NewTransferHandler(deps.TransferSvc)
	settlementHandler := NewSettlementHandler(deps.SettlementSvc)
	reportingHandler := NewReportingHandler(deps.ReportingSvc)

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	v1 := r.Group("/api/v1", jwtAuth)

	wallets := v1.Group("/wallets")
	{
		wallets.POST("", walletHandler.Create)
		wallets.GET("", walletHandler.List)
		wallets.GET("/:id", walletHandler.Get)
		wallets.PUT("/:id", walletHandler.Update)
		wallets.DELETE("/:id", walletHandler.Delete)

		wallets.POST("/:id/transactions", ledgerHandler.Record)
		wallets.GET("/:id/transactions", ledgerHandler.List)
		wallets.GET("/:id/summary", ledgerHandler.DailySummary)
	}

	v1.POST("/transfers", transferHandler.Transfer)
	v1.POST("/service-entries", settlementHandler.Settle)

	dashboard := v1.Group("/dashboard")
	{
		dashboard.GET("/snapshot", reportingHandler.Snapshot)
	}

	return r
}
