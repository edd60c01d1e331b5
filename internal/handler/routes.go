package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/lendbook/lendbook-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *AuthHandler,
	loanHandler *LoanHandler,
	debitCardHandler *DebitCardHandler,
	debitCardTransactionHandler *DebitCardTransactionHandler,
) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Auth routes
	api.POST("/auth/callback", authHandler.Callback)
	api.GET("/auth/me", authHandler.Me)

	// Loan routes
	api.POST("/loans", loanHandler.CreateLoan)
	api.GET("/loans", loanHandler.GetLoans)
	api.GET("/loans/:id", loanHandler.GetLoan)
	api.GET("/loans/:id/scheduled-repayments", loanHandler.GetSchedule)
	api.POST("/loans/:id/repayments", loanHandler.RepayLoan)
	api.GET("/loans/:id/repayments", loanHandler.GetReceivedRepayments)

	// Debit card routes
	api.POST("/debit-cards", debitCardHandler.CreateCard)
	api.GET("/debit-cards", debitCardHandler.GetCards)
	api.GET("/debit-cards/:id", debitCardHandler.GetCard)
	api.POST("/debit-cards/:id/disable", debitCardHandler.DisableCard)
	api.POST("/debit-cards/:id/enable", debitCardHandler.EnableCard)
	api.DELETE("/debit-cards/:id", debitCardHandler.DeleteCard)
	api.GET("/debit-cards/:id/transactions", debitCardTransactionHandler.GetTransactions)

	// Debit card transaction routes
	api.POST("/debit-card-transactions", debitCardTransactionHandler.CreateTransaction)
	api.GET("/debit-card-transactions/:id", debitCardTransactionHandler.GetTransaction)
}
