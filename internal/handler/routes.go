package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/budgeteer/budgeteer-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, accountHandler *AccountHandler, categoryHandler *CategoryHandler, transactionHandler *TransactionHandler, tagHandler *TagHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)

	// Everything below requires a valid token and is rate limited per user
	protected := api.Group("")
	protected.Use(authMiddleware.Authenticate())
	protected.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Account routes
	protected.POST("/accounts", accountHandler.CreateAccount)
	protected.GET("/accounts", accountHandler.GetAccounts)
	protected.PUT("/accounts/:name", accountHandler.UpdateAccount)
	protected.DELETE("/accounts/:name", accountHandler.DeleteAccount)

	// Category routes
	protected.POST("/categories", categoryHandler.CreateMainCategory)
	protected.GET("/categories", categoryHandler.GetCategories)
	protected.PUT("/categories/:main", categoryHandler.UpdateMainCategory)
	protected.DELETE("/categories/:main", categoryHandler.DeleteMainCategory)
	protected.POST("/categories/:main/subcategories", categoryHandler.CreateSubCategory)
	protected.GET("/categories/:main/subcategories", categoryHandler.GetSubCategories)
	protected.PUT("/categories/:main/subcategories/:sub", categoryHandler.UpdateSubCategory)
	protected.DELETE("/categories/:main/subcategories/:sub", categoryHandler.DeleteSubCategory)

	// Transaction routes
	protected.POST("/transactions", transactionHandler.CreateTransaction)
	protected.PUT("/transactions/:id", transactionHandler.UpdateTransaction)
	protected.DELETE("/transactions/:id", transactionHandler.DeleteTransaction)

	// Tag routes
	protected.GET("/tags", tagHandler.GetTags)

	// WebSocket endpoint authenticates via token query parameter
	e.GET("/ws", wsHandler.HandleWS)
}
