package api

import (
	"github.com/gin-gonic/gin"

	"github.com/skydimo/membership/internal/handlers"
	"github.com/skydimo/membership/internal/middleware"
)

func registerAccountRoutes(r *gin.Engine, deps Dependencies) {
	handler := handlers.NewAccountHandler(deps.Accounts, deps.Orders, deps.Subscriptions)
	orderHandler := handlers.NewOrderHandler(deps.Orders)

	account := r.Group("/api/account")
	account.Use(middleware.RequireAuth(deps.Tokens))
	{
		account.GET("/me", handler.Me)
		account.PATCH("/profile", handler.UpdateProfile)
		account.POST("/password", handler.ChangePassword)
		account.POST("/email/request-change", handler.RequestEmailChange)
		account.POST("/email/confirm-change", handler.ConfirmEmailChange)
		account.GET("/orders", handler.ListOrders)
		account.GET("/subscriptions", handler.ListSubscriptions)
	}

	orders := r.Group("/api/orders")
	orders.Use(middleware.RequireAuth(deps.Tokens))
	{
		orders.POST("", orderHandler.Create)
	}
}
