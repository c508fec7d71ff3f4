package api

import (
	"github.com/gin-gonic/gin"

	"github.com/skydimo/membership/internal/handlers"
)

func registerAuthRoutes(r *gin.Engine, deps Dependencies) {
	handler := handlers.NewAuthHandler(deps.Auth, deps.Tokens, deps.Cookies)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", handler.Register)
		auth.POST("/verify-email", handler.VerifyEmail)
		auth.POST("/login", handler.Login)
		auth.POST("/logout", handler.Logout)
		auth.POST("/forgot-password", handler.ForgotPassword)
		auth.POST("/reset-password", handler.ResetPassword)
	}

	// Console variant: reports whether the target account is an admin.
	adminAuth := r.Group("/api/admin/auth")
	{
		adminAuth.POST("/forgot-password", handler.AdminForgotPassword)
		adminAuth.POST("/reset-password", handler.AdminResetPassword)
	}
}
