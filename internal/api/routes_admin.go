package api

import (
	"github.com/gin-gonic/gin"

	"github.com/skydimo/membership/internal/handlers"
	"github.com/skydimo/membership/internal/middleware"
)

func registerAdminRoutes(r *gin.Engine, deps Dependencies) {
	userHandler := handlers.NewAdminUserHandler(deps.AdminUsers)
	planHandler := handlers.NewAdminPlanHandler(deps.Plans)

	admin := r.Group("/api/admin")
	admin.Use(middleware.RequireAuth(deps.Tokens), middleware.RequireAdmin())
	{
		admin.GET("/users", userHandler.ListUsers)
		admin.PATCH("/users/:id", userHandler.UpdateUser)
		admin.DELETE("/users/:id", userHandler.DeleteUser)
		admin.GET("/admins", userHandler.ListAdmins)

		admin.GET("/plans", planHandler.List)
		admin.POST("/plans", planHandler.Create)
		admin.PATCH("/plans/:id", planHandler.Update)
		admin.DELETE("/plans/:id", planHandler.Delete)
	}
}
