package api

import (
	"github.com/gin-gonic/gin"

	"github.com/skydimo/membership/internal/handlers"
)

func registerHealthRoutes(r *gin.Engine, deps Dependencies) {
	r.GET("/health", handlers.Health(deps.DB))
}
