package api

import (
	"github.com/gin-gonic/gin"

	"github.com/skydimo/membership/internal/handlers"
)

func registerMembershipRoutes(r *gin.Engine, deps Dependencies) {
	handler := handlers.NewPlanHandler(deps.Plans)

	// Public catalog: only active plans, cheapest first.
	r.GET("/api/membership/plans", handler.ListActive)
}
