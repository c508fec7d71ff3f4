package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/skydimo/membership/internal/services"
	"github.com/skydimo/membership/pkg/response"
)

// PlanHandler serves the public plan catalog.
type PlanHandler struct {
	plans *services.PlanService
}

func NewPlanHandler(plans *services.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

// GET /api/membership/plans
func (h *PlanHandler) ListActive(c *gin.Context) {
	plans, err := h.plans.ListActive(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"plans": plans})
}
