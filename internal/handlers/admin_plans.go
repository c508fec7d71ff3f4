package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/skydimo/membership/internal/models"
	"github.com/skydimo/membership/internal/services"
	"github.com/skydimo/membership/pkg/errors"
	"github.com/skydimo/membership/pkg/response"
)

// AdminPlanHandler manages the plan catalog from the admin console.
type AdminPlanHandler struct {
	plans *services.PlanService
}

func NewAdminPlanHandler(plans *services.PlanService) *AdminPlanHandler {
	return &AdminPlanHandler{plans: plans}
}

// GET /api/admin/plans
func (h *AdminPlanHandler) List(c *gin.Context) {
	plans, err := h.plans.ListAll(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"plans": plans})
}

type createPlanRequest struct {
	Name         string              `json:"name" validate:"required,min=1,max=100"`
	Price        int64               `json:"price" validate:"required,min=0"`
	Currency     string              `json:"currency" validate:"required,max=10"`
	BillingCycle models.BillingCycle `json:"billingCycle" validate:"required,oneof=MONTHLY YEARLY"`
	Description  *string             `json:"description" validate:"omitempty,max=500"`
	Features     []string            `json:"features"`
	IsActive     *bool               `json:"isActive"`
}

// POST /api/admin/plans
func (h *AdminPlanHandler) Create(c *gin.Context) {
	var req createPlanRequest
	if !bindAndValidate(c, &req) {
		return
	}

	plan, err := h.plans.Create(requestContext(c), services.CreatePlanInput{
		Name:         req.Name,
		Price:        req.Price,
		Currency:     req.Currency,
		BillingCycle: req.BillingCycle,
		Description:  req.Description,
		Features:     req.Features,
		IsActive:     req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"plan": plan})
}

type updatePlanRequest struct {
	Name         *string              `json:"name" validate:"omitempty,min=1,max=100"`
	Price        *int64               `json:"price" validate:"omitempty,min=0"`
	Currency     *string              `json:"currency" validate:"omitempty,max=10"`
	BillingCycle *models.BillingCycle `json:"billingCycle" validate:"omitempty,oneof=MONTHLY YEARLY"`
	Description  *string              `json:"description" validate:"omitempty,max=500"`
	Features     []string             `json:"features"`
	IsActive     *bool                `json:"isActive"`
}

// PATCH /api/admin/plans/:id
func (h *AdminPlanHandler) Update(c *gin.Context) {
	planID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, errors.NewInvalidInput("Invalid plan id"))
		return
	}

	var req updatePlanRequest
	if !bindAndValidate(c, &req) {
		return
	}

	plan, err := h.plans.Update(requestContext(c), planID, services.UpdatePlanInput{
		Name:         req.Name,
		Price:        req.Price,
		Currency:     req.Currency,
		BillingCycle: req.BillingCycle,
		Description:  req.Description,
		Features:     req.Features,
		IsActive:     req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"plan": plan})
}

// DELETE /api/admin/plans/:id
func (h *AdminPlanHandler) Delete(c *gin.Context) {
	planID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, errors.NewInvalidInput("Invalid plan id"))
		return
	}

	if err := h.plans.Delete(requestContext(c), planID); err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithMessage(c, "Plan deleted", nil)
}
