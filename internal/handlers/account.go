package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/skydimo/membership/internal/services"
	"github.com/skydimo/membership/pkg/errors"
	"github.com/skydimo/membership/pkg/response"
)

// AccountHandler serves the signed-in member's profile, password and email
// change endpoints plus their order and subscription history.
type AccountHandler struct {
	accounts      *services.AccountService
	orders        *services.OrderService
	subscriptions *services.SubscriptionService
}

func NewAccountHandler(accounts *services.AccountService, orders *services.OrderService, subscriptions *services.SubscriptionService) *AccountHandler {
	return &AccountHandler{accounts: accounts, orders: orders, subscriptions: subscriptions}
}

// GET /api/account/me
func (h *AccountHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	user, err := h.accounts.Get(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"user": user})
}

type updateProfileRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=50"`
}

// PATCH /api/account/profile
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req updateProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.accounts.UpdateProfile(requestContext(c), userID, services.UpdateProfileInput{
		Name: req.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"user": user})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=100"`
}

// POST /api/account/password
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req changePasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.accounts.ChangePassword(requestContext(c), userID, req.CurrentPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithMessage(c, "Password changed", nil)
}

type requestEmailChangeRequest struct {
	NewEmail        string `json:"newEmail" validate:"required,email"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
}

// POST /api/account/email/request-change
func (h *AccountHandler) RequestEmailChange(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req requestEmailChangeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.accounts.RequestEmailChange(requestContext(c), userID, req.NewEmail, req.CurrentPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithMessage(c, "Confirmation code sent to the new address", nil)
}

type confirmEmailChangeRequest struct {
	NewEmail string `json:"newEmail" validate:"required,email"`
	Code     string `json:"code" validate:"required,len=6"`
}

// POST /api/account/email/confirm-change
func (h *AccountHandler) ConfirmEmailChange(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req confirmEmailChangeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.accounts.ConfirmEmailChange(requestContext(c), userID, req.NewEmail, req.Code)
	recordCodeVerification(err)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithMessage(c, "Email updated", gin.H{"user": user})
}

// GET /api/account/orders
func (h *AccountHandler) ListOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	orders, err := h.orders.ListForUser(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"orders": orders})
}

// GET /api/account/subscriptions
func (h *AccountHandler) ListSubscriptions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	subscriptions, err := h.subscriptions.ListForUser(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"subscriptions": subscriptions})
}
