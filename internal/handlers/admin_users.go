package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/skydimo/membership/internal/models"
	"github.com/skydimo/membership/internal/services"
	"github.com/skydimo/membership/pkg/errors"
	"github.com/skydimo/membership/pkg/response"
)

// AdminUserHandler backs the admin console's user management screens.
type AdminUserHandler struct {
	users *services.AdminUserService
}

func NewAdminUserHandler(users *services.AdminUserService) *AdminUserHandler {
	return &AdminUserHandler{users: users}
}

// GET /api/admin/users
func (h *AdminUserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"users": users})
}

// GET /api/admin/admins
func (h *AdminUserHandler) ListAdmins(c *gin.Context) {
	admins, err := h.users.ListAdmins(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"admins": admins})
}

type adminUpdateUserRequest struct {
	Name *string      `json:"name" validate:"omitempty,min=1,max=50"`
	Role *models.Role `json:"role" validate:"omitempty,oneof=USER ADMIN"`
}

// PATCH /api/admin/users/:id
func (h *AdminUserHandler) UpdateUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, errors.NewInvalidInput("Invalid user id"))
		return
	}

	var req adminUpdateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.Update(requestContext(c), userID, services.AdminUpdateUserInput{
		Name: req.Name,
		Role: req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"user": user})
}

// DELETE /api/admin/users/:id
func (h *AdminUserHandler) DeleteUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, errors.NewInvalidInput("Invalid user id"))
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	if err := h.users.Delete(requestContext(c), userID, actorID); err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithMessage(c, "User deleted", nil)
}
