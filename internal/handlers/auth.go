package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/skydimo/membership/internal/auth"
	"github.com/skydimo/membership/internal/models"
	"github.com/skydimo/membership/internal/services"
	apperrors "github.com/skydimo/membership/pkg/errors"
	"github.com/skydimo/membership/pkg/metrics"
	"github.com/skydimo/membership/pkg/response"
)

// AuthHandler manages authentication flows: sign-up, email verification,
// login, logout and the password reset endpoints for members and admins.
type AuthHandler struct {
	service *services.AuthService
	tokens  *iauth.TokenService
	cookies *iauth.CookieManager
}

func NewAuthHandler(service *services.AuthService, tokens *iauth.TokenService, cookies *iauth.CookieManager) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens, cookies: cookies}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=1,max=50"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.service.Register(requestContext(c), services.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// No session yet; the account activates once the emailed code is confirmed.
	response.WithCode(c, "VERIFICATION_REQUIRED", "Verification code sent", gin.H{
		"user": user,
	})
}

type verifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// POST /api/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	// Missing fields answer INVALID_INPUT here; whether the code itself is
	// right is the service's call.
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewInvalidInput("Invalid JSON payload"))
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Code) == "" {
		response.Error(c, apperrors.NewInvalidInput("Email and verification code are required"))
		return
	}

	user, err := h.service.VerifyEmail(requestContext(c), req.Email, req.Code)
	recordCodeVerification(err)
	if err != nil {
		response.Error(c, err)
		return
	}

	if !h.establishSession(c, user) {
		return
	}
	response.OKWithMessage(c, "Email verified", gin.H{"user": user})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.service.Authenticate(requestContext(c), req.Email, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, err)
		return
	}
	metrics.AuthAttempts.WithLabelValues("success").Inc()

	if !h.establishSession(c, user) {
		return
	}
	response.OK(c, gin.H{"user": user})
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.Clear(c)
	response.OKWithMessage(c, "Signed out", nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.service.RequestPasswordReset(requestContext(c), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	// Same answer whether or not the address exists.
	response.OKWithMessage(c, "If the email exists, a reset code has been sent", nil)
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=100"`
}

// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	err := h.service.ResetPassword(requestContext(c), req.Email, req.Code, req.NewPassword)
	recordCodeVerification(err)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithMessage(c, "Password has been reset", nil)
}

// POST /api/admin/auth/forgot-password
func (h *AuthHandler) AdminForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.service.RequestAdminPasswordReset(requestContext(c), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithMessage(c, "Reset code sent", nil)
}

// POST /api/admin/auth/reset-password
func (h *AuthHandler) AdminResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.service.ResetAdminPassword(requestContext(c), req.Email, req.Code, req.NewPassword)
	recordCodeVerification(err)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Admin resets sign the operator straight back in.
	if !h.establishSession(c, user) {
		return
	}
	response.OKWithMessage(c, "Password has been reset", gin.H{"user": user})
}

// establishSession signs a token for the user and attaches the session cookie.
// On failure it writes the error response and returns false.
func (h *AuthHandler) establishSession(c *gin.Context, user *models.User) bool {
	token, err := h.tokens.Sign(user.ID, user.Role)
	if err != nil {
		response.Error(c, err)
		return false
	}
	h.cookies.Set(c, token)
	return true
}

// recordCodeVerification maps code check outcomes onto metric result labels.
// Failures unrelated to the code itself are not counted.
func recordCodeVerification(err error) {
	switch {
	case err == nil:
		metrics.CodeVerifications.WithLabelValues("success").Inc()
	case errors.Is(err, apperrors.ErrVerificationNotFound):
		metrics.CodeVerifications.WithLabelValues("not_found").Inc()
	case errors.Is(err, apperrors.ErrVerificationExpired):
		metrics.CodeVerifications.WithLabelValues("expired").Inc()
	case errors.Is(err, apperrors.ErrVerificationCodeInvalid):
		metrics.CodeVerifications.WithLabelValues("invalid").Inc()
	}
}
