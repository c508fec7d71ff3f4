package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/skydimo/membership/pkg/errors"
	"github.com/skydimo/membership/pkg/logger"
)

// CodeOK is the success discriminant consumed by all client pages.
const CodeOK = "OK"

// Envelope defines the base API payload: code == "OK" signals success.
type Envelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// OK writes a success response with the given payload.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Code: CodeOK, Data: data})
}

// OKWithMessage writes a success response with a human-readable message.
func OKWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Code: CodeOK, Message: message, Data: data})
}

// Created writes a success response with a 201 status.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Code: CodeOK, Data: data})
}

// WithCode writes a success response carrying a non-OK informational code,
// e.g. VERIFICATION_REQUIRED after registration.
func WithCode(c *gin.Context, code, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Code: code, Message: message, Data: data})
}

// Error writes a JSON error response derived from an AppError. Unexpected
// failures are downgraded to INTERNAL_ERROR with the root cause logged
// server-side only.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}

	appErr := appErrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		logger.WithModule("http").Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	c.JSON(status, Envelope{
		Code:    appErr.Code,
		Message: appErr.Message,
		Errors:  appErr.Fields,
	})
}
