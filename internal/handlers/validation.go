package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	appErrors "github.com/skydimo/membership/pkg/errors"
	"github.com/skydimo/membership/pkg/response"
	appValidator "github.com/skydimo/membership/pkg/validator"
)

// bindAndValidate binds the JSON payload into dest and runs struct validation rules.
// When validation fails, an error response is automatically written and false is returned.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.NewInvalidInput("Invalid JSON payload"))
		return false
	}

	if err := appValidator.ValidateStruct(dest); err != nil {
		if ve, ok := err.(appValidator.ValidationErrors); ok {
			response.Error(c, appErrors.NewValidation("Validation failed", fieldMessages(ve)))
			return false
		}
		response.Error(c, appErrors.NewInvalidInput("Invalid request payload"))
		return false
	}

	return true
}

func fieldMessages(ve appValidator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(ve))
	for _, failure := range ve {
		if _, seen := fields[failure.Field]; seen {
			continue
		}
		switch failure.Tag {
		case "required":
			fields[failure.Field] = "is required"
		case "email":
			fields[failure.Field] = "must be a valid email address"
		case "min":
			fields[failure.Field] = fmt.Sprintf("must be at least %s characters", failure.Param)
		case "max":
			fields[failure.Field] = fmt.Sprintf("must be at most %s characters", failure.Param)
		case "len":
			fields[failure.Field] = fmt.Sprintf("must be exactly %s characters", failure.Param)
		case "oneof":
			fields[failure.Field] = fmt.Sprintf("must be one of: %s", failure.Param)
		default:
			if failure.Param != "" {
				fields[failure.Field] = fmt.Sprintf("failed validation: %s=%s", failure.Tag, failure.Param)
			} else {
				fields[failure.Field] = fmt.Sprintf("failed validation: %s", failure.Tag)
			}
		}
	}
	return fields
}
