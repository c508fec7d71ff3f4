package validator

import (
	"errors"
	"testing"
)

type registrationInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,max=50"`
}

func TestValidateStructPasses(t *testing.T) {
	input := registrationInput{
		Email:    "user@example.com",
		Password: "password123",
		Name:     "Demo User",
	}

	if err := ValidateStruct(input); err != nil {
		t.Fatalf("expected input to validate, got %v", err)
	}
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	input := registrationInput{
		Email:    "not-an-email",
		Password: "123",
		Name:     "Demo User",
	}

	err := ValidateStruct(input)
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	var failures ValidationErrors
	if !errors.As(err, &failures) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}

	byField := make(map[string]ValidationError, len(failures))
	for _, fe := range failures {
		byField[fe.Field] = fe
	}

	if _, ok := byField["email"]; !ok {
		t.Fatalf("expected failure keyed by json name, got %v", failures)
	}
	if fe := byField["password"]; fe.Tag != "min" || fe.Param != "6" {
		t.Fatalf("unexpected password failure: %+v", fe)
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	failures := ValidationErrors{
		{Field: "email", Tag: "email"},
		{Field: "password", Tag: "min", Param: "6"},
	}

	msg := failures.Error()
	if msg == "" || msg == "validation failed" {
		t.Fatalf("expected descriptive message, got %q", msg)
	}
}
