package shell

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

var (
	commandValidator     *validator.Validate
	commandValidatorOnce sync.Once
)

func validate() *validator.Validate {
	commandValidatorOnce.Do(func() {
		commandValidator = validator.New(validator.WithRequiredStructEnabled())
	})

	return commandValidator
}

// ValidateCommand checks the struct tags of a command (including its nested Actor).
// Violations are returned as a VALIDATION_ERROR business error naming every offending field.
func ValidateCommand(command any) error {
	err := validate().Struct(command)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return core.ErrValidationf("invalid input: %v", err)
	}

	problems := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		problems = append(problems, describeFieldError(fieldErr))
	}

	return core.ErrValidationf("invalid input: %s", strings.Join(problems, "; "))
}

func describeFieldError(fieldErr validator.FieldError) string {
	field := strings.TrimPrefix(fieldErr.Namespace(), namespaceRoot(fieldErr.Namespace()))

	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_without":
		return fmt.Sprintf("%s is required when %s is empty", field, fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fieldErr.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fieldErr.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fieldErr.Param())
	default:
		return fmt.Sprintf("%s failed on %s", field, fieldErr.Tag())
	}
}

// namespaceRoot returns "Command." for "Command.Actor.UserID".
func namespaceRoot(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[:i+1]
	}

	return ""
}
