package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"quiz-board/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validator checks request structs against their `validate` tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("docid", isDocumentID); err != nil {
		panic(err)
	}
	return &Validator{validate: v}
}

// Struct validates s and returns domain.ValidationErrors describing every
// failing field, or nil.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewInternalError("request validation failed", err)
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, toValidationError(fe))
	}
	return out
}

func toValidationError(fe validator.FieldError) domain.ValidationError {
	field := fieldPath(fe.Namespace())
	switch fe.Tag() {
	case "required", "notblank":
		return domain.NewMissingFieldError(field)
	case "oneof", "docid":
		return domain.NewInvalidFormatError(field, fe.Value())
	case "min":
		if fe.Kind() == reflect.Slice {
			return domain.ValidationError{
				Field:   field,
				Code:    domain.CodeOutOfRange,
				Message: fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param()),
			}
		}
		return domain.ValidationError{
			Field:   field,
			Code:    domain.CodeOutOfRange,
			Message: fmt.Sprintf("%s must be at least %s characters", field, fe.Param()),
		}
	case "max":
		return domain.ValidationError{
			Field:   field,
			Code:    domain.CodeOutOfRange,
			Message: fmt.Sprintf("%s must be at most %s characters", field, fe.Param()),
		}
	default:
		return domain.NewValidationError(field, fmt.Sprintf("%s failed the %s check", field, fe.Tag()))
	}
}

// isDocumentID accepts strings usable as a single path segment in every
// store: no "/", not "." or "..", and not wrapped in double underscores.
func isDocumentID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	switch {
	case strings.Contains(id, "/"):
		return false
	case id == "." || id == "..":
		return false
	case len(id) >= 4 && strings.HasPrefix(id, "__") && strings.HasSuffix(id, "__"):
		return false
	}
	return true
}

// fieldPath drops the root struct name: "CreateQuizRequest.questions[0].text" -> "questions[0].text".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
