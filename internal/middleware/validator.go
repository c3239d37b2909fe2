package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var workspacePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// Validator checks decoded request bodies against their `validate` tags and
// reports fields by their JSON names.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate returns nil or an error whose message lists every failed field.
func (v *Validator) Validate(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// SanitizeString removes null bytes and control characters except tab and
// newline, then trims surrounding whitespace.
func SanitizeString(input string) string {
	var result strings.Builder
	result.Grow(len(input))
	for _, r := range input {
		if (r >= 32 && r != 127) || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}

// ValidateWorkspaceID validates the {workspace} path segment
func ValidateWorkspaceID(workspace string) error {
	if workspace == "" {
		return fmt.Errorf("workspace cannot be empty")
	}
	if !workspacePattern.MatchString(workspace) {
		return fmt.Errorf("invalid workspace format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// ValidateLimit clamps a page size to 1..100, defaulting to 20
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// ValidatePage defaults a missing or negative page to 1
func ValidatePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
