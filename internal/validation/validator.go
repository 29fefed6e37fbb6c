// Package validation registers the application's custom validation tags on
// gin's go-playground/validator engine and translates binding failures into
// readable messages for the APIError body.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	// usernamePattern accepts letters, digits and @/./+/-/_
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

	registerOnce sync.Once
	registerErr  error
)

// Register installs the custom tags on gin's default validator.
// Safe to call more than once.
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin binding engine is not go-playground/validator")
			return
		}
		registerErr = RegisterOn(v)
	})
	return registerErr
}

// RegisterOn installs the custom tags on the given validator
func RegisterOn(v *validator.Validate) error {
	if err := v.RegisterValidation("username", validateUsername); err != nil {
		return fmt.Errorf("register username validator: %w", err)
	}
	if err := v.RegisterValidation("slug", validateSlug); err != nil {
		return fmt.Errorf("register slug validator: %w", err)
	}
	return nil
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

func validateSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}

// Username length bounds, mirrored by the binding tags on RegisterUserRequest
const (
	UsernameMinLength = 2
	UsernameMaxLength = 150
)

// IsValidUsername applies the full username rule (length and charset) for
// callers that create users without going through request binding
func IsValidUsername(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < UsernameMinLength || n > UsernameMaxLength {
		return false
	}
	return usernamePattern.MatchString(s)
}

// Describe turns a binding error into a human readable message and a
// per-field detail map. Non-validator errors (malformed JSON) are returned as-is.
func Describe(err error) (string, map[string]interface{}) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error(), nil
	}

	messages := make([]string, 0, len(verrs))
	fields := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		msg := fieldMessage(fe)
		messages = append(messages, msg)
		fields[toSnakeCase(fe.Field())] = msg
	}
	return strings.Join(messages, "; "), map[string]interface{}{"fields": fields}
}

func fieldMessage(fe validator.FieldError) string {
	field := toSnakeCase(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "username":
		return fmt.Sprintf("%s may contain only letters, digits and @/./+/-/_", field)
	case "slug":
		return fmt.Sprintf("%s may contain only letters, digits, hyphens and underscores", field)
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
