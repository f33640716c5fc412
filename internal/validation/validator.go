// Package validation holds the book form rules shared by the terminal front
// end and the API server.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	MinYear    = 1000
	ISBNLength = 13
)

// FieldError is a single field-scoped validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// Errors is returned by Validate when at least one field is invalid.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.String()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the failures keyed by field name.
func (e Errors) Fields() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		out[fe.Field] = fe.Message
	}
	return out
}

// Validator checks book payloads. The upper year bound follows the clock.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New builds a Validator using the wall clock.
func New() *Validator {
	return NewWithClock(time.Now)
}

// NewWithClock builds a Validator whose "current year" comes from now.
func NewWithClock(now func() time.Time) *Validator {
	v := &Validator{validate: validator.New(), now: now}

	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.validate.RegisterValidation("year", v.validateYear)
	_ = v.validate.RegisterValidation("isbn13", validateISBN)
	return v
}

// CurrentYear is the latest year a book may have.
func (v *Validator) CurrentYear() int {
	return v.now().Year()
}

func (v *Validator) validateYear(fl validator.FieldLevel) bool {
	year := int(fl.Field().Int())
	return year >= MinYear && year <= v.CurrentYear()
}

// validateISBN accepts an absent ISBN or any string of exactly 13 characters.
func validateISBN(fl validator.FieldLevel) bool {
	isbn := fl.Field().String()
	return isbn == "" || utf8.RuneCountInString(isbn) == ISBNLength
}

// Validate checks s and returns Errors when any field fails.
func (v *Validator) Validate(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: v.message(fe),
		})
	}
	return out
}

func (v *Validator) message(fe validator.FieldError) string {
	field := strings.ToUpper(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required", "min":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s is too long", field)
	case "year":
		if fe.Value() != nil && toInt(fe.Value()) > v.CurrentYear() {
			return "Year cannot be in the future"
		}
		return fmt.Sprintf("Year must be at least %d", MinYear)
	case "isbn13":
		return fmt.Sprintf("ISBN must be %d characters", ISBNLength)
	case "url":
		return "URL must be absolute, e.g. https://example.com/page"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case *int:
		if n != nil {
			return *n
		}
	}
	return 0
}
