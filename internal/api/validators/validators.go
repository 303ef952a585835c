// Package validators holds the request validator shared by all handlers.
package validators

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	nonstandard "github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// New returns the process-wide validator, configured on first use.
// Field names in errors are taken from json tags.
func New() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", nonstandard.NotBlank)
		_ = v.RegisterValidation("maxbytes", maxBytes)
		instance = v
	})
	return instance
}

// maxBytes limits the encoded length of a string; max counts runes.
func maxBytes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= n
}

// FieldError is one failed rule on one request field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// Fields flattens a validation error into per-field entries; other errors yield nil.
func Fields(err error) []FieldError {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}
	out := make([]FieldError, 0, len(ves))
	for _, fe := range ves {
		out = append(out, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return out
}

// Describe renders a validation error as "field: rule" pairs.
func Describe(err error) string {
	fields := Fields(err)
	if len(fields) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Field+": "+f.Rule)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
