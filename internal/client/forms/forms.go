// Package forms validates user input before anything is sent to the API.
package forms

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/orderdesk/internal/common"
	"github.com/go-playground/validator/v10"
)

// FieldError describes one failed rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// ValidationError lists every field that failed validation. It matches
// common.ErrValidation with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation error: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return common.ErrValidation
}

// Has reports whether field failed any rule.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("price", validPrice)
		validate = v
	})
	return validate
}

// fieldName prefers the form tag, then json, then the Go field name.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

func validPrice(fl validator.FieldLevel) bool {
	_, err := NormalizePrice(fl.Field().String())
	return err == nil
}

// NormalizePrice parses a decimal price and formats it in its shortest form
// ("12.50" -> "12.5", "007" -> "7"). Negative, NaN and infinite values are
// rejected.
func NormalizePrice(s string) (string, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return "", fmt.Errorf("invalid price %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return "", fmt.Errorf("invalid price %q", s)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// Validate checks v against its validate tags and returns a
// *ValidationError listing all failures, or nil.
func Validate(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		fields = append(fields, FieldError{
			Field:   field,
			Rule:    fe.Tag(),
			Param:   fe.Param(),
			Message: message(field, fe.Tag(), fe.Param()),
		})
	}
	return &ValidationError{Fields: fields}
}

func message(field, rule, param string) string {
	switch rule {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "price":
		return field + " must be a non-negative number"
	case "min":
		if field == "images" {
			return "at least one image is required"
		}
		return fmt.Sprintf("%s must have at least %s items", field, param)
	}
	return fmt.Sprintf("%s failed %s", field, rule)
}
