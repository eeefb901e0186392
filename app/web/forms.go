package web

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	MsgRequired      = "This field is required."
	MsgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the `validate` tags of a form struct.
func Validate(form any) FieldErrors {
	return ValidationErrors(validate.Struct(form))
}

// FieldErrors maps a form field name to its error message.
type FieldErrors map[string]string

func (e FieldErrors) Add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

func (e FieldErrors) Any() bool {
	return len(e) > 0
}

// ValidationErrors translates binding errors into per-field messages.
// Errors that are not validator errors are reported under "__all__".
func ValidationErrors(err error) FieldErrors {
	out := FieldErrors{}
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Add("__all__", err.Error())
		return out
	}

	for _, fe := range verrs {
		out.Add(SnakeCase(fe.StructField()), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		if fe.Param() == "1" {
			return "This field may not be blank."
		}
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "oneof":
		return MsgInvalidChoice
	}
	return "Enter a valid value."
}

// SnakeCase converts a Go field name such as "IsFeatured" or "SKU" to "is_featured" / "sku".
func SnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
