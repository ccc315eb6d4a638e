package utils

import (
	"errors"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	passwordMinLength = 8
	passwordMaxLength = 16
	passwordSpecials  = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"
)

// ValidPassword reports whether p is 8-16 characters with at least one
// uppercase letter and one special character
func ValidPassword(p string) bool {
	n := utf8.RuneCountInString(p)
	if n < passwordMinLength || n > passwordMaxLength {
		return false
	}
	var upper, special bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return upper && special
}

// RegisterValidators adds the custom binding tags to gin's validator engine
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return ValidPassword(fl.Field().String())
	})
}

// ValidationMessages renders binding errors as one readable message per field
func ValidationMessages(err error) []string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []string{"request body is malformed"}
	}
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return msgs
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must not exceed " + fe.Param()
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "password":
		return "Password must be 8-16 characters with at least one uppercase letter and one special character"
	}
	return field + " is invalid"
}
