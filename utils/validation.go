package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var clockPattern = regexp.MustCompile(`^(([01][0-9]|2[0-3]):[0-5][0-9]|24:00)$`)

// IsClock reports whether s is a 24h "HH:MM" wall-clock time. "24:00" is
// allowed so a window can end at midnight.
func IsClock(s string) bool {
	return clockPattern.MatchString(s)
}

// NewValidator returns a validator with the project's custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return IsClock(fl.Field().String())
	})
	return v
}

// ValidationMessage flattens validator errors into one readable line.
func ValidationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	msg := fe.Namespace() + " failed on '" + fe.Tag() + "'"
	if fe.Param() != "" {
		msg += " (" + fe.Param() + ")"
	}
	return msg
}
