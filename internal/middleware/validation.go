package middleware

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9.\-_]+$`)
	registerOnce    sync.Once
	registerErr     error
)

// RegisterValidators installs the custom tags used by request schemas on
// gin's binding validator. Safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
			return
		}
		registerErr = v.RegisterValidation("username_chars", usernameChars)
	})
	return registerErr
}

// usernameChars allows a-z, A-Z, 0-9, '.', '-' and '_'.
func usernameChars(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}
