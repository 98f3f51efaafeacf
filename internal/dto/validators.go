package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// accountCodePattern matches the chart-of-accounts code format: exactly six
// digits. Fixed-width codes keep lexicographic order numeric-safe.
var accountCodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// RegisterCustomValidators installs the binding rules gin's default validator
// does not know about. Call once at startup before serving requests.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("accountcode", func(fl validator.FieldLevel) bool {
			return accountCodePattern.MatchString(fl.Field().String())
		})
	}
}
