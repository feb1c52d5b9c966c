package http

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	vo "nmqueue/internal/domain/person/valueobjects"
)

// RegisterValidators installs the custom binding rules on gin's validator
// engine. Called once before routes are set up.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	return v.RegisterValidation("fingerprint", func(fl validator.FieldLevel) bool {
		_, err := vo.NewFingerprint(fl.Field().String())
		return err == nil
	})
}
