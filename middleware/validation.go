package middleware

import (
	"fmt"

	"github.com/hk-arcade-map/api-go/types"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding tags used by request types.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("hkregion", func(fl validator.FieldLevel) bool {
		_, ok := types.ParseRegion(fl.Field().String())
		return ok
	})
}
