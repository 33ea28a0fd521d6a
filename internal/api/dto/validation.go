package dto

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"marketplace_api/internal/model"
)

// MaxPasswordBytes is the longest input bcrypt hashes.
const MaxPasswordBytes = 72

var registerOnce sync.Once

// RegisterValidators installs the custom rules on gin's validator and makes
// field errors report json/form names instead of Go field names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("product_status", func(fl validator.FieldLevel) bool {
			return model.IsValidProductStatus(fl.Field().String())
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("password_bytes", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) <= MaxPasswordBytes
		})
	})
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}
