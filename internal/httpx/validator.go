package httpx

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"ygodeck/internal/platform/crypto"
)

var (
	validate *validator.Validate
	// customMessages holds the detail text of registered tags; %s is the field name.
	customMessages = map[string]string{}
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)
	_ = validate.RegisterValidation("password_strength", validatePasswordStrength)
}

// jsonFieldName reports fields by their JSON name so details match the request body.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// RegisterStringValidation adds a tag that checks a string-kinded field with fn.
// message is a format with one %s for the field name. Domain packages call it
// from init, before any request is validated.
func RegisterStringValidation(tag, message string, fn func(string) bool) {
	err := validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("httpx: register validation %q: %v", tag, err))
	}
	customMessages[tag] = message
}

func validatePasswordStrength(fl validator.FieldLevel) bool {
	return crypto.ValidatePasswordStrength(fl.Field().String()) == nil
}

// ValidateStruct runs the struct tags of s and returns one detail per failed field.
func ValidateStruct(s any) []ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ErrorDetail{{Field: "", Message: err.Error()}}
	}

	details := make([]ErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		param := fe.Param()

		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s", field, param)
		case "max":
			message = fmt.Sprintf("%s must be at most %s", field, param)
		case "uuid":
			message = fmt.Sprintf("%s must be a valid id", field)
		case "password_strength":
			message = fmt.Sprintf("%s must be at least 8 characters with uppercase, lowercase, number, and special character", field)
		default:
			if format, ok := customMessages[fe.Tag()]; ok {
				message = fmt.Sprintf(format, field)
			} else {
				message = fmt.Sprintf("%s is invalid", field)
			}
		}
		details = append(details, ErrorDetail{Field: field, Message: message})
	}
	return details
}
