package middleware

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

var tagMessages = map[string]string{
	"required": "is required!",
	"email":    "must be a valid email!",
	"min":      "is too short!",
	"max":      "is too long!",
	"gt":       "must be greater than 0!",
	"gte":      "is too small!",
	"lte":      "is too large!",
	"oneof":    "has an unsupported value!",
	"unique":   "must not contain duplicates!",
}

// Validate runs the struct's validate tags and returns field -> message, or nil when valid
func Validate(req interface{}) map[string]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"body": "Invalid request body!"}
	}

	errors := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, exists := errors[field]; exists {
			continue
		}
		msg, ok := tagMessages[fe.Tag()]
		if !ok {
			msg = "is invalid!"
		}
		errors[field] = field + " " + msg
	}
	return errors
}
