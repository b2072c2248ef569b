package httpx

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	numberRe  = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = validate.RegisterValidation("password_strength", validatePasswordStrength)
}

func validatePasswordStrength(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}
	return upperRe.MatchString(password) &&
		lowerRe.MatchString(password) &&
		numberRe.MatchString(password) &&
		specialRe.MatchString(password)
}

// ValidateStruct runs the validate tags of s and returns one detail per failing field.
func ValidateStruct(s any) []ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []ErrorDetail{{Field: "", Message: err.Error()}}
	}

	details := make([]ErrorDetail, 0, len(validationErrs))
	for _, fe := range validationErrs {
		details = append(details, ErrorDetail{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return details
}

func messageFor(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	isLength := false
	switch fe.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		isLength = true
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if isLength {
			return fmt.Sprintf("%s must have at least %s items or characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isLength {
			return fmt.Sprintf("%s must have at most %s items or characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "password_strength":
		return fmt.Sprintf("%s must be at least 8 characters with uppercase, lowercase, number, and special character", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
