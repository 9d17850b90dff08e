package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Paid plan validation
	validate.RegisterValidation("plan_id", func(fl validator.FieldLevel) bool {
		plan := fl.Field().String()
		validPlans := []string{"premium-monthly", "premium-yearly"}
		for _, p := range validPlans {
			if plan == p {
				return true
			}
		}
		return false
	})

	// Review decision validation
	validate.RegisterValidation("review_decision", func(fl validator.FieldLevel) bool {
		decision := fl.Field().String()
		return decision == "active" || decision == "rejected"
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "url":
			errors[field] = "Invalid URL format"
		case "uuid":
			errors[field] = "Invalid identifier format"
		case "plan_id":
			errors[field] = "Invalid plan. Must be: premium-monthly or premium-yearly"
		case "review_decision":
			errors[field] = "Invalid decision. Must be: active or rejected"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
