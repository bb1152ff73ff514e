package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

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

// enums accepted by the custom tags, compared case-insensitively.
var enums = map[string][]string{
	"target_type":       {"USER", "DOG", "GROUP", "WALK", "COMMENT"},
	"match_action":      {"LIKE", "DISLIKE"},
	"moderation_action": {"BLOCK", "REPORT"},
}

var enumMessages = map[string]string{
	"target_type":       "Invalid target type. Must be: USER, DOG, GROUP, WALK or COMMENT",
	"match_action":      "Invalid action. Must be: LIKE or DISLIKE",
	"moderation_action": "Invalid action type. Must be: BLOCK or REPORT",
}

func registerCustomValidations() {
	for tag, values := range enums {
		values := values
		validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			v := strings.ToUpper(fl.Field().String())
			for _, allowed := range values {
				if v == allowed {
					return true
				}
			}
			return false
		})
	}
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "min":
			errors[field] = "Value is too short (min: " + fe.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + fe.Param() + ")"
		case "gt":
			errors[field] = "Value must be greater than " + fe.Param()
		case "gte":
			errors[field] = "Value must be at least " + fe.Param()
		case "lte":
			errors[field] = "Value must be at most " + fe.Param()
		default:
			if msg, ok := enumMessages[fe.Tag()]; ok {
				errors[field] = msg
			} else {
				errors[field] = "Invalid value"
			}
		}
	}

	return errors
}
