package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
	options   map[string][]string
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// Report JSON field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &CustomValidator{validator: v, options: make(map[string][]string)}
}

// RegisterOptions adds a tag that accepts an empty value or one of options.
// Surrounding whitespace is ignored.
func (cv *CustomValidator) RegisterOptions(tag string, options []string) error {
	allowed := append([]string(nil), options...)
	err := cv.validator.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		value := strings.TrimSpace(fl.Field().String())
		if value == "" {
			return true
		}
		for _, o := range allowed {
			if o == value {
				return true
			}
		}
		return false
	})
	if err != nil {
		return err
	}
	cv.options[tag] = allowed
	return nil
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			if options, ok := cv.options[e.Tag()]; ok {
				errors[field] = field + " must be one of: " + strings.Join(options, ", ")
				continue
			}
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}
