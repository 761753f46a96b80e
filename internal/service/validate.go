package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/event-forum/internal/apperror"
)

// Field limits of the public API.
const (
	MaxHandleLength = 50
	MaxTitleLength  = 280
	TimeLength      = 13 // "YYYY-MM-DD HH"
)

// Stricter formats used when a person signs in or hosts an event from the
// web pages.
var (
	handlePattern      = regexp.MustCompile(`^[a-z0-9._-]{1,25}$`)
	displayNamePattern = regexp.MustCompile(`^[a-zA-Z0-9 ]{1,50}$`)
	hourstampPattern   = regexp.MustCompile(`^[0-9 -]{13}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	patterns := map[string]*regexp.Regexp{
		"handle":      handlePattern,
		"displayname": displayNamePattern,
		"hourstamp":   hourstampPattern,
	}
	for tag, re := range patterns {
		re := re
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
		if err != nil {
			panic(fmt.Sprintf("service: registering %s validation: %v", tag, err))
		}
	}

	return v
}

// validateStruct runs the struct tags and converts the first failure into
// an apperror.ValidationFailed.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperror.ValidationFailed("", "invalid input")
	}

	fe := fieldErrs[0]
	return apperror.ValidationFailed(fe.Field(), fieldMessage(fe))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "max":
		return fmt.Sprintf("%s must be %s characters", fe.Field(), lengthRange(fe))
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be a positive number", fe.Field())
	default:
		return fmt.Sprintf("%s has an invalid format", fe.Field())
	}
}

func lengthRange(fe validator.FieldError) string {
	if fe.Tag() == "min" {
		return "at least " + fe.Param()
	}
	return "at most " + fe.Param()
}
