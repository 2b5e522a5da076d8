package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/forgo/quill/api/internal/model"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

var recordKey = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("password", validatePassword)
	_ = v.RegisterValidation("record", validateRecordID)
	return v
}

// validatePassword accepts letters and digits only, with at least one
// lower-case letter, one upper-case letter and one digit
func validatePassword(fl validator.FieldLevel) bool {
	var lower, upper, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case r > unicode.MaxASCII:
			return false
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			return false
		}
	}
	return lower && upper && digit
}

// validateRecordID checks "<table>:<key>" where table is the tag parameter
func validateRecordID(fl validator.FieldLevel) bool {
	table, key, ok := strings.Cut(fl.Field().String(), ":")
	return ok && table == fl.Param() && recordKey.MatchString(key)
}

// decodeAndValidate reads a JSON body into v and runs its validate tags
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) *model.ProblemDetails {
	if err := DecodeJSON(w, r, v); err != nil {
		return model.NewBadRequestError("invalid request body")
	}
	return validateStruct(v)
}

func validateStruct(v interface{}) *model.ProblemDetails {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return model.NewBadRequestError("invalid request body")
	}

	fields := make([]model.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, model.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return model.NewValidationError(fields)
}

// validateRecordParam checks a path parameter holding a record id
func validateRecordParam(name, value, table string) *model.ProblemDetails {
	if err := validate.Var(value, "required,record="+table); err != nil {
		return model.NewValidationError([]model.FieldError{{
			Field:   name,
			Message: fmt.Sprintf("must be a %s id", table),
		}})
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "eqfield":
		return "must match password"
	case "password":
		return "must contain only letters and digits, including a lower-case letter, an upper-case letter and a digit"
	case "record":
		return fmt.Sprintf("must be a %s id", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
