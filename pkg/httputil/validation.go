package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Field names in errors are taken
// from json tags, then query tags.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "query"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	})
	return validate
}

// ValidationError lists the fields that failed validation and why
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ValidateStruct checks s against its validate tags
func ValidateStruct(s interface{}) error {
	return toValidationError(Validator().Struct(s))
}

// ValidateVar checks a single value against tag, reporting it as field
func ValidateVar(field string, value interface{}, tag string) error {
	err := Validator().Var(value, tag)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := field
		// dive errors are reported per element, e.g. "[2]"
		if fe.Field() != "" {
			name = field + fe.Field()
		}
		fields[name] = describe(fe)
	}
	return &ValidationError{Fields: fields}
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	return &ValidationError{Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte", "min":
		return "must be at least " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// ValidateOrError validates s and writes a 400 with field details on failure
func ValidateOrError(w http.ResponseWriter, s interface{}) bool {
	return writeValidation(w, ValidateStruct(s))
}

// ValidateVarOrError validates a single value and writes a 400 on failure
func ValidateVarOrError(w http.ResponseWriter, field string, value interface{}, tag string) bool {
	return writeValidation(w, ValidateVar(field, value, tag))
}

func writeValidation(w http.ResponseWriter, err error) bool {
	if err == nil {
		return true
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		WriteDetailedError(w, http.StatusBadRequest, verr, verr.Fields)
		return false
	}
	WriteBadRequest(w, err.Error())
	return false
}
