package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"desaku-api/internal/core/domain"

	"github.com/go-playground/validator/v10"
)

// DateLayouts are the accepted layouts for date fields
var DateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names so messages match what the client sent
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("tanggal", func(fl validator.FieldLevel) bool {
		return IsDate(fl.Field().String())
	})

	return v
}

// IsDate reports whether s parses with one of DateLayouts
func IsDate(s string) bool {
	for _, layout := range DateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// Struct validates s and converts the first failure into a *domain.ValidationError
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.NewValidationError("", err.Error())
	}

	fe := fieldErrs[0]
	field := fieldPath(fe.Namespace())
	return domain.NewValidationError(field, describe(field, fe))
}

// fieldPath drops the root struct name: "Lokasi.koordinat.lng" -> "koordinat.lng"
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "number", "numeric":
		return fmt.Sprintf("%s must contain digits only", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "tanggal":
		return fmt.Sprintf("%s must be a date (YYYY-MM-DD)", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
