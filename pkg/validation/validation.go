package validation

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/datasmith-io/datasmith/pkg/pagination"
	"github.com/go-playground/validator/v10"
)

var v *validator.Validate

// Validator returns a singleton validator with custom rules registered.
func Validator() *validator.Validate {
	if v == nil {
		v = validator.New()
		// Custom: dataset path must have a supported extension
		_ = v.RegisterValidation("filepath_ext", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(strings.ToLower(fl.Field().String()))
			if s == "" {
				return false
			}
			return strings.HasSuffix(s, ".csv") || strings.HasSuffix(s, ".xlsx") || strings.HasSuffix(s, ".xlsm")
		})
		// Custom: cursor must be decodable via pagination.DecodeCursor
		_ = v.RegisterValidation("cursor", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			if s == "" {
				return true // empty is allowed; use omitempty with this tag
			}
			// Quick URL-safe base64 precheck
			if _, err := base64.RawURLEncoding.DecodeString(s); err != nil {
				return false
			}
			if _, err := pagination.DecodeCursor(s); err != nil {
				return false
			}
			return true
		})
	}
	return v
}

// ValidateStruct validates a struct and returns a user-friendly error string
// suitable for MCP tool errors. Returns empty string when valid.
func ValidateStruct(s any) string {
	if err := Validator().Struct(s); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			fe := ve[0]
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required", "required_without":
				return fmt.Sprintf("VALIDATION: %s is required", field)
			case "filepath_ext":
				return "VALIDATION: path must be a CSV or Excel file (.csv, .xlsx, .xlsm)"
			case "cursor":
				return "CURSOR_INVALID: failed to decode cursor; reopen dataset and restart pagination"
			case "min", "max", "gte", "lte":
				return fmt.Sprintf("VALIDATION: %s must satisfy %s=%s", field, fe.Tag(), fe.Param())
			}
			// Fallback generic
			return fmt.Sprintf("VALIDATION: invalid %s", field)
		}
		return "VALIDATION: invalid inputs"
	}
	return ""
}
