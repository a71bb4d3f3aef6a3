package dto

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

var validate *validator.Validate

// fieldMessages maps json field name and failed tag to a client message.
var fieldMessages = map[string]map[string]string{
	"productId": {
		"required": "Product ID cannot be null",
		"gt":       "Product ID must be a positive number",
	},
	"date": {
		"required":  "Date cannot be null",
		"isodate":   "Date must use YYYY-MM-DD",
		"notfuture": "Date cannot be in the future",
	},
	"description": {
		"required": "Description should not be empty",
		"notblank": "Description should not be empty",
	},
	"status": {
		"required": "Status cannot be null",
		"oneof":    "Status must be one of OPEN IN_PROGRESS ACCEPTED REJECTED CANCELED",
	},
	"name": {
		"required": "Name should not be empty",
		"notblank": "Name should not be empty",
	},
	"email": {
		"required": "Email cannot be null",
		"email":    "Email must be a valid address",
	},
	"password": {
		"required": "Password cannot be null",
		"min":      "Password must have at least 8 characters",
	},
}

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
	_ = validate.RegisterValidation("isodate", validateISODate)
	_ = validate.RegisterValidation("notfuture", validateNotFuture)
}

// Validate checks a request struct and reports every failing field.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError("Validation failed", nil)
	}

	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = message(fe)
	}
	return apperrors.NewValidationError("Validation failed", details)
}

func message(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()][fe.Tag()]; ok {
		return msg
	}
	return fe.Field() + " is invalid"
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

// validateNotFuture accepts today and earlier in server local time.
func validateNotFuture(fl validator.FieldLevel) bool {
	parsed, err := time.Parse(DateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	return parsed.Format(DateLayout) <= time.Now().Format(DateLayout)
}
