package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	customError "github.com/segyhp/lendbook/pkg/errors"
	"github.com/segyhp/lendbook/pkg/response"
)

// newValidator validates request DTOs. Decimals are compared as float64 so
// numeric tags like gt=0 apply to money fields.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
func decodeAndValidate(r *http.Request, v *validator.Validate, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return customError.NewBusinessError(customError.ErrCodeInvalidInput, "Invalid request body", customError.ErrInvalidInput)
	}

	if err := v.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return customError.NewBusinessError(customError.ErrCodeInvalidInput, validationMessage(fieldErrs), customError.ErrInvalidInput)
		}
		return customError.NewBusinessError(customError.ErrCodeInvalidInput, err.Error(), customError.ErrInvalidInput)
	}

	return nil
}

func validationMessage(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// writeError maps service errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, customError.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, customError.ErrClientNotFound), errors.Is(err, customError.ErrLoanNotFound):
		status = http.StatusNotFound
	case errors.Is(err, customError.ErrDivisionByZero):
		status = http.StatusUnprocessableEntity
	}

	var be *customError.BusinessError
	if errors.As(err, &be) {
		message := be.Message
		if status == http.StatusInternalServerError {
			message = "Internal server error"
		}
		response.ErrorCode(w, status, be.Code, message)
		return
	}

	switch status {
	case http.StatusBadRequest:
		response.BadRequest(w, "Invalid request", err)
	case http.StatusNotFound:
		response.NotFound(w, "Not found")
	default:
		response.InternalServerError(w, "Internal server error", nil)
	}
}
