package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/inkwell-dev/inkwell/internal/errors"
	"github.com/inkwell-dev/inkwell/internal/logger"
)

func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	if e, ok := err.(*errors.ErrorWithStatusCode); ok {
		http.Error(w, e.Message, e.StatusCode)
		return
	}
	// default error is 500; internal detail stays in the logs
	logger.Log.Error("internal error", "error", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// GetIP extracts the client IP from RemoteAddr. Proxy headers are not
// trusted: the limiter key must not be spoofable.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}
	return ip, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeValidate decodes a JSON body into dst and validates struct tags,
// returning a field-keyed ValidationError suitable for a 422 response.
func DecodeValidate(r io.Reader, dst any) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return &errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: http.StatusBadRequest}
	}
	if err := validate.Struct(dst); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return &errors.ErrorWithStatusCode{Message: "Invalid request body", StatusCode: http.StatusBadRequest}
		}
		fields := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			name := strings.ToLower(fe.Field())
			fields[name] = append(fields[name], validationMessage(fe))
		}
		return &errors.ValidationError{Fields: fields}
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", strings.ToLower(fe.Param()))
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
