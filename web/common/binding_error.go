package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
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
	}
}

// FieldError ties a decoding failure to the payload key that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// FormatBindingError turns a request decoding failure into a client message.
// Decoder internals never reach the client.
func FormatBindingError(err error) string {
	if err == nil {
		return ""
	}

	var (
		fieldErr  *FieldError
		idErr     *InvalidIDError
		dateErr   *InvalidDateError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		numErr    *strconv.NumError
		ve        validator.ValidationErrors
	)
	switch {
	case errors.Is(err, io.EOF):
		return "Request body is empty"
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "Request body is not valid JSON"
	case errors.As(err, &idErr):
		if errors.As(err, &fieldErr) {
			return fmt.Sprintf("Field '%s' must be a numeric id", fieldErr.Field)
		}
		return fmt.Sprintf("Invalid id %s", idErr.Value)
	case errors.As(err, &dateErr):
		if errors.As(err, &fieldErr) {
			return fmt.Sprintf("Field '%s' must be a date such as 2025-01-04", fieldErr.Field)
		}
		return fmt.Sprintf("Invalid date %q", dateErr.Value)
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("Invalid JSON at byte offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if errors.As(err, &fieldErr) {
			field = strings.TrimSuffix(fieldErr.Field+"."+field, ".")
		}
		if field == "" {
			return fmt.Sprintf("Request body must be %s", jsonKind(typeErr.Type))
		}
		return fmt.Sprintf("Field '%s' should be %s", field, jsonKind(typeErr.Type))
	case errors.As(err, &numErr):
		return fmt.Sprintf("Invalid number %q", numErr.Num)
	case errors.As(err, &ve):
		var out []string
		for _, fe := range ve {
			out = append(out, formatFieldError(fe))
		}
		return strings.Join(out, ", ")
	case errors.As(err, &fieldErr):
		return fmt.Sprintf("Field '%s' is invalid", fieldErr.Field)
	}
	return "Invalid request body"
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "a JSON value"
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Slice, reflect.Array:
		return "an array"
	}
	return "an object"
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field '%s' is required", fe.Field())
	case "email":
		return fmt.Sprintf("Field '%s' must be a valid email", fe.Field())
	case "min":
		return fmt.Sprintf("Field '%s' must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("Field '%s' must be at most %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("Field '%s' failed validation for '%s'", fe.Field(), fe.Tag())
}
