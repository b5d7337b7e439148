package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldError is one entry in a 400 response's "errors" list.
type FieldError struct {
	Field   string   `json:"field"`
	Path    []string `json:"path"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
}

func newFieldError(field, code, msg string) FieldError {
	return FieldError{Field: field, Path: []string{field}, Code: code, Message: msg}
}

// requestValidator checks `validate` tags and reports fields by their JSON names.
type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{v: v}
}

var validate = newRequestValidator()

// Validate returns nil when s passes, otherwise one FieldError per failed field.
func (rv *requestValidator) Validate(s any) []FieldError {
	err := rv.v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{newFieldError("body", "invalid", err.Error())}
	}
	out := make([]FieldError, 0, len(ve))
	for _, fe := range ve {
		out = append(out, newFieldError(fe.Field(), fe.Tag(), fieldMessage(fe)))
	}
	return out
}

// fieldMessage converts a single validator.FieldError into a human-readable message.
func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// maxBodyBytes caps JSON request bodies. A maximal contact form in UTF-8
// (5000-rune message, 200-rune fields) needs under 24 KiB.
const maxBodyBytes = 64 << 10

// limitBody caps the request body before it is decoded.
func limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
}

// bindErrors maps a JSON decoding failure to field errors.
func bindErrors(err error) []FieldError {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var sizeErr *http.MaxBytesError
	switch {
	case errors.As(err, &sizeErr):
		return []FieldError{newFieldError("body", "too_large", fmt.Sprintf("request body must be at most %d bytes", sizeErr.Limit))}
	case errors.Is(err, io.EOF):
		return []FieldError{newFieldError("body", "required", "request body is required")}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return []FieldError{newFieldError(typeErr.Field, "type", fmt.Sprintf("%s must be a %s", typeErr.Field, jsonTypeName(typeErr.Type)))}
	case errors.As(err, &syntaxErr):
		return []FieldError{newFieldError("body", "invalid_json", "request body is not valid JSON")}
	default:
		return []FieldError{newFieldError("body", "invalid", "request body could not be read")}
	}
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int64, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	default:
		return t.Kind().String()
	}
}
