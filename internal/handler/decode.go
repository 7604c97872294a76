package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/service"
)

// maxBodyBytes bounds request bodies; payloads here are a handful of fields.
const maxBodyBytes = 64 << 10

// envelope is the {"data": {...}} wrapper every write endpoint accepts.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func badRequest(format string, args ...interface{}) error {
	return &service.Error{Kind: service.KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// decodeData reads {"data": ...} into dst.  Unknown fields at either level
// are rejected, and type mismatches name the offending field.
func decodeData(c echo.Context, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes+1))
	if err != nil {
		return badRequest("request body could not be read")
	}
	if len(body) > maxBodyBytes {
		return badRequest("request body is too large")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return badRequest("request body is required")
	}

	var env envelope
	if err := strictUnmarshal(body, &env); err != nil {
		return decodeError(err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return badRequest("data is required")
	}
	if err := strictUnmarshal(env.Data, dst); err != nil {
		return decodeError(err)
	}
	return nil
}

func strictUnmarshal(raw []byte, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("json: unexpected data after top-level value")
	}
	return nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			return badRequest("data must be a JSON object")
		}
		if isNumber(typeErr.Type) {
			return badRequest("%s must be a number", field)
		}
		return badRequest("%s must be a %s", field, typeName(typeErr.Type))
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return badRequest("request body is not valid JSON")
	}
	return badRequest("%s", strings.TrimPrefix(err.Error(), "json: "))
}

func isNumber(t reflect.Type) bool {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func typeName(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t != nil && t.Kind() == reflect.String {
		return "string"
	}
	return "valid value"
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("%s must be a positive integer. Given: '%s'", name, raw)
	}
	return id, nil
}
