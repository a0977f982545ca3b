// Package validation turns request bodies into typed payloads and reports
// field-level problems the way clients of this API expect them:
//
//	{"name": ["Missing data for required field."], "foo": ["Unknown field."]}
//
// Each payload declares its wire fields explicitly (Fields). Decoding
// rejects anything not declared and collects type mismatches per field;
// the remaining rules (required, lengths) are struct tags checked with
// go-playground/validator.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmehdipour/order-service/internal/model"
	"github.com/labstack/echo/v4"
)

// SchemaKey holds errors that concern the body as a whole.
const SchemaKey = "_schema"

const (
	msgInvalidInput = "Invalid input type."
	msgUnknownField = "Unknown field."
	msgRequired     = "Missing data for required field."
	msgNull         = "Field may not be null."
)

// Fields maps a wire field name to the pointer its value decodes into.
// A nil destination accepts the field and discards it (read-only fields
// such as "id" echoed back by clients).
type Fields map[string]any

// Payload is implemented by request bodies.
type Payload interface {
	Fields() Fields
}

type nullable struct{ dst any }

// Nullable marks a field destination that accepts JSON null. Every other
// field answers null with "Field may not be null.".
func Nullable(dst any) any { return nullable{dst: dst} }

// Presence records which wire fields a body carried, null included.
// Update payloads embed it to tell "sent as null" from "not sent".
type Presence struct {
	keys map[string]bool
}

// Has reports whether the body contained the field.
func (p *Presence) Has(name string) bool { return p.keys[name] }

func (p *Presence) markPresent(name string) {
	if p.keys == nil {
		p.keys = map[string]bool{}
	}
	p.keys[name] = true
}

type presenceTracker interface {
	markPresent(name string)
}

// Errors is a field -> messages map. It satisfies error so handlers can pass it around.
type Errors map[string][]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Bind reads the request body into p and validates it. The returned error
// is an Errors value when the payload is rejected.
func Bind(c echo.Context, p Payload) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if errs := Decode(body, p); errs != nil {
		return errs
	}
	return nil
}

// AsErrors unwraps validation errors produced by Bind.
func AsErrors(err error) (Errors, bool) {
	var errs Errors
	ok := errors.As(err, &errs)
	return errs, ok
}

// Decode fills p from a JSON object and returns nil when it is valid.
func Decode(body []byte, p Payload) Errors {
	errs := Errors{}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		errs.add(SchemaKey, msgInvalidInput)
		return errs
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		errs.add(SchemaKey, msgInvalidInput)
		return errs
	}

	fields := p.Fields()
	tracker, _ := p.(presenceTracker)
	for name, value := range raw {
		dst, known := fields[name]
		if !known {
			errs.add(name, msgUnknownField)
			continue
		}
		if tracker != nil {
			tracker.markPresent(name)
		}
		if dst == nil {
			continue
		}
		n, isNullable := dst.(nullable)
		if isNullable {
			dst = n.dst
		}
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			if !isNullable {
				errs.add(name, msgNull)
			}
			continue
		}
		if err := json.Unmarshal(value, dst); err != nil {
			errs.add(name, typeMessage(dst))
		}
	}

	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs.add(SchemaKey, err.Error())
			return errs
		}
		for _, fe := range verrs {
			name := fe.Field()
			if _, typed := errs[name]; typed {
				continue
			}
			errs.add(name, ruleMessage(fe))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func typeMessage(dst any) string {
	switch dst.(type) {
	case **string, *string:
		return "Not a valid string."
	case **float64, *float64:
		return "Not a valid number."
	case **int64, *int64:
		return "Not a valid integer."
	case **model.Date, *model.Date:
		return "Not a valid date."
	default:
		return "Invalid value."
	}
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "max":
		return fmt.Sprintf("Longer than maximum length %s.", fe.Param())
	case "min":
		return fmt.Sprintf("Shorter than minimum length %s.", fe.Param())
	default:
		return "Invalid value."
	}
}
