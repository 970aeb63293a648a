// Package validation runs struct tag rules and collects the per-field
// violations in field order.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Message is the top level message of every validation failure.
const Message = "The given data was invalid."

// Errors maps field names to their violation messages. Field order is the
// order in which the first violation for each field was added.
type Errors struct {
	fields   []string
	messages map[string][]string
}

// New returns an empty Errors.
func New() *Errors {
	return &Errors{messages: map[string][]string{}}
}

// Add records msg against field.
func (e *Errors) Add(field, msg string) {
	if _, ok := e.messages[field]; !ok {
		e.fields = append(e.fields, field)
	}
	e.messages[field] = append(e.messages[field], msg)
}

// Empty reports whether no violation has been recorded.
func (e *Errors) Empty() bool {
	return e == nil || len(e.fields) == 0
}

// Fields returns the failing fields in order.
func (e *Errors) Fields() []string {
	return append([]string(nil), e.fields...)
}

// Get returns the messages recorded for field.
func (e *Errors) Get(field string) []string {
	return e.messages[field]
}

// Err returns e as an error, or nil when nothing failed.
func (e *Errors) Err() error {
	if e.Empty() {
		return nil
	}

	return e
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.messages[f], " ")))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// MarshalJSON encodes the errors as an object whose keys keep field order.
func (e *Errors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range e.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.messages[f])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an errors object, keeping the key order of the input.
func (e *Errors) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("validation errors: expected object, got %v", tok)
	}

	e.fields = nil
	e.messages = map[string][]string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		field, _ := tok.(string)
		var msgs []string
		if err := dec.Decode(&msgs); err != nil {
			return err
		}
		for _, m := range msgs {
			e.Add(field, m)
		}
	}

	_, err = dec.Token()

	return err
}

var validate = newValidator()

// newValidator reports fields by their json name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Struct checks v against its `validate` tags. Violations come back as
// *Errors in struct field order; a nil error means v is valid.
func Struct(v interface{}) error {
	err := validate.Struct(v)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := New()
	for _, fe := range fieldErrs {
		errs.Add(fe.Field(), message(fe))
	}

	return errs.Err()
}

func message(fe validator.FieldError) string {
	name := attribute(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", name, fe.Param())
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", name, fe.Param())
	default:
		return fmt.Sprintf("The %s is invalid.", name)
	}
}

// TypeMessage is the violation for a value of the wrong JSON type.
func TypeMessage(field, kind string) string {
	return fmt.Sprintf("The %s must be a %s.", attribute(field), kind)
}

func attribute(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
