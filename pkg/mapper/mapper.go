// Package mapper converts between JSON wire payloads and stored records.
//
// Every entity has an explicit schema: the set of accepted keys, their JSON
// type and whether they are required. Unknown keys, including the read-only
// "id", are rejected. Dates travel as ISO-8601 calendar dates; the legacy
// month/day/year form is still accepted on input.
package mapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the canonical wire format of calendar dates.
const DateLayout = "2006-01-02"

// accepted input layouts, canonical first.
var dateLayouts = []string{"2006-1-2", "1/2/2006"}

// Mode selects how strictly field presence is checked.
type Mode int

const (
	// ModeCreate requires the required fields; optional ones may be omitted.
	ModeCreate Mode = iota
	// ModeReplace requires every field to be present. Optional fields may
	// be null.
	ModeReplace
)

// ValidationError reports a payload that does not fit the entity schema.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// calendar_date accepts any layout ParseDate understands.
	if err := v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	return v
}

// ParseDate parses a calendar date in the canonical or legacy layout and
// returns it at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
}

// FormatDate renders a date in the canonical layout. Nil stays nil.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// decode checks body against the allow-list in fields, then unmarshals and
// validates it into dst.
func decode(body []byte, fields []string, mode Mode, dst any) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return &ValidationError{Reason: "body must be a JSON object"}
	}

	allowed := make(map[string]bool, len(fields))
	for _, f := range fields {
		allowed[f] = true
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !allowed[k] {
			return &ValidationError{Field: k, Reason: "unknown field"}
		}
	}
	if mode == ModeReplace {
		for _, f := range fields {
			if _, ok := raw[f]; !ok {
				return &ValidationError{Field: f, Reason: "must be present for a full update"}
			}
		}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &ValidationError{Field: typeErr.Field, Reason: "must be " + jsonType(typeErr.Type)}
		}
		return &ValidationError{Reason: err.Error()}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return err
	}
	return nil
}

func fieldError(fe validator.FieldError) *ValidationError {
	reason := "is invalid"
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "max":
		reason = "must be at most " + fe.Param() + " characters"
	case "calendar_date":
		reason = "must be a date formatted as YYYY-MM-DD"
	}
	return &ValidationError{Field: fe.Field(), Reason: reason}
}

func jsonType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.String:
		return "a string"
	default:
		return "a " + t.Kind().String()
	}
}

// EncodeAll maps every record with enc, never returning nil.
func EncodeAll[T, P any](recs []T, enc func(T) P) []P {
	out := make([]P, 0, len(recs))
	for _, r := range recs {
		out = append(out, enc(r))
	}
	return out
}
