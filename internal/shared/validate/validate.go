// Package validate wraps go-playground/validator with json field names.
package validate

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every Errors value.
var ErrInvalid = errors.New("invalid input")

// Issue is one failing field and the rule it broke.
type Issue struct {
	Field string
	Rule  string
}

// Errors lists field issues in field order.
type Errors []Issue

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, is := range e {
		parts = append(parts, is.Field+": "+is.Rule)
	}
	return "invalid input: " + strings.Join(parts, ", ")
}

func (e Errors) Unwrap() error { return ErrInvalid }

var v = newValidator()

func newValidator() *validator.Validate {
	vv := validator.New(validator.WithRequiredStructEnabled())
	vv.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return vv
}

// Struct validates s and returns Errors when any rule fails.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(Errors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, Issue{Field: fe.Field(), Rule: fe.Tag()})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

// IssuesOf extracts Errors from err, or nil.
func IssuesOf(err error) Errors {
	var ve Errors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
