package schema

import (
	"fmt"
)

// Field binds a name to the schema validating it.
type Field struct {
	Name   string
	Schema Schema
}

// Dictionary is an ordered set of independently validated fields.
// Declaration order determines issue order.
type Dictionary []Field

// Names returns the declared field names in order.
func (d Dictionary) Names() []string {
	names := make([]string, 0, len(d))
	for _, f := range d {
		names = append(names, f.Name)
	}
	return names
}

// ValidateDictionary validates every declared field of raw against its schema.
//
// All fields are validated; issues are accumulated in declaration order and
// each issue path is prefixed with the field name. Undeclared keys in raw are
// dropped. A pending field result yields a *SyncViolationError; a failing
// schema yields its error.
func ValidateDictionary(d Dictionary, raw map[string]any) (Result, error) {
	values := make(Values, len(d))
	var issues []Issue

	for _, f := range d {
		if f.Schema == nil {
			return Result{}, fmt.Errorf("%w: field %q", ErrNilSchema, f.Name)
		}

		res, err := validateNow(f.Schema, raw[f.Name], f.Name)
		if err != nil {
			return Result{}, err
		}
		if !res.OK() {
			for _, issue := range res.Issues {
				issues = append(issues, issue.prefixed(f.Name))
			}
			continue
		}
		values[f.Name] = res.Value
	}

	if len(issues) > 0 {
		return Fail(issues...), nil
	}
	return Ok(values), nil
}

// ValidateSync applies s to input and requires the result to be available
// immediately. A pending result yields a *SyncViolationError.
func ValidateSync(s Schema, input any) (Result, error) {
	if s == nil {
		return Result{}, ErrNilSchema
	}
	return validateNow(s, input, "")
}

func validateNow(s Schema, input any, field string) (Result, error) {
	res, err, ok := s.Validate(input).Get()
	if !ok {
		return Result{}, &SyncViolationError{Field: field}
	}
	if err != nil {
		if field != "" {
			return Result{}, fmt.Errorf("schema: field %q: %w", field, err)
		}
		return Result{}, err
	}
	return res, nil
}
