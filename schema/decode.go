package schema

import (
	"encoding/json"
)

// Validator is implemented by decoded types that check their own invariants.
type Validator interface {
	Validate() error
}

// Decode converts a parsed JSON value into T by re-encoding it through
// encoding/json. When T (or *T) implements Validator, its Validate method
// runs after decoding and its failures become issues.
func Decode[T any]() Schema {
	return Func(func(input any) Result {
		if input == nil {
			return Fail(required())
		}

		data, err := json.Marshal(input)
		if err != nil {
			return Fail(Issuef(CodeInvalidType, "cannot encode value: %v", err))
		}

		var out T
		if err := json.Unmarshal(data, &out); err != nil {
			issue := Issuef(CodeInvalidType, "%v", err)
			if typeErr, ok := err.(*json.UnmarshalTypeError); ok && typeErr.Field != "" {
				issue.Path = []any{typeErr.Field}
			}
			return Fail(issue)
		}

		if err := validateDecoded(&out); err != nil {
			return Fail(IssuesFromError(err)...)
		}
		return Ok(out)
	})
}

func validateDecoded[T any](v *T) error {
	if val, ok := any(*v).(Validator); ok {
		return val.Validate()
	}
	if val, ok := any(v).(Validator); ok {
		return val.Validate()
	}
	return nil
}
