package schema

import (
	"encoding/json"
	"errors"
	"math"
	"mime/multipart"
	"reflect"
	"strconv"
	"strings"

	"github.com/dmitrymomot/anzen/pkg/async"
)

// Issue codes attached to Issue.Meta["code"] by the built-in adapters.
const (
	CodeRequired    = "required"
	CodeInvalidType = "invalid_type"
	CodeRule        = "rule"
)

func required() Issue {
	return Issuef(CodeRequired, "Required")
}

func invalidType(expected string) Issue {
	issue := Issuef(CodeInvalidType, "Must be %s", expected)
	issue.Meta["expected"] = expected
	return issue
}

// String accepts string values only.
func String() Schema {
	return Func(func(input any) Result {
		switch v := input.(type) {
		case nil:
			return Fail(required())
		case string:
			return Ok(v)
		default:
			return Fail(invalidType("string"))
		}
	})
}

// Numeric accepts numbers and numeric strings and yields float64.
func Numeric() Schema {
	return Func(func(input any) Result {
		if input == nil {
			return Fail(required())
		}
		f, ok := toFloat(input)
		if !ok {
			return Fail(invalidType("number"))
		}
		return Ok(f)
	})
}

// Int accepts integral numbers and integer strings and yields int.
func Int() Schema {
	return Func(func(input any) Result {
		if input == nil {
			return Fail(required())
		}
		if s, ok := input.(string); ok {
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, strconv.IntSize)
			if err == nil {
				return Ok(int(n))
			}
			if errors.Is(err, strconv.ErrRange) {
				return Fail(invalidType("integer"))
			}
		}
		f, ok := toFloat(input)
		// -math.MinInt is the first float beyond the int range.
		if !ok || f != math.Trunc(f) || f < math.MinInt || f >= -math.MinInt {
			return Fail(invalidType("integer"))
		}
		return Ok(int(f))
	})
}

// Bool accepts booleans and the usual boolean spellings of form fields.
func Bool() Schema {
	return Func(func(input any) Result {
		switch v := input.(type) {
		case nil:
			return Fail(required())
		case bool:
			return Ok(v)
		case string:
			b, err := parseBool(v)
			if err != nil {
				return Fail(invalidType("boolean"))
			}
			return Ok(b)
		default:
			return Fail(invalidType("boolean"))
		}
	})
}

// File accepts an uploaded multipart file and yields *multipart.FileHeader.
// A positive maxSize rejects larger files.
func File(maxSize int64) Schema {
	return Func(func(input any) Result {
		switch v := input.(type) {
		case nil:
			return Fail(required())
		case *multipart.FileHeader:
			if v == nil {
				return Fail(required())
			}
			if maxSize > 0 && v.Size > maxSize {
				issue := Issuef(CodeRule, "file must not exceed %d bytes", maxSize)
				issue.Meta["translation_key"] = "validation.file_size"
				issue.Meta["translation_values"] = map[string]any{"max": maxSize}
				return Fail(issue)
			}
			return Ok(v)
		default:
			return Fail(invalidType("file"))
		}
	})
}

// Array validates every element against elem and yields []any.
// A single non-list value is treated as a one-element list, which keeps
// query and form fields valid whether a key occurs once or several times.
func Array(elem Schema) Schema {
	return AsyncFunc(func(input any) async.Value[Result] {
		var items []any
		switch v := input.(type) {
		case nil:
			return async.Resolved(Fail(required()))
		case []any:
			items = v
		case []string:
			items = make([]any, len(v))
			for i, s := range v {
				items[i] = s
			}
		default:
			rv := reflect.ValueOf(v)
			if rv.Kind() != reflect.Slice {
				items = []any{v}
				break
			}
			items = make([]any, rv.Len())
			for i := range items {
				items[i] = rv.Index(i).Interface()
			}
		}

		out := make([]any, 0, len(items))
		var issues []Issue
		for i, item := range items {
			res, err := validateNow(elem, item, "")
			if err != nil {
				return async.Failed[Result](err)
			}
			if !res.OK() {
				for _, issue := range res.Issues {
					issues = append(issues, issue.prefixed(i))
				}
				continue
			}
			out = append(out, res.Value)
		}
		if len(issues) > 0 {
			return async.Resolved(Fail(issues...))
		}
		return async.Resolved(Ok(out))
	})
}

// Optional lets a missing value through as nil and validates anything else with s.
func Optional(s Schema) Schema {
	return AsyncFunc(func(input any) async.Value[Result] {
		if input == nil {
			return async.Resolved(Ok(nil))
		}
		return s.Validate(input)
	})
}

// Default substitutes def for a missing value before validating with s.
func Default(s Schema, def any) Schema {
	return AsyncFunc(func(input any) async.Value[Result] {
		if input == nil {
			input = def
		}
		return s.Validate(input)
	})
}

// Object validates a mapping against a dictionary and yields Values.
// Issue paths of nested fields are prefixed with the field names.
func Object(d Dictionary) Schema {
	return AsyncFunc(func(input any) async.Value[Result] {
		var raw map[string]any
		switch v := input.(type) {
		case nil:
			return async.Resolved(Fail(required()))
		case map[string]any:
			raw = v
		case Values:
			raw = v
		case map[string]string:
			raw = make(map[string]any, len(v))
			for k, s := range v {
				raw[k] = s
			}
		default:
			return async.Resolved(Fail(invalidType("object")))
		}

		res, err := ValidateDictionary(d, raw)
		if err != nil {
			return async.Failed[Result](err)
		}
		return async.Resolved(res)
	})
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
