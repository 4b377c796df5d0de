package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Values holds validated dictionary output keyed by field name.
// Only declared fields are ever present.
type Values map[string]any

// Has reports whether key holds a validated value.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// String returns the value of key if it is a string.
func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

// Float returns the value of key as float64 if it is numeric.
func (v Values) Float(key string) float64 {
	f, _ := toFloat(v[key])
	return f
}

// Int returns the value of key as int if it is numeric.
func (v Values) Int(key string) int {
	f, _ := toFloat(v[key])
	return int(f)
}

// Bool returns the value of key if it is a bool.
func (v Values) Bool(key string) bool {
	b, _ := v[key].(bool)
	return b
}

// Strings returns the value of key as a string slice.
// A single string is returned as a one-element slice.
func (v Values) Strings(key string) []string {
	switch val := v[key].(type) {
	case string:
		return []string{val}
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Get returns the value of key typed as T.
// ok is false when the key is missing or holds a different type.
func Get[T any](v Values, key string) (T, bool) {
	val, ok := v[key].(T)
	return val, ok
}

// Decode copies the values into the struct pointed to by dst.
//
// Field names come from the `schema` tag, falling back to the lowercased
// field name; `schema:"-"` skips a field. Values are assigned directly when
// their type matches, converted when convertible, and parsed when they are
// strings bound to numeric or boolean fields.
func (v Values) Decode(dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrDecodeTarget
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return ErrDecodeTarget
	}

	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		fieldType := rt.Field(i)

		if !field.CanSet() {
			continue
		}

		name, skip := parseFieldTag(fieldType)
		if skip {
			continue
		}

		val, ok := v[name]
		if !ok || val == nil {
			continue
		}

		if err := assign(field, val); err != nil {
			return fmt.Errorf("schema: field %s: %w", fieldType.Name, err)
		}
	}

	return nil
}

func parseFieldTag(field reflect.StructField) (name string, skip bool) {
	tag := field.Tag.Get("schema")
	switch tag {
	case "":
		return strings.ToLower(field.Name), false
	case "-":
		return "", true
	}
	name, _, _ = strings.Cut(tag, ",")
	return name, false
}

func assign(field reflect.Value, val any) error {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return assign(field.Elem(), val)
	}

	rv := reflect.ValueOf(val)
	switch {
	case rv.Type().AssignableTo(field.Type()):
		field.Set(rv)
		return nil
	case field.Kind() == reflect.Slice && rv.Kind() == reflect.Slice:
		return assignSlice(field, rv)
	case field.Kind() == reflect.Slice:
		return assignSlice(field, reflect.ValueOf([]any{val}))
	case rv.Kind() == reflect.String && field.Kind() != reflect.String:
		return parseInto(field, rv.String())
	case isNumber(rv.Kind()) && isNumber(field.Kind()):
		field.Set(rv.Convert(field.Type()))
		return nil
	case rv.Type().ConvertibleTo(field.Type()) && rv.Kind() == field.Kind():
		field.Set(rv.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", val, field.Type())
}

func assignSlice(field, src reflect.Value) error {
	out := reflect.MakeSlice(field.Type(), src.Len(), src.Len())
	for i := 0; i < src.Len(); i++ {
		if err := assign(out.Index(i), src.Index(i).Interface()); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	field.Set(out)
	return nil
}

func parseInto(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q", value)
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q", value)
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float value %q", value)
		}
		field.SetFloat(n)
	case reflect.Bool:
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported type %s", field.Kind())
	}
	return nil
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// parseBool is lenient with the spellings HTML forms produce.
func parseBool(value string) (bool, error) {
	if b, err := strconv.ParseBool(value); err == nil {
		return b, nil
	}
	switch strings.ToLower(value) {
	case "on", "yes":
		return true, nil
	case "off", "no", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid bool value %q", value)
}
