package schema

import (
	"errors"
	"fmt"
	"net/mail"
	"reflect"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/anzen/pkg/async"
)

// RuleError is a failed rule check with a translation key and its values,
// so clients can localize the message.
type RuleError struct {
	Message           string
	TranslationKey    string
	TranslationValues map[string]any
}

func (e *RuleError) Error() string {
	return e.Message
}

// Issue converts the rule failure to an Issue.
func (e *RuleError) Issue() Issue {
	meta := map[string]any{"code": CodeRule}
	if e.TranslationKey != "" {
		meta["translation_key"] = e.TranslationKey
	}
	if len(e.TranslationValues) > 0 {
		meta["translation_values"] = e.TranslationValues
	}
	return Issue{Message: e.Message, Meta: meta}
}

// Rule checks an already typed value.
type Rule[T any] func(v T) error

// Refine validates input with s and then runs rules against the typed
// result. Every failing rule contributes an issue; a value of the wrong
// type fails with an invalid_type issue.
func Refine[T any](s Schema, rules ...Rule[T]) Schema {
	return AsyncFunc(func(input any) async.Value[Result] {
		res, err := validateNow(s, input, "")
		if err != nil {
			return async.Failed[Result](err)
		}
		if !res.OK() {
			return async.Resolved(res)
		}

		v, ok := res.Value.(T)
		if !ok {
			return async.Resolved(Fail(invalidType(reflect.TypeFor[T]().String())))
		}

		var issues []Issue
		for _, rule := range rules {
			if err := rule(v); err != nil {
				issues = append(issues, IssuesFromError(err)...)
			}
		}
		if len(issues) > 0 {
			return async.Resolved(Fail(issues...))
		}
		return async.Resolved(res)
	})
}

// IssuesFromError converts an error returned by a rule or a Validate method
// to issues. Issues and RuleError values keep their structure; any other
// error becomes a single issue with its message.
func IssuesFromError(err error) []Issue {
	var issues Issues
	if errors.As(err, &issues) {
		return issues
	}
	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		return []Issue{ruleErr.Issue()}
	}
	return []Issue{{Message: err.Error(), Meta: map[string]any{"code": CodeRule}}}
}

// Check runs rules against a named value and returns their failures as
// issues with path field. It is meant for Validate methods:
//
//	func (r race) Validate() error {
//		issues := schema.Check("name", r.Name, schema.NotBlank())
//		if len(issues) > 0 {
//			return issues
//		}
//		return nil
//	}
func Check[T any](field string, v T, rules ...Rule[T]) Issues {
	var issues Issues
	for _, rule := range rules {
		err := rule(v)
		if err == nil {
			continue
		}
		for _, issue := range IssuesFromError(err) {
			issues = append(issues, issue.prefixed(field))
		}
	}
	return issues
}

// MinLen requires at least n characters.
func MinLen(n int) Rule[string] {
	return func(v string) error {
		if len([]rune(v)) >= n {
			return nil
		}
		return &RuleError{
			Message:           fmt.Sprintf("must be at least %d characters long", n),
			TranslationKey:    "validation.min_length",
			TranslationValues: map[string]any{"min": n},
		}
	}
}

// MaxLen allows at most n characters.
func MaxLen(n int) Rule[string] {
	return func(v string) error {
		if len([]rune(v)) <= n {
			return nil
		}
		return &RuleError{
			Message:           fmt.Sprintf("must be at most %d characters long", n),
			TranslationKey:    "validation.max_length",
			TranslationValues: map[string]any{"max": n},
		}
	}
}

// NotBlank rejects strings that are empty after trimming whitespace.
func NotBlank() Rule[string] {
	return func(v string) error {
		if strings.TrimSpace(v) != "" {
			return nil
		}
		return &RuleError{
			Message:        "field is required",
			TranslationKey: "validation.required",
		}
	}
}

// OneOf restricts the value to the given choices.
func OneOf[T comparable](choices ...T) Rule[T] {
	return func(v T) error {
		if slices.Contains(choices, v) {
			return nil
		}
		return &RuleError{
			Message:           fmt.Sprintf("must be one of %v", choices),
			TranslationKey:    "validation.in_list",
			TranslationValues: map[string]any{"choices": choices},
		}
	}
}

// Range bounds a number inclusively.
func Range(min, max float64) Rule[float64] {
	return func(v float64) error {
		if v >= min && v <= max {
			return nil
		}
		return &RuleError{
			Message:           fmt.Sprintf("must be between %v and %v", min, max),
			TranslationKey:    "validation.between",
			TranslationValues: map[string]any{"min": min, "max": max},
		}
	}
}

// UUID requires a canonical UUID string.
func UUID() Rule[string] {
	return func(v string) error {
		if _, err := uuid.Parse(v); err == nil {
			return nil
		}
		return &RuleError{
			Message:        "must be a valid UUID",
			TranslationKey: "validation.uuid",
		}
	}
}

// Email requires a bare email address.
func Email() Rule[string] {
	return func(v string) error {
		addr, err := mail.ParseAddress(v)
		if err == nil && addr.Address == v {
			return nil
		}
		return &RuleError{
			Message:        "must be a valid email address",
			TranslationKey: "validation.email",
		}
	}
}
