// Package schema defines the validation contract consumed by anzen and the
// two validators built on top of it.
//
// Any validation library can plug in by implementing Schema: given an
// arbitrary input, return either a value or a list of structured issues.
// The result is wrapped in an async.Value so that asynchronous schemas can
// be expressed, but the validators in this package require results to be
// available immediately and report a *SyncViolationError otherwise.
//
// # Validators
//
// ValidateDictionary validates a mapping of named fields, each field
// independently. It never stops at the first failure: every declared field is
// checked and all issues are returned in declaration order with their paths
// prefixed by the field name. Only declared fields reach the output.
//
//	dict := schema.Dictionary{
//		{Name: "id", Schema: schema.String()},
//		{Name: "page", Schema: schema.Numeric()},
//	}
//	res, err := schema.ValidateDictionary(dict, map[string]any{"id": "x", "page": "5"})
//	// res.Value == schema.Values{"id": "x", "page": 5.0}
//
// ValidateSync applies a single schema to a single value, typically a
// decoded JSON body.
//
// # Adapters
//
// The package ships a small set of adapters covering route segments, query
// strings, form fields and JSON bodies: String, Numeric, Int, Bool, File, Array,
// Optional, Default, Object and Decode. Refine attaches typed rules (MinLen,
// MaxLen, NotBlank, OneOf, Range, UUID, Email) whose failures carry a
// translation key in Issue.Meta.
//
//	name := schema.Refine(schema.String(), schema.NotBlank(), schema.MaxLen(64))
//
// # Custom schemas
//
//	even := schema.Func(func(input any) schema.Result {
//		n, ok := input.(int)
//		if !ok || n%2 != 0 {
//			return schema.Fail(schema.Issuef("even", "must be an even integer"))
//		}
//		return schema.Ok(n)
//	})
package schema
