// Package async models values that may already be available or may still be
// on their way.
//
// A Value is in one of three states:
//
//   - absent: the zero Value, nothing was provided
//   - resolved: created with Resolved or Failed, readable without blocking
//   - pending: created with Promise or Go, settled later exactly once
//
// Callers that accept both shapes use Await, which returns immediately for
// resolved values and only blocks (honoring context cancellation) when the
// value is pending. Callers that must not block use Get.
//
// # Usage
//
//	params := async.Resolved(map[string]string{"id": "42"})
//	v, err := params.Await(ctx)
//
//	later, settle := async.Promise[int]()
//	go func() { settle(compute()) }()
//	n, err := later.Await(ctx)
package async
