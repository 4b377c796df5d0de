package async

import (
	"context"
	"sync"
)

// Value is a result that is either already available, still pending, or
// absent. The zero Value is absent.
//
// Values are cheap to copy; copies of a pending Value observe the same
// eventual result.
type Value[T any] struct {
	resolved bool
	val      T
	err      error
	fut      *future[T]
}

type future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

func (f *future[T]) settle(v T, err error) {
	f.once.Do(func() {
		f.val = v
		f.err = err
		close(f.done)
	})
}

// Resolved returns a Value that is immediately available.
func Resolved[T any](v T) Value[T] {
	return Value[T]{resolved: true, val: v}
}

// Failed returns an immediately available Value carrying err.
func Failed[T any](err error) Value[T] {
	return Value[T]{resolved: true, err: err}
}

// Go runs fn in a new goroutine and returns a pending Value settled with its result.
func Go[T any](fn func() (T, error)) Value[T] {
	v, settle := Promise[T]()
	go func() {
		settle(fn())
	}()
	return v
}

// Promise returns a pending Value and the function that settles it.
// Only the first call to settle has an effect.
func Promise[T any]() (Value[T], func(T, error)) {
	f := &future[T]{done: make(chan struct{})}
	return Value[T]{fut: f}, f.settle
}

// Present reports whether the Value was provided at all, pending or not.
func (v Value[T]) Present() bool {
	return v.resolved || v.fut != nil
}

// Pending reports whether the Value has not settled yet.
func (v Value[T]) Pending() bool {
	if v.fut == nil {
		return false
	}
	select {
	case <-v.fut.done:
		return false
	default:
		return true
	}
}

// Get returns the settled result without blocking.
// ok is false when the Value is absent or still pending.
func (v Value[T]) Get() (val T, err error, ok bool) {
	switch {
	case v.resolved:
		return v.val, v.err, true
	case v.fut != nil && !v.Pending():
		return v.fut.val, v.fut.err, true
	default:
		return val, nil, false
	}
}

// Await blocks until the Value settles or ctx is done.
// Resolved values are returned without touching ctx.
func (v Value[T]) Await(ctx context.Context) (T, error) {
	var zero T
	switch {
	case v.resolved:
		return v.val, v.err
	case v.fut == nil:
		return zero, ErrAbsent
	}

	select {
	case <-v.fut.done:
		return v.fut.val, v.fut.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
