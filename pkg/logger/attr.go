package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under the key "request_id".
// If id is nil, it returns an empty Attr.
func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component kind under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Handler records the handler identifier under the key "handler".
func Handler(name string) slog.Attr {
	return slog.String("handler", name)
}

// Stage records the pipeline stage under the key "stage".
func Stage(name string) slog.Attr {
	return slog.String("stage", name)
}

// Status records an HTTP status code under the key "status".
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

// Issues records validation issues under the key "issues" together with
// their count. If the list is empty, it returns an empty Attr.
func Issues[T any](issues []T) slog.Attr {
	if len(issues) == 0 {
		return slog.Attr{}
	}
	return Group("issues",
		slog.Int("count", len(issues)),
		slog.Any("list", issues),
	)
}
