package logging

import (
	"context"
	"log/slog"
)

type contextKey string

const fieldsKey contextKey = "log_fields"

// Fields are attached to every record logged with a context that carries them.
type Fields struct {
	RequestID string
	UserID    *int64
	ReportID  *int64
	Component string
}

// WithFields merges fields into ctx. Non-empty values in f win over existing ones.
func WithFields(ctx context.Context, f Fields) context.Context {
	merged := FieldsFrom(ctx)
	if f.RequestID != "" {
		merged.RequestID = f.RequestID
	}
	if f.UserID != nil {
		merged.UserID = f.UserID
	}
	if f.ReportID != nil {
		merged.ReportID = f.ReportID
	}
	if f.Component != "" {
		merged.Component = f.Component
	}
	return context.WithValue(ctx, fieldsKey, merged)
}

func FieldsFrom(ctx context.Context) Fields {
	if ctx == nil {
		return Fields{}
	}
	if f, ok := ctx.Value(fieldsKey).(Fields); ok {
		return f
	}
	return Fields{}
}

func (f Fields) attrs() []slog.Attr {
	var attrs []slog.Attr
	if f.RequestID != "" {
		attrs = append(attrs, slog.String("request_id", f.RequestID))
	}
	if f.UserID != nil {
		attrs = append(attrs, slog.Int64("user_id", *f.UserID))
	}
	if f.ReportID != nil {
		attrs = append(attrs, slog.Int64("report_id", *f.ReportID))
	}
	if f.Component != "" {
		attrs = append(attrs, slog.String("component", f.Component))
	}
	return attrs
}

// Ptr returns a pointer to v, for inline Fields literals.
func Ptr[T any](v T) *T {
	return &v
}

// ContextHandler adds the Fields found in the record's context.
type ContextHandler struct {
	slog.Handler
}

func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: h}
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := FieldsFrom(ctx).attrs(); len(attrs) > 0 {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}
