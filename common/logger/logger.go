package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/ZJHSteven/ai-peer-review/core/config"
)

func Setup(cfg *config.Settings) {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if cfg.IsDevelopment() {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = NewFieldsHandler(slog.NewJSONHandler(os.Stderr, opts))
	} else {
		handler = NewFieldsHandler(slog.NewTextHandler(os.Stderr, opts))
	}

	slog.SetDefault(slog.New(handler))
}

// FieldsHandler stamps every record with the structured fields carried in
// the context, so call sites never repeat model/paper attributes.
type FieldsHandler struct {
	slog.Handler
}

func NewFieldsHandler(h slog.Handler) *FieldsHandler {
	return &FieldsHandler{Handler: h}
}

func (h *FieldsHandler) Handle(ctx context.Context, r slog.Record) error {
	fields := GetLogFields(ctx)
	if fields.Model != "" {
		r.AddAttrs(slog.String("model", fields.Model))
	}
	if fields.Paper != "" {
		r.AddAttrs(slog.String("paper", fields.Paper))
	}
	if fields.Component != "" {
		r.AddAttrs(slog.String("component", fields.Component))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *FieldsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &FieldsHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *FieldsHandler) WithGroup(name string) slog.Handler {
	return &FieldsHandler{Handler: h.Handler.WithGroup(name)}
}
