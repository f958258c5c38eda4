package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type ctxKey uint8

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyTabID
	ctxKeyMethod
	ctxKeyURL
)

const originService = "admin-console"

type Handler struct {
	slog.Handler
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok && v != "" {
		record.Add("request_id", v)
	}

	if v, ok := ctx.Value(ctxKeyTabID).(string); ok && v != "" {
		record.Add("tab_id", v)
	}

	if v, ok := ctx.Value(ctxKeyMethod).(string); ok && v != "" {
		record.Add("method", v)
	}

	if v, ok := ctx.Value(ctxKeyURL).(string); ok && v != "" {
		record.Add("url", v)
	}

	record.Add("origin_service", originService)

	return h.Handler.Handle(ctx, record)
}

func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func New(level slog.Level) *slog.Logger {
	log := slog.New(&Handler{slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})})

	return log
}

func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func SetRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, reqID)
}

func SetTabID(ctx context.Context, tabID string) context.Context {
	return context.WithValue(ctx, ctxKeyTabID, tabID)
}

func SetMethod(ctx context.Context, method string) context.Context {
	return context.WithValue(ctx, ctxKeyMethod, method)
}

func SetURL(ctx context.Context, url string) context.Context {
	return context.WithValue(ctx, ctxKeyURL, url)
}
