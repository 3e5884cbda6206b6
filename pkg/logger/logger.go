// Package logger configures the process-wide structured logger.
//
// Production deployments get JSON lines for log aggregators, everything else
// gets human readable text:
//
//	logger.Setup(cfg.IsProduction())
//	logger.L.Info("order created", "order_number", o.OrderNumber)
package logger

import (
	"context"
	"log"
	"log/slog"
	"os"
)

// L is the base logger. It is usable before Setup runs.
var L = slog.New(slog.NewTextHandler(os.Stdout, nil))

// Setup replaces the base logger and makes it the slog default.
func Setup(production bool) *slog.Logger {
	if production {
		L = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	} else {
		L = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	slog.SetDefault(L)
	return L
}

// StdLogger adapts L for libraries that want a *log.Logger (gorm's logger writer).
func StdLogger(level slog.Level) *log.Logger {
	return slog.NewLogLogger(L.Handler(), level)
}

type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return L
}

// Inject stores a request-scoped logger in ctx.
func Inject(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}
