package audit

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"watttime-api/internal/auth"
	"watttime-api/internal/observability/logging"
	"watttime-api/internal/observability/metrics"
)

const writeTimeout = 2 * time.Second

// Middleware records every operation call that passed authentication.
// Write failures are logged and counted; they never change the response.
func Middleware(logger Logger, log *zap.Logger) func(huma.Context, func(huma.Context)) {
	if log == nil {
		log = zap.NewNop()
	}
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()
		next(ctx)
		if logger == nil {
			return
		}

		entry := Entry{
			Method:     ctx.Method(),
			Path:       ctx.URL().Path,
			Status:     ctx.Status(),
			Actor:      auth.SubjectFromContext(ctx.Context()),
			IP:         ClientIP(ctx.Header, ctx.RemoteAddr()),
			UserAgent:  ctx.Header("User-Agent"),
			RequestID:  logging.RequestIDFromContext(ctx.Context()),
			DurationMS: time.Since(start).Milliseconds(),
		}
		if op := ctx.Operation(); op != nil {
			entry.Operation = op.OperationID
		}
		if entry.Status == 0 {
			entry.Status = 200
		}

		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx.Context()), writeTimeout)
		defer cancel()
		if err := logger.Log(writeCtx, entry); err != nil {
			metrics.IncAuditWriteError()
			log.Warn("audit write failed", zap.String("operation", entry.Operation), zap.Error(err))
		}
	}
}
