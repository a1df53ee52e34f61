// Package observer defines logging and metrics hooks for sandbox execution.
package observer

import (
	"context"

	"runbox/pkg/utils/logger"

	"go.uber.org/zap"
)

// MetricsRecorder records per-submission execution metrics.
type MetricsRecorder interface {
	ObserveCompile(ctx context.Context, languageID string, ok bool, durMs int64)
	ObserveRun(ctx context.Context, languageID string, class string, durMs int64)
}

// NoopMetricsRecorder discards all observations.
type NoopMetricsRecorder struct{}

func (NoopMetricsRecorder) ObserveCompile(ctx context.Context, languageID string, ok bool, durMs int64) {
}

func (NoopMetricsRecorder) ObserveRun(ctx context.Context, languageID string, class string, durMs int64) {
}

// LogMetricsRecorder emits observations to the service log.
type LogMetricsRecorder struct{}

func (LogMetricsRecorder) ObserveCompile(ctx context.Context, languageID string, ok bool, durMs int64) {
	logger.Debug(ctx, "compile step finished",
		zap.String("language", languageID),
		zap.Bool("ok", ok),
		zap.Int64("duration_ms", durMs),
	)
}

func (LogMetricsRecorder) ObserveRun(ctx context.Context, languageID string, class string, durMs int64) {
	logger.Debug(ctx, "run step finished",
		zap.String("language", languageID),
		zap.String("class", class),
		zap.Int64("duration_ms", durMs),
	)
}
