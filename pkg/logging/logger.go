package logging

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
)

// Logger wraps slog.Logger with configuration-aware construction.
type Logger struct {
	*slog.Logger
	config Config
}

// New creates a new Logger with the given configuration.
func New(config Config) *Logger {
	return NewWithWriter(config, config.GetOutput())
}

// NewWithWriter creates a new Logger with a custom writer.
func NewWithWriter(config Config, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(config.Level),
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(&samplingHandler{Handler: handler, sampleRate: config.SampleRate}),
		config: config,
	}
}

// SetDefault sets this logger as the default slog logger.
func (l *Logger) SetDefault() {
	slog.SetDefault(l.Logger)
}

// With returns a new Logger with the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
		config: l.config,
	}
}

// WithComponent returns a new Logger with component context.
func (l *Logger) WithComponent(component string) *Logger {
	return l.With("component", component)
}

// WithOperation returns a new Logger with operation context.
func (l *Logger) WithOperation(operation string) *Logger {
	return l.With("operation", operation)
}

// Config returns the logger configuration.
func (l *Logger) Config() Config {
	return l.config
}

// samplingHandler drops a fraction of debug records when a sample rate
// below 1.0 is configured.
type samplingHandler struct {
	slog.Handler
	sampleRate float64
}

func (h *samplingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level == slog.LevelDebug && h.sampleRate < 1.0 {
		if rand.Float64() > h.sampleRate {
			return false
		}
	}
	return h.Handler.Enabled(ctx, level)
}

func (h *samplingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &samplingHandler{Handler: h.Handler.WithAttrs(attrs), sampleRate: h.sampleRate}
}

func (h *samplingHandler) WithGroup(name string) slog.Handler {
	return &samplingHandler{Handler: h.Handler.WithGroup(name), sampleRate: h.sampleRate}
}
