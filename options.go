package mmprep

import (
	"log/slog"

	"github.com/hupe1980/mmprep/codec"
	"github.com/hupe1980/mmprep/persistence"
)

type options struct {
	codec            codec.Codec
	compression      persistence.Compression
	metricsCollector MetricsCollector
	logger           *Logger
	checkFiles       bool
}

// Option configures a Converter.
type Option func(*options)

// WithCodec configures the codec used to encode the record payload.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures the block compression of saved records.
// The default is persistence.CompressionNone.
func WithCompression(c persistence.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring conversions.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &mmprep.BasicMetricsCollector{}
//	conv := mmprep.NewConverter(mmprep.WithMetricsCollector(metrics))
//	// ... run conversions ...
//	stats := metrics.GetStats()
//	fmt.Printf("Joined: %d, dropped: %d\n", stats.JoinKept, stats.JoinDropped)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for conversions.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := mmprep.NewJSONLogger(slog.LevelInfo)
//	conv := mmprep.NewConverter(mmprep.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithFileCheck makes loaders drop keys whose image file is missing under
// the source directory.
func WithFileCheck(enabled bool) Option {
	return func(o *options) {
		o.checkFiles = enabled
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		compression:      persistence.CompressionNone,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
