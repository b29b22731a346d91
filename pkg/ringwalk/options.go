package ringwalk

import (
	"io"

	"github.com/bft-labs/ringwalk/internal/app"
	"github.com/bft-labs/ringwalk/internal/metrics"
	"github.com/bft-labs/ringwalk/pkg/log"
)

// Option configures optional behavior of Run and RunWorker.
type Option func(*options)

type options struct {
	logger     log.Logger
	handlers   []EventHandler
	reportPath string
}

func buildOptions(opts []Option) options {
	o := options{logger: log.NewNoopLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) handler() EventHandler {
	switch len(o.handlers) {
	case 0:
		return nil
	case 1:
		return o.handlers[0]
	default:
		return app.MultiHandler(o.handlers)
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEventHandler adds a handler for worker events. It may be given more
// than once; handlers are called in the order they were added.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		if handler != nil {
			o.handlers = append(o.handlers, handler)
		}
	}
}

// WithProgress prints one line per worker event to w.
func WithProgress(w io.Writer) Option {
	return WithEventHandler(app.NewProgressPrinter(w))
}

// WithMetrics records worker events in the Prometheus default registry.
func WithMetrics() Option {
	return WithEventHandler(metrics.NewCollector())
}

// WithReportFile saves the run summary as JSON at path after a successful
// run. It has no effect on RunWorker.
func WithReportFile(path string) Option {
	return func(o *options) {
		o.reportPath = path
	}
}
