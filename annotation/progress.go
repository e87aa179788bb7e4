package annotation

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Progress logs the advance of a long loop at most once per interval.
type Progress struct {
	logger    *slog.Logger
	msg       string
	total     int
	sometimes rate.Sometimes
}

// NewProgress returns a Progress logging msg at debug level. A nil logger
// disables it.
func NewProgress(logger *slog.Logger, msg string, total int, interval time.Duration) *Progress {
	return &Progress{
		logger:    logger,
		msg:       msg,
		total:     total,
		sometimes: rate.Sometimes{Interval: interval},
	}
}

// Step reports that done items are finished.
func (p *Progress) Step(ctx context.Context, done int) {
	if p.logger == nil {
		return
	}
	p.sometimes.Do(func() {
		p.logger.DebugContext(ctx, p.msg, "done", done, "total", p.total)
	})
}
