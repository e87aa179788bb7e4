package mmprep

import (
	"sync"
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting conversion metrics.
// Implement this interface to integrate with monitoring systems.
type MetricsCollector interface {
	// RecordLoad is called for every annotation file read, with the number
	// of entries it produced.
	RecordLoad(file string, entries int)

	// RecordJoin is called after each key intersection. kept is the size
	// of the intersection, dropped the keys excluded over all inputs.
	RecordJoin(name string, kept, dropped int)

	// RecordMissingFile is called for each image file that does not exist.
	RecordMissingFile(path string)

	// RecordFilter is called when keys are dropped for reason.
	RecordFilter(reason string, dropped int)

	// RecordConvert is called after each conversion.
	// images is the output size, err is nil if successful.
	RecordConvert(source string, images int, duration time.Duration, err error)

	// RecordSave is called after each record write.
	RecordSave(bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(string, int)                          {}
func (NoopMetricsCollector) RecordJoin(string, int, int)                     {}
func (NoopMetricsCollector) RecordMissingFile(string)                        {}
func (NoopMetricsCollector) RecordFilter(string, int)                        {}
func (NoopMetricsCollector) RecordConvert(string, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSave(int64, time.Duration, error)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FilesLoaded       atomic.Int64
	EntriesLoaded     atomic.Int64
	JoinCount         atomic.Int64
	JoinKept          atomic.Int64
	JoinDropped       atomic.Int64
	MissingFiles      atomic.Int64
	FilteredKeys      atomic.Int64
	ConvertCount      atomic.Int64
	ConvertErrors     atomic.Int64
	ConvertImages     atomic.Int64
	ConvertTotalNanos atomic.Int64
	SaveCount         atomic.Int64
	SaveErrors        atomic.Int64
	SaveBytes         atomic.Int64

	mu       sync.Mutex
	byReason map[string]int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(file string, entries int) {
	b.FilesLoaded.Add(1)
	b.EntriesLoaded.Add(int64(entries))
}

// RecordJoin implements MetricsCollector.
func (b *BasicMetricsCollector) RecordJoin(name string, kept, dropped int) {
	b.JoinCount.Add(1)
	b.JoinKept.Add(int64(kept))
	b.JoinDropped.Add(int64(dropped))
}

// RecordMissingFile implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMissingFile(path string) {
	b.MissingFiles.Add(1)
}

// RecordFilter implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFilter(reason string, dropped int) {
	b.FilteredKeys.Add(int64(dropped))

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.byReason == nil {
		b.byReason = make(map[string]int64)
	}
	b.byReason[reason] += int64(dropped)
}

// RecordConvert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordConvert(source string, images int, duration time.Duration, err error) {
	b.ConvertCount.Add(1)
	b.ConvertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ConvertErrors.Add(1)
		return
	}
	b.ConvertImages.Add(int64(images))
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(bytes int64, duration time.Duration, err error) {
	b.SaveCount.Add(1)
	if err != nil {
		b.SaveErrors.Add(1)
		return
	}
	b.SaveBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		FilesLoaded:     b.FilesLoaded.Load(),
		EntriesLoaded:   b.EntriesLoaded.Load(),
		JoinCount:       b.JoinCount.Load(),
		JoinKept:        b.JoinKept.Load(),
		JoinDropped:     b.JoinDropped.Load(),
		MissingFiles:    b.MissingFiles.Load(),
		FilteredKeys:    b.FilteredKeys.Load(),
		ConvertCount:    b.ConvertCount.Load(),
		ConvertErrors:   b.ConvertErrors.Load(),
		ConvertImages:   b.ConvertImages.Load(),
		ConvertAvgNanos: b.getAvgConvertNanos(),
		SaveCount:       b.SaveCount.Load(),
		SaveErrors:      b.SaveErrors.Load(),
		SaveBytes:       b.SaveBytes.Load(),
		FilteredBy:      make(map[string]int64),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for k, v := range b.byReason {
		s.FilteredBy[k] = v
	}
	return s
}

func (b *BasicMetricsCollector) getAvgConvertNanos() int64 {
	count := b.ConvertCount.Load()
	if count == 0 {
		return 0
	}
	return b.ConvertTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FilesLoaded     int64
	EntriesLoaded   int64
	JoinCount       int64
	JoinKept        int64
	JoinDropped     int64
	MissingFiles    int64
	FilteredKeys    int64
	FilteredBy      map[string]int64
	ConvertCount    int64
	ConvertErrors   int64
	ConvertImages   int64
	ConvertAvgNanos int64
	SaveCount       int64
	SaveErrors      int64
	SaveBytes       int64
}
