package mmprep

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/hupe1980/mmprep/align"
	"github.com/hupe1980/mmprep/blobstore"
	"github.com/hupe1980/mmprep/dataset"
	"github.com/hupe1980/mmprep/persistence"
	"github.com/hupe1980/mmprep/source"
)

// Converter runs loaders and persists their output as records.
type Converter struct {
	opts options
}

// NewConverter returns a Converter configured by optFns.
func NewConverter(optFns ...Option) *Converter {
	return &Converter{opts: applyOptions(optFns)}
}

// Logger returns the configured logger.
func (c *Converter) Logger() *Logger {
	return c.opts.logger
}

// Convert loads the raw dataset rooted at root with loader. The result is
// validated; a conversion that keeps no image fails with ErrEmptyDataset.
func (c *Converter) Convert(ctx context.Context, loader source.Loader, root string) (*dataset.Dataset, error) {
	start := time.Now()
	logger := c.opts.logger.WithSource(loader.Name())

	d, err := c.convert(ctx, logger, loader, root)

	images := 0
	if d != nil {
		images = d.Len()
	}
	logger.LogConvert(ctx, loader.Name(), images, err)
	c.opts.metricsCollector.RecordConvert(loader.Name(), images, time.Since(start), err)

	if err != nil {
		return nil, err
	}
	c.logStats(ctx, logger, d)
	return d, nil
}

func (c *Converter) convert(ctx context.Context, logger *Logger, loader source.Loader, root string) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	env := source.Env{
		Logger:     logger.Logger,
		Observer:   &observer{logger: logger, metrics: c.opts.metricsCollector},
		CheckFiles: c.opts.checkFiles,
	}

	d, err := loader.Load(ctx, root, env)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &ErrConvert{Source: loader.Name(), Root: root, cause: err}
	}
	if err := d.Validate(); err != nil {
		return nil, &ErrConvert{Source: loader.Name(), Root: root, cause: err}
	}
	if d.Len() == 0 {
		return nil, &ErrConvert{Source: loader.Name(), Root: root, cause: ErrEmptyDataset}
	}
	return d, nil
}

func (c *Converter) logStats(ctx context.Context, logger *Logger, d *dataset.Dataset) {
	s := d.Stats()
	logger.InfoContext(ctx, "dataset summary",
		"images", s.Images,
		"captions", s.Captions,
		"classes", s.Classes,
		"labels", s.Labels,
	)
	for i, n := range s.Positives {
		name := ""
		if i < len(d.Classes) {
			name = d.Classes[i]
		}
		logger.DebugContext(ctx, "class summary", "class", i, "name", name, "images", n)
	}
}

// Save writes d as a record named name into store. Nothing is published
// under name when the write fails.
func (c *Converter) Save(ctx context.Context, store blobstore.BlobStore, name string, d *dataset.Dataset) error {
	start := time.Now()

	var written int64
	err := blobstore.Write(ctx, store, name, func(w io.Writer) error {
		cw := &countingWriter{w: w}
		err := persistence.Encode(cw, d, c.opts.codec, c.opts.compression)
		written = cw.n
		return err
	})
	if err != nil {
		err = &ErrRecord{Op: "save", Name: name, cause: err}
	}

	c.opts.logger.LogSave(ctx, name, written, err)
	c.opts.metricsCollector.RecordSave(written, time.Since(start), err)
	return err
}

// Load reads the record named name from store.
func (c *Converter) Load(ctx context.Context, store blobstore.BlobStore, name string) (*dataset.Dataset, persistence.Header, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, persistence.Header{}, &ErrRecord{Op: "load", Name: name, cause: err}
	}

	d, h, err := persistence.Unmarshal(data)
	if err != nil {
		return nil, persistence.Header{}, &ErrRecord{Op: "load", Name: name, cause: err}
	}

	c.opts.logger.DebugContext(ctx, "record loaded",
		"record", name,
		"codec", h.Codec,
		"compression", h.Compression.String(),
		"images", d.Len(),
	)
	return d, h, nil
}

// Run converts root with loader and saves the result into store under the
// loader's record name.
func (c *Converter) Run(ctx context.Context, loader source.Loader, root string, store blobstore.BlobStore) (*dataset.Dataset, error) {
	d, err := c.Convert(ctx, loader, root)
	if err != nil {
		return nil, err
	}
	if err := c.Save(ctx, store, loader.RecordName(), d); err != nil {
		return nil, err
	}
	return d, nil
}

// observer forwards loader events to the logger and the metrics collector.
type observer struct {
	logger  *Logger
	metrics MetricsCollector
}

func (o *observer) Loaded(ctx context.Context, file string, n int) {
	o.logger.LogLoad(ctx, file, n)
	o.metrics.RecordLoad(file, n)
}

func (o *observer) Joined(ctx context.Context, name string, res align.Result) {
	o.logger.LogJoin(ctx, name, res)

	var dropped uint64
	for _, s := range res.Sources {
		dropped += s.Dropped
	}
	o.metrics.RecordJoin(name, res.Len(), int(dropped))
}

func (o *observer) MissingFile(ctx context.Context, path string) {
	o.logger.LogMissingFile(ctx, path)
	o.metrics.RecordMissingFile(path)
}

func (o *observer) Filtered(ctx context.Context, reason string, dropped int) {
	o.logger.LogFilter(ctx, reason, dropped)
	o.metrics.RecordFilter(reason, dropped)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
