// Package source defines the contract between dataset loaders and the
// converter. Each subpackage turns one raw dataset layout into an aligned
// dataset.Dataset.
package source

import (
	"context"
	"log/slog"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/mmprep/align"
	"github.com/hupe1980/mmprep/annotation"
	"github.com/hupe1980/mmprep/dataset"
	"github.com/hupe1980/mmprep/mapping"
)

// Loader converts one raw dataset.
type Loader interface {
	// Name is the source name used on the command line.
	Name() string
	// RecordName is the default record file name.
	RecordName() string
	// Load reads the dataset rooted at root.
	Load(ctx context.Context, root string, env Env) (*dataset.Dataset, error)
}

// Observer receives pipeline events from loaders.
type Observer interface {
	// Loaded reports that file produced n entries.
	Loaded(ctx context.Context, file string, n int)
	// Joined reports the outcome of a key intersection.
	Joined(ctx context.Context, name string, res align.Result)
	// MissingFile reports an image file that does not exist.
	MissingFile(ctx context.Context, path string)
	// Filtered reports keys dropped for reason.
	Filtered(ctx context.Context, reason string, dropped int)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) Loaded(context.Context, string, int)          {}
func (NopObserver) Joined(context.Context, string, align.Result) {}
func (NopObserver) MissingFile(context.Context, string)          {}
func (NopObserver) Filtered(context.Context, string, int)        {}

// Env carries the ambient dependencies of a Load call.
type Env struct {
	Logger   *slog.Logger
	Observer Observer
	// CheckFiles drops keys whose image file is missing under the root.
	CheckFiles bool
}

// Log returns the logger, or a discarding one.
func (e Env) Log() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

// Events returns the observer, or a NopObserver.
func (e Env) Events() Observer {
	if e.Observer == nil {
		return NopObserver{}
	}
	return e.Observer
}

// ProgressInterval spaces the progress logs of long loops.
const ProgressInterval = 2 * time.Second

// FilterExisting returns the keys whose image file exists under root. Each
// missing file is logged as a warning and reported to the observer.
func FilterExisting(ctx context.Context, env Env, root string, keys *roaring.Bitmap, path func(mapping.Key) string) (*roaring.Bitmap, error) {
	log := env.Log()
	events := env.Events()

	total := int(keys.GetCardinality())
	progress := annotation.NewProgress(log, "checking image files", total, ProgressInterval)

	kept := roaring.New()
	done := 0
	it := keys.Iterator()
	for it.HasNext() {
		if done%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		k := it.Next()
		p := path(k)
		if annotation.Exists(root, p) {
			kept.Add(k)
		} else {
			log.WarnContext(ctx, "image file missing", "key", k, "path", p)
			events.MissingFile(ctx, p)
		}

		done++
		progress.Step(ctx, done)
	}
	return kept, nil
}
