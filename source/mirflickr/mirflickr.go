// Package mirflickr loads MIRFlickr-25K.
//
// Labels come from one file of image ids per category; an image is kept iff
// at least one category lists it. Captions are the image's tags joined by
// spaces.
package mirflickr

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/mmprep/align"
	"github.com/hupe1980/mmprep/annotation"
	"github.com/hupe1980/mmprep/dataset"
	"github.com/hupe1980/mmprep/label"
	"github.com/hupe1980/mmprep/mapping"
	"github.com/hupe1980/mmprep/source"
)

// ErrMissingCaption is returned when a labeled image has no tag file.
var ErrMissingCaption = errors.New("mirflickr: labeled image has no tags")

const (
	annotationDir = "mirflickr25k_annotations_v080"
	tagDir        = "mirflickr/meta/tags"
	imagePrefix   = "mirflickr/im"
)

// Config configures the MIRFlickr loader.
type Config struct {
	// Exclude lists substrings of annotation file names that are not
	// categories.
	Exclude []string
	// Images is the number of images in the collection, used for the
	// unlabeled-image report.
	Images int
}

// DefaultConfig returns the MIRFlickr-25K configuration.
func DefaultConfig() Config {
	return Config{
		Exclude: []string{"_r1", "README"},
		Images:  25000,
	}
}

// Source is the MIRFlickr loader.
type Source struct {
	cfg Config
}

// New returns a MIRFlickr loader.
func New(cfg Config) *Source {
	return &Source{cfg: cfg}
}

// Name implements source.Loader.
func (s *Source) Name() string { return "mirflickr" }

// RecordName implements source.Loader.
func (s *Source) RecordName() string { return "flickr25k.mmr" }

// ImagePath returns the relative image path of id.
func ImagePath(id mapping.Key) string {
	return imagePrefix + strconv.FormatUint(uint64(id), 10) + ".jpg"
}

// Load implements source.Loader.
func (s *Source) Load(ctx context.Context, root string, env source.Env) (*dataset.Dataset, error) {
	log := env.Log()
	events := env.Events()

	classes, err := s.categories(root)
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "categories found", "classes", len(classes))

	labels, err := s.loadLabels(ctx, root, classes, env)
	if err != nil {
		return nil, err
	}

	index, err := label.NewIndex(classes)
	if err != nil {
		return nil, err
	}
	vectors, err := label.NewEncoder(index).EncodeAll(labels)
	if err != nil {
		return nil, err
	}
	keys := label.Positive(vectors)

	if s.cfg.Images > 0 {
		all := roaring.New()
		all.AddRange(1, uint64(s.cfg.Images)+1)
		unlabeled := align.Subtract(all, keys)
		if n := unlabeled.GetCardinality(); n > 0 {
			log.InfoContext(ctx, "images without labels", "count", n, "first", unlabeled.Minimum())
			events.Filtered(ctx, "unlabeled", int(n))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if env.CheckFiles {
		kept, err := source.FilterExisting(ctx, env, root, keys, ImagePath)
		if err != nil {
			return nil, err
		}
		keys = kept
	}

	captions, err := s.loadCaptions(ctx, root, keys, env)
	if err != nil {
		return nil, err
	}

	return dataset.Assemble(keys, classes, func(k mapping.Key) (dataset.Row, error) {
		caption, ok := captions[k]
		if !ok {
			return dataset.Row{}, fmt.Errorf("%w: image %d", ErrMissingCaption, k)
		}
		return dataset.Row{
			Path:     ImagePath(k),
			Captions: []string{caption},
			Labels:   vectors[k],
		}, nil
	})
}

// categories lists the category files in sorted order.
func (s *Source) categories(root string) ([]string, error) {
	names, err := annotation.ListFiles(filepath.Join(root, annotationDir))
	if err != nil {
		return nil, err
	}

	classes := names[:0]
	for _, name := range names {
		if !s.excluded(name) {
			classes = append(classes, name)
		}
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("mirflickr: no category files in %s", filepath.Join(root, annotationDir))
	}
	return classes, nil
}

func (s *Source) excluded(name string) bool {
	for _, sub := range s.cfg.Exclude {
		if strings.Contains(name, sub) {
			return true
		}
	}
	return false
}

// loadLabels builds image id → category file names.
func (s *Source) loadLabels(ctx context.Context, root string, classes []string, env source.Env) (*mapping.Multi[string], error) {
	labels := mapping.New[string]()
	for _, class := range classes {
		path := filepath.Join(root, annotationDir, class)
		lines, err := annotation.LoadLines(path)
		if err != nil {
			return nil, err
		}

		n := 0
		for i, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			id, err := mapping.ParseKeyString(line)
			if err != nil {
				return nil, fmt.Errorf("mirflickr: %s line %d: %w", path, i+1, err)
			}
			labels.Append(id, class)
			n++
		}
		env.Events().Loaded(ctx, path, n)
	}

	env.Log().InfoContext(ctx, "labels loaded", "images", labels.Len())
	return labels, nil
}

// loadCaptions reads the tag files of keys.
func (s *Source) loadCaptions(ctx context.Context, root string, keys *roaring.Bitmap, env source.Env) (map[mapping.Key]string, error) {
	captions := make(map[mapping.Key]string, keys.GetCardinality())
	progress := annotation.NewProgress(env.Log(), "reading tags", int(keys.GetCardinality()), source.ProgressInterval)

	it := keys.Iterator()
	for it.HasNext() {
		k := it.Next()
		if len(captions)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		path := filepath.Join(root, filepath.FromSlash(tagDir), "tags"+strconv.FormatUint(uint64(k), 10)+".txt")
		lines, err := annotation.LoadLines(path)
		if err != nil {
			return nil, fmt.Errorf("%w: image %d: %w", ErrMissingCaption, k, err)
		}
		captions[k] = joinTags(lines)
		progress.Step(ctx, len(captions))
	}

	env.Events().Loaded(ctx, filepath.Join(root, filepath.FromSlash(tagDir)), len(captions))
	return captions, nil
}

func joinTags(lines []string) string {
	tags := make([]string, 0, len(lines))
	for _, l := range lines {
		tags = append(tags, strings.TrimSpace(l))
	}
	return strings.TrimSpace(strings.Join(tags, " "))
}
