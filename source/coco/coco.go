// Package coco loads the COCO captions and instances annotations.
//
// Per split, three keyed sources are joined on the image id: the caption
// file's image list, its captions, and the instances file's category
// annotations. Splits are concatenated in configuration order.
package coco

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/mmprep/align"
	"github.com/hupe1980/mmprep/annotation"
	"github.com/hupe1980/mmprep/dataset"
	"github.com/hupe1980/mmprep/label"
	"github.com/hupe1980/mmprep/mapping"
	"github.com/hupe1980/mmprep/source"
)

// ErrCrossCheck is returned when the instances file's image list disagrees
// with the caption file's image list for a joined key.
var ErrCrossCheck = errors.New("coco: image lists disagree")

// Config configures the COCO loader.
type Config struct {
	// Year is the annotation release, e.g. 2014 or 2017.
	Year int
	// Splits are loaded and concatenated in order.
	Splits []string
}

// DefaultConfig returns the COCO 2017 train+val configuration.
func DefaultConfig() Config {
	return Config{
		Year:   2017,
		Splits: []string{"train", "val"},
	}
}

// Source is the COCO loader.
type Source struct {
	cfg Config
}

// New returns a COCO loader.
func New(cfg Config) *Source {
	return &Source{cfg: cfg}
}

// Name implements source.Loader.
func (s *Source) Name() string { return "coco" }

// RecordName implements source.Loader.
func (s *Source) RecordName() string {
	return "coco" + strconv.Itoa(s.cfg.Year) + ".mmr"
}

// Load implements source.Loader.
func (s *Source) Load(ctx context.Context, root string, env source.Env) (*dataset.Dataset, error) {
	if len(s.cfg.Splits) == 0 {
		return nil, errors.New("coco: no splits configured")
	}

	out := &dataset.Dataset{}
	for _, split := range s.cfg.Splits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		d, err := s.loadSplit(ctx, root, split, env)
		if err != nil {
			return nil, fmt.Errorf("coco: split %s: %w", split, err)
		}

		env.Log().InfoContext(ctx, "split converted",
			"split", split,
			"images", d.Len(),
			"classes", d.NumClasses(),
		)
		if err := out.Append(d); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// split holds the keyed sources of one split.
type split struct {
	prefix     string
	images     *mapping.Multi[string]
	captions   *mapping.Multi[string]
	categories *mapping.Multi[mapping.Key]
	instImages *mapping.Multi[string]
	index      *label.Index[mapping.Key]
	names      []string
}

func (s *Source) loadSplit(ctx context.Context, root, name string, env source.Env) (*dataset.Dataset, error) {
	sp, err := s.read(ctx, root, name, env)
	if err != nil {
		return nil, err
	}

	images := sp.images
	if env.CheckFiles {
		kept, err := source.FilterExisting(ctx, env, root, images.Keys(), func(k mapping.Key) string {
			vs, _ := images.Get(k)
			return sp.prefix + vs[0]
		})
		if err != nil {
			return nil, err
		}
		images = images.Restrict(kept)
	}

	res := align.Intersect(
		align.Source{Name: "images", Keys: images.Keys()},
		align.Source{Name: "captions", Keys: sp.captions.Keys()},
		align.Source{Name: "categories", Keys: sp.categories.Keys()},
	)
	env.Events().Joined(ctx, "coco/"+name, res)

	common := res.Common
	images = images.Restrict(common)
	captions := sp.captions.Restrict(common)
	categories := sp.categories.Restrict(common)

	if err := crossCheck(common, images, sp.instImages); err != nil {
		return nil, err
	}

	vectors, err := label.NewEncoder(sp.index).EncodeAll(categories)
	if err != nil {
		return nil, err
	}

	return dataset.Assemble(common, sp.names, func(k mapping.Key) (dataset.Row, error) {
		files, _ := images.Get(k)
		caps, _ := captions.Get(k)
		return dataset.Row{
			Path:     sp.prefix + files[0],
			Captions: caps,
			Labels:   vectors[k],
		}, nil
	})
}

func (s *Source) read(ctx context.Context, root, name string, env source.Env) (*split, error) {
	tag := name + strconv.Itoa(s.cfg.Year)
	events := env.Events()

	capPath := filepath.Join(root, "annotations", "captions_"+tag+".json")
	capDoc, err := annotation.LoadJSON(capPath)
	if err != nil {
		return nil, err
	}
	images, err := build(capDoc, "images", "id", "file_name", mapping.String)
	if err != nil {
		return nil, err
	}
	captions, err := build(capDoc, "annotations", "image_id", "caption", mapping.String)
	if err != nil {
		return nil, err
	}
	events.Loaded(ctx, capPath, captions.Total())

	instPath := filepath.Join(root, "annotations", "instances_"+tag+".json")
	instDoc, err := annotation.LoadJSON(instPath)
	if err != nil {
		return nil, err
	}
	categories, err := build(instDoc, "annotations", "image_id", "category_id", mapping.ParseKey)
	if err != nil {
		return nil, err
	}
	instImages, err := build(instDoc, "images", "id", "file_name", mapping.String)
	if err != nil {
		return nil, err
	}
	index, names, err := categoryIndex(instDoc)
	if err != nil {
		return nil, err
	}
	events.Loaded(ctx, instPath, categories.Total())

	env.Log().DebugContext(ctx, "split loaded",
		"split", name,
		"images", images.Len(),
		"captioned", captions.Len(),
		"annotated", categories.Len(),
		"classes", index.Len(),
	)

	return &split{
		prefix:     tag + "/",
		images:     images,
		captions:   captions,
		categories: categories,
		instImages: instImages,
		index:      index,
		names:      names,
	}, nil
}

func build[V any](doc *annotation.Document, section, keyField, valueField string, value func(any) (V, error)) (*mapping.Multi[V], error) {
	records, err := doc.Records(section)
	if err != nil {
		return nil, err
	}
	m, err := mapping.Build(records, keyField, valueField, mapping.ParseKey, value)
	if err != nil {
		return nil, fmt.Errorf("%s section %s: %w", doc.Path(), section, err)
	}
	return m, nil
}

// categoryIndex builds the bijection from the "categories" list order.
func categoryIndex(doc *annotation.Document) (*label.Index[mapping.Key], []string, error) {
	records, err := doc.Records("categories")
	if err != nil {
		return nil, nil, err
	}

	ids := make([]mapping.Key, 0, len(records))
	names := make([]string, 0, len(records))
	for i, rec := range records {
		rawID, ok := rec["id"]
		if !ok {
			return nil, nil, &mapping.MissingFieldError{Field: "id", Index: i}
		}
		id, err := mapping.ParseKey(rawID)
		if err != nil {
			return nil, nil, fmt.Errorf("category %d: %w", i, err)
		}
		ids = append(ids, id)

		name, _ := mapping.String(rec["name"])
		if name == "" {
			name = strconv.FormatUint(uint64(id), 10)
		}
		names = append(names, name)
	}

	index, err := label.NewIndex(ids)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", doc.Path(), err)
	}
	return index, names, nil
}

// crossCheck verifies that the instances file names the same file for every
// joined key as the caption file does.
func crossCheck(keys *roaring.Bitmap, images, instImages *mapping.Multi[string]) error {
	it := keys.Iterator()
	for it.HasNext() {
		k := it.Next()
		want, _ := images.Get(k)
		got, ok := instImages.Get(k)
		if !ok {
			return fmt.Errorf("%w: image %d missing from instances", ErrCrossCheck, k)
		}
		if got[0] != want[0] {
			return fmt.Errorf("%w: image %d is %q in captions, %q in instances", ErrCrossCheck, k, want[0], got[0])
		}
	}
	return nil
}
