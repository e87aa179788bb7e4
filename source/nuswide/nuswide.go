// Package nuswide loads NUS-WIDE.
//
// All files are positional: row i of the image list, the tag list and every
// concept label file describe the same image, and i is its key. Only the
// first Concepts concepts of the sorted concept list are used; images with
// no positive label among them are dropped.
package nuswide

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/hupe1980/mmprep/annotation"
	"github.com/hupe1980/mmprep/dataset"
	"github.com/hupe1980/mmprep/label"
	"github.com/hupe1980/mmprep/mapping"
	"github.com/hupe1980/mmprep/source"
)

// ErrRowMismatch is returned when the positional files disagree on the
// number of images.
var ErrRowMismatch = errors.New("nuswide: row counts differ")

// DefaultConcepts is the number of concepts used by default.
const DefaultConcepts = 21

// EmptyCaption replaces captions with no tags.
const EmptyCaption = "123456"

// Config configures the NUS-WIDE loader.
type Config struct {
	// Concepts is the number of leading concepts of the concept list used
	// as categories.
	Concepts int
	// ImagePrefix is prepended to every image list entry.
	ImagePrefix string
}

// DefaultConfig returns the 21-concept configuration.
func DefaultConfig() Config {
	return Config{
		Concepts:    DefaultConcepts,
		ImagePrefix: "images/Flickr",
	}
}

// Source is the NUS-WIDE loader.
type Source struct {
	cfg Config
}

// New returns a NUS-WIDE loader.
func New(cfg Config) *Source {
	return &Source{cfg: cfg}
}

// Name implements source.Loader.
func (s *Source) Name() string { return "nuswide" }

// RecordName implements source.Loader.
func (s *Source) RecordName() string { return "nuswide.mmr" }

// Load implements source.Loader.
func (s *Source) Load(ctx context.Context, root string, env source.Env) (*dataset.Dataset, error) {
	log := env.Log()
	events := env.Events()

	paths, err := s.loadPaths(ctx, root, env)
	if err != nil {
		return nil, err
	}
	captions, err := loadCaptions(ctx, root, env)
	if err != nil {
		return nil, err
	}
	if len(captions) != len(paths) {
		return nil, fmt.Errorf("%w: %d images, %d tag rows", ErrRowMismatch, len(paths), len(captions))
	}

	concepts, err := s.loadConcepts(root)
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "concepts selected", "concepts", strings.Join(concepts, ","))

	labels, err := loadLabels(ctx, root, concepts, len(paths), env)
	if err != nil {
		return nil, err
	}

	index, err := label.NewIndex(concepts)
	if err != nil {
		return nil, err
	}
	vectors, err := label.NewEncoder(index).EncodeAll(labels)
	if err != nil {
		return nil, err
	}

	keys := label.Positive(vectors)
	dropped := len(paths) - int(keys.GetCardinality())
	log.InfoContext(ctx, "images without selected concepts dropped",
		"before", len(paths),
		"after", keys.GetCardinality(),
	)
	events.Filtered(ctx, "no-concept", dropped)

	if env.CheckFiles {
		kept, err := source.FilterExisting(ctx, env, root, keys, func(k mapping.Key) string {
			return paths[k]
		})
		if err != nil {
			return nil, err
		}
		keys = kept
	}

	return dataset.Assemble(keys, concepts, func(k mapping.Key) (dataset.Row, error) {
		return dataset.Row{
			Path:     paths[k],
			Captions: []string{captions[k]},
			Labels:   vectors[k],
		}, nil
	})
}

func (s *Source) loadPaths(ctx context.Context, root string, env source.Env) ([]string, error) {
	file := filepath.Join(root, "ImageList", "Imagelist.txt")
	lines, err := annotation.LoadLines(file)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(lines))
	for i, l := range lines {
		rel := strings.ReplaceAll(strings.TrimSpace(l), `\`, "/")
		paths[i] = path.Join(s.cfg.ImagePrefix, rel)
	}
	env.Events().Loaded(ctx, file, len(paths))
	return paths, nil
}

// loadCaptions parses All_Tags.txt. Empty lines are skipped; the first token
// of a line is the Flickr id and is dropped.
func loadCaptions(ctx context.Context, root string, env source.Env) ([]string, error) {
	file := filepath.Join(root, "NUS_WID_Tags", "All_Tags.txt")
	lines, err := annotation.LoadLines(file)
	if err != nil {
		return nil, err
	}

	captions := make([]string, 0, len(lines))
	for i, l := range lines {
		fields := strings.Fields(l)
		if len(fields) == 0 {
			env.Log().WarnContext(ctx, "empty tag line skipped", "file", file, "line", i+1)
			continue
		}
		caption := strings.Join(fields[1:], " ")
		if caption == "" {
			caption = EmptyCaption
		}
		captions = append(captions, caption)
	}
	env.Events().Loaded(ctx, file, len(captions))
	return captions, nil
}

func (s *Source) loadConcepts(root string) ([]string, error) {
	file := filepath.Join(root, "ConceptsList", "Concepts81_sort.txt")
	lines, err := annotation.LoadLines(file)
	if err != nil {
		return nil, err
	}

	n := s.cfg.Concepts
	if n <= 0 {
		n = DefaultConcepts
	}
	if len(lines) < n {
		return nil, fmt.Errorf("nuswide: %s lists %d concepts, need %d", file, len(lines), n)
	}

	concepts := make([]string, n)
	for i := range concepts {
		concepts[i] = strings.TrimSpace(lines[i])
	}
	return concepts, nil
}

// loadLabels reads one 0/1 row per image for every concept.
func loadLabels(ctx context.Context, root string, concepts []string, rows int, env source.Env) (*mapping.Multi[string], error) {
	labels := mapping.New[string]()
	progress := annotation.NewProgress(env.Log(), "reading concept labels", len(concepts), source.ProgressInterval)

	for ci, concept := range concepts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		file := filepath.Join(root, "Groundtruth", "AllLabels", "Labels_"+concept+".txt")
		lines, err := annotation.LoadLines(file)
		if err != nil {
			return nil, err
		}
		if len(lines) != rows {
			return nil, fmt.Errorf("%w: %s has %d rows, want %d", ErrRowMismatch, file, len(lines), rows)
		}

		positive := 0
		for i, l := range lines {
			if strings.TrimSpace(l) == "1" {
				labels.Append(mapping.Key(i), concept)
				positive++
			}
		}
		env.Events().Loaded(ctx, file, positive)
		progress.Step(ctx, ci+1)
	}
	return labels, nil
}
