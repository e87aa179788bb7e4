package mmprep

import (
	"fmt"
	"slices"

	"github.com/hupe1980/mmprep/source"
	"github.com/hupe1980/mmprep/source/coco"
	"github.com/hupe1980/mmprep/source/mirflickr"
	"github.com/hupe1980/mmprep/source/nuswide"
)

// SourceConfig holds the configuration of every built-in loader.
type SourceConfig struct {
	COCO      coco.Config
	MIRFlickr mirflickr.Config
	NUSWIDE   nuswide.Config
}

// DefaultSourceConfig returns the default configuration of every loader.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		COCO:      coco.DefaultConfig(),
		MIRFlickr: mirflickr.DefaultConfig(),
		NUSWIDE:   nuswide.DefaultConfig(),
	}
}

var loaders = map[string]func(SourceConfig) source.Loader{
	"coco":      func(c SourceConfig) source.Loader { return coco.New(c.COCO) },
	"mirflickr": func(c SourceConfig) source.Loader { return mirflickr.New(c.MIRFlickr) },
	"nuswide":   func(c SourceConfig) source.Loader { return nuswide.New(c.NUSWIDE) },
}

// NewSource returns the loader registered under name.
func NewSource(name string, cfg SourceConfig) (source.Loader, error) {
	fn, ok := loaders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
	return fn(cfg), nil
}

// SourceNames returns the registered loader names in sorted order.
func SourceNames() []string {
	names := make([]string, 0, len(loaders))
	for name := range loaders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
