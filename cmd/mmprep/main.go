// Command mmprep converts raw image datasets into aligned training records
// and inspects or compares existing records.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hupe1980/mmprep"
	"github.com/hupe1980/mmprep/codec"
	"github.com/hupe1980/mmprep/dataset"
	"github.com/hupe1980/mmprep/persistence"
	"github.com/hupe1980/mmprep/source/nuswide"
)

var (
	errUsage   = errors.New("usage")
	errDiffers = errors.New("records differ")
)

const usage = `usage:
  mmprep [flags] convert <%s> <source-dir> <output-dir>
  mmprep [flags] inspect <record>
  mmprep [flags] compare <record-a> <record-b>

Output directories and records may be local paths, s3://bucket/prefix or
minio://endpoint/bucket/prefix.

flags:
`

type cli struct {
	codec       string
	compression string
	logLevel    string
	logFormat   string
	checkFiles  bool
	splits      string
	year        int
	concepts    int

	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "mmprep:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	c := &cli{stdout: stdout, stderr: stderr, getenv: getenv}

	fs := flag.NewFlagSet("mmprep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&c.codec, "codec", codec.Default.Name(), "record payload codec ("+strings.Join(codec.Names(), "|")+")")
	fs.StringVar(&c.compression, "compression", "none", "record block compression (none|lz4|zstd)")
	fs.StringVar(&c.logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	fs.StringVar(&c.logFormat, "log-format", "text", "log format (text|json)")
	fs.BoolVar(&c.checkFiles, "check-files", false, "drop images whose file is missing under the source dir")
	fs.StringVar(&c.splits, "splits", "train,val", "comma-separated COCO splits, concatenated in order")
	fs.IntVar(&c.year, "year", 2017, "COCO annotation year")
	fs.IntVar(&c.concepts, "concepts", nuswide.DefaultConcepts, "number of leading NUS-WIDE concepts used as classes")
	fs.Usage = func() {
		fmt.Fprintf(stderr, usage, strings.Join(mmprep.SourceNames(), "|"))
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errUsage
	}

	switch cmd, rest := rest[0], rest[1:]; cmd {
	case "convert":
		if len(rest) != 3 {
			fs.Usage()
			return errUsage
		}
		return c.convert(ctx, rest[0], rest[1], rest[2])
	case "inspect":
		if len(rest) != 1 {
			fs.Usage()
			return errUsage
		}
		return c.inspect(ctx, rest[0])
	case "compare":
		if len(rest) != 2 {
			fs.Usage()
			return errUsage
		}
		return c.compare(ctx, rest[0], rest[1])
	default:
		fmt.Fprintf(stderr, "mmprep: unknown command %q\n", cmd)
		fs.Usage()
		return errUsage
	}
}

func (c *cli) logger() (*mmprep.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid -log-level %q", c.logLevel)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch c.logFormat {
	case "text":
		return mmprep.NewLogger(slog.NewTextHandler(c.stderr, opts)), nil
	case "json":
		return mmprep.NewLogger(slog.NewJSONHandler(c.stderr, opts)), nil
	}
	return nil, fmt.Errorf("invalid -log-format %q", c.logFormat)
}

func (c *cli) converter() (*mmprep.Converter, error) {
	logger, err := c.logger()
	if err != nil {
		return nil, err
	}

	cd, ok := codec.ByName(c.codec)
	if !ok {
		return nil, fmt.Errorf("invalid -codec %q (want one of %s)", c.codec, strings.Join(codec.Names(), ", "))
	}
	comp, err := persistence.ParseCompression(c.compression)
	if err != nil {
		return nil, err
	}

	return mmprep.NewConverter(
		mmprep.WithLogger(logger),
		mmprep.WithCodec(cd),
		mmprep.WithCompression(comp),
		mmprep.WithFileCheck(c.checkFiles),
	), nil
}

func (c *cli) sourceConfig() mmprep.SourceConfig {
	cfg := mmprep.DefaultSourceConfig()
	cfg.COCO.Year = c.year
	cfg.COCO.Splits = nil
	for _, s := range strings.Split(c.splits, ",") {
		if s = strings.TrimSpace(s); s != "" {
			cfg.COCO.Splits = append(cfg.COCO.Splits, s)
		}
	}
	cfg.NUSWIDE.Concepts = c.concepts
	return cfg
}

func (c *cli) convert(ctx context.Context, name, srcDir, outDir string) error {
	conv, err := c.converter()
	if err != nil {
		return err
	}
	src, err := mmprep.NewSource(name, c.sourceConfig())
	if err != nil {
		return err
	}

	loc, err := parseLocation(outDir)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, loc, c.getenv)
	if err != nil {
		return fmt.Errorf("open %s: %w", loc, err)
	}

	d, err := conv.Run(ctx, src, srcDir, store)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "%s: %d images, %d classes -> %s\n",
		src.RecordName(), d.Len(), d.NumClasses(), loc)
	return nil
}

func (c *cli) load(ctx context.Context, conv *mmprep.Converter, raw string) (*dataset.Dataset, persistence.Header, error) {
	loc, name, err := splitRecord(raw)
	if err != nil {
		return nil, persistence.Header{}, err
	}
	store, err := openStore(ctx, loc, c.getenv)
	if err != nil {
		return nil, persistence.Header{}, fmt.Errorf("open %s: %w", loc, err)
	}
	return conv.Load(ctx, store, name)
}

func (c *cli) inspect(ctx context.Context, raw string) error {
	conv, err := c.converter()
	if err != nil {
		return err
	}
	d, h, err := c.load(ctx, conv, raw)
	if err != nil {
		return err
	}

	s := d.Stats()
	fmt.Fprintf(c.stdout, "record:      %s\n", raw)
	fmt.Fprintf(c.stdout, "version:     %d\n", h.Version)
	fmt.Fprintf(c.stdout, "codec:       %s\n", h.Codec)
	fmt.Fprintf(c.stdout, "compression: %s\n", h.Compression)
	fmt.Fprintf(c.stdout, "images:      %d\n", s.Images)
	fmt.Fprintf(c.stdout, "captions:    %d\n", s.Captions)
	fmt.Fprintf(c.stdout, "classes:     %d\n", s.Classes)
	fmt.Fprintf(c.stdout, "labels:      %d\n", s.Labels)
	for i, n := range s.Positives {
		fmt.Fprintf(c.stdout, "  class %3d: %d images\n", i, n)
	}
	return nil
}

func (c *cli) compare(ctx context.Context, rawA, rawB string) error {
	conv, err := c.converter()
	if err != nil {
		return err
	}
	a, _, err := c.load(ctx, conv, rawA)
	if err != nil {
		return err
	}
	b, _, err := c.load(ctx, conv, rawB)
	if err != nil {
		return err
	}

	if err := dataset.Equal(a, b); err != nil {
		fmt.Fprintln(c.stdout, err)
		return fmt.Errorf("%w: %s and %s", errDiffers, rawA, rawB)
	}
	fmt.Fprintf(c.stdout, "identical: %d images\n", a.Len())
	return nil
}
