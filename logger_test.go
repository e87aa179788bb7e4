package mmprep

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/mmprep/align"
	"github.com/stretchr/testify/assert"
)

func bufferLogger(level slog.Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})), &buf
}

func TestLogger_LogJoin(t *testing.T) {
	logger, buf := bufferLogger(slog.LevelInfo)

	res := align.Intersect(
		align.Source{Name: "images", Keys: roaring.BitmapOf(1, 2, 3)},
		align.Source{Name: "captions", Keys: roaring.BitmapOf(1, 2)},
	)
	logger.LogJoin(context.Background(), "coco/val", res)

	out := buf.String()
	assert.Contains(t, out, "msg=\"keys joined\" join=coco/val kept=2")
	assert.Contains(t, out, "input=images keys=3 dropped=1")
	assert.NotContains(t, out, "input=captions")
}

func TestLogger_LogSave(t *testing.T) {
	logger, buf := bufferLogger(slog.LevelInfo)
	ctx := context.Background()

	logger.LogSave(ctx, "a.mmr", 42, nil)
	logger.LogSave(ctx, "b.mmr", 0, errors.New("disk full"))

	out := buf.String()
	assert.Contains(t, out, "record=a.mmr bytes=42")
	assert.Contains(t, out, "level=ERROR msg=\"record save failed\" record=b.mmr error=\"disk full\"")
}

func TestLogger_LogFilterSkipsZero(t *testing.T) {
	logger, buf := bufferLogger(slog.LevelDebug)
	logger.LogFilter(context.Background(), "unlabeled", 0)
	assert.Empty(t, buf.String())
}

func TestLogger_WithSource(t *testing.T) {
	logger, buf := bufferLogger(slog.LevelDebug)
	logger.WithSource("nuswide").LogLoad(context.Background(), "tags.txt", 3)
	assert.Contains(t, buf.String(), "source=nuswide file=tags.txt entries=3")
}

func TestNoopLogger(t *testing.T) {
	logger := NoopLogger()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}
