package source

import (
	"context"
	"strconv"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/mmprep/mapping"
	"github.com/hupe1980/mmprep/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type missingRecorder struct {
	NopObserver
	paths []string
}

func (m *missingRecorder) MissingFile(_ context.Context, path string) {
	m.paths = append(m.paths, path)
}

func imagePath(k mapping.Key) string {
	return "img/" + strconv.FormatUint(uint64(k), 10) + ".jpg"
}

func TestEnvDefaults(t *testing.T) {
	var env Env
	assert.NotNil(t, env.Log())
	assert.Equal(t, NopObserver{}, env.Events())

	rec := &missingRecorder{}
	env.Observer = rec
	assert.Same(t, rec, env.Events())
}

func TestFilterExisting(t *testing.T) {
	root := t.TempDir()
	testutil.TouchImages(t, root, "img/1.jpg", "img/3.jpg")
	rec := &missingRecorder{}

	kept, err := FilterExisting(context.Background(), Env{Observer: rec}, root, roaring.BitmapOf(1, 2, 3, 4), imagePath)
	require.NoError(t, err)

	assert.Equal(t, []uint32{1, 3}, kept.ToArray())
	assert.Equal(t, []string{"img/2.jpg", "img/4.jpg"}, rec.paths)
}

func TestFilterExisting_Empty(t *testing.T) {
	kept, err := FilterExisting(context.Background(), Env{}, t.TempDir(), roaring.New(), imagePath)
	require.NoError(t, err)
	assert.True(t, kept.IsEmpty())
}

func TestFilterExisting_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FilterExisting(ctx, Env{}, t.TempDir(), roaring.BitmapOf(1), imagePath)
	assert.ErrorIs(t, err, context.Canceled)
}
