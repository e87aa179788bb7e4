package mirflickr

import (
	"context"
	"testing"

	"github.com/hupe1980/mmprep/label"
	"github.com/hupe1980/mmprep/source"
	"github.com/hupe1980/mmprep/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type filterRecorder struct {
	source.NopObserver
	filtered map[string]int
	missing  []string
}

func (r *filterRecorder) Filtered(_ context.Context, reason string, n int) {
	if r.filtered == nil {
		r.filtered = map[string]int{}
	}
	r.filtered[reason] += n
}

func (r *filterRecorder) MissingFile(_ context.Context, path string) {
	r.missing = append(r.missing, path)
}

func fixture(t *testing.T) string {
	root := t.TempDir()
	testutil.WriteMIRFlickr(t, root, testutil.MIRFlickr{
		Labels: map[string][]uint32{
			"sky.txt":        {3, 1},
			"animals.txt":    {1, 10},
			"animals_r1.txt": {2},
			"README.txt":     {4},
		},
		Tags: map[uint32][]string{
			1:  {"blue", "cat"},
			2:  {"unlabeled"},
			3:  {"cloud"},
			10: {},
		},
	})
	return root
}

func TestLoad(t *testing.T) {
	root := fixture(t)
	rec := &filterRecorder{}

	src := New(Config{Exclude: []string{"_r1", "README"}, Images: 10})
	d, err := src.Load(context.Background(), root, source.Env{Observer: rec})
	require.NoError(t, err)

	assert.Equal(t, []string{"animals.txt", "sky.txt"}, d.Classes)
	assert.Equal(t, []string{"mirflickr/im1.jpg", "mirflickr/im3.jpg", "mirflickr/im10.jpg"}, d.Indexs)
	assert.Equal(t, [][]string{{"blue cat"}, {"cloud"}, {""}}, d.Captions)
	assert.Equal(t, []label.Vector{{1, 1}, {0, 1}, {1, 0}}, d.Labels)

	// 1..10 minus {1,3,10}
	assert.Equal(t, 7, rec.filtered["unlabeled"])
}

func TestLoad_MissingCaption(t *testing.T) {
	root := t.TempDir()
	testutil.WriteMIRFlickr(t, root, testutil.MIRFlickr{
		Labels: map[string][]uint32{"sky.txt": {1, 2}},
		Tags:   map[uint32][]string{1: {"x"}},
	})

	_, err := New(DefaultConfig()).Load(context.Background(), root, source.Env{})
	assert.ErrorIs(t, err, ErrMissingCaption)
}

func TestLoad_CheckFiles(t *testing.T) {
	root := fixture(t)
	testutil.TouchImages(t, root, "mirflickr/im1.jpg", "mirflickr/im10.jpg")
	rec := &filterRecorder{}

	d, err := New(DefaultConfig()).Load(context.Background(), root, source.Env{Observer: rec, CheckFiles: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"mirflickr/im1.jpg", "mirflickr/im10.jpg"}, d.Indexs)
	assert.Equal(t, []string{"mirflickr/im3.jpg"}, rec.missing)
}

func TestLoad_NoCategories(t *testing.T) {
	root := t.TempDir()
	testutil.WriteMIRFlickr(t, root, testutil.MIRFlickr{
		Labels: map[string][]uint32{"README.txt": {1}},
	})

	_, err := New(DefaultConfig()).Load(context.Background(), root, source.Env{})
	assert.Error(t, err)
}

func TestLoad_BadID(t *testing.T) {
	root := t.TempDir()
	testutil.WriteMIRFlickr(t, root, testutil.MIRFlickr{})
	testutil.WriteFile(t, root, "mirflickr25k_annotations_v080/sky.txt", "1\nim2\n")

	_, err := New(DefaultConfig()).Load(context.Background(), root, source.Env{})
	assert.Error(t, err)
}

func TestSourceNames(t *testing.T) {
	s := New(DefaultConfig())
	assert.Equal(t, "mirflickr", s.Name())
	assert.Equal(t, "flickr25k.mmr", s.RecordName())
	assert.Equal(t, "mirflickr/im42.jpg", ImagePath(42))
}
