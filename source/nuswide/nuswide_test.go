package nuswide

import (
	"context"
	"testing"

	"github.com/hupe1980/mmprep/label"
	"github.com/hupe1980/mmprep/source"
	"github.com/hupe1980/mmprep/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, concepts int) (string, Config) {
	root := t.TempDir()
	testutil.WriteNUSWIDE(t, root, testutil.NUSWIDE{
		Images: []string{
			`actor\0001_2124494179.jpg`,
			`airport\0002_174174086.jpg`,
			`beach\0003_1000.jpg`,
			`sky\0004_2000.jpg`,
		},
		Tags: []string{
			"2124494179 red car",
			"",
			"174174086",
			"1000 sand   sea",
			"2000 blue",
		},
		Concepts: []string{"sky", "clouds", "person", "water"},
		Labels: map[string][]int{
			"sky":    {1, 0, 0, 0},
			"clouds": {1, 0, 1, 0},
			"person": {0, 1, 0, 0},
			"water":  {0, 0, 0, 1},
		},
	})
	cfg := DefaultConfig()
	cfg.Concepts = concepts
	return root, cfg
}

func TestLoad(t *testing.T) {
	root, cfg := fixture(t, 2)

	d, err := New(cfg).Load(context.Background(), root, source.Env{})
	require.NoError(t, err)

	assert.Equal(t, []string{"sky", "clouds"}, d.Classes)
	// Rows 1 and 3 carry no selected concept.
	assert.Equal(t, []string{
		"images/Flickr/actor/0001_2124494179.jpg",
		"images/Flickr/beach/0003_1000.jpg",
	}, d.Indexs)
	assert.Equal(t, [][]string{{"red car"}, {"sand sea"}}, d.Captions)
	assert.Equal(t, []label.Vector{{1, 1}, {0, 1}}, d.Labels)
	assert.Equal(t, []uint32{0, 2}, d.Keys)
}

func TestLoad_PlaceholderCaption(t *testing.T) {
	root, cfg := fixture(t, 3)

	d, err := New(cfg).Load(context.Background(), root, source.Env{})
	require.NoError(t, err)

	require.Len(t, d.Indexs, 3)
	assert.Equal(t, "images/Flickr/airport/0002_174174086.jpg", d.Indexs[1])
	assert.Equal(t, []string{EmptyCaption}, d.Captions[1])
	assert.Equal(t, label.Vector{0, 0, 1}, d.Labels[1])
}

func TestLoad_RowMismatch(t *testing.T) {
	root, cfg := fixture(t, 2)
	testutil.WriteFile(t, root, "Groundtruth/AllLabels/Labels_clouds.txt", "1\n0\n")

	_, err := New(cfg).Load(context.Background(), root, source.Env{})
	assert.ErrorIs(t, err, ErrRowMismatch)
}

func TestLoad_TagRowMismatch(t *testing.T) {
	root, cfg := fixture(t, 2)
	testutil.WriteFile(t, root, "NUS_WID_Tags/All_Tags.txt", "1 a\n")

	_, err := New(cfg).Load(context.Background(), root, source.Env{})
	assert.ErrorIs(t, err, ErrRowMismatch)
}

func TestLoad_TooFewConcepts(t *testing.T) {
	root, cfg := fixture(t, 5)

	_, err := New(cfg).Load(context.Background(), root, source.Env{})
	assert.Error(t, err)
}

func TestLoad_CheckFiles(t *testing.T) {
	root, cfg := fixture(t, 2)
	testutil.TouchImages(t, root, "images/Flickr/beach/0003_1000.jpg")

	d, err := New(cfg).Load(context.Background(), root, source.Env{CheckFiles: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"images/Flickr/beach/0003_1000.jpg"}, d.Indexs)
}

func TestSourceNames(t *testing.T) {
	s := New(DefaultConfig())
	assert.Equal(t, "nuswide", s.Name())
	assert.Equal(t, "nuswide.mmr", s.RecordName())
}
