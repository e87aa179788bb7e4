package testutil

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile writes content to the slash-separated path rel under root,
// creating directories as needed.
func WriteFile(tb testing.TB, root, rel, content string) {
	tb.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(tb, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(tb, os.WriteFile(path, []byte(content), 0o644))
}

// TouchImages creates empty files for the given slash-separated paths.
func TouchImages(tb testing.TB, root string, paths ...string) {
	tb.Helper()
	for _, p := range paths {
		WriteFile(tb, root, p, "")
	}
}

func writeJSON(tb testing.TB, root, rel string, v any) {
	tb.Helper()
	data, err := json.Marshal(v)
	require.NoError(tb, err)
	WriteFile(tb, root, rel, string(data))
}

// COCOImage is an entry of an "images" section.
type COCOImage struct {
	ID       uint32 `json:"id"`
	FileName string `json:"file_name"`
}

// COCOCaption is an entry of a captions "annotations" section.
type COCOCaption struct {
	ImageID uint32 `json:"image_id"`
	Caption string `json:"caption"`
}

// COCOInstance is an entry of an instances "annotations" section.
type COCOInstance struct {
	ImageID    uint32 `json:"image_id"`
	CategoryID uint32 `json:"category_id"`
}

// COCOCategory is an entry of a "categories" section.
type COCOCategory struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
}

// COCOSplit is one split of a synthetic COCO tree.
type COCOSplit struct {
	Images     []COCOImage
	Captions   []COCOCaption
	Instances  []COCOInstance
	Categories []COCOCategory
	// InstanceImages is the instances file's own image list. Nil means
	// the same as Images.
	InstanceImages []COCOImage
}

// COCOFileName is the file name COCO uses for id.
func COCOFileName(id uint32) string {
	return fmt.Sprintf("%012d.jpg", id)
}

// WriteCOCO writes annotations/captions_{split}{year}.json and
// annotations/instances_{split}{year}.json for every split.
func WriteCOCO(tb testing.TB, root string, year int, splits map[string]COCOSplit) {
	tb.Helper()
	for name, s := range splits {
		instImages := s.InstanceImages
		if instImages == nil {
			instImages = s.Images
		}

		writeJSON(tb, root, fmt.Sprintf("annotations/captions_%s%d.json", name, year), map[string]any{
			"info":        map[string]any{"year": year},
			"images":      s.Images,
			"annotations": s.Captions,
		})
		writeJSON(tb, root, fmt.Sprintf("annotations/instances_%s%d.json", name, year), map[string]any{
			"info":        map[string]any{"year": year},
			"images":      instImages,
			"annotations": s.Instances,
			"categories":  s.Categories,
		})
	}
}

// MIRFlickr is a synthetic MIRFlickr-25K tree.
type MIRFlickr struct {
	// Labels maps an annotation file name to the image ids it lists.
	Labels map[string][]uint32
	// Tags maps an image id to its tag lines.
	Tags map[uint32][]string
}

// WriteMIRFlickr writes mirflickr25k_annotations_v080/ and
// mirflickr/meta/tags/.
func WriteMIRFlickr(tb testing.TB, root string, m MIRFlickr) {
	tb.Helper()
	require.NoError(tb, os.MkdirAll(filepath.Join(root, "mirflickr25k_annotations_v080"), 0o755))
	require.NoError(tb, os.MkdirAll(filepath.Join(root, "mirflickr", "meta", "tags"), 0o755))

	for name, ids := range m.Labels {
		var sb strings.Builder
		for _, id := range ids {
			sb.WriteString(strconv.FormatUint(uint64(id), 10))
			sb.WriteString("\n")
		}
		WriteFile(tb, root, "mirflickr25k_annotations_v080/"+name, sb.String())
	}
	for id, tags := range m.Tags {
		content := strings.Join(tags, "\n")
		if len(tags) > 0 {
			content += "\n"
		}
		WriteFile(tb, root, fmt.Sprintf("mirflickr/meta/tags/tags%d.txt", id), content)
	}
}

// NUSWIDE is a synthetic NUS-WIDE tree. Rows are positional.
type NUSWIDE struct {
	// Images are raw Imagelist.txt lines (backslash separated).
	Images []string
	// Tags are raw All_Tags.txt lines.
	Tags []string
	// Concepts are the Concepts81_sort.txt lines.
	Concepts []string
	// Labels maps a concept to its 0/1 rows.
	Labels map[string][]int
}

// WriteNUSWIDE writes the NUS-WIDE list, tag, concept and label files.
func WriteNUSWIDE(tb testing.TB, root string, n NUSWIDE) {
	tb.Helper()
	WriteFile(tb, root, "ImageList/Imagelist.txt", lines(n.Images))
	WriteFile(tb, root, "NUS_WID_Tags/All_Tags.txt", lines(n.Tags))
	WriteFile(tb, root, "ConceptsList/Concepts81_sort.txt", lines(n.Concepts))

	for concept, rows := range n.Labels {
		var sb strings.Builder
		for _, r := range rows {
			sb.WriteString(strconv.Itoa(r))
			sb.WriteString("\n")
		}
		WriteFile(tb, root, "Groundtruth/AllLabels/Labels_"+concept+".txt", sb.String())
	}
}

func lines(ls []string) string {
	if len(ls) == 0 {
		return ""
	}
	return strings.Join(ls, "\n") + "\n"
}

// RNG generates random fixtures from a fixed seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

var words = []string{"a", "man", "dog", "riding", "beach", "red", "bus", "sky", "tree", "water", "two", "people"}

// Sentence returns n random words joined by spaces.
func (r *RNG) Sentence(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws := make([]string, n)
	for i := range ws {
		ws[i] = words[r.rand.Intn(len(words))]
	}
	return strings.Join(ws, " ")
}

// COCOSplit returns a random split with numImages images and numCategories
// categories. Category ids are sparse (1, 3, 5, ...). Images get one to five
// captions; about one in ten images has no instance annotation.
func (r *RNG) COCOSplit(numImages, numCategories int) COCOSplit {
	var s COCOSplit
	for c := range numCategories {
		s.Categories = append(s.Categories, COCOCategory{ID: uint32(2*c + 1), Name: fmt.Sprintf("class%d", c)})
	}

	// Ids are shuffled so file order differs from key order.
	ids := make([]uint32, numImages)
	for i := range ids {
		ids[i] = uint32(i*7 + 1)
	}
	r.mu.Lock()
	r.rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	r.mu.Unlock()

	for _, id := range ids {
		s.Images = append(s.Images, COCOImage{ID: id, FileName: COCOFileName(id)})
		for range 1 + r.Intn(5) {
			s.Captions = append(s.Captions, COCOCaption{ImageID: id, Caption: r.Sentence(3 + r.Intn(5))})
		}
		if r.Intn(10) == 0 {
			continue
		}
		for range 1 + r.Intn(3) {
			cat := s.Categories[r.Intn(numCategories)].ID
			s.Instances = append(s.Instances, COCOInstance{ImageID: id, CategoryID: cat})
		}
	}
	return s
}
