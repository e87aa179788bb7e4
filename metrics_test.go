package mmprep

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	m := &BasicMetricsCollector{}

	m.RecordLoad("a.json", 10)
	m.RecordLoad("b.json", 5)
	m.RecordJoin("coco/val", 3, 4)
	m.RecordMissingFile("x.jpg")
	m.RecordFilter("unlabeled", 7)
	m.RecordFilter("unlabeled", 1)
	m.RecordFilter("no-concept", 2)
	m.RecordConvert("coco", 3, 2*time.Millisecond, nil)
	m.RecordConvert("coco", 0, 4*time.Millisecond, errors.New("boom"))
	m.RecordSave(128, time.Millisecond, nil)
	m.RecordSave(0, time.Millisecond, errors.New("boom"))

	s := m.GetStats()
	assert.Equal(t, int64(2), s.FilesLoaded)
	assert.Equal(t, int64(15), s.EntriesLoaded)
	assert.Equal(t, int64(1), s.JoinCount)
	assert.Equal(t, int64(3), s.JoinKept)
	assert.Equal(t, int64(4), s.JoinDropped)
	assert.Equal(t, int64(1), s.MissingFiles)
	assert.Equal(t, int64(10), s.FilteredKeys)
	assert.Equal(t, map[string]int64{"unlabeled": 8, "no-concept": 2}, s.FilteredBy)
	assert.Equal(t, int64(2), s.ConvertCount)
	assert.Equal(t, int64(1), s.ConvertErrors)
	assert.Equal(t, int64(3), s.ConvertImages)
	assert.Equal(t, (3 * time.Millisecond).Nanoseconds(), s.ConvertAvgNanos)
	assert.Equal(t, int64(2), s.SaveCount)
	assert.Equal(t, int64(1), s.SaveErrors)
	assert.Equal(t, int64(128), s.SaveBytes)
}

func TestBasicMetricsCollector_Empty(t *testing.T) {
	s := (&BasicMetricsCollector{}).GetStats()
	assert.Zero(t, s.ConvertAvgNanos)
	assert.Empty(t, s.FilteredBy)
}

func TestNoopMetricsCollector(t *testing.T) {
	var m MetricsCollector = NoopMetricsCollector{}
	assert.NotPanics(t, func() {
		m.RecordLoad("", 0)
		m.RecordJoin("", 0, 0)
		m.RecordMissingFile("")
		m.RecordFilter("", 0)
		m.RecordConvert("", 0, 0, nil)
		m.RecordSave(0, 0, nil)
	})
}
