package mapping

import (
	"encoding/json"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_GroupsValuesInSourceOrder(t *testing.T) {
	records := []Record{
		{"image_id": float64(7), "caption": "a dog"},
		{"image_id": float64(3), "caption": "a cat"},
		{"image_id": float64(7), "caption": "a brown dog"},
		{"image_id": float64(7), "caption": "a dog"},
	}

	m, err := Build(records, "image_id", "caption", ParseKey, String)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 4, m.Total())

	vs, ok := m.Get(7)
	require.True(t, ok)
	assert.Equal(t, []string{"a dog", "a brown dog", "a dog"}, vs)

	vs, ok = m.Get(3)
	require.True(t, ok)
	assert.Equal(t, []string{"a cat"}, vs)

	_, ok = m.Get(1)
	assert.False(t, ok)

	assert.Equal(t, []uint32{3, 7}, m.Keys().ToArray())
}

func TestBuild_MissingField(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		field   string
		index   int
	}{
		{
			name:    "missing key",
			records: []Record{{"image_id": float64(1), "caption": "x"}, {"caption": "y"}},
			field:   "image_id",
			index:   1,
		},
		{
			name:    "missing value",
			records: []Record{{"image_id": float64(1)}},
			field:   "caption",
			index:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.records, "image_id", "caption", ParseKey, String)
			require.ErrorIs(t, err, ErrMissingField)

			var mfe *MissingFieldError
			require.ErrorAs(t, err, &mfe)
			assert.Equal(t, tt.field, mfe.Field)
			assert.Equal(t, tt.index, mfe.Index)
		})
	}
}

func TestBuild_InvalidValues(t *testing.T) {
	_, err := Build([]Record{{"image_id": "abc", "caption": "x"}}, "image_id", "caption", ParseKey, String)
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = Build([]Record{{"image_id": float64(1), "caption": 3.0}}, "image_id", "caption", ParseKey, String)
	assert.Error(t, err)
}

func TestMulti_Restrict(t *testing.T) {
	m := New[int]()
	m.Append(1, 10)
	m.Append(2, 20)
	m.Append(2, 21)
	m.Append(3, 30)

	r := m.Restrict(roaring.BitmapOf(2, 3, 9))

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 3, r.Total())
	assert.Equal(t, []uint32{2, 3}, r.Keys().ToArray())

	vs, _ := r.Get(2)
	assert.Equal(t, []int{20, 21}, vs)

	// The source is left untouched.
	assert.Equal(t, 3, m.Len())
}

func TestMulti_KeysIsACopy(t *testing.T) {
	m := New[string]()
	m.Append(5, "x")

	keys := m.Keys()
	keys.Add(6)

	assert.Equal(t, uint64(1), m.Keys().GetCardinality())
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in      any
		want    Key
		wantErr bool
	}{
		{in: float64(139), want: 139},
		{in: 42, want: 42},
		{in: int64(42), want: 42},
		{in: uint32(9), want: 9},
		{in: json.Number("25000"), want: 25000},
		{in: "000000000139", want: 139},
		{in: float64(1.5), wantErr: true},
		{in: float64(-1), wantErr: true},
		{in: -3, wantErr: true},
		{in: "12a", wantErr: true},
		{in: "", wantErr: true},
		{in: "99999999999", wantErr: true},
		{in: true, wantErr: true},
		{in: nil, wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseKey(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidKey, "input %#v", tt.in)
			continue
		}
		require.NoError(t, err, "input %#v", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestInt(t *testing.T) {
	n, err := Int(float64(90))
	require.NoError(t, err)
	assert.Equal(t, 90, n)

	n, err = Int(json.Number("18"))
	require.NoError(t, err)
	assert.Equal(t, 18, n)

	_, err = Int(float64(2.5))
	assert.Error(t, err)

	_, err = Int("1")
	assert.Error(t, err)
}
