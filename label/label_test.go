package label

import (
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/hupe1980/mmprep/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoder_MultiLabel(t *testing.T) {
	idx, err := NewIndex([]int{1, 3, 5})
	require.NoError(t, err)

	enc := NewEncoder(idx)
	assert.Equal(t, 3, enc.Width())

	// 1→0 and 3→1.
	v, err := enc.Encode([]int{1, 3})
	require.NoError(t, err)
	assert.Equal(t, Vector{1, 1, 0}, v)

	// 1→0 and 5→2.
	v, err = enc.Encode([]int{1, 5})
	require.NoError(t, err)
	assert.Equal(t, Vector{1, 0, 1}, v)
	assert.Equal(t, 2, v.Count())
}

func TestEncoder_PositionFollowsListOrder(t *testing.T) {
	// Dense positions come from the list, not from annotation order.
	idx, err := NewIndex([]int{1, 3, 5})
	require.NoError(t, err)

	tests := []struct {
		ids  []int
		want Vector
	}{
		{ids: []int{1, 5}, want: Vector{1, 0, 1}},
		{ids: []int{5, 1}, want: Vector{1, 0, 1}},
		{ids: []int{3, 3, 3}, want: Vector{0, 1, 0}},
		{ids: nil, want: Vector{0, 0, 0}},
		{ids: []int{5, 3, 1}, want: Vector{1, 1, 1}},
	}
	enc := NewEncoder(idx)
	for _, tt := range tests {
		got, err := enc.Encode(tt.ids)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "ids %v", tt.ids)
		assert.True(t, got.Valid(3))
	}
}

func TestEncoder_UnknownCategory(t *testing.T) {
	idx, err := NewIndex([]string{"animals", "baby"})
	require.NoError(t, err)

	_, err = NewEncoder(idx).Encode([]string{"animals", "zebra"})
	require.ErrorIs(t, err, ErrUnknownCategory)

	var uce *UnknownCategoryError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, "zebra", uce.ID)
}

func TestNewIndex_Duplicate(t *testing.T) {
	_, err := NewIndex([]int{1, 2, 1})
	assert.ErrorIs(t, err, ErrDuplicateCategory)
}

func TestIndex_Accessors(t *testing.T) {
	idx, err := NewIndex([]string{"sky", "water"})
	require.NoError(t, err)

	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, "water", idx.ID(1))

	ids := idx.IDs()
	ids[0] = "changed"
	assert.Equal(t, []string{"sky", "water"}, idx.IDs())

	p, err := idx.Lookup("water")
	require.NoError(t, err)
	assert.Equal(t, 1, p)
}

func TestEncodeAll(t *testing.T) {
	idx, err := NewIndex([]int{1, 3, 5})
	require.NoError(t, err)

	m := mapping.New[int]()
	m.Append(10, 5)
	m.Append(10, 1)
	m.Append(20, 3)

	vs, err := NewEncoder(idx).EncodeAll(m)
	require.NoError(t, err)
	assert.Equal(t, Vector{1, 0, 1}, vs[10])
	assert.Equal(t, Vector{0, 1, 0}, vs[20])

	m.Append(30, 7)
	_, err = NewEncoder(idx).EncodeAll(m)
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestVector(t *testing.T) {
	v := NewVector(4)
	assert.False(t, v.Any())
	assert.Equal(t, 0, v.Count())

	v[2] = 1
	assert.True(t, v.Any())
	assert.Equal(t, 1, v.Count())
	assert.True(t, v.Valid(4))
	assert.False(t, v.Valid(5))

	v[0] = 2
	assert.False(t, v.Valid(4))
}

func TestFromBits(t *testing.T) {
	bits := bitset.New(8)
	bits.Set(0).Set(3).Set(7)

	assert.Equal(t, Vector{1, 0, 0, 1, 0}, FromBits(bits, 5))
}

func TestPositive(t *testing.T) {
	vs := map[mapping.Key]Vector{
		1: {0, 0},
		2: {0, 1},
		3: {1, 1},
	}
	assert.Equal(t, []uint32{2, 3}, Positive(vs).ToArray())
}
