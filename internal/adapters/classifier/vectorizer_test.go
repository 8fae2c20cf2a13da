package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorizer_TransformNgrams(t *testing.T) {
	v, err := newVectorizer(vectorizerFile{
		Vocabulary: map[string]int{"phòng": 0, "sạch": 1, "phòng sạch": 2, "nhân_viên": 3},
		NgramRange: []int{1, 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, v.Features())

	got := v.Transform("Phòng sạch, phòng SẠCH! nhân_viên a")
	assert.Equal(t, map[int]float64{0: 2, 1: 2, 2: 2, 3: 1}, got)
}

func TestVectorizer_BinaryAndCase(t *testing.T) {
	off := false
	v, err := newVectorizer(vectorizerFile{Vocabulary: map[string]int{"Tốt": 0}, Lowercase: &off, Binary: true})
	require.NoError(t, err)
	assert.Equal(t, map[int]float64{0: 1}, v.Transform("Tốt Tốt tốt"))
}

func TestVectorizer_Invalid(t *testing.T) {
	_, err := newVectorizer(vectorizerFile{})
	assert.Error(t, err)
	_, err = newVectorizer(vectorizerFile{Vocabulary: map[string]int{"a": 0}, NgramRange: []int{2, 1}})
	assert.Error(t, err)
	_, err = newVectorizer(vectorizerFile{Vocabulary: map[string]int{"a": 0, "b": 0}})
	assert.Error(t, err)
}
