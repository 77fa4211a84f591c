package similarity

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func randomVector(r *rand.Rand, dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = r.Float32()*2 - 1
	}
	return v
}

func TestScore_Symmetric(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for range 50 {
		a, b := randomVector(r, 64), randomVector(r, 64)
		assert.Equal(t, Score(a, b), Score(b, a))
	}
}

func TestScore_SelfIsOne(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for range 50 {
		a := randomVector(r, 512)
		assert.InDelta(t, 1.0, Score(a, a), 1e-12)
	}
}

func TestScore_Degenerate(t *testing.T) {
	zero := make([]float32, 3)
	b := []float32{1, 2, 3}

	assert.Equal(t, 0.0, Score(zero, b))
	assert.Equal(t, 0.0, Score(b, zero))
	assert.Equal(t, 0.0, Score(nil, b))
	assert.Equal(t, 0.0, Score(nil, nil))
	assert.Equal(t, 0.0, Score([]float32{1, 2}, b), "mismatched dimension")
}

func TestScore_Range(t *testing.T) {
	assert.InDelta(t, -1.0, Score([]float32{1, 0}, []float32{-1, 0}), 1e-12)
	assert.InDelta(t, 0.0, Score([]float32{1, 0}, []float32{0, 1}), 1e-12)

	r := rand.New(rand.NewSource(3))
	for range 100 {
		s := Score(randomVector(r, 16), randomVector(r, 16))
		assert.GreaterOrEqual(t, s, -1.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestBestMatch_MaxOverPairs(t *testing.T) {
	refs := [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	// one candidate matching a single reference is enough
	candidates := [][]float32{{-1, -1, -1}, {0, 0, 5}}
	assert.InDelta(t, 1.0, BestMatch(candidates, refs), 1e-12)

	// averaging would reject this set; the max policy does not
	assert.InDelta(t, 1.0, BestMatch([][]float32{{0, 1, 0}}, refs), 1e-12)
}

func TestBestMatch_Empty(t *testing.T) {
	assert.Equal(t, 0.0, BestMatch(nil, [][]float32{{1}}))
	assert.Equal(t, 0.0, BestMatch([][]float32{{1}}, nil))
}

func TestBestMatch_DimensionMismatchScoresZero(t *testing.T) {
	refs := [][]float32{{1, 0, 0}}
	assert.Equal(t, 0.0, BestMatch([][]float32{{1, 0}}, refs))
}
