package restaurant

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeaturedPicksSubset(t *testing.T) {
	list := sample()
	rng := rand.New(rand.NewSource(42))

	got := Featured(list, 2, rng)
	assert.Len(t, got, 2)
	for _, r := range got {
		assert.Contains(t, list, r)
	}
	assert.Equal(t, sample(), list)
}

func TestFeaturedRepeatableWithSeed(t *testing.T) {
	a := Featured(sample(), 3, rand.New(rand.NewSource(7)))
	b := Featured(sample(), 3, rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}

func TestFeaturedBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	assert.Len(t, Featured(sample(), 10, rng), 3)
	assert.Empty(t, Featured(sample(), 0, rng))
	assert.Empty(t, Featured(nil, 5, rng))
}
