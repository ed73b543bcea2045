package classifier

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainedModel(t *testing.T, seed int64) *Model {
	t.Helper()
	m := NewWithRand(DefaultConfig(), rand.New(rand.NewSource(seed)))
	_, err := m.Train(context.Background(), BootstrapExamples, 250)
	require.NoError(t, err)
	return m
}

func TestScoreInUnitInterval(t *testing.T) {
	m := NewWithRand(DefaultConfig(), rand.New(rand.NewSource(7)))

	vectors := []FeatureVector{
		{0, 0, 0},
		{100, 50, 14},
		{0, 60, 1},
		{100, 0, 0},
	}
	for _, fv := range vectors {
		s := m.Score(fv)
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestTrainLossDecreases(t *testing.T) {
	m := NewWithRand(DefaultConfig(), rand.New(rand.NewSource(1)))

	history, err := m.Train(context.Background(), BootstrapExamples, 250)
	require.NoError(t, err)
	require.Len(t, history, 250)
	assert.Less(t, history[len(history)-1], history[0],
		"mean loss should drop across the epoch budget")
}

func TestDecisionBoundary(t *testing.T) {
	m := trainedModel(t, 1)

	empty := m.Score(FeatureVector{0, 50, 3})    // out of stock, selling fast
	stuffed := m.Score(FeatureVector{100, 5, 2}) // warehouse full, barely moving

	assert.Greater(t, empty, 0.5, "empty stock with high sales must score as reorder")
	assert.Less(t, stuffed, 0.5, "high stock with low sales must score as safe")
	assert.Greater(t, empty, stuffed)
}

func TestFitsBootstrapSet(t *testing.T) {
	m := trainedModel(t, 3)

	for _, ex := range BootstrapExamples {
		s := m.Score(ex.Features)
		if ex.Label == 1 {
			assert.Greater(t, s, 0.5, "features %v should score reorder", ex.Features)
		} else {
			assert.Less(t, s, 0.5, "features %v should score safe", ex.Features)
		}
	}
}

func TestTrainReproducibleWithSeed(t *testing.T) {
	a := trainedModel(t, 99)
	b := trainedModel(t, 99)

	fv := FeatureVector{12, 40, 6}
	assert.Equal(t, a.Score(fv), b.Score(fv))
}

func TestTrainStopsOnCancel(t *testing.T) {
	m := NewWithRand(DefaultConfig(), rand.New(rand.NewSource(5)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	history, err := m.Train(ctx, BootstrapExamples, 200)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, history)
}

func TestTrainEmptyExamples(t *testing.T) {
	m := NewWithRand(DefaultConfig(), rand.New(rand.NewSource(5)))

	history, err := m.Train(context.Background(), nil, 200)
	require.NoError(t, err)
	assert.Nil(t, history)
}
