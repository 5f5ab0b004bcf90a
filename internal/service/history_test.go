package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistorySeriesShape(t *testing.T) {
	points := HistorySeries(62, rand.New(rand.NewSource(1)))
	require.Len(t, points, 30)
	for i, p := range points {
		assert.Equal(t, i, p.Time)
		assert.GreaterOrEqual(t, p.Value, 5.0)
		assert.LessOrEqual(t, p.Value, 95.0)
	}
}

func TestHistorySeriesClampsExtremes(t *testing.T) {
	for _, pct := range []int{0, 1, 99, 100} {
		for _, p := range HistorySeries(pct, rand.New(rand.NewSource(2))) {
			assert.GreaterOrEqual(t, p.Value, 5.0, "yes=%d", pct)
			assert.LessOrEqual(t, p.Value, 95.0, "yes=%d", pct)
		}
	}
}

func TestHistorySeriesDeterministicPerSeed(t *testing.T) {
	a := HistorySeries(50, rand.New(rand.NewSource(9)))
	b := HistorySeries(50, rand.New(rand.NewSource(9)))
	assert.Equal(t, a, b)
}

func TestHistorySeriesTracksBase(t *testing.T) {
	points := HistorySeries(50, rand.New(rand.NewSource(3)))
	var sum float64
	for _, p := range points {
		sum += p.Value
	}
	mean := sum / float64(len(points))
	assert.InDelta(t, 50, mean, 10, "series drifts around the current probability")
}
