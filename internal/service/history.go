package service

import (
	"math"
	"math/rand"
)

// HistoryPoint is one sample of a market's probability series.
type HistoryPoint struct {
	Time  int     `json:"time"`
	Value float64 `json:"value"`
}

const (
	historyPoints   = 30
	historyFloorPct = 5
	historyCeilPct  = 95
)

// HistorySeries synthesizes a probability series that ends near the market's
// current yes percentage. The series is sinusoidal drift plus jitter from the
// supplied rand source, clamped to [5, 95] so the chart never pins to an edge.
func HistorySeries(yesPercentage int, rng *rand.Rand) []HistoryPoint {
	base := float64(yesPercentage)
	points := make([]HistoryPoint, 0, historyPoints)
	for i := 0; i < historyPoints; i++ {
		variation := math.Sin(float64(i)*0.3)*8 + (rng.Float64()-0.5)*6
		v := base + variation
		if v < historyFloorPct {
			v = historyFloorPct
		}
		if v > historyCeilPct {
			v = historyCeilPct
		}
		points = append(points, HistoryPoint{Time: i, Value: v})
	}
	return points
}
