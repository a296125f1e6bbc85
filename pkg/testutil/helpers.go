// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"

	"github.com/iwvelando/capital-longevity/pkg/sweep"
)

// FindPoint finds the point at x in a series.
// Returns a pointer to the point if found, nil otherwise.
func FindPoint(series sweep.Series, x float64) *sweep.Point {
	for i := range series.Points {
		if math.Abs(series.Points[i].X-x) < 1e-6 {
			return &series.Points[i]
		}
	}
	return nil
}

// FirstInfinite returns the x of the first infinite point in a series and
// whether one exists.
func FirstInfinite(series sweep.Series) (float64, bool) {
	for _, point := range series.Points {
		if point.Result.IsInfinite() {
			return point.X, true
		}
	}
	return 0, false
}
