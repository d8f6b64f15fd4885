package scoring

import (
	"gonum.org/v1/gonum/stat"

	"github.com/Dshy007/milo/core/model"
	"github.com/Dshy007/milo/core/policy"
)

// Consistency measures how regular a driver's weekly rhythm is, from the
// spread of their per-weekday assignment counts: 1 means the same days every
// week, 0 means no recognizable pattern. Drivers with fewer than two records
// get the neutral default.
func Consistency(history []model.AssignmentRecord) float64 {
	if len(history) < 2 {
		return policy.DefaultConsistency
	}
	var perDay [7]float64
	for _, r := range history {
		perDay[int(r.Day)]++
	}
	var counts []float64
	for _, n := range perDay {
		if n > 0 {
			counts = append(counts, n)
		}
	}
	mean := stat.Mean(counts, nil)
	if mean == 0 {
		return policy.DefaultConsistency
	}
	c := 1 - stat.PopStdDev(counts, nil)/mean
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
