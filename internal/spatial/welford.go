package spatial

import "math"

// RunningPosition accumulates a running mean and variance over a stream of
// positions using Welford's algorithm, latitude and longitude tracked
// independently. Folding is incremental so that a candidate's statistics can
// be updated per event without revisiting history; replaying the same
// positions in any order converges to the same result within floating-point
// tolerance.
type RunningPosition struct {
	Count   int
	meanLat float64
	meanLon float64
	m2Lat   float64
	m2Lon   float64
}

// Fold incorporates one position into the accumulator
func (r *RunningPosition) Fold(p Position) {
	r.Count++
	n := float64(r.Count)

	deltaLat := p.Lat - r.meanLat
	r.meanLat += deltaLat / n
	r.m2Lat += deltaLat * (p.Lat - r.meanLat)

	deltaLon := p.Lon - r.meanLon
	r.meanLon += deltaLon / n
	r.m2Lon += deltaLon * (p.Lon - r.meanLon)
}

// Mean returns the running centroid
func (r *RunningPosition) Mean() Position {
	return Position{Lat: r.meanLat, Lon: r.meanLon}
}

// Variance returns the scalar spatial variance: the per-axis population
// variances combined as sqrt(varLat² + varLon²)
func (r *RunningPosition) Variance() float64 {
	if r.Count < 2 {
		return 0
	}
	n := float64(r.Count)
	varLat := r.m2Lat / n
	varLon := r.m2Lon / n
	return math.Sqrt(varLat*varLat + varLon*varLon)
}
