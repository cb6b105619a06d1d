package spatial

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_KnownSeparation(t *testing.T) {
	// 0.0001 degrees of latitude is 11.132m on the WGS84 sphere; the
	// haversine result must land within 1% at gate-threshold scales.
	a := Position{Lat: 40.0, Lon: -73.0}
	b := Position{Lat: 40.0001, Lon: -73.0}

	d := Distance(a, b)
	assert.InDelta(t, 11.12, d, 0.12)
}

func TestDistance_Symmetric(t *testing.T) {
	a := Position{Lat: 51.5007, Lon: -0.1246}
	b := Position{Lat: 51.5014, Lon: -0.1419}
	assert.Equal(t, Distance(a, b), Distance(b, a))
}

func TestDistance_ZeroOnlyWhenEqual(t *testing.T) {
	p := Position{Lat: 35.6586, Lon: 139.7454}
	assert.Zero(t, Distance(p, p))

	q := Position{Lat: 35.6586, Lon: 139.74541}
	assert.Greater(t, Distance(p, q), 0.0)
}

func TestValidLatLng(t *testing.T) {
	assert.True(t, ValidLatLng(0, 0))
	assert.True(t, ValidLatLng(-90, 180))
	assert.False(t, ValidLatLng(90.01, 0))
	assert.False(t, ValidLatLng(0, -180.5))
}

func TestRunningPosition_MatchesTwoPass(t *testing.T) {
	positions := []Position{
		{Lat: 40.00000, Lon: -73.00000},
		{Lat: 40.00002, Lon: -73.00001},
		{Lat: 39.99998, Lon: -73.00003},
		{Lat: 40.00001, Lon: -72.99998},
		{Lat: 40.00003, Lon: -73.00002},
	}

	var r RunningPosition
	for _, p := range positions {
		r.Fold(p)
	}

	// Two-pass reference
	var sumLat, sumLon float64
	for _, p := range positions {
		sumLat += p.Lat
		sumLon += p.Lon
	}
	n := float64(len(positions))
	meanLat, meanLon := sumLat/n, sumLon/n

	var varLat, varLon float64
	for _, p := range positions {
		varLat += (p.Lat - meanLat) * (p.Lat - meanLat)
		varLon += (p.Lon - meanLon) * (p.Lon - meanLon)
	}
	varLat /= n
	varLon /= n
	want := math.Sqrt(varLat*varLat + varLon*varLon)

	mean := r.Mean()
	require.InDelta(t, meanLat, mean.Lat, 1e-12)
	require.InDelta(t, meanLon, mean.Lon, 1e-12)
	assert.InDelta(t, want, r.Variance(), 1e-15)
}

func TestRunningPosition_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	base := make([]Position, 50)
	for i := range base {
		base[i] = Position{
			Lat: 48.8584 + rng.Float64()*0.0005,
			Lon: 2.2945 + rng.Float64()*0.0005,
		}
	}

	var reference RunningPosition
	for _, p := range base {
		reference.Fold(p)
	}

	for trial := 0; trial < 10; trial++ {
		shuffled := make([]Position, len(base))
		copy(shuffled, base)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		var r RunningPosition
		for _, p := range shuffled {
			r.Fold(p)
		}

		require.Equal(t, reference.Count, r.Count)
		assert.InDelta(t, reference.Mean().Lat, r.Mean().Lat, 1e-12)
		assert.InDelta(t, reference.Mean().Lon, r.Mean().Lon, 1e-12)
		assert.InDelta(t, reference.Variance(), r.Variance(), 1e-14)
	}
}

func TestRunningPosition_SingleSampleVarianceZero(t *testing.T) {
	var r RunningPosition
	r.Fold(Position{Lat: 1, Lon: 2})
	assert.Zero(t, r.Variance())
}
