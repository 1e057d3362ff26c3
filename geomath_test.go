package osm2sidewalk

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	// Regression fixtures: values produced by the chord formula with earth radius 6371 km
	assert.InDelta(t, 111.19492664492002, Distance(Location{0, 0}, Location{0, 1}), 1e-12)
	assert.InDelta(t, 111.19492664492002, Distance(Location{0, 0}, Location{1, 0}), 1e-9)

	p1 := Location{Lon: 37.6417350769043, Lat: 55.751849391735284}
	p2 := Location{Lon: 37.668514251708984, Lat: 55.73261980350401}
	assert.InDelta(t, 3.4252688222127006, Distance(p1, p2), 1e-9)
	assert.Equal(t, 0.0, Distance(p1, p1))
}

func TestDistanceSymmetric(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		a := Location{Lon: rnd.Float64()*360 - 180, Lat: rnd.Float64()*170 - 85}
		b := Location{Lon: rnd.Float64()*360 - 180, Lat: rnd.Float64()*170 - 85}
		assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9, "points %v and %v", a, b)
	}
}

func TestBearingQuadrants(t *testing.T) {
	origin := Location{0, 0}
	cases := []struct {
		target   Location
		expected float64
	}{
		{Location{0, 1}, 0},
		{Location{1, 1}, 45},
		{Location{1, -1}, 135},
		{Location{0, -1}, 180},
		{Location{-1, -1}, 225},
		{Location{-1, 1}, 315},
		{Location{1, 0}, 90},
		{Location{-1, 0}, 270},
	}
	for _, c := range cases {
		assert.InDelta(t, c.expected, Bearing(origin, c.target), 1e-6, "bearing to %v", c.target)
	}
}

func TestBearingOpposite(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		a := Location{Lon: rnd.Float64()*10 - 5, Lat: rnd.Float64()*10 - 5}
		b := Location{Lon: rnd.Float64()*10 - 5, Lat: rnd.Float64()*10 - 5}
		if a.Lon == b.Lon || a.Lat == b.Lat {
			continue
		}
		forward := Bearing(a, b)
		backward := Bearing(b, a)
		require.True(t, forward >= 0 && forward < 360, "bearing %f out of range", forward)
		diff := math.Mod(math.Abs(forward-backward), 360)
		assert.InDelta(t, 180, diff, 1e-9, "points %v and %v", a, b)
	}
}

func TestInverseOffset(t *testing.T) {
	dLon, dLat := InverseOffset(0, 1)
	assert.InDelta(t, 0.008993216059158086, dLon, 1e-15)
	assert.InDelta(t, 0.008993216059158086, dLat, 1e-15)

	dLon, dLat = InverseOffset(60, 1)
	assert.InDelta(t, 0.01798643233998649, dLon, 1e-12)
	assert.InDelta(t, 0.008993216059158086, dLat, 1e-15)
}

func TestOffsetPoint(t *testing.T) {
	a := Location{0, 0}
	b := Location{0, 1}
	left := OffsetPoint(a, b, 0.003, SIDE_LEFT)
	right := OffsetPoint(a, b, 0.003, SIDE_RIGHT)
	assert.Less(t, left.Lon, 0.0)
	assert.Greater(t, right.Lon, 0.0)
	assert.InDelta(t, 0, left.Lat, 1e-12)
	assert.InDelta(t, 0.003, Distance(a, left), 1e-6)
	assert.InDelta(t, 0.003, Distance(a, right), 1e-6)
}

func TestParallelSegment(t *testing.T) {
	a := Location{0, 0}
	b := Location{0, 1}
	d := 0.003
	start, end := ParallelSegment(a, b, d, SIDE_LEFT)
	// Perpendicular separation along a north bound line is longitude difference
	for _, fraction := range []float64{0, 0.25, 0.5, 0.75, 1} {
		pt := pointOnSegmentByFraction(start, end, fraction)
		assert.InDelta(t, d, Distance(pt, Location{0, pt.Lat}), 1e-5, "fraction %f", fraction)
		assert.Less(t, pt.Lon, 0.0)
	}
	_, crosses := segmentsCross(a, b, start, end)
	assert.False(t, crosses)
	assert.InDelta(t, 1.0, end.Lat, 1e-12)

	startRight, endRight := ParallelSegment(a, b, d, SIDE_RIGHT)
	assert.Greater(t, startRight.Lon, 0.0)
	assert.Greater(t, endRight.Lon, 0.0)
}

func TestOrthogonalLine(t *testing.T) {
	a := Location{0, 0}
	b := Location{0.01, 0}
	left, right := OrthogonalLine(a, b, 0.002)
	// Road heads east: left is north, right is south
	assert.Greater(t, left.Lat, a.Lat)
	assert.Less(t, right.Lat, a.Lat)
	assert.InDelta(t, 0.004, Distance(left, right), 1e-6)
}

func TestTurningAngle(t *testing.T) {
	assert.InDelta(t, 180, TurningAngle(Location{0, 0}, Location{0, 1}, Location{0, 2}), 1e-9)
	// North then east is a right turn
	assert.InDelta(t, 270, TurningAngle(Location{0, 0}, Location{0, 0.01}, Location{0.01, 0.01}), 1e-6)
	// North then west is a left turn
	assert.InDelta(t, 90, TurningAngle(Location{0, 0}, Location{0, 0.01}, Location{-0.01, 0.01}), 1e-6)

	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		a := Location{Lon: rnd.Float64(), Lat: rnd.Float64()}
		b := Location{Lon: rnd.Float64(), Lat: rnd.Float64()}
		c := Location{Lon: rnd.Float64(), Lat: rnd.Float64()}
		alpha := TurningAngle(a, b, c)
		assert.True(t, alpha >= 0 && alpha < 360, "angle %f out of range", alpha)
	}
}

func TestSubdivide(t *testing.T) {
	a := Location{0, 0}
	b := Location{0, 1}
	dist := Distance(a, b)
	pts := Subdivide(a, b, dist/4)
	require.Len(t, pts, 3)
	assert.InDelta(t, 0.25, pts[0].Lat, 1e-12)
	assert.InDelta(t, 0.5, pts[1].Lat, 1e-12)
	assert.InDelta(t, 0.75, pts[2].Lat, 1e-12)

	assert.Empty(t, Subdivide(a, b, dist*2))
	assert.Empty(t, Subdivide(a, b, 0))
	assert.Empty(t, Subdivide(a, a, 1))
}

func TestLineLength(t *testing.T) {
	line := []Location{{0, 0}, {0, 1}, {1, 1}}
	assert.InDelta(t, Distance(line[0], line[1])+Distance(line[1], line[2]), LineLength(line), 1e-12)
	assert.Equal(t, 0.0, LineLength(line[:1]))
}

func TestIntersect(t *testing.T) {
	pt, ok := intersect(Location{0, 0}, Location{2, 2}, Location{0, 2}, Location{2, 0})
	require.True(t, ok)
	assert.InDelta(t, 1, pt.Lon, 1e-12)
	assert.InDelta(t, 1, pt.Lat, 1e-12)

	_, ok = intersect(Location{0, 0}, Location{1, 1}, Location{0, 1}, Location{1, 2})
	assert.False(t, ok)
}

func TestSegmentsCross(t *testing.T) {
	_, ok := segmentsCross(Location{0, 0}, Location{2, 2}, Location{0, 2}, Location{2, 0})
	assert.True(t, ok)
	// Lines cross but segments do not
	_, ok = segmentsCross(Location{0, 0}, Location{1, 1}, Location{3, 0}, Location{2, 1})
	assert.False(t, ok)
	// Touching at end point
	_, ok = segmentsCross(Location{0, 0}, Location{1, 1}, Location{1, 1}, Location{2, 0})
	assert.False(t, ok)
}
