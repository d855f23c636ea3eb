package ionosphere

import "math"

// MaxShellAltitude is the altitude in km above the body radius below which the
// ionospheric electron density is modeled as significant.
const MaxShellAltitude = 2000.0

// pathSegment bounds the in-shell portion of the station→spacecraft line, in
// body fixed km.
type pathSegment struct {
	start, end []float64
}

// length returns the segment length in km.
func (p pathSegment) length() float64 {
	return norm(sub(p.end, p.start))
}

// intersectShell clips the bounded station→spacecraft segment to the sphere of
// the provided radius in km. The second return is false when the signal path
// misses the shell entirely, in which case all corrections are zero.
// Solution to where a line intersects a sphere is a quadratic equation.
func intersectShell(station, spacecraft []float64, shellRadius float64) (pathSegment, bool) {
	s := sub(spacecraft, station)
	a := dot(s, s)
	b := 2 * dot(station, s)
	c := dot(station, station) - shellRadius*shellRadius

	discriminant := b*b - 4*a*c
	if discriminant <= 0 {
		return pathSegment{}, false // Path does not travel through the ionosphere.
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := (-b - sqrtD) / (2 * a)
	t2 := (-b + sqrtD) / (2 * a)
	if (t1 > 1 && t2 > 1) || (t1 < 0 && t2 < 0) {
		return pathSegment{}, false // Both crossings outside the bounded segment.
	}

	// The physical signal is a bounded segment, not an infinite ray.
	t1 = math.Max(t1, 0)
	t2 = math.Min(t2, 1)
	return pathSegment{add(station, scale(t1, s)), add(station, scale(t2, s))}, true
}
