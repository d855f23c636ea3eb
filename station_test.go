package ionosphere

import (
	"errors"
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestStationByID(t *testing.T) {
	for id, exp := range map[string]string{
		"GDS":         "DSS13Goldstone",
		"CAN":         "DSS34Canberra",
		"MAD":         "DSS65Madrid",
		"13":          "DSS13Goldstone",
		"34":          "DSS34Canberra",
		"DSS65Madrid": "DSS65Madrid",
	} {
		s, err := StationByID(id)
		if err != nil {
			t.Fatalf("%s: %s", id, err)
		}
		if s.Name != exp {
			t.Fatalf("%s resolved to %s, expected %s", id, s.Name, exp)
		}
	}
	var cfgErr ConfigurationError
	if _, err := StationByID("DSS99"); !errors.As(err, &cfgErr) {
		t.Fatalf("expected a ConfigurationError, got %v", err)
	}
}

func TestStationPosition(t *testing.T) {
	s := DSS34Canberra
	if !floats.EqualWithinAbs(norm(s.R), Earth.Radius+s.Altitude, 1e-9) {
		t.Fatal("station radius does not match its altitude")
	}
	if s.ID() != "34" {
		t.Fatalf("station id = %s", s.ID())
	}
}

func TestRangeElAz(t *testing.T) {
	s := NewStation("test", 10, 0, 6, 0, 0, σρ, σρDot)
	// From a station on the equator at the prime meridian, a point 100 km up
	// and 100 km out sits at 45 degrees of elevation.
	rECEF := []float64{s.R[0] + 100, 0, 100}
	_, ρ, el, _ := s.RangeElAz(rECEF)
	if !floats.EqualWithinAbs(el, 45, 1e-9) {
		t.Fatalf("elevation = %f deg", el)
	}
	if !floats.EqualWithinAbs(ρ, 100*math.Sqrt2, 1e-9) {
		t.Fatalf("range = %f km", ρ)
	}
}

func TestNoisyRange(t *testing.T) {
	s := DSS65Madrid
	const draws = 2000
	sum := 0.0
	for k := 0; k < draws; k++ {
		sum += s.NoisyRange(1000) - 1000
	}
	mean := sum / draws
	// 4 standard errors of the configured range noise.
	if math.Abs(mean) > 4*math.Sqrt(σρ/draws) {
		t.Fatalf("range noise mean = %e km", mean)
	}
	sum = 0.0
	for k := 0; k < draws; k++ {
		sum += s.NoisyRangeRate(10) - 10
	}
	mean = sum / draws
	if math.Abs(mean) > 4*math.Sqrt(σρDot/draws) {
		t.Fatalf("range rate noise mean = %e km/s", mean)
	}
}
