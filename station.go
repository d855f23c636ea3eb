package ionosphere

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat/distmv"
)

var (
	σρ    = math.Pow(5e-3, 2) // m , but all measurements in km.
	σρDot = math.Pow(5e-6, 2) // m/s , but all measurements in km/s.
	// Reference stations of the three DSN tracking complexes.
	DSS13Goldstone = NewStation("DSS13Goldstone", 13, 1.07114904, 6, 35.247164, 243.205, σρ, σρDot)
	DSS34Canberra  = NewStation("DSS34Canberra", 34, 0.691750, 6, -35.398333, 148.981944, σρ, σρDot)
	DSS65Madrid    = NewStation("DSS65Madrid", 65, 0.834939, 6, 40.427222, 4.250556, σρ, σρDot)
)

// Station defines a DSN ground station.
type Station struct {
	Name                       string
	No                         int       // DSN station number, drives complex membership
	R                          []float64 // position in ECEF, km
	LatΦ, Longθ                float64   // these are stored in radians!
	Altitude, Elevation        float64
	RangeNoise, RangeRateNoise *distmv.Normal // Station noise
}

// ID returns the identifier used to resolve calibrations for this station.
func (s Station) ID() string {
	return fmt.Sprintf("%d", s.No)
}

// RangeElAz returns the range (in the SEZ frame), elevation and azimuth (in degrees) of a given R vector in ECEF.
func (s Station) RangeElAz(rECEF []float64) (ρECEF []float64, ρ, el, az float64) {
	ρECEF = make([]float64, 3)
	for i := 0; i < 3; i++ {
		ρECEF[i] = rECEF[i] - s.R[i]
	}
	ρ = norm(ρECEF)
	rSEZ := MxV33(R3(s.Longθ), ρECEF)
	rSEZ = MxV33(R2(math.Pi/2-s.LatΦ), rSEZ)
	el = math.Asin(rSEZ[2]/ρ) * rad2deg
	az = (2*math.Pi + math.Atan2(rSEZ[1], -rSEZ[0])) * rad2deg
	return
}

// NoisyRange returns the range with this station's measurement noise applied.
func (s Station) NoisyRange(ρ float64) float64 {
	return ρ + s.RangeNoise.Rand(nil)[0]
}

// NoisyRangeRate returns the range rate with this station's measurement noise applied.
func (s Station) NoisyRangeRate(ρDot float64) float64 {
	return ρDot + s.RangeRateNoise.Rand(nil)[0]
}

// String implements the Stringer interface.
func (s Station) String() string {
	return fmt.Sprintf("%s (%f,%f); alt = %f km; el = %f deg", s.Name, s.LatΦ/deg2rad, s.Longθ/deg2rad, s.Altitude, s.Elevation)
}

// NewStation returns a new station. Angles in degrees.
func NewStation(name string, no int, altitude, elevation, latΦ, longθ, σρ, σρDot float64) Station {
	R := GEO2ECEF(altitude, latΦ*deg2rad, longθ*deg2rad)
	seed := rand.New(rand.NewSource(time.Now().UnixNano()))
	ρNoise, ok := distmv.NewNormal([]float64{0}, mat64.NewSymDense(1, []float64{σρ}), seed)
	if !ok {
		panic("NOK in Gaussian")
	}
	ρDotNoise, ok := distmv.NewNormal([]float64{0}, mat64.NewSymDense(1, []float64{σρDot}), seed)
	if !ok {
		panic("NOK in Gaussian")
	}
	return Station{name, no, R, latΦ * deg2rad, longθ * deg2rad, altitude, elevation, ρNoise, ρDotNoise}
}

// StationByID returns the catalog station matching the provided identifier:
// its name, its complex alias or its station number.
func StationByID(id string) (Station, error) {
	switch id {
	case "GDS":
		return DSS13Goldstone, nil
	case "CAN":
		return DSS34Canberra, nil
	case "MAD":
		return DSS65Madrid, nil
	}
	for _, s := range []Station{DSS13Goldstone, DSS34Canberra, DSS65Madrid} {
		if s.Name == id || s.ID() == id {
			return s, nil
		}
	}
	return Station{}, ConfigurationError{fmt.Sprintf("unknown ground station %q", id)}
}
