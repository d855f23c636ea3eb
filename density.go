package ionosphere

import "math"

// ElectronDensityProvider maps a geodetic position and date to free electron
// density. Implementations wrap an external physical model (e.g. an IRI2007
// binding); they must behave as pure functions of their inputs. Latitude and
// longitude are geocentric, in degrees; altitude is above the mean equatorial
// radius, in km; monthDay is an mmdd integer and hours the decimal UTC hour.
// The returned density is in electrons/m³; negative outputs are clamped to
// zero by the caller.
type ElectronDensityProvider interface {
	// Initialize loads the model's backing reference data. It is called once
	// by the correction object before the first density evaluation and must
	// fail when that data is unavailable.
	Initialize() error
	ElectronDensity(latitude, longitude, altitude float64, year, monthDay int, hours float64) (float64, error)
}

// electronDensity evaluates the provider at the provided body fixed position
// (km), clamping negative outputs to zero.
func (i *Ionosphere) electronDensity(pos []float64, epoch Epoch) (float64, error) {
	latitude, longitude, altitude := ECEF2GEO(pos)
	year, monthDay, hours := epoch.Calendar()
	ρ, err := i.provider.ElectronDensity(latitude*rad2deg, longitude*rad2deg, altitude, year, monthDay, hours)
	if err != nil {
		return 0, DataUnavailableError{What: "electron density evaluation failed", Err: err}
	}
	if ρ < 0 {
		ρ = 0
	}
	return ρ, nil
}

// ConstantDensity is an ElectronDensityProvider returning the same density
// everywhere, mostly useful to bound corrections and in tests.
type ConstantDensity float64

// Initialize implements ElectronDensityProvider.
func (c ConstantDensity) Initialize() error {
	return nil
}

// ElectronDensity implements ElectronDensityProvider.
func (c ConstantDensity) ElectronDensity(latitude, longitude, altitude float64, year, monthDay int, hours float64) (float64, error) {
	return float64(c), nil
}

// ChapmanLayer is an analytical single layer ionosphere: a Chapman profile
// centered on the F2 peak. It is a crude stand-in for a full empirical model
// but gives physically shaped vertical profiles without any backing data.
type ChapmanLayer struct {
	PeakDensity  float64 // NmF2, electrons/m³
	PeakAltitude float64 // hmF2, km
	ScaleHeight  float64 // km
}

// Initialize implements ElectronDensityProvider.
func (c ChapmanLayer) Initialize() error {
	if c.PeakDensity < 0 || c.PeakAltitude <= 0 || c.ScaleHeight <= 0 {
		return ConfigurationError{"ChapmanLayer needs a non-negative peak density and positive peak altitude and scale height"}
	}
	return nil
}

// ElectronDensity implements ElectronDensityProvider.
func (c ChapmanLayer) ElectronDensity(latitude, longitude, altitude float64, year, monthDay int, hours float64) (float64, error) {
	z := (altitude - c.PeakAltitude) / c.ScaleHeight
	return c.PeakDensity * math.Exp(0.5*(1-z-math.Exp(-z))), nil
}
