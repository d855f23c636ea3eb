package ionosphere

import (
	"fmt"
	"os"
	"sync"

	kitlog "github.com/go-kit/kit/log"
)

const (
	// SpeedOfLight is the propagation speed in vacuum, in m/s.
	SpeedOfLight = 299792458.0
	// refractivityK is the first order ionospheric refractivity coefficient
	// (equations 6.69/6.70 of Montenbruck and Gill).
	refractivityK = 40.3
)

// CorrectionModel selects how the ionospheric correction is computed.
type CorrectionModel uint8

const (
	// IRI2007 integrates an electron density model along the signal path.
	IRI2007 CorrectionModel = iota
	// TRK223 evaluates DSN TRK-2-23 calibration records.
	TRK223
)

// String implements the Stringer interface.
func (m CorrectionModel) String() string {
	switch m {
	case IRI2007:
		return "IRI2007"
	case TRK223:
		return "TRK-2-23"
	default:
		return fmt.Sprintf("CorrectionModel(%d)", uint8(m))
	}
}

// ParseCorrectionModel returns the model matching the provided name.
func ParseCorrectionModel(name string) (CorrectionModel, error) {
	switch name {
	case "IRI2007":
		return IRI2007, nil
	case "TRK-2-23":
		return TRK223, nil
	default:
		return 0, ConfigurationError{fmt.Sprintf("unrecognized ionosphere model %q, supported models are IRI2007 and TRK-2-23", name)}
	}
}

// Correction is an ionospheric media correction triple. The caller applies it
// additively to raw measurements.
type Correction struct {
	Range float64 // m
	Angle float64 // rad, elevation
	Time  float64 // s, always Range over the speed of light
}

// Request carries the inputs of a single correction computation.
type Request struct {
	StationLoc    []float64 // station position in body fixed frame, km
	SpacecraftLoc []float64 // spacecraft position in body fixed frame, km
	WaveLength    float64   // signal wave length, m
	Epoch         Epoch
	BodyRadius    float64 // km; zero selects the radius of the configured body
	StationID     string  // TRK-2-23 only
	SpacecraftID  int     // TRK-2-23 only
}

// Ionosphere computes ionospheric propagation corrections for signal paths
// between a ground station and a spacecraft. The calibration table and the
// validity windows are set once at construction and never mutated; the only
// state shared between calls is the one-shot out-of-range warning.
type Ionosphere struct {
	Body       CelestialObject
	Model      CorrectionModel
	provider   ElectronDensityProvider
	store      *CalibrationStore
	softWindow ValidityWindow // ig_rz ionospheric activity data, warn and proceed
	hardWindow ValidityWindow // ap driving parameter data, cannot be extrapolated
	logger     kitlog.Logger
	softWarn   sync.Once
	initOnce   sync.Once
	initErr    error
}

// NewIonosphere returns a correction object for the provided model. The
// provider may be nil for TRK-2-23 and the store nil for IRI2007. The windows
// come from the reference data collaborator (cf. ReadIGRZRange, ReadAPRange).
func NewIonosphere(model CorrectionModel, provider ElectronDensityProvider, store *CalibrationStore, soft, hard ValidityWindow) *Ionosphere {
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	klog = kitlog.With(klog, "model", model.String())
	return &Ionosphere{Body: Earth, Model: model, provider: provider, store: store, softWindow: soft, hardWindow: hard, logger: klog}
}

// SetLogger changes the warning logger.
func (i *Ionosphere) SetLogger(logger kitlog.Logger) {
	i.logger = logger
}

// Correction computes the range (m), elevation angle (rad) and time (s)
// corrections for the provided request.
func (i *Ionosphere) Correction(req Request) (Correction, error) {
	switch i.Model {
	case IRI2007:
		return i.physicsCorrection(req)
	case TRK223:
		return i.calibrationCorrection(req)
	default:
		return Correction{}, ConfigurationError{fmt.Sprintf("unrecognized ionosphere model %s, supported models are IRI2007 and TRK-2-23", i.Model)}
	}
}

// physicsCorrection integrates the electron density model along the signal path.
func (i *Ionosphere) physicsCorrection(req Request) (Correction, error) {
	if i.provider == nil {
		return Correction{}, DataUnavailableError{What: "no electron density provider configured"}
	}
	i.initOnce.Do(func() {
		if err := i.provider.Initialize(); err != nil {
			i.initErr = DataUnavailableError{What: "electron density model initialization failed", Err: err}
		}
	})
	if i.initErr != nil {
		return Correction{}, i.initErr
	}
	if err := i.checkWindows(req.Epoch); err != nil {
		return Correction{}, err
	}

	radius := req.BodyRadius
	if radius == 0 {
		radius = i.Body.Radius
	}
	shellRadius := radius + MaxShellAltitude
	freq := SpeedOfLight / req.WaveLength

	tec, err := i.tec(req.StationLoc, req.SpacecraftLoc, req.Epoch, shellRadius)
	if err != nil {
		return Correction{}, err
	}
	Δρ := refractivityK * tec / (freq * freq)
	Δφ, err := i.bendingAngle(req.StationLoc, req.SpacecraftLoc, req.Epoch, shellRadius, freq)
	if err != nil {
		return Correction{}, err
	}
	return Correction{Δρ, Δφ, Δρ / SpeedOfLight}, nil
}

// checkWindows validates the epoch against the two reference data windows.
// The ionospheric activity window only warns, once per instance; the driving
// parameter window is a hard failure.
func (i *Ionosphere) checkWindows(epoch Epoch) error {
	if !i.softWindow.Contains(epoch) {
		i.softWarn.Do(func() {
			i.logger.Log("level", "warning",
				"msg", "epoch is out of the time range of the ionospheric activity data, corrections may be unreliable",
				"epoch", epoch.String(), "from", i.softWindow.MinDate(), "to", i.softWindow.MaxDate())
		})
	}
	if !i.hardWindow.Contains(epoch) {
		return RangeValidationError{Epoch: epoch, Window: i.hardWindow}
	}
	return nil
}

// calibrationCorrection evaluates the TRK-2-23 calibration table. The complex
// level entry is mandatory; a station level entry, when present, is additive.
func (i *Ionosphere) calibrationCorrection(req Request) (Correction, error) {
	if i.store == nil {
		return Correction{}, DataUnavailableError{What: "no TRK-2-23 calibration table loaded"}
	}
	stationKey, complexKey, err := canonicalStationKeys(req.StationID)
	if err != nil {
		return Correction{}, err
	}
	scKey := spacecraftKey(req.SpacecraftID)

	complexEntry, stationEntry := i.store.Lookup(complexKey, stationKey, scKey, req.Epoch)
	if complexEntry == nil {
		return Correction{}, CalibrationNotFoundError{Station: stationKey, Complex: complexKey, Spacecraft: scKey, Epoch: req.Epoch}
	}
	raw, err := complexEntry.Evaluate(req.Epoch)
	if err != nil {
		return Correction{}, err
	}
	if stationEntry != nil {
		v, err := stationEntry.Evaluate(req.Epoch)
		if err != nil {
			return Correction{}, err
		}
		raw += v
	}

	freq := SpeedOfLight / req.WaveLength
	Δρ := rescaleSBand(raw, freq)
	return Correction{Δρ, 0, Δρ / SpeedOfLight}, nil
}
