package ionosphere

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// sBandRefFreq is the frequency in Hz at which TRK-2-23 calibration
// coefficients are characterized. Other downlink frequencies rescale by the
// inverse square frequency dependence of the ionospheric delay.
const sBandRefFreq = 2295e6

// CalibrationForm identifies the functional form of a TRK-2-23 calibration entry.
type CalibrationForm uint8

const (
	// FormConst is a single constant coefficient.
	FormConst CalibrationForm = iota
	// FormTrig is a constant plus a harmonic series of the period coef[0].
	FormTrig
	// FormNrmPow is a power series over the validity span normalized to [-1, 1].
	FormNrmPow
)

// String implements the Stringer interface.
func (f CalibrationForm) String() string {
	switch f {
	case FormConst:
		return "CONST"
	case FormTrig:
		return "TRIG"
	case FormNrmPow:
		return "NRMPOW"
	default:
		return fmt.Sprintf("CalibrationForm(%d)", uint8(f))
	}
}

// ParseCalibrationForm returns the calibration form matching the provided tag.
func ParseCalibrationForm(tag string) (CalibrationForm, error) {
	switch tag {
	case "CONST":
		return FormConst, nil
	case "TRIG":
		return FormTrig, nil
	case "NRMPOW":
		return FormNrmPow, nil
	default:
		return 0, ConfigurationError{fmt.Sprintf("math format %q does not match the allowed types NRMPOW, TRIG, or CONST", tag)}
	}
}

// CalibrationEntry is one TRK-2-23 ionospheric calibration record.
type CalibrationEntry struct {
	MeasurementType string // DOPRNG or RANGE
	Form            CalibrationForm
	Coefs           []float64
	Class           string // data class, CHPART for charged particle corrections
	Start, End      Epoch  // validity bounds, inclusive at both ends
	Applicability   string // DSN(Cnn) for a complex, DSN(nnn) for a single station
	Spacecraft      string // SCID(nn)
}

// Covers returns whether this entry applies at the provided epoch.
func (e CalibrationEntry) Covers(epoch Epoch) bool {
	return e.Start <= epoch && epoch <= e.End
}

// Evaluate returns this entry's raw range correction in meters at the S-band
// reference frequency.
func (e CalibrationEntry) Evaluate(epoch Epoch) (float64, error) {
	switch e.Form {
	case FormConst:
		if len(e.Coefs) != 1 {
			return 0, ConfigurationError{fmt.Sprintf("CONST calibration needs exactly one coefficient, got %d", len(e.Coefs))}
		}
		return e.Coefs[0], nil

	case FormTrig:
		if len(e.Coefs) < 2 || len(e.Coefs)%2 != 0 {
			return 0, ConfigurationError{fmt.Sprintf("TRIG calibration needs a period, a constant and harmonic coefficient pairs, got %d coefficients", len(e.Coefs))}
		}
		τ := 2 * math.Pi * (epoch.Seconds() - e.Start.Seconds()) / e.Coefs[0]
		drho := e.Coefs[1]
		for k := 1; 2*k+1 < len(e.Coefs); k++ {
			drho += e.Coefs[2*k]*math.Cos(τ*float64(k)) + e.Coefs[2*k+1]*math.Sin(τ*float64(k))
		}
		return drho, nil

	case FormNrmPow:
		τ := 2*(epoch.Seconds()-e.Start.Seconds())/(e.End.Seconds()-e.Start.Seconds()) - 1
		drho, pow := 0.0, 1.0
		for _, c := range e.Coefs {
			drho += c * pow
			pow *= τ
		}
		return drho, nil

	default:
		return 0, ConfigurationError{fmt.Sprintf("unsupported calibration functional form %s", e.Form)}
	}
}

// rescaleSBand rescales a correction characterized at the S-band reference
// frequency to the actual signal frequency in Hz.
func rescaleSBand(drho, freq float64) float64 {
	r := sBandRefFreq / freq
	return drho * r * r
}

// CalibrationStore is the in-memory TRK-2-23 calibration table. It is loaded
// once by a data collaborator and read-only thereafter.
type CalibrationStore struct {
	entries []CalibrationEntry
}

// NewCalibrationStore returns a store over the provided entries.
func NewCalibrationStore(entries []CalibrationEntry) *CalibrationStore {
	return &CalibrationStore{entries}
}

// Len returns the number of entries in the table.
func (s *CalibrationStore) Len() int {
	return len(s.entries)
}

// Lookup returns the complex level and station level charged particle entries
// applicable to the provided canonical keys at the provided epoch. Either may
// be nil; for duplicate applicable entries, the last one loaded wins.
func (s *CalibrationStore) Lookup(complexKey, stationKey, scKey string, epoch Epoch) (complexEntry, stationEntry *CalibrationEntry) {
	for idx := range s.entries {
		e := &s.entries[idx]
		if e.Spacecraft != scKey || e.Class != "CHPART" {
			continue
		}
		if e.MeasurementType != "DOPRNG" && e.MeasurementType != "RANGE" {
			continue
		}
		if !e.Covers(epoch) {
			continue
		}
		switch e.Applicability {
		case complexKey:
			complexEntry = e
		case stationKey:
			stationEntry = e
		}
	}
	return
}

// canonicalStationKeys expands a ground station identifier into its canonical
// station and tracking complex keys. Accepted identifiers are the GDS/CAN/MAD
// complex aliases, a DSN station number ("14") or a complex number ("C10").
// Station numbers below 30 belong to Goldstone (C10), 30 to 49 to Canberra
// (C40) and 50 and above to Madrid (C60).
func canonicalStationKeys(id string) (station, cplx string, err error) {
	switch id {
	case "GDS":
		return "DSN(C10)", "DSN(C10)", nil
	case "CAN":
		return "DSN(C40)", "DSN(C40)", nil
	case "MAD":
		return "DSN(C60)", "DSN(C60)", nil
	}

	numStr := id
	if strings.HasPrefix(id, "C") {
		numStr = id[1:]
	}
	number, aerr := strconv.Atoi(numStr)
	if aerr != nil {
		return "", "", ConfigurationError{fmt.Sprintf("unrecognized ground station identifier %q", id)}
	}

	if len(id) < 3 {
		station = "DSN(0" + id + ")"
	} else {
		station = "DSN(" + id + ")"
	}
	switch {
	case number < 30:
		cplx = "DSN(C10)"
	case number < 50:
		cplx = "DSN(C40)"
	default:
		cplx = "DSN(C60)"
	}
	return station, cplx, nil
}

// spacecraftKey returns the canonical SCID key of a spacecraft identifier.
func spacecraftKey(id int) string {
	return fmt.Sprintf("SCID(%d)", id)
}
