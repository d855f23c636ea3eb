package ionosphere

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/gonum/floats"
)

func TestCanonicalStationKeys(t *testing.T) {
	for _, exp := range []struct {
		id, station, cplx string
	}{
		{"GDS", "DSN(C10)", "DSN(C10)"},
		{"CAN", "DSN(C40)", "DSN(C40)"},
		{"MAD", "DSN(C60)", "DSN(C60)"},
		{"14", "DSN(014)", "DSN(C10)"},
		{"34", "DSN(034)", "DSN(C40)"},
		{"65", "DSN(065)", "DSN(C60)"},
		{"C10", "DSN(C10)", "DSN(C10)"},
		{"C40", "DSN(C40)", "DSN(C40)"},
		{"255", "DSN(255)", "DSN(C60)"},
	} {
		station, cplx, err := canonicalStationKeys(exp.id)
		if err != nil {
			t.Fatalf("%s: %s", exp.id, err)
		}
		if station != exp.station || cplx != exp.cplx {
			t.Fatalf("%s resolved to %s / %s, expected %s / %s", exp.id, station, cplx, exp.station, exp.cplx)
		}
	}
	var cfgErr ConfigurationError
	if _, _, err := canonicalStationKeys("XYZ"); !errors.As(err, &cfgErr) {
		t.Fatalf("expected a ConfigurationError for a bogus identifier, got %v", err)
	}
	if spacecraftKey(32) != "SCID(32)" {
		t.Fatal("spacecraft key fail")
	}
}

func calEntry(form CalibrationForm, coefs []float64) CalibrationEntry {
	return CalibrationEntry{
		MeasurementType: "DOPRNG",
		Form:            form,
		Coefs:           coefs,
		Class:           "CHPART",
		Start:           epochAt(2004, time.January, 1, 0, 0),
		End:             epochAt(2004, time.January, 2, 0, 0),
		Applicability:   "DSN(C40)",
		Spacecraft:      "SCID(32)",
	}
}

func TestEvaluateConst(t *testing.T) {
	entry := calEntry(FormConst, []float64{2.5})
	v, err := entry.Evaluate(entry.Start + 0.3)
	if err != nil {
		t.Fatal(err)
	}
	if v != 2.5 {
		t.Fatalf("CONST evaluated to %f", v)
	}
	if _, err = calEntry(FormConst, []float64{1, 2}).Evaluate(entry.Start); err == nil {
		t.Fatal("CONST with two coefficients accepted")
	}
}

func TestEvaluateTrig(t *testing.T) {
	// One harmonic over a one day period, a quarter period into the window.
	entry := calEntry(FormTrig, []float64{86400, 1.5, 0.3, 0.4})
	v, err := entry.Evaluate(entry.Start + 0.25)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(v, 1.5+0.3*math.Cos(math.Pi/2)+0.4*math.Sin(math.Pi/2), 1e-9) {
		t.Fatalf("TRIG evaluated to %f", v)
	}
	// At the window start τ = 0, only the constant and cosine terms remain.
	v, err = entry.Evaluate(entry.Start)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(v, 1.8, 1e-9) {
		t.Fatalf("TRIG at window start evaluated to %f", v)
	}
	// A dangling harmonic coefficient is a configuration error, not an
	// out-of-bounds read.
	var cfgErr ConfigurationError
	if _, err = calEntry(FormTrig, []float64{86400, 1.5, 0.3}).Evaluate(entry.Start); !errors.As(err, &cfgErr) {
		t.Fatalf("expected a ConfigurationError for an odd coefficient count, got %v", err)
	}
}

func TestEvaluateNrmPow(t *testing.T) {
	entry := calEntry(FormNrmPow, []float64{2, 3, 4})
	// τ = -1 at the window start, +1 at its end, 0 in the middle.
	for _, exp := range []struct {
		epoch Epoch
		value float64
	}{
		{entry.Start, 2 - 3 + 4},
		{entry.End, 2 + 3 + 4},
		{(entry.Start + entry.End) / 2, 2},
	} {
		v, err := entry.Evaluate(exp.epoch)
		if err != nil {
			t.Fatal(err)
		}
		if !floats.EqualWithinAbs(v, exp.value, 1e-9) {
			t.Fatalf("NRMPOW at %s evaluated to %f, expected %f", exp.epoch, v, exp.value)
		}
	}
	// A single coefficient series is constant regardless of t.
	single := calEntry(FormNrmPow, []float64{7})
	for _, epoch := range []Epoch{single.Start, single.End, single.Start + 0.123} {
		if v, _ := single.Evaluate(epoch); v != 7 {
			t.Fatalf("single coefficient NRMPOW evaluated to %f", v)
		}
	}
}

func TestEvaluateUnsupportedForm(t *testing.T) {
	entry := calEntry(CalibrationForm(9), []float64{1})
	var cfgErr ConfigurationError
	if _, err := entry.Evaluate(entry.Start); !errors.As(err, &cfgErr) {
		t.Fatalf("expected a ConfigurationError, got %v", err)
	}
	if _, err := ParseCalibrationForm("POLY"); !errors.As(err, &cfgErr) {
		t.Fatalf("expected a ConfigurationError, got %v", err)
	}
}

func TestEntryCoversInclusiveBounds(t *testing.T) {
	entry := calEntry(FormConst, []float64{1})
	if !entry.Covers(entry.Start) || !entry.Covers(entry.End) {
		t.Fatal("validity bounds must be inclusive")
	}
	if entry.Covers(entry.Start-1e-9) || entry.Covers(entry.End+1e-9) {
		t.Fatal("entry applies outside its validity window")
	}
}

func TestCalibrationCorrectionScaling(t *testing.T) {
	store := NewCalibrationStore([]CalibrationEntry{calEntry(FormConst, []float64{2.5})})
	iono := NewIonosphere(TRK223, nil, store, openWindow, openWindow)
	req := Request{
		WaveLength:   SpeedOfLight / sBandRefFreq,
		Epoch:        epochAt(2004, time.January, 1, 12, 0),
		StationID:    "34",
		SpacecraftID: 32,
	}
	correction, err := iono.Correction(req)
	if err != nil {
		t.Fatal(err)
	}
	// At the S-band reference frequency the stored coefficient passes through.
	if !floats.EqualWithinAbs(correction.Range, 2.5, 1e-12) {
		t.Fatalf("range correction = %f m at the reference frequency", correction.Range)
	}
	if correction.Angle != 0 {
		t.Fatal("empirical model must not produce an angle correction")
	}
	if correction.Time != correction.Range/SpeedOfLight {
		t.Fatal("time correction is not range over the speed of light")
	}
	// Half the frequency quadruples the correction.
	req.WaveLength = 2 * SpeedOfLight / sBandRefFreq
	correction, err = iono.Correction(req)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(correction.Range, 10, 1e-12) {
		t.Fatalf("range correction = %f m at half the reference frequency", correction.Range)
	}
}

func TestCalibrationComplexAndStationSum(t *testing.T) {
	complexEntry := calEntry(FormConst, []float64{2.5})
	stationEntry := calEntry(FormConst, []float64{-0.75})
	stationEntry.Applicability = "DSN(034)"
	store := NewCalibrationStore([]CalibrationEntry{complexEntry, stationEntry})
	iono := NewIonosphere(TRK223, nil, store, openWindow, openWindow)
	correction, err := iono.Correction(Request{
		WaveLength:   SpeedOfLight / sBandRefFreq,
		Epoch:        epochAt(2004, time.January, 1, 12, 0),
		StationID:    "34",
		SpacecraftID: 32,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(correction.Range, 2.5-0.75, 1e-12) {
		t.Fatalf("summed correction = %f m", correction.Range)
	}
}

func TestCalibrationNotFound(t *testing.T) {
	// A station level entry alone does not satisfy the mandatory complex match.
	stationOnly := calEntry(FormConst, []float64{1})
	stationOnly.Applicability = "DSN(034)"
	store := NewCalibrationStore([]CalibrationEntry{stationOnly})
	iono := NewIonosphere(TRK223, nil, store, openWindow, openWindow)
	_, err := iono.Correction(Request{
		WaveLength:   SpeedOfLight / sBandRefFreq,
		Epoch:        epochAt(2004, time.January, 1, 12, 0),
		StationID:    "14",
		SpacecraftID: 32,
	})
	var notFound CalibrationNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected a CalibrationNotFoundError, got %v", err)
	}
	for _, part := range []string{"DSN(014)", "DSN(C10)", "SCID(32)", "2004-01-01"} {
		if !strings.Contains(notFound.Error(), part) {
			t.Fatalf("error %q does not mention %s", notFound.Error(), part)
		}
	}
}

func TestCalibrationLookupFilters(t *testing.T) {
	wrongSC := calEntry(FormConst, []float64{1})
	wrongSC.Spacecraft = "SCID(99)"
	wrongClass := calEntry(FormConst, []float64{1})
	wrongClass.Class = "TROPOS"
	wrongType := calEntry(FormConst, []float64{1})
	wrongType.MeasurementType = "ANGLES"
	expired := calEntry(FormConst, []float64{1})
	expired.Start = epochAt(2003, time.January, 1, 0, 0)
	expired.End = epochAt(2003, time.January, 2, 0, 0)
	store := NewCalibrationStore([]CalibrationEntry{wrongSC, wrongClass, wrongType, expired})
	complexEntry, stationEntry := store.Lookup("DSN(C40)", "DSN(034)", "SCID(32)", epochAt(2004, time.January, 1, 12, 0))
	if complexEntry != nil || stationEntry != nil {
		t.Fatal("lookup matched an inapplicable entry")
	}
}
