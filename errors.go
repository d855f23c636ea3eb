package ionosphere

import "fmt"

// ConfigurationError denotes an unsupported model selector, functional form or
// identifier. It is not retriable.
type ConfigurationError struct {
	What string
}

func (e ConfigurationError) Error() string {
	return e.What
}

// DataUnavailableError denotes missing or unreadable backing reference data.
type DataUnavailableError struct {
	What string
	Err  error
}

func (e DataUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.What, e.Err)
	}
	return e.What
}

func (e DataUnavailableError) Unwrap() error {
	return e.Err
}

// RangeValidationError denotes an epoch outside the hard validity window of the
// driving parameter data, which cannot be extrapolated.
type RangeValidationError struct {
	Epoch  Epoch
	Window ValidityWindow
}

func (e RangeValidationError) Error() string {
	return fmt.Sprintf("epoch %s is out of range: ionosphere corrections are only valid from %s to %s", e.Epoch, e.Window.MinDate(), e.Window.MaxDate())
}

// CalibrationNotFoundError denotes a TRK-2-23 lookup with no complex level match.
type CalibrationNotFoundError struct {
	Station    string
	Complex    string
	Spacecraft string
	Epoch      Epoch
}

func (e CalibrationNotFoundError) Error() string {
	return fmt.Sprintf("unable to find ionospheric calibration for %s in complex %s and %s at %s", e.Station, e.Complex, e.Spacecraft, e.Epoch)
}
