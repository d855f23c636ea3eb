package ionosphere

import "fmt"

// ValidityWindow is an inclusive-lower/exclusive-upper range of yyyymmdd dates
// bounding a reference dataset.
type ValidityWindow struct {
	Min, Max int // yyyymmdd
}

// Contains returns whether the provided epoch falls within the window.
func (w ValidityWindow) Contains(e Epoch) bool {
	d := e.DateStamp()
	return w.Min <= d && d < w.Max
}

// MinDate returns the lower bound as m/d/yyyy.
func (w ValidityWindow) MinDate() string {
	return fmtDateStamp(w.Min)
}

// MaxDate returns the upper bound as m/d/yyyy.
func (w ValidityWindow) MaxDate() string {
	return fmtDateStamp(w.Max)
}

// String implements the Stringer interface.
func (w ValidityWindow) String() string {
	return fmt.Sprintf("[%s, %s)", w.MinDate(), w.MaxDate())
}

func fmtDateStamp(d int) string {
	year := d / 10000
	md := d - year*10000
	return fmt.Sprintf("%d/%d/%d", md/100, md%100, year)
}
