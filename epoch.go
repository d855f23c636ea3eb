package ionosphere

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// mjdOffset is the Julian date of the Modified Julian epoch, 1858-11-17T00:00:00.
const mjdOffset = 2400000.5

// Epoch is a continuous time value counted in Modified Julian days, UTC.
type Epoch float64

// NewEpoch returns the Epoch of the provided time.
func NewEpoch(dt time.Time) Epoch {
	return Epoch(julian.TimeToJD(dt.UTC()) - mjdOffset)
}

// Time returns this epoch as a time.Time in UTC.
func (e Epoch) Time() time.Time {
	return julian.JDToTime(float64(e) + mjdOffset).UTC()
}

// Seconds returns this epoch counted in seconds instead of days.
func (e Epoch) Seconds() float64 {
	return float64(e) * 86400
}

// Calendar splits this epoch into the year, month-day integer and decimal UTC
// hour inputs expected by electron density providers.
func (e Epoch) Calendar() (year, monthDay int, hours float64) {
	dt := e.Time()
	year = dt.Year()
	monthDay = int(dt.Month())*100 + dt.Day()
	hours = float64(dt.Hour()) + float64(dt.Minute())/60 + float64(dt.Second())/3600 + float64(dt.Nanosecond())/3600e9
	return
}

// DateStamp returns this epoch as a yyyymmdd integer, the encoding used by the
// reference data validity windows.
func (e Epoch) DateStamp() int {
	dt := e.Time()
	return dt.Year()*10000 + int(dt.Month())*100 + dt.Day()
}

// String implements the Stringer interface.
func (e Epoch) String() string {
	return e.Time().Format("2006-01-02 15:04:05.000")
}

// ParseTRK223Time parses a TRK-2-23 timestamp ("yy/mm/dd,hh:mm:ss.fff", seconds
// optional) into an Epoch. Two digit years pivot at 69.
func ParseTRK223Time(stamp string) (Epoch, error) {
	if len(stamp) < 14 {
		return 0, fmt.Errorf("invalid TRK-2-23 timestamp %q", stamp)
	}
	var year, month, day, hour, minute int
	var fields = []struct {
		val  *int
		from int
	}{{&year, 0}, {&month, 3}, {&day, 6}, {&hour, 9}, {&minute, 12}}
	for _, f := range fields {
		v, err := strconv.Atoi(stamp[f.from : f.from+2])
		if err != nil {
			return 0, fmt.Errorf("invalid TRK-2-23 timestamp %q: %s", stamp, err)
		}
		*f.val = v
	}
	if year >= 69 {
		year += 1900
	} else {
		year += 2000
	}
	second := 0.0
	if len(stamp) > 15 {
		var err error
		second, err = strconv.ParseFloat(strings.TrimSpace(stamp[15:]), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid TRK-2-23 timestamp %q: %s", stamp, err)
		}
	}
	e := NewEpoch(time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC))
	return e + Epoch(second/86400), nil
}
