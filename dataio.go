package ionosphere

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/soniakeys/meeus/julian"
)

// ReadAPRange extracts the validity window of an ap.dat driving parameter
// file: the dates of its first and last records. Two digit years pivot at 58.
func ReadAPRange(path string) (ValidityWindow, error) {
	f, err := os.Open(path)
	if err != nil {
		return ValidityWindow{}, DataUnavailableError{What: fmt.Sprintf("%s does not exist or cannot open", path), Err: err}
	}
	defer f.Close()

	var window ValidityWindow
	first := true
	last := ""
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first {
			window.Min, err = apDateStamp(line)
			if err != nil {
				return ValidityWindow{}, err
			}
			first = false
		}
		last = line
	}
	if err := scanner.Err(); err != nil {
		return ValidityWindow{}, DataUnavailableError{What: fmt.Sprintf("reading %s", path), Err: err}
	}
	if first {
		return ValidityWindow{}, DataUnavailableError{What: fmt.Sprintf("%s is empty", path)}
	}
	window.Max, err = apDateStamp(last)
	if err != nil {
		return ValidityWindow{}, err
	}
	if window.Max <= window.Min {
		return ValidityWindow{}, DataUnavailableError{What: fmt.Sprintf("time range specified from %s file is invalid", path)}
	}
	return window, nil
}

// apDateStamp reads the leading "yy mm dd" of an ap.dat record as yyyymmdd.
func apDateStamp(line string) (int, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return 0, DataUnavailableError{What: fmt.Sprintf("invalid ap.dat record %q", line)}
	}
	var ymd [3]int
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return 0, DataUnavailableError{What: fmt.Sprintf("invalid ap.dat record %q", line), Err: err}
		}
		ymd[i] = v
	}
	if ymd[0] >= 58 {
		ymd[0] += 1900
	} else {
		ymd[0] += 2000
	}
	return ymd[0]*10000 + ymd[1]*100 + ymd[2], nil
}

// ReadIGRZRange extracts the validity window of an ig_rz.dat ionospheric
// activity file. Its header carries, after the creation date line, the covered
// range as "month,year,month,year"; the window runs from the first day of the
// start month through the last day of the end month.
func ReadIGRZRange(path string) (ValidityWindow, error) {
	f, err := os.Open(path)
	if err != nil {
		return ValidityWindow{}, DataUnavailableError{What: fmt.Sprintf("%s does not exist or cannot open", path), Err: err}
	}
	defer f.Close()

	var rangeLine string
	lineNo := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lineNo++
		if lineNo == 2 { // first non-blank line is the file creation date
			rangeLine = line
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return ValidityWindow{}, DataUnavailableError{What: fmt.Sprintf("reading %s", path), Err: err}
	}
	if rangeLine == "" {
		return ValidityWindow{}, DataUnavailableError{What: fmt.Sprintf("%s has no time range header", path)}
	}

	parts := strings.Split(rangeLine, ",")
	if len(parts) < 4 {
		return ValidityWindow{}, DataUnavailableError{What: fmt.Sprintf("invalid ig_rz.dat time range %q", rangeLine)}
	}
	var monthMin, yearMin, monthMax, yearMax int
	for i, dst := range []*int{&monthMin, &yearMin, &monthMax, &yearMax} {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return ValidityWindow{}, DataUnavailableError{What: fmt.Sprintf("invalid ig_rz.dat time range %q", rangeLine), Err: err}
		}
		*dst = v
	}

	window := ValidityWindow{
		Min: yearMin*10000 + monthMin*100 + 1,
		Max: yearMax*10000 + monthMax*100 + monthEnd(yearMax, monthMax),
	}
	if window.Max <= window.Min {
		return ValidityWindow{}, DataUnavailableError{What: fmt.Sprintf("time range specified from %s file is invalid", path)}
	}
	return window, nil
}

// monthEnd returns the last day of the provided month.
func monthEnd(year, month int) int {
	switch month {
	case 2:
		if julian.LeapYearGregorian(year) {
			return 29
		}
		return 28
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	default:
		return 30
	}
}

// LoadCSPFile reads TRK-2-23 calibration records from a .csp file. Each non
// blank, non comment ('#') line carries eight top level comma separated
// fields: measurement type, functional form, parenthesized coefficients, data
// class, quoted start and end timestamps, applicability id and spacecraft id.
// Only the record schema is normative; unknown functional forms fail here
// rather than at evaluation time.
func LoadCSPFile(path string) ([]CalibrationEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, DataUnavailableError{What: fmt.Sprintf("%s does not exist or cannot open", path), Err: err}
	}
	defer f.Close()

	var entries []CalibrationEntry
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := parseCSPRecord(line)
		if err != nil {
			return nil, DataUnavailableError{What: fmt.Sprintf("%s:%d", path, lineNo), Err: err}
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, DataUnavailableError{What: fmt.Sprintf("reading %s", path), Err: err}
	}
	return entries, nil
}

func parseCSPRecord(line string) (CalibrationEntry, error) {
	fields := splitTopLevel(line)
	if len(fields) != 8 {
		return CalibrationEntry{}, fmt.Errorf("expected 8 fields, got %d", len(fields))
	}

	form, err := ParseCalibrationForm(fields[1])
	if err != nil {
		return CalibrationEntry{}, err
	}

	coefStr := strings.TrimSpace(fields[2])
	if !strings.HasPrefix(coefStr, "(") || !strings.HasSuffix(coefStr, ")") {
		return CalibrationEntry{}, fmt.Errorf("coefficients %q are not parenthesized", fields[2])
	}
	var coefs []float64
	for _, c := range strings.Split(coefStr[1:len(coefStr)-1], ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return CalibrationEntry{}, fmt.Errorf("invalid coefficient %q: %s", c, err)
		}
		coefs = append(coefs, v)
	}

	start, err := ParseTRK223Time(strings.Trim(fields[4], `"`))
	if err != nil {
		return CalibrationEntry{}, err
	}
	end, err := ParseTRK223Time(strings.Trim(fields[5], `"`))
	if err != nil {
		return CalibrationEntry{}, err
	}
	if end <= start {
		return CalibrationEntry{}, fmt.Errorf("validity window %q to %q is inverted", fields[4], fields[5])
	}

	return CalibrationEntry{
		MeasurementType: strings.TrimSpace(fields[0]),
		Form:            form,
		Coefs:           coefs,
		Class:           strings.TrimSpace(fields[3]),
		Start:           start,
		End:             end,
		Applicability:   strings.TrimSpace(fields[6]),
		Spacecraft:      strings.TrimSpace(fields[7]),
	}, nil
}

// splitTopLevel splits on commas outside parentheses and double quotes.
func splitTopLevel(line string) []string {
	var fields []string
	depth := 0
	quoted := false
	field := strings.Builder{}
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			field.WriteRune(r)
		case r == '(' && !quoted:
			depth++
			field.WriteRune(r)
		case r == ')' && !quoted:
			depth--
			field.WriteRune(r)
		case r == ',' && depth == 0 && !quoted:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(field.String()))
	return fields
}

// LoadDataFiles loads the validity windows and the calibration table from the
// configured data directory (cf. config.go). The soft window comes from
// ig_rz.dat, the hard window from ap.dat, and the store from every .csp file
// found, in lexical order.
func LoadDataFiles() (soft, hard ValidityWindow, store *CalibrationStore, err error) {
	dataDir := ionoConfig().dataDir
	if soft, err = ReadIGRZRange(filepath.Join(dataDir, "ig_rz.dat")); err != nil {
		return
	}
	if hard, err = ReadAPRange(filepath.Join(dataDir, "ap.dat")); err != nil {
		return
	}
	paths, err := filepath.Glob(filepath.Join(dataDir, "*.csp"))
	if err != nil {
		return
	}
	var entries []CalibrationEntry
	for _, path := range paths {
		var fileEntries []CalibrationEntry
		if fileEntries, err = LoadCSPFile(path); err != nil {
			return
		}
		entries = append(entries, fileEntries...)
	}
	store = NewCalibrationStore(entries)
	return
}
