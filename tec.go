package ionosphere

// numIntervals is the fixed number of sub-segments the in-shell path is split
// into. The midpoint rule at fixed resolution bounds the number of provider
// evaluations per request.
const numIntervals = 200

// tec integrates the electron density along the in-shell portion of the signal
// path and returns the total electron content in electrons/m². A path missing
// the shell contributes nothing and never invokes the provider.
func (i *Ionosphere) tec(station, spacecraft []float64, epoch Epoch, shellRadius float64) (float64, error) {
	seg, ok := intersectShell(station, spacecraft, shellRadius)
	if !ok {
		return 0, nil
	}

	dR := scale(1.0/numIntervals, sub(seg.end, seg.start))
	ds := norm(dR) * 1e3 // sub-segment length in m
	p1 := seg.start
	tec := 0.0
	for k := 0; k < numIntervals; k++ {
		p2 := add(p1, dR)
		ρ, err := i.electronDensity(midpoint(p1, p2), epoch)
		if err != nil {
			return 0, err
		}
		tec += ρ * ds // electrons/m²
		p1 = p2
	}
	return tec, nil
}
