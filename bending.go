package ionosphere

import "math"

// bendingAngle traces refraction backward along the in-shell path, from the
// spacecraft side endpoint to the station side endpoint, and returns the
// elevation angle correction in radians. The iteration discretizes the
// refractive index profile n = 1 - 40.3 ρ/f² over the same sub-segments as the
// content integration. The update term is not clamped near grazing incidence
// (θ→π/2) or a vanishing index; callers must tolerate large magnitudes there.
func (i *Ionosphere) bendingAngle(station, spacecraft []float64, epoch Epoch, shellRadius, freq float64) (float64, error) {
	seg, ok := intersectShell(station, spacecraft, shellRadius)
	if !ok {
		return 0, nil
	}

	rangeVec := sub(seg.end, seg.start)
	rangeU := unit(rangeVec)
	dR := scale(1.0/numIntervals, rangeVec)
	rCur := seg.end

	// Incidence angle between the path direction and the local radius vector.
	θ := math.Acos(dot(rangeU, unit(rCur)))
	ρCur, err := i.electronDensity(rCur, epoch)
	if err != nil {
		return 0, err
	}
	nCur := 1 - refractivityK*ρCur/(freq*freq)

	Δθ := 0.0
	for k := numIntervals; k > 0; k-- {
		rNext := sub(rCur, dR)
		ρNext, err := i.electronDensity(rNext, epoch)
		if err != nil {
			return 0, err
		}
		nNext := 1 - refractivityK*ρNext/(freq*freq)
		Δθ += ((nCur - nNext) / nNext) * math.Tan(θ)
		rCur = rNext
		θ = math.Acos(dot(rangeU, unit(rCur))) - Δθ
		nCur = nNext
	}

	// The elevation angle correction is the negated incidence angle correction.
	return -Δθ, nil
}
