package ionosphere

// CelestialObject defines the reference body about which the signal travels.
type CelestialObject struct {
	Name       string
	Radius     float64 // mean equatorial radius in km
	Flattening float64
}

// String implements the Stringer interface.
func (c CelestialObject) String() string {
	return c.Name + " body"
}

// Equals returns whether the provided celestial object is the same.
func (c CelestialObject) Equals(b CelestialObject) bool {
	return c.Name == b.Name && c.Radius == b.Radius && c.Flattening == b.Flattening
}

// Earth is home.
var Earth = CelestialObject{"Earth", 6378.1363, 1 / 298.257223563}

// Mars is the vacation place.
var Mars = CelestialObject{"Mars", 3396.19, 1 / 169.894}
