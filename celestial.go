package moda

import (
	"fmt"
	"strings"
)

const (
	// AU is one astronomical unit in kilometers.
	AU = 1.49597870700e8
)

// CelestialBody holds the physical constants of a celestial object. It is a
// plain value injected at configuration time: the force models never reach
// out to a global toolkit for μ, radii or zonal coefficients.
type CelestialBody struct {
	Name   string
	Radius float64 // km
	a      float64 // semi-major axis of the heliocentric orbit, km
	μ      float64 // km³/s²
	SOI    float64 // sphere of influence with respect to the Sun, km
	J2     float64
	J3     float64
	J4     float64
}

// GM returns μ (which is unexported because it's a lowercase letter).
func (c CelestialBody) GM() float64 {
	return c.μ
}

// J returns the zonal harmonic J_n factor for the provided n.
// Only J2 through J4 are supported.
func (c CelestialBody) J(n uint8) float64 {
	switch n {
	case 2:
		return c.J2
	case 3:
		return c.J3
	case 4:
		return c.J4
	default:
		return 0.0
	}
}

// String implements the Stringer interface.
func (c CelestialBody) String() string {
	return c.Name + " body"
}

// Equals returns whether the provided celestial body is the same.
func (c CelestialBody) Equals(b CelestialBody) bool {
	return c.Name == b.Name && c.Radius == b.Radius && c.a == b.a && c.μ == b.μ && c.SOI == b.SOI && c.J2 == b.J2
}

// CelestialBodyFromString returns the built-in body from its name.
func CelestialBodyFromString(name string) (CelestialBody, error) {
	switch strings.ToLower(name) {
	case "sun":
		return Sun, nil
	case "venus":
		return Venus, nil
	case "earth":
		return Earth, nil
	case "moon":
		return Moon, nil
	case "mars":
		return Mars, nil
	case "jupiter":
		return Jupiter, nil
	case "saturn":
		return Saturn, nil
	case "uranus":
		return Uranus, nil
	case "neptune":
		return Neptune, nil
	case "pluto":
		return Pluto, nil
	default:
		return CelestialBody{}, fmt.Errorf("undefined body '%s'", name)
	}
}

/* Definitions. Values from Vallado's appendix D. */

// Sun is our closest star.
var Sun = CelestialBody{"Sun", 695700, -1, 1.32712440017987e11, -1, 0, 0, 0}

// Venus is poisonous.
var Venus = CelestialBody{"Venus", 6051.8, 108208601, 3.24858599e5, 0.616e6, 0.000027, 0, 0}

// Earth is home.
var Earth = CelestialBody{"Earth", 6378.1363, 149598023, 3.98600433e5, 924645.0, 1082.6269e-6, -2.5324e-6, -1.6204e-6}

// Moon is only a mean radius here.
var Moon = CelestialBody{"Moon", 1738.0, 384400, 4902.799, 66300, 0.0002027, 0, 0}

// Mars is the vacation place.
var Mars = CelestialBody{"Mars", 3396.19, 227939282.5616, 4.28283100e4, 576000, 1964e-6, 36e-6, -18e-6}

// Jupiter is big.
var Jupiter = CelestialBody{"Jupiter", 71492.0, 778298361, 1.266865361e8, 48.2e6, 0.01475, 0, -0.00058}

// Saturn floats and that's really cool.
var Saturn = CelestialBody{"Saturn", 60268.0, 1429394133, 3.7931208e7, 54.5e6, 0.01645, 0, -0.001}

// Uranus is no joke.
var Uranus = CelestialBody{"Uranus", 25559.0, 2875038615, 5.7939513e6, 51.9e6, 0.012, 0, 0}

// Neptune is the furthest actual planet.
var Neptune = CelestialBody{"Neptune", 24764.0, 4504449769, 6.835100e6, 86.2e6, 0.0034, 0, 0}

// Pluto had that down ranking coming. It should have stayed in its lane.
var Pluto = CelestialBody{"Pluto", 1151.0, 5915799000, 9e2, 3.0e6, 0, 0, 0}
