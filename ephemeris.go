package moda

import (
	"fmt"
	"math"
	"time"

	"github.com/mshafiee/jpleph"
	"github.com/soniakeys/meeus/julian"
	"github.com/soniakeys/meeus/planetposition"
	"github.com/soniakeys/meeus/pluto"
)

// Ephemeris provides the inertial position of celestial bodies at a given
// epoch. Implementations are synchronous lookups; callers evaluating the
// derivative several times per step may cache per-epoch results.
type Ephemeris interface {
	// PositionOf returns the position vector (km) of body relative to center
	// at the provided epoch.
	PositionOf(body, center CelestialBody, dt time.Time) ([]float64, error)
}

// VSOP87Ephemeris computes heliocentric planet positions from the VSOP87
// truncated series via Meeus. Planet files are loaded lazily and kept for the
// lifetime of the ephemeris.
type VSOP87Ephemeris struct {
	dir     string
	planets map[string]*planetposition.V87Planet
}

// NewVSOP87Ephemeris returns a VSOP87 ephemeris reading its data files from
// the provided directory.
func NewVSOP87Ephemeris(dir string) *VSOP87Ephemeris {
	return &VSOP87Ephemeris{dir, make(map[string]*planetposition.V87Planet)}
}

// PositionOf implements the Ephemeris interface.
func (e *VSOP87Ephemeris) PositionOf(body, center CelestialBody, dt time.Time) ([]float64, error) {
	bodyR, err := e.helioPosition(body, dt)
	if err != nil {
		return nil, err
	}
	centerR, err := e.helioPosition(center, dt)
	if err != nil {
		return nil, err
	}
	rel := make([]float64, 3)
	for i := 0; i < 3; i++ {
		rel[i] = bodyR[i] - centerR[i]
	}
	return rel, nil
}

func (e *VSOP87Ephemeris) helioPosition(c CelestialBody, dt time.Time) ([]float64, error) {
	if c.Name == "Sun" {
		return []float64{0, 0, 0}, nil
	}
	jd := julian.TimeToJD(dt)
	if c.Name == "Pluto" {
		// Special case in Sonia Keys' Meeus.
		l, b, r := pluto.Heliocentric(jd)
		return lbr2Cartesian(l.Rad(), b.Rad(), r*AU), nil
	}
	pp, found := e.planets[c.Name]
	if !found {
		var vsopPosition int
		switch c.Name {
		case "Mercury":
			vsopPosition = 1
		case "Venus":
			vsopPosition = 2
		case "Earth":
			vsopPosition = 3
		case "Mars":
			vsopPosition = 4
		case "Jupiter":
			vsopPosition = 5
		case "Saturn":
			vsopPosition = 6
		case "Uranus":
			vsopPosition = 7
		case "Neptune":
			vsopPosition = 8
		default:
			return nil, missingEphemeris(c.Name, fmt.Errorf("no VSOP87 series for this body"))
		}
		planet, err := planetposition.LoadPlanetPath(vsopPosition-1, e.dir)
		if err != nil {
			return nil, missingEphemeris(c.Name, err)
		}
		pp = planet
		e.planets[c.Name] = pp
	}
	l, b, r := pp.Position2000(jd)
	return lbr2Cartesian(l.Rad(), b.Rad(), r*AU), nil
}

// lbr2Cartesian converts heliocentric longitude, latitude (radians) and range
// (km) to Cartesian coordinates.
func lbr2Cartesian(l, b, r float64) []float64 {
	sB, cB := math.Sincos(b)
	sL, cL := math.Sincos(l)
	return []float64{r * cB * cL, r * cB * sL, r * sB}
}

// JPLDEEphemeris reads planet positions from a JPL Development Ephemeris
// binary file.
type JPLDEEphemeris struct {
	eph *jpleph.Ephemeris
}

// NewJPLDEEphemeris opens the provided DE binary (e.g. de440.bin).
func NewJPLDEEphemeris(path string) (*JPLDEEphemeris, error) {
	eph, err := jpleph.NewEphemeris(path, true)
	if err != nil {
		return nil, fmt.Errorf("could not open DE file: %s", err)
	}
	return &JPLDEEphemeris{eph}, nil
}

// Close releases the underlying DE file.
func (e *JPLDEEphemeris) Close() error {
	return e.eph.Close()
}

// PositionOf implements the Ephemeris interface.
func (e *JPLDEEphemeris) PositionOf(body, center CelestialBody, dt time.Time) ([]float64, error) {
	target, err := jplTarget(body)
	if err != nil {
		return nil, err
	}
	ctr, err := jplTarget(center)
	if err != nil {
		return nil, err
	}
	pos, _, err := e.eph.CalculatePV(julian.TimeToJD(dt), target, jpleph.CenterBody(ctr), false)
	if err != nil {
		return nil, missingEphemeris(body.Name, err)
	}
	return []float64{pos.X * AU, pos.Y * AU, pos.Z * AU}, nil
}

func jplTarget(c CelestialBody) (jpleph.Planet, error) {
	switch c.Name {
	case "Venus":
		return jpleph.Venus, nil
	case "Earth":
		return jpleph.Earth, nil
	case "Moon":
		return jpleph.Moon, nil
	case "Mars":
		return jpleph.Mars, nil
	case "Jupiter":
		return jpleph.Jupiter, nil
	case "Saturn":
		return jpleph.Saturn, nil
	case "Uranus":
		return jpleph.Uranus, nil
	case "Neptune":
		return jpleph.Neptune, nil
	case "Pluto":
		return jpleph.Pluto, nil
	case "Sun":
		return jpleph.Sun, nil
	default:
		return 0, missingEphemeris(c.Name, fmt.Errorf("not a DE target"))
	}
}

// LoadEphemeris returns the ephemeris selected in the conf.toml pointed to by
// the MODA_CONFIG environment variable.
func LoadEphemeris() (Ephemeris, error) {
	conf := modaConfig()
	if conf.JPLDE {
		return NewJPLDEEphemeris(conf.JPLDEFile)
	}
	if conf.VSOP87 {
		return NewVSOP87Ephemeris(conf.VSOP87Dir), nil
	}
	return nil, configError("no ephemeris source enabled")
}
