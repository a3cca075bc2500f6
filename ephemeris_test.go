package moda

import (
	"errors"
	"testing"

	"github.com/mshafiee/jpleph"
)

func TestVSOP87SunIsOrigin(t *testing.T) {
	eph := NewVSOP87Ephemeris("/nonexistent")
	pos, err := eph.PositionOf(Sun, Sun, testDT)
	if err != nil {
		t.Fatal(err)
	}
	if norm(pos) != 0 {
		t.Fatal("the Sun is the VSOP87 origin")
	}
}

func TestVSOP87MissingData(t *testing.T) {
	eph := NewVSOP87Ephemeris("/nonexistent")
	// No VSOP87 series exists for the Moon.
	if _, err := eph.PositionOf(Moon, Sun, testDT); !errors.Is(err, ErrMissingEphemeris) {
		t.Fatal("Moon lookup should fail")
	}
	// Venus has a series, but the data directory does not exist.
	if _, err := eph.PositionOf(Venus, Sun, testDT); !errors.Is(err, ErrMissingEphemeris) {
		t.Fatal("unreadable VSOP87 directory should fail the lookup")
	}
}

func TestJPLTargetMapping(t *testing.T) {
	for body, exp := range map[*CelestialBody]jpleph.Planet{
		&Venus: jpleph.Venus, &Earth: jpleph.Earth, &Moon: jpleph.Moon,
		&Mars: jpleph.Mars, &Jupiter: jpleph.Jupiter, &Saturn: jpleph.Saturn,
		&Uranus: jpleph.Uranus, &Neptune: jpleph.Neptune, &Pluto: jpleph.Pluto,
		&Sun: jpleph.Sun,
	} {
		got, err := jplTarget(*body)
		if err != nil {
			t.Fatal(err)
		}
		if got != exp {
			t.Fatalf("%s maps to %d, expected %d", body.Name, got, exp)
		}
	}
	if _, err := jplTarget(CelestialBody{Name: "Vesta"}); !errors.Is(err, ErrMissingEphemeris) {
		t.Fatal("unknown body should not map to a DE target")
	}
}

func TestJPLDEMissingFile(t *testing.T) {
	if _, err := NewJPLDEEphemeris("/nonexistent/de440.bin"); err == nil {
		t.Fatal("missing DE file should fail to open")
	}
}
