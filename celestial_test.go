package moda

import "testing"

func TestCelestialBodyJ(t *testing.T) {
	for _, body := range []CelestialBody{Sun, Venus, Earth, Mars, Jupiter} {
		var i uint8
		for i = 1; i < 6; i++ {
			switch i {
			case 2:
				if body.J(i) != body.J2 {
					t.Fatalf("J2 not returned for %s", body)
				}
			case 3:
				if body.J(i) != body.J3 {
					t.Fatalf("J3 not returned for %s", body)
				}
			case 4:
				if body.J(i) != body.J4 {
					t.Fatalf("J4 not returned for %s", body)
				}
			default:
				if body.J(i) != 0 {
					t.Fatalf("J(%d) = %f != 0 for %s", i, body.J(i), body)
				}
			}
		}
	}
}

func TestCelestialBodyFromString(t *testing.T) {
	for _, name := range []string{"Sun", "venus", "EARTH", "moon", "mars", "jupiter", "saturn", "uranus", "neptune", "pluto"} {
		if _, err := CelestialBodyFromString(name); err != nil {
			t.Fatalf("%s not found: %s", name, err)
		}
	}
	if _, err := CelestialBodyFromString("Vesta"); err == nil {
		t.Fatal("Vesta should not resolve")
	}
	body, _ := CelestialBodyFromString("earth")
	if !body.Equals(Earth) {
		t.Fatal("earth lookup did not return Earth")
	}
}
