package moda

import (
	"errors"
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestOrbitRV2COE(t *testing.T) {
	// From Vallado's RV2COE example, page 114.
	R := []float64{6524.834, 6862.875, 6448.296}
	V := []float64{4.901327, 5.533756, -1.976341}
	o, err := NewOrbitFromRV(R, V, Earth)
	if err != nil {
		t.Fatal(err)
	}
	oT := NewOrbitFromOE(36127.343, 0.832853, 87.869126, 227.898260, 53.384931, 92.335157, Earth)
	if ok, why := o.Equals(*oT); !ok {
		t.Logf("\no0: %s\no1: %s", o, oT)
		t.Fatalf("orbits differ: %s", why)
	}
	valladoε := 1e-6
	if !floats.EqualWithinAbs(o.Energyξ(), -5.516604, valladoε) {
		t.Fatalf("incorrect energy ξ=%f", o.Energyξ())
	}
	if !floats.EqualWithinAbs(norm(o.R()), o.RNorm(), valladoε) {
		t.Fatalf("incorrect r norm |R|=%f\tr=%f", norm(o.R()), o.RNorm())
	}
	if !floats.EqualWithinAbs(norm(o.V()), o.VNorm(), valladoε) {
		t.Fatalf("incorrect v norm |V|=%f\tv=%f", norm(o.V()), o.VNorm())
	}
}

func TestOrbitCOE2RVRoundTrip(t *testing.T) {
	o := NewOrbitFromOE(36126.64283, 0.83280, 87.874925, 227.891253, 53.378089, 92.335027, Earth)
	R, V := o.RV()
	o1, err := NewOrbitFromRV(R, V, Earth)
	if err != nil {
		t.Fatal(err)
	}
	if ok, why := o.Equals(*o1); !ok {
		t.Fatalf("round trip failed: %s", why)
	}
	if !floats.EqualWithinAbs(o1.ν, o.ν, angleε) {
		t.Fatalf("true anomaly differs: %f != %f", o1.ν, o.ν)
	}
}

func TestOrbitCircular(t *testing.T) {
	o := NewOrbitFromOE(7000, 0, 30, 80, 0, 40, Earth)
	if !floats.EqualWithinAbs(o.RNorm(), 7000, 1) {
		t.Fatalf("circular orbit radius %f", o.RNorm())
	}
	expV := math.Sqrt(Earth.μ / 7000)
	if !floats.EqualWithinAbs(o.VNorm(), expV, 1e-3) {
		t.Fatalf("circular orbit velocity %f != %f", o.VNorm(), expV)
	}
}

func TestOrbitDegenerate(t *testing.T) {
	if _, err := NewOrbitFromRV([]float64{0, 0, 0}, []float64{1, 2, 3}, Earth); !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatal("zero position should fail with a degenerate geometry error")
	}
	if _, err := NewOrbitFromRV([]float64{7000, 0, 0}, []float64{2, 0, 0}, Earth); !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatal("purely radial motion should fail with a degenerate geometry error")
	}
}

func TestOrbitPeriod(t *testing.T) {
	// LEO at 7000 km: about 97 minutes.
	o := NewOrbitFromOE(7000, 0.001, 30, 80, 40, 0, Earth)
	period := o.Period().Minutes()
	if math.Abs(period-97.0) > 1 {
		t.Fatalf("period %f minutes", period)
	}
}
