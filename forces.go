package moda

import (
	"math"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/matrix/mat64"
)

const (
	// SolarPressureAt1AU is the solar radiation pressure at one astronomical
	// unit, in N/m².
	SolarPressureAt1AU = 4.56645e-6
)

// PressureFunc returns the solar radiation pressure (N/m²) at a distance d
// (km) from the Sun.
type PressureFunc func(d float64) float64

// InverseSquarePressure is the standard inverse-square solar pressure model.
func InverseSquarePressure(d float64) float64 {
	return SolarPressureAt1AU * (AU / d) * (AU / d)
}

// Contribution is the outcome of one force model evaluation: an acceleration
// (km/s²) and its partials with respect to position and velocity. A force with
// no modeled position or velocity dependence carries exact zero matrices.
type Contribution struct {
	Accel      []float64
	DadR, DadV *mat64.Dense
}

func zeroContribution() Contribution {
	return Contribution{make([]float64, 3), mat64.NewDense(3, 3, nil), mat64.NewDense(3, 3, nil)}
}

func (c *Contribution) add(o Contribution) {
	for i := 0; i < 3; i++ {
		c.Accel[i] += o.Accel[i]
	}
	c.DadR.Add(c.DadR, o.DadR)
	c.DadV.Add(c.DadV, o.DadV)
}

// ForceModel evaluates one force's acceleration and partial derivatives at the
// given inertial position (km), velocity (km/s) and epoch.
type ForceModel interface {
	Contribution(R, V []float64, dt time.Time) (Contribution, error)
}

// CentralGravity is the two-body baseline, a = -μ·r/|r|³. It is always
// active and added before any optional perturbation.
type CentralGravity struct {
	Body CelestialBody
}

// Contribution implements the ForceModel interface with the closed-form
// gravity gradient μ/|r|⁵·(3rrᵀ - |r|²I).
func (g CentralGravity) Contribution(R, V []float64, dt time.Time) (Contribution, error) {
	r := norm(R)
	if r < minGeometryNorm {
		return Contribution{}, degenerateGeometry("position", r)
	}
	c := zeroContribution()
	r3 := r * r * r
	r5 := r3 * r * r
	for i := 0; i < 3; i++ {
		c.Accel[i] = -g.Body.μ * R[i] / r3
	}
	c.DadR = outer(R, R)
	c.DadR.Scale(3*g.Body.μ/r5, c.DadR)
	for i := 0; i < 3; i++ {
		c.DadR.Set(i, i, c.DadR.At(i, i)-g.Body.μ/r3)
	}
	return c, nil
}

// J2Oblateness is the second zonal harmonic of the central body, computed in
// the RTN frame from the inclination and the argument of latitude, then
// rotated to inertial coordinates.
//
// The partials of this term are not modeled: the returned Jacobians are zero
// matrices, which biases any STM-based sensitivity to first order in J2.
type J2Oblateness struct {
	Body CelestialBody
}

// Contribution implements the ForceModel interface.
func (j J2Oblateness) Contribution(R, V []float64, dt time.Time) (Contribution, error) {
	orbit, err := NewOrbitFromRV(R, V, j.Body)
	if err != nil {
		return Contribution{}, err
	}
	dcm, err := RTN2Inertial(R, V)
	if err != nil {
		return Contribution{}, err
	}
	_, _, i, _, _, _, _, _, u := orbit.Elements()
	r := norm(R)
	scale := -3 * j.Body.μ * j.Body.J2 * math.Pow(j.Body.Radius, 2) / (2 * math.Pow(r, 4))
	si, ci := math.Sincos(i)
	su, cu := math.Sincos(u)
	aRTN := []float64{
		scale * (1 - 3*si*si*su*su),
		scale * 2 * si * si * su * cu,
		scale * 2 * si * ci * su,
	}
	c := zeroContribution()
	c.Accel = MxV33(dcm, aRTN)
	return c, nil
}

// AtmosphericDrag opposes the atmosphere-relative velocity with magnitude
// ½·ρ·Cd·(A/m)·v_rel². The density and the atmosphere rotation come from the
// Atmosphere collaborator; the Jacobians differentiate the exact same closed
// form, using the collaborator's analytic density gradient.
type AtmosphericDrag struct {
	Cd         float64 // drag coefficient
	Area       float64 // cross section, m²
	Mass       float64 // kg
	Atmosphere Atmosphere
}

// Contribution implements the ForceModel interface.
func (d AtmosphericDrag) Contribution(R, V []float64, dt time.Time) (Contribution, error) {
	ρ, dρdR, err := d.Atmosphere.Density(R, dt)
	if err != nil {
		return Contribution{}, err
	}
	ω := d.Atmosphere.RotationVector()
	ωxR := cross(ω, R)
	w := make([]float64, 3)
	for i := 0; i < 3; i++ {
		w[i] = V[i] - ωxR[i]
	}
	wNorm := norm(w)
	c := zeroContribution()
	if wNorm < minGeometryNorm {
		return c, nil
	}
	// ρ in kg/m³ with km/s velocities gives km/s² after a 1e3 factor.
	k := -0.5 * ρ * 1e3 * d.Cd * d.Area / d.Mass
	for i := 0; i < 3; i++ {
		c.Accel[i] = k * wNorm * w[i]
	}
	// ∂a/∂w = k·(|w|·I + w·wᵀ/|w|)
	dadw := outer(w, w)
	dadw.Scale(k/wNorm, dadw)
	for i := 0; i < 3; i++ {
		dadw.Set(i, i, dadw.At(i, i)+k*wNorm)
	}
	c.DadV.Clone(dadw)
	// ∂a/∂r = (a/ρ)·∇ρᵀ - ∂a/∂w·[ω×]
	ωSkew := mat64.NewDense(3, 3, []float64{0, -ω[2], ω[1], ω[2], 0, -ω[0], -ω[1], ω[0], 0})
	var dwdr mat64.Dense
	dwdr.Mul(dadw, ωSkew)
	if ρ > 0 {
		c.DadR.Clone(outer(c.Accel, dρdR))
		c.DadR.Scale(1/ρ, c.DadR)
	}
	c.DadR.Sub(c.DadR, &dwdr)
	return c, nil
}

// SolarRadiationPressure pushes the object away from the Sun with
// a = P(d)·Cr·(A/m)·unit(r_sun→obj). No eclipse or shadow function is
// modeled: constant full illumination is assumed. The position Jacobian
// assumes the pressure function is inverse-square in the distance.
type SolarRadiationPressure struct {
	Cr        float64 // reflectivity coefficient, 1 for a perfect absorber
	Area      float64 // m²
	Mass      float64 // kg
	Center    CelestialBody
	Ephemeris Ephemeris
	Pressure  PressureFunc
}

// Contribution implements the ForceModel interface.
func (s SolarRadiationPressure) Contribution(R, V []float64, dt time.Time) (Contribution, error) {
	sunR, err := s.Ephemeris.PositionOf(Sun, s.Center, dt)
	if err != nil {
		return Contribution{}, err
	}
	rso := make([]float64, 3) // Sun to object
	for i := 0; i < 3; i++ {
		rso[i] = R[i] - sunR[i]
	}
	d := norm(rso)
	if d < minGeometryNorm {
		return Contribution{}, degenerateGeometry("Sun distance", d)
	}
	// P·Cr·A/m is in m/s², hence the 1e-3.
	k := s.Pressure(d) * s.Cr * s.Area / s.Mass * 1e-3
	c := zeroContribution()
	for i := 0; i < 3; i++ {
		c.Accel[i] = k * rso[i] / d
	}
	// With P ∝ 1/d², the acceleration is (k·d²)·r/|r|³ with a constant
	// leading factor, so ∂a/∂r = k·d²·(I/d³ - 3rrᵀ/d⁵).
	d3 := d * d * d
	c.DadR = outer(rso, rso)
	c.DadR.Scale(-3*k/d3, c.DadR)
	for i := 0; i < 3; i++ {
		c.DadR.Set(i, i, c.DadR.At(i, i)+k/d)
	}
	return c, nil
}

// ThirdBodyGravity sums the perturbing acceleration of each configured body
// using the difference-of-inverse-cubes formulation. A failed ephemeris
// lookup for any body is a hard error: the propagation cannot silently
// continue with a wrong gravity field.
type ThirdBodyGravity struct {
	Center    CelestialBody
	Bodies    []CelestialBody
	Ephemeris Ephemeris
}

// Contribution implements the ForceModel interface.
func (t ThirdBodyGravity) Contribution(R, V []float64, dt time.Time) (Contribution, error) {
	c := zeroContribution()
	for _, body := range t.Bodies {
		if body.Equals(t.Center) {
			continue
		}
		ρ, err := t.Ephemeris.PositionOf(body, t.Center, dt)
		if err != nil {
			return Contribution{}, err
		}
		Δ := make([]float64, 3) // object to body
		for i := 0; i < 3; i++ {
			Δ[i] = ρ[i] - R[i]
		}
		ρ3 := math.Pow(norm(ρ), 3)
		Δn := norm(Δ)
		Δ3 := Δn * Δn * Δn
		Δ5 := Δ3 * Δn * Δn
		for i := 0; i < 3; i++ {
			c.Accel[i] += body.μ * (Δ[i]/Δ3 - ρ[i]/ρ3)
		}
		// Same gravity gradient structure as the central term, about the
		// displaced point.
		grad := outer(Δ, Δ)
		grad.Scale(3*body.μ/Δ5, grad)
		for i := 0; i < 3; i++ {
			grad.Set(i, i, grad.At(i, i)-body.μ/Δ3)
		}
		c.DadR.Add(c.DadR, grad)
	}
	return c, nil
}

// Diagnostics reports recoverable force model failures so that silent accuracy
// loss cannot go undetected across a long propagation.
type Diagnostics struct {
	J2Skipped uint64 // evaluations for which the J2 term was zeroed
}

// Composer evaluates the central gravity unconditionally, then every enabled
// optional force, and accumulates the total acceleration and Jacobians. A
// disabled module contributes exactly zero.
type Composer struct {
	central  CentralGravity
	optional []composedForce
	logger   kitlog.Logger
	diag     Diagnostics
}

type composedForce struct {
	name        string
	model       ForceModel
	recoverable bool
}

// NewComposer validates the configuration and wires the enabled force models.
func NewComposer(cfg Config, logger kitlog.Logger) (*Composer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	c := &Composer{central: CentralGravity{cfg.Center}, logger: logger}
	if cfg.Drag {
		c.optional = append(c.optional, composedForce{"drag",
			AtmosphericDrag{cfg.Cd, cfg.Area, cfg.Mass, cfg.Atmosphere}, false})
	}
	if cfg.SRP {
		pressure := cfg.Pressure
		if pressure == nil {
			pressure = InverseSquarePressure
		}
		c.optional = append(c.optional, composedForce{"srp",
			SolarRadiationPressure{cfg.Cr, cfg.Area, cfg.Mass, cfg.Center, cfg.Ephemeris, pressure}, false})
	}
	if cfg.ThirdBody {
		c.optional = append(c.optional, composedForce{"thirdbody",
			ThirdBodyGravity{cfg.Center, cfg.Bodies, cfg.Ephemeris}, false})
	}
	if cfg.J2 {
		// The J2 geometry utilities can fail transiently (e.g. degenerate
		// frame); that must not abort the whole propagation.
		c.optional = append(c.optional, composedForce{"j2",
			J2Oblateness{cfg.Center}, true})
	}
	return c, nil
}

// Total evaluates all active forces and returns the summed contribution.
// Recoverable module failures are zeroed, logged and counted; anything else
// fails the call.
func (c *Composer) Total(R, V []float64, dt time.Time) (Contribution, error) {
	total, err := c.central.Contribution(R, V, dt)
	if err != nil {
		return Contribution{}, err
	}
	for _, f := range c.optional {
		contrib, err := f.model.Contribution(R, V, dt)
		if err != nil {
			if !f.recoverable {
				return Contribution{}, err
			}
			c.diag.J2Skipped++
			c.logger.Log("level", "warning", "subsys", "forces", "skipped", f.name, "dt", dt, "err", err)
			continue
		}
		total.add(contrib)
	}
	return total, nil
}

// Diagnostics returns the recoverable failure counters accumulated so far.
func (c *Composer) Diagnostics() Diagnostics {
	return c.diag
}
