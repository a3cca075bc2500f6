package moda

import (
	"math"
	"time"
)

const (
	// EarthRotationRate is the average Earth rotation rate in radians per second.
	EarthRotationRate = 7.2921158553e-5
)

// Atmosphere provides the local atmospheric density and the motion of the
// atmosphere itself. The drag force derives its Jacobians from the same
// closed form the implementation uses, so the gradient is part of the
// contract rather than estimated numerically.
type Atmosphere interface {
	// Density returns ρ (kg/m³) and its gradient with respect to the inertial
	// position (kg/m³ per km) at the given position (km) and epoch.
	Density(R []float64, dt time.Time) (ρ float64, dρdR []float64, err error)
	// RotationVector returns the angular velocity vector (rad/s) of the
	// atmosphere in the inertial frame. The atmosphere-relative velocity is
	// v - ω×r.
	RotationVector() []float64
}

// ExponentialAtmosphere is a single scale height exponential density model
// co-rotating with its body: ρ = ρ0·exp(-(h-h0)/H).
type ExponentialAtmosphere struct {
	Body CelestialBody
	ρ0   float64 // kg/m³ at the reference altitude
	h0   float64 // reference altitude, km
	H    float64 // scale height, km
	ω    float64 // body rotation rate, rad/s
}

// NewExponentialAtmosphere returns an exponential atmosphere with the given
// reference density (kg/m³), reference altitude (km), scale height (km) and
// body rotation rate (rad/s).
func NewExponentialAtmosphere(body CelestialBody, ρ0, h0, H, ω float64) *ExponentialAtmosphere {
	return &ExponentialAtmosphere{body, ρ0, h0, H, ω}
}

// EarthExpAtmosphere returns an exponential model for Earth referenced at
// 400 km altitude. Good to a factor of a few between roughly 300 and 600 km;
// use a proper model when the density error matters.
func EarthExpAtmosphere() *ExponentialAtmosphere {
	return NewExponentialAtmosphere(Earth, 3.725e-12, 400, 58.515, EarthRotationRate)
}

// Density implements the Atmosphere interface. The gradient is the analytic
// derivative of the exponential profile, -ρ/H along the radial direction.
func (a *ExponentialAtmosphere) Density(R []float64, dt time.Time) (float64, []float64, error) {
	r := norm(R)
	if r < minGeometryNorm {
		return 0, nil, degenerateGeometry("position", r)
	}
	h := r - a.Body.Radius
	ρ := a.ρ0 * math.Exp(-(h-a.h0)/a.H)
	dρdR := make([]float64, 3)
	for i := 0; i < 3; i++ {
		dρdR[i] = -(ρ / a.H) * R[i] / r
	}
	return ρ, dρdR, nil
}

// RotationVector implements the Atmosphere interface.
func (a *ExponentialAtmosphere) RotationVector() []float64 {
	return []float64{0, 0, a.ω}
}
