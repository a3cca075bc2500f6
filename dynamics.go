package moda

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/ChristopherRabotin/ode"
	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/matrix/mat64"
)

// Config selects the active perturbations and carries every parameter they
// need. It replaces positional flag arrays: the flags and their required
// parameters are validated together, before any force evaluation.
type Config struct {
	Drag, SRP, ThirdBody, J2 bool

	Center CelestialBody // central body constants, injected once

	// Required when Drag or SRP is enabled.
	Area float64 // cross-sectional area, m²
	Mass float64 // kg
	Cd   float64 // drag coefficient, drag only
	Cr   float64 // reflectivity coefficient, SRP only (1 if zero)

	// Collaborators.
	Bodies     []CelestialBody // perturbing bodies, third-body only
	Ephemeris  Ephemeris       // required for SRP and third-body
	Atmosphere Atmosphere      // required for drag
	Pressure   PressureFunc    // SRP pressure at distance; inverse-square if nil
}

// Validate checks the flag set and its required parameters as a unit.
func (c Config) Validate() error {
	if c.Center.μ == 0 {
		return configError("central body has no gravitational parameter")
	}
	if c.Drag || c.SRP {
		if c.Area <= 0 {
			return configError("area must be positive, got %g", c.Area)
		}
		if c.Mass <= 0 {
			return configError("mass must be positive, got %g", c.Mass)
		}
	}
	if c.Drag {
		if c.Cd <= 0 {
			return configError("drag enabled without a drag coefficient")
		}
		if c.Atmosphere == nil {
			return configError("drag enabled without an atmosphere model")
		}
	}
	if c.SRP && c.Ephemeris == nil {
		return configError("SRP enabled without an ephemeris for the Sun position")
	}
	if c.ThirdBody {
		if c.Ephemeris == nil {
			return configError("third-body gravity enabled without an ephemeris")
		}
		if len(c.Bodies) == 0 {
			return configError("third-body gravity enabled without perturbing bodies")
		}
	}
	if c.J2 && c.Center.J2 == 0 {
		return configError("J2 enabled but %s has no J2 coefficient", c.Center.Name)
	}
	return nil
}

// Dynamics is the derivative function consumed by the external integrator.
// Given the elapsed seconds since the reference epoch and a 6 or 42 element
// state, it returns the same-length derivative. Each evaluation is pure:
// nothing persists between calls except the diagnostics counters.
type Dynamics struct {
	Epoch0   time.Time // reference epoch; current epoch is Epoch0 + t seconds
	composer *Composer
}

// NewDynamics validates the configuration and returns the derivative function.
// A nil logger falls back to logfmt on stdout.
func NewDynamics(epoch0 time.Time, cfg Config, logger kitlog.Logger) (*Dynamics, error) {
	if logger == nil {
		logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
		logger = kitlog.With(logger, "subsys", "dynamics")
	}
	if cfg.SRP && cfg.Cr == 0 {
		cfg.Cr = 1
	}
	composer, err := NewComposer(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Dynamics{epoch0.UTC(), composer}, nil
}

// Derivative evaluates the state derivative at t seconds past the reference
// epoch. With a 6-element state it returns [v, a]. With a 42-element state it
// additionally unpacks the trailing STM, builds the variational system matrix
// and returns the flattened Φdot = A·Φ in the trailing 36 slots. Any other
// length is a configuration error and no partial output is produced.
func (d *Dynamics) Derivative(t float64, f []float64) ([]float64, error) {
	withSTM := false
	switch len(f) {
	case 6:
	case 42:
		withSTM = true
	default:
		return nil, configError("state vector must have 6 or 42 elements, got %d", len(f))
	}
	dt := d.Epoch0.Add(time.Duration(t * float64(time.Second)))
	R := []float64{f[0], f[1], f[2]}
	V := []float64{f[3], f[4], f[5]}
	total, err := d.composer.Total(R, V, dt)
	if err != nil {
		return nil, err
	}
	fDot := make([]float64, len(f))
	// d\vec{R}/dt
	fDot[0] = f[3]
	fDot[1] = f[4]
	fDot[2] = f[5]
	// d\vec{V}/dt
	fDot[3] = total.Accel[0]
	fDot[4] = total.Accel[1]
	fDot[5] = total.Accel[2]
	if !withSTM {
		return fDot, nil
	}
	Φ := UnpackSTM(f)
	A := SystemMatrix(total)
	var ΦDot mat64.Dense
	ΦDot.Mul(A, Φ)
	PackSTM(&ΦDot, fDot)
	return fDot, nil
}

// Diagnostics returns the recoverable failure counters of the underlying
// composer.
func (d *Dynamics) Diagnostics() Diagnostics {
	return d.composer.Diagnostics()
}

// Propagation drives Dynamics through the RK4 integrator, carrying the state
// and the STM from a start epoch to a stop epoch. It implements
// ode.Integrable.
type Propagation struct {
	Orbit      *Orbit       // current orbit, updated during propagation
	Φ          *mat64.Dense // STM from the start epoch, identity at start
	StopDT     time.Time
	dynamics   *Dynamics
	dt         time.Time
	step       time.Duration
	computeSTM bool
	logger     kitlog.Logger
	histChan   chan<- ProgressState
}

// ProgressState is one propagated sample, sent on the history channel when one
// is configured.
type ProgressState struct {
	DT    time.Time
	Orbit Orbit
}

// NewPropagation returns a propagation of the given orbit under the configured
// forces. When computeSTM is set, the 6x6 identity is appended to the state
// and propagated along.
func NewPropagation(name string, o *Orbit, epoch time.Time, cfg Config, step time.Duration, computeSTM bool) (*Propagation, error) {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "prop", name)
	dyn, err := NewDynamics(epoch, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Propagation{o, IdentitySTM(), epoch.UTC(), dyn, epoch.UTC().Add(step), step, computeSTM, logger, nil}, nil
}

// SetHistoryChan streams every propagated sample to the provided channel. The
// channel is closed when the propagation stops.
func (p *Propagation) SetHistoryChan(ch chan<- ProgressState) {
	p.histChan = ch
}

// GetState implements ode.Integrable.
func (p *Propagation) GetState() []float64 {
	size := 6
	if p.computeSTM {
		size += 36
	}
	s := make([]float64, size)
	R, V := p.Orbit.RV()
	for i := 0; i < 3; i++ {
		s[i] = R[i]
		s[i+3] = V[i]
	}
	if p.computeSTM {
		PackSTM(p.Φ, s)
	}
	return s
}

// SetState implements ode.Integrable.
func (p *Propagation) SetState(t float64, s []float64) {
	R := []float64{s[0], s[1], s[2]}
	V := []float64{s[3], s[4], s[5]}
	orbit, err := NewOrbitFromRV(R, V, p.Orbit.Origin)
	if err != nil {
		panic(fmt.Errorf("propagation degenerated at %s: %s", p.dt, err))
	}
	*p.Orbit = *orbit
	if p.computeSTM {
		p.Φ = UnpackSTM(s)
	}
	if p.histChan != nil {
		p.histChan <- ProgressState{p.dt, *p.Orbit}
	}
	p.dt = p.dt.Add(p.step)
}

// Stop implements ode.Integrable.
func (p *Propagation) Stop(t float64) bool {
	if p.dt.After(p.StopDT) {
		if p.histChan != nil {
			close(p.histChan)
		}
		return true
	}
	return false
}

// Func implements ode.Integrable by delegating to Derivative. The integrator
// interface has no error path, so a failed evaluation panics; the taxonomy
// treats every non-recoverable failure as fatal to the propagation anyway.
func (p *Propagation) Func(t float64, f []float64) []float64 {
	fDot, err := p.dynamics.Derivative(t, f)
	if err != nil {
		panic(fmt.Errorf("derivative evaluation failed at t=%f: %s", t, err))
	}
	for i := 0; i < 6; i++ {
		if math.IsNaN(fDot[i]) {
			panic(fmt.Errorf("fDot[%d]=NaN @ t=%f orbit %s", i, t, p.Orbit))
		}
	}
	return fDot
}

// PropagateUntil propagates until the given time is reached.
func (p *Propagation) PropagateUntil(dt time.Time) {
	p.StopDT = dt.UTC()
	start := time.Now()
	ode.NewRK4(0, p.step.Seconds(), p).Solve() // Blocking.
	p.logger.Log("level", "info", "subsys", "astro", "status", "finished", "walltime", time.Since(start), "orbit", p.Orbit)
	if skipped := p.dynamics.Diagnostics().J2Skipped; skipped > 0 {
		p.logger.Log("level", "warning", "subsys", "forces", "J2Skipped", skipped)
	}
}
