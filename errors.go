package moda

import (
	"errors"
	"fmt"
)

// ErrConfiguration covers invalid state vector lengths and force
// configurations with missing parameters. Fatal to the current call.
var ErrConfiguration = errors.New("invalid configuration")

// ErrDegenerateGeometry covers near-zero position or angular momentum vectors
// in the frame utilities. Fatal to the current call.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// ErrMissingEphemeris covers failed celestial body position lookups. Fatal to
// the current call: propagating with a wrong gravity field is worse than not
// propagating at all.
var ErrMissingEphemeris = errors.New("missing ephemeris data")

func configError(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, a...))
}

func degenerateGeometry(what string, n float64) error {
	return fmt.Errorf("%w: %s norm %g below %g", ErrDegenerateGeometry, what, n, minGeometryNorm)
}

func missingEphemeris(body string, cause error) error {
	return fmt.Errorf("%w: %s: %s", ErrMissingEphemeris, body, cause)
}

// minGeometryNorm is the smallest vector norm (km for positions, km²/s for
// angular momenta) for which the RTN frame and the element conversions are
// considered defined.
const minGeometryNorm = 1e-6
