// Package algo has the pure statistical building blocks of the XmR engine.
package algo

import (
	"errors"
	"fmt"
	"math"
)

// Default engine constants. These are part of the output contract, so changing
// any of them changes where phases split.
const (
	DefaultMinBaseline        = 20
	DefaultRunLength          = 8
	DefaultNPLMultiplier      = 2.66
	DefaultMRUCLMultiplier    = 3.268
	DefaultD2                 = 1.128
	DefaultOddsCap            = 10000.0
	DefaultOddsMinProbability = 0.0001
	DefaultBins               = 20
	DefaultEpsilon            = 1e-9
	DefaultDecimals           = 2
)

// Params holds every tunable constant used by the engine.
type Params struct {
	MinBaseline        int     // points used to establish a phase baseline
	RunLength          int     // consecutive same-side points that trigger the run rule
	NPLMultiplier      float64 // natural process limit multiplier for individuals charts
	MRUCLMultiplier    float64 // upper limit multiplier for moving range charts
	D2                 float64 // mean moving range to sigma constant
	OddsCap            float64 // odds reported for extremely rare points
	OddsMinProbability float64 // probability at or below which OddsCap applies
	Bins               int     // histogram bin count
	Epsilon            float64 // floor for dispersion estimates
	Decimals           int     // rounding of published limits, negative disables
}

// DefaultParams returns the canonical engine constants.
func DefaultParams() Params {
	return Params{
		MinBaseline:        DefaultMinBaseline,
		RunLength:          DefaultRunLength,
		NPLMultiplier:      DefaultNPLMultiplier,
		MRUCLMultiplier:    DefaultMRUCLMultiplier,
		D2:                 DefaultD2,
		OddsCap:            DefaultOddsCap,
		OddsMinProbability: DefaultOddsMinProbability,
		Bins:               DefaultBins,
		Epsilon:            DefaultEpsilon,
		Decimals:           DefaultDecimals,
	}
}

// Validate checks that the constants can drive the engine.
func (p Params) Validate() error {
	var errs []error
	if p.MinBaseline < 2 {
		errs = append(errs, fmt.Errorf("min baseline must be at least 2 (received %d)", p.MinBaseline))
	}
	if p.RunLength < 2 {
		errs = append(errs, fmt.Errorf("run length must be at least 2 (received %d)", p.RunLength))
	}
	if p.Bins < 1 {
		errs = append(errs, fmt.Errorf("bins must be at least 1 (received %d)", p.Bins))
	}
	if p.NPLMultiplier <= 0 || p.MRUCLMultiplier <= 0 || p.D2 <= 0 {
		errs = append(errs, errors.New("limit multipliers and d2 must be positive"))
	}
	if p.OddsCap < 1 || p.OddsMinProbability <= 0 || p.OddsMinProbability >= 1 {
		errs = append(errs, errors.New("odds cap must be >= 1 and odds probability floor must be in (0, 1)"))
	}
	if p.Epsilon <= 0 {
		errs = append(errs, errors.New("epsilon must be positive"))
	}
	if p.Decimals > 10 {
		errs = append(errs, fmt.Errorf("decimals cannot exceed 10 (received %d)", p.Decimals))
	}
	return errors.Join(errs...)
}

// Round rounds v to the configured number of decimals.
func (p Params) Round(v float64) float64 {
	if p.Decimals < 0 {
		return v
	}
	scale := math.Pow(10, float64(p.Decimals))
	return math.Round(v*scale) / scale
}

// SigmaFromMovingRange converts a mean moving range into a sigma estimate,
// floored at Epsilon.
func (p Params) SigmaFromMovingRange(mrBar float64) float64 {
	return math.Max(mrBar/p.D2, p.Epsilon)
}
