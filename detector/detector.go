package detector

import (
	"fmt"
	"math"

	"github.com/carbocation/snfspectra"
	"github.com/carbocation/snfspectra/spectrum"
	"github.com/tokenme/probab/dst"
)

const (
	// IBDThreshold is the inverse beta decay threshold in keV.
	IBDThreshold = 1800.0
	// MaxEnergy is the top of the energy window used for the flux, in keV.
	MaxEnergy = 6000.0

	SecondsPerDay = 60 * 60 * 24
	cmPerMetre    = 100
)

// Flux returns the antineutrino flux in cm^-2 s^-1 above the IBD threshold at
// distanceM metres from a point source emitting s isotropically.
func Flux(s spectrum.Spectrum, distanceM float64) (float64, error) {
	if !(distanceM > 0) || math.IsInf(distanceM, 0) {
		return 0, fmt.Errorf("%w: distance must be positive, got %v m", snfspectra.ErrInvalidArgument, distanceM)
	}

	return s.Integral(IBDThreshold, MaxEnergy) / sphere(distanceM), nil
}

// FluxError is the uncertainty on Flux from the bin errors of s, added in
// quadrature.
func FluxError(s spectrum.Spectrum, distanceM float64) (float64, error) {
	if !(distanceM > 0) || math.IsInf(distanceM, 0) {
		return 0, fmt.Errorf("%w: distance must be positive, got %v m", snfspectra.ErrInvalidArgument, distanceM)
	}

	return s.IntegralError(IBDThreshold, MaxEnergy) / sphere(distanceM), nil
}

// sphere is the area in cm^2 of a sphere of radius distanceM metres.
func sphere(distanceM float64) float64 {
	r := distanceM * cmPerMetre
	return 4 * math.Pi * r * r
}

// Detector describes an IBD detector by its target volume and detection
// efficiency range.
type Detector struct {
	Name            string
	Volume          float64 // m^3
	ProtonDensity   float64 // cm^-3
	CrossSection    float64 // cm^2
	LowerEfficiency float64
	UpperEfficiency float64
}

// VIDARR is the 1.52 x 1.52 x 0.7 m plastic scintillator detector.
func VIDARR() Detector {
	return Detector{
		Name:            "VIDARR",
		Volume:          1.52 * 1.52 * 0.7,
		ProtonDensity:   4.6e22,
		CrossSection:    1e-44,
		LowerEfficiency: 0.2,
		UpperEfficiency: 0.4,
	}
}

// Protons is the number of target protons.
func (d Detector) Protons() float64 {
	return d.Volume * 1e6 * d.ProtonDensity
}

// EventRate returns the detected IBD rate in s^-1 for the given flux at the
// lower and upper detection efficiencies.
func (d Detector) EventRate(flux float64) (lower, upper float64) {
	rate := d.Protons() * d.CrossSection * flux
	return rate * d.LowerEfficiency, rate * d.UpperEfficiency
}

// PerDay converts a per-second quantity to a per-day one.
func PerDay(perSecond float64) float64 {
	return perSecond * SecondsPerDay
}

// DetectionProbability is the probability of seeing at least one event in
// seconds of live time at the given event rate, assuming Poisson counts.
func DetectionProbability(rate, seconds float64) (float64, error) {
	return ProbabilityAtLeast(rate, seconds, 1)
}

// ProbabilityAtLeast is the probability of seeing at least k events.
func ProbabilityAtLeast(rate, seconds float64, k int64) (float64, error) {
	if rate < 0 || seconds < 0 || math.IsNaN(rate) || math.IsNaN(seconds) {
		return 0, fmt.Errorf("%w: rate %v and time %v must be non-negative", snfspectra.ErrInvalidArgument, rate, seconds)
	}
	if k <= 0 {
		return 1, nil
	}

	mu := rate * seconds
	if mu == 0 {
		return 0, nil
	}
	if k == 1 {
		return 1 - dst.PoissonPMF(mu)(0), nil
	}

	return 1 - dst.PoissonCDF(mu)(k-1), nil
}

// TimeToProbability returns the live time in seconds needed to see at least
// one event with the given probability.
func TimeToProbability(rate, probability float64) (float64, error) {
	if !(rate > 0) {
		return 0, fmt.Errorf("%w: rate must be positive, got %v", snfspectra.ErrInvalidArgument, rate)
	}
	if !(probability > 0 && probability < 1) {
		return 0, fmt.Errorf("%w: probability must be in (0, 1), got %v", snfspectra.ErrInvalidArgument, probability)
	}

	return -math.Log1p(-probability) / rate, nil
}
