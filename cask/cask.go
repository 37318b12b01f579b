package cask

import (
	"fmt"
	"math"
	"sort"

	"github.com/carbocation/snfspectra"
	"github.com/carbocation/snfspectra/physics"
	"github.com/carbocation/snfspectra/refdata"
	"github.com/carbocation/snfspectra/spectrum"
)

// Composition maps isotope name to its mass fraction of the fuel.
type Composition map[string]float64

// Isotopes returns the isotope names in sorted order.
func (c Composition) Isotopes() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (c Composition) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: composition has no isotopes", snfspectra.ErrInvalidArgument)
	}
	for iso, p := range c {
		if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: %s has proportion %v", snfspectra.ErrInvalidArgument, iso, p)
		}
	}
	return nil
}

// Cask is one spent fuel cask: a fuel composition, its total mass in kg and
// the years elapsed since the fuel left the reactor.
type Cask struct {
	Name        string
	Reactor     string
	Composition Composition
	Mass        float64
	RemovalTime float64
}

func (c Cask) label() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Reactor != "" {
		return c.Reactor
	}
	return "cask"
}

// Source supplies reference spectra and isotope constants. *refdata.Store
// satisfies it.
type Source interface {
	Spectrum(isotope string) (spectrum.Table, error)
	Isotope(isotope string) (refdata.Isotope, error)
}

// Options are the settings shared by every cask in a run.
type Options struct {
	Binning spectrum.Binning
	Chains  []physics.DecayChain
}

const (
	DefaultMinEnergy = 0
	DefaultMaxEnergy = 6000
)

// DefaultOptions rebins onto 1 keV bins over [0, 6000) keV and adds the
// default decay chains.
func DefaultOptions() Options {
	b, _ := spectrum.NewBinning(DefaultMinEnergy, DefaultMaxEnergy)
	return Options{
		Binning: b,
		Chains:  physics.DefaultDecayChains(),
	}
}
