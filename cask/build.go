package cask

import (
	"errors"
	"fmt"
	"log"

	"github.com/carbocation/snfspectra"
	"github.com/carbocation/snfspectra/physics"
	"github.com/carbocation/snfspectra/refdata"
	"github.com/carbocation/snfspectra/spectrum"
)

// Build returns the total antineutrino spectrum of one cask at its removal
// time. Every isotope in the composition contributes its reference spectrum
// scaled by its activity. If the fuel has cooled for a while, the daughters of
// the configured decay chains are grown in from their parents and added at
// their current activity.
func Build(src Source, c Cask, opts Options) (spectrum.Spectrum, error) {
	if err := c.Composition.Validate(); err != nil {
		return spectrum.Spectrum{}, fmt.Errorf("%s: %w", c.label(), err)
	}
	if err := opts.Binning.Validate(); err != nil {
		return spectrum.Spectrum{}, err
	}

	parts := make([]spectrum.Spectrum, 0, len(c.Composition)+len(opts.Chains))
	masses := make(map[string]float64, len(c.Composition))

	for _, iso := range c.Composition.Isotopes() {
		mass := c.Composition[iso] * c.Mass
		masses[iso] = mass

		s, err := isotopeSpectrum(src, iso, iso, mass, c.RemovalTime, opts.Binning)
		if err != nil {
			return spectrum.Spectrum{}, fmt.Errorf("%s: %w", c.label(), err)
		}
		parts = append(parts, s)
	}

	if c.RemovalTime > 0 {
		for _, chain := range opts.Chains {
			s, ok, err := daughterSpectrum(src, chain, masses, c.RemovalTime, opts.Binning)
			if err != nil {
				return spectrum.Spectrum{}, fmt.Errorf("%s: %w", c.label(), err)
			}
			if ok {
				parts = append(parts, s)
			}
		}
	}

	total, err := spectrum.Combine(parts...)
	if err != nil {
		return spectrum.Spectrum{}, fmt.Errorf("%s: %w", c.label(), err)
	}

	return total.WithName(c.label()), nil
}

// isotopeSpectrum loads, rebins and scales one isotope.
func isotopeSpectrum(src Source, iso, label string, mass, elapsed float64, b spectrum.Binning) (spectrum.Spectrum, error) {
	tab, err := src.Spectrum(iso)
	if err != nil {
		return spectrum.Spectrum{}, err
	}
	consts, err := src.Isotope(iso)
	if err != nil {
		return spectrum.Spectrum{}, err
	}

	s, err := spectrum.EqualizeTo(tab, b)
	if err != nil {
		return spectrum.Spectrum{}, err
	}

	scaled, err := physics.ScaleSpectrum(s, mass, float64(consts.MolarMass), consts.HalfLife, elapsed)
	if err != nil {
		return spectrum.Spectrum{}, err
	}

	return scaled.WithName(label), nil
}

// daughterSpectrum returns the ingrown daughter of chain. ok is false when the
// chain does not apply to this cask.
func daughterSpectrum(src Source, chain physics.DecayChain, masses map[string]float64, elapsed float64, b spectrum.Binning) (spectrum.Spectrum, bool, error) {
	if err := chain.Validate(); err != nil {
		return spectrum.Spectrum{}, false, err
	}

	parentMass, exists := masses[chain.Parent]
	if !exists || parentMass == 0 {
		return spectrum.Spectrum{}, false, nil
	}

	parent, err := src.Isotope(chain.Parent)
	if err != nil {
		return spectrum.Spectrum{}, false, err
	}

	daughter, err := src.Isotope(chain.Daughter)
	if errors.Is(err, snfspectra.ErrNotFound) {
		log.Printf("Skipping decay chain %s: %v\n", chain, err)
		return spectrum.Spectrum{}, false, nil
	} else if err != nil {
		return spectrum.Spectrum{}, false, err
	}
	if _, err := src.Spectrum(chain.Daughter); errors.Is(err, snfspectra.ErrNotFound) {
		log.Printf("Skipping decay chain %s: %v\n", chain, err)
		return spectrum.Spectrum{}, false, nil
	} else if err != nil {
		return spectrum.Spectrum{}, false, err
	}

	mass, err := physics.DaughterMass(elapsed, parentMass, parent.HalfLife, daughter.HalfLife, chain.BranchingRatio)
	if err != nil {
		return spectrum.Spectrum{}, false, fmt.Errorf("%s: %w", chain, err)
	}

	// The daughter mass is already the mass present at the removal time.
	s, err := isotopeSpectrum(src, chain.Daughter, chain.Daughter+" from "+chain.Parent, mass, 0, b)
	if err != nil {
		return spectrum.Spectrum{}, false, err
	}

	return s, true, nil
}

// BuildAll builds every cask, running up to concurrency builds at once. The
// results are in the same order as casks.
func BuildAll(src Source, casks []Cask, opts Options, concurrency int) ([]spectrum.Spectrum, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	out := make([]spectrum.Spectrum, len(casks))
	errs := make([]error, len(casks))

	sem := make(chan bool, concurrency)
	for i, c := range casks {
		sem <- true
		go func(i int, c Cask) {
			defer func() { <-sem }()
			out[i], errs[i] = Build(src, c, opts)
		}(i, c)
	}
	for i := 0; i < cap(sem); i++ {
		sem <- true
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return out, nil
}

// Total builds every cask and combines them into one spectrum.
func Total(src Source, casks []Cask, opts Options, concurrency int) (spectrum.Spectrum, error) {
	if len(casks) == 0 {
		return spectrum.Spectrum{}, fmt.Errorf("%w: no casks", snfspectra.ErrInvalidArgument)
	}

	spectra, err := BuildAll(src, casks, opts, concurrency)
	if err != nil {
		return spectrum.Spectrum{}, err
	}

	total, err := spectrum.Combine(spectra...)
	if err != nil {
		return spectrum.Spectrum{}, err
	}

	return total.WithName("total"), nil
}

var _ Source = (*refdata.Store)(nil)
