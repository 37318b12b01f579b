package cask

import (
	"fmt"
	"log"

	"github.com/carbocation/snfspectra"
	"github.com/carbocation/snfspectra/spectrum"
)

// Evolve returns the combined spectrum of all casks after each additional
// cooling time (years) has passed on top of each cask's removal time.
func Evolve(src Source, casks []Cask, coolingTimes []float64, opts Options, concurrency int) ([]spectrum.Spectrum, error) {
	if len(coolingTimes) == 0 {
		return nil, fmt.Errorf("%w: no cooling times", snfspectra.ErrInvalidArgument)
	}

	out := make([]spectrum.Spectrum, 0, len(coolingTimes))
	for _, dt := range coolingTimes {
		if dt < 0 {
			return nil, fmt.Errorf("%w: cooling time %v is negative", snfspectra.ErrInvalidArgument, dt)
		}

		aged := make([]Cask, len(casks))
		for i, c := range casks {
			c.RemovalTime += dt
			aged[i] = c
		}

		total, err := Total(src, aged, opts, concurrency)
		if err != nil {
			return nil, fmt.Errorf("after %g years: %w", dt, err)
		}
		log.Printf("Built %d casks after %g additional years of cooling\n", len(casks), dt)

		out = append(out, total.WithName(fmt.Sprintf("+%g years", dt)))
	}

	return out, nil
}
