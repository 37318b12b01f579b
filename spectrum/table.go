package spectrum

import (
	"fmt"
	"math"

	"github.com/carbocation/snfspectra"
)

// Table is a reference spectrum for one isotope as published: bin edges in
// keV with a dN/dE value and absolute uncertainty for each bin. Tables are
// immutable once built.
type Table struct {
	name        string
	edges       []float64
	content     []float64
	uncertainty []float64
}

// NewTable builds a table from per-edge columns as they appear in the IAEA
// files. energy holds the bin edges (N+1 values, strictly increasing) and
// dnde/uncertainty may either carry one value per bin (N) or one value per
// edge (N+1), in which case the trailing value is dropped.
func NewTable(name string, energy, dnde, uncertainty []float64) (Table, error) {
	if len(energy) < 2 {
		return Table{}, fmt.Errorf("%w: %s: need at least two energy edges, got %d", snfspectra.ErrInvalidArgument, name, len(energy))
	}
	nBins := len(energy) - 1

	trim := func(label string, x []float64) ([]float64, error) {
		switch len(x) {
		case nBins, nBins + 1:
			return append([]float64(nil), x[:nBins]...), nil
		}
		return nil, fmt.Errorf("%w: %s: %s has %d values for %d bins", snfspectra.ErrInvalidArgument, name, label, len(x), nBins)
	}

	content, err := trim("dN/dE", dnde)
	if err != nil {
		return Table{}, err
	}
	unc, err := trim("uncertainty", uncertainty)
	if err != nil {
		return Table{}, err
	}

	for i := 1; i < len(energy); i++ {
		if !(energy[i] > energy[i-1]) {
			return Table{}, fmt.Errorf("%w: %s: energy edges must be strictly increasing (edge %d is %v after %v)", snfspectra.ErrInvalidArgument, name, i, energy[i], energy[i-1])
		}
	}
	for i := range content {
		if math.IsNaN(content[i]) || math.IsNaN(unc[i]) {
			return Table{}, fmt.Errorf("%w: %s: bin %d is NaN", snfspectra.ErrInvalidArgument, name, i)
		}
	}

	return Table{
		name:        name,
		edges:       append([]float64(nil), energy...),
		content:     content,
		uncertainty: unc,
	}, nil
}

func (t Table) Name() string { return t.name }

// Len is the number of bins.
func (t Table) Len() int { return len(t.content) }

func (t Table) Edges() []float64 { return append([]float64(nil), t.edges...) }
func (t Table) Content() []float64 { return append([]float64(nil), t.content...) }
func (t Table) Uncertainty() []float64 { return append([]float64(nil), t.uncertainty...) }

// Centers returns the midpoint of each bin.
func (t Table) Centers() []float64 {
	out := make([]float64, len(t.content))
	for i := range out {
		out[i] = (t.edges[i] + t.edges[i+1]) / 2
	}
	return out
}

// MaxEnergy is the upper edge of the last bin.
func (t Table) MaxEnergy() float64 {
	if len(t.edges) == 0 {
		return 0
	}
	return t.edges[len(t.edges)-1]
}
