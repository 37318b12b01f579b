package spectrum

import (
	"fmt"
	"math"

	"github.com/carbocation/snfspectra"
)

// Spectrum is a histogram on a uniform Binning. Content is a flux per bin
// (arbitrary normalization until scaled by an activity) and Errors holds one
// absolute uncertainty per bin.
type Spectrum struct {
	name    string
	binning Binning
	content []float64
	errors  []float64
}

// New copies content and errs into a Spectrum on binning b.
func New(name string, b Binning, content, errs []float64) (Spectrum, error) {
	if err := b.Validate(); err != nil {
		return Spectrum{}, err
	}
	if len(content) != b.N || len(errs) != b.N {
		return Spectrum{}, fmt.Errorf("%w: %s: %d bins but %d contents and %d errors", snfspectra.ErrInvalidArgument, name, b.N, len(content), len(errs))
	}

	return Spectrum{
		name:    name,
		binning: b,
		content: append([]float64(nil), content...),
		errors:  append([]float64(nil), errs...),
	}, nil
}

// Zero returns an empty spectrum on b.
func Zero(name string, b Binning) Spectrum {
	return Spectrum{
		name:    name,
		binning: b,
		content: make([]float64, b.N),
		errors:  make([]float64, b.N),
	}
}

func (s Spectrum) Name() string { return s.name }
func (s Spectrum) Binning() Binning { return s.binning }
func (s Spectrum) Len() int { return len(s.content) }
func (s Spectrum) Centers() []float64 { return s.binning.Centers() }
func (s Spectrum) Edges() []float64 { return s.binning.Edges() }

func (s Spectrum) Content() []float64 { return append([]float64(nil), s.content...) }
func (s Spectrum) Errors() []float64 { return append([]float64(nil), s.errors...) }

// At returns the content and error of bin i.
func (s Spectrum) At(i int) (float64, float64) {
	return s.content[i], s.errors[i]
}

// WithName returns a copy of s under a new name.
func (s Spectrum) WithName(name string) Spectrum {
	out := s.clone()
	out.name = name
	return out
}

func (s Spectrum) clone() Spectrum {
	return Spectrum{
		name:    s.name,
		binning: s.binning,
		content: append([]float64(nil), s.content...),
		errors:  append([]float64(nil), s.errors...),
	}
}

// Integral sums the content of every bin whose center lies in [lo, hi).
func (s Spectrum) Integral(lo, hi float64) float64 {
	var total float64
	for i, c := range s.content {
		center := s.binning.Center(i)
		if center >= lo && center < hi {
			total += c
		}
	}
	return total
}

// IntegralError is the quadrature sum of the errors over the same bins as
// Integral.
func (s Spectrum) IntegralError(lo, hi float64) float64 {
	var total float64
	for i, e := range s.errors {
		center := s.binning.Center(i)
		if center >= lo && center < hi {
			total += e * e
		}
	}
	return math.Sqrt(total)
}

// Total is the integral over every bin.
func (s Spectrum) Total() float64 {
	var total float64
	for _, c := range s.content {
		total += c
	}
	return total
}
