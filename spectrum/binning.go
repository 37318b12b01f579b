package spectrum

import (
	"fmt"
	"math"

	"github.com/carbocation/snfspectra"
	"gonum.org/v1/gonum/floats"
)

// Binning is a uniform grid of N bins of equal Width starting at Min. Energies
// are in keV.
type Binning struct {
	Min   float64
	Width float64
	N     int
}

// NewBinning returns the unit-width grid spanning [minEnergy, maxEnergy).
func NewBinning(minEnergy, maxEnergy int) (Binning, error) {
	if maxEnergy <= minEnergy {
		return Binning{}, fmt.Errorf("%w: max energy %d must exceed min energy %d", snfspectra.ErrInvalidArgument, maxEnergy, minEnergy)
	}

	return Binning{Min: float64(minEnergy), Width: 1, N: maxEnergy - minEnergy}, nil
}

func (b Binning) Validate() error {
	if b.N <= 0 {
		return fmt.Errorf("%w: binning needs at least one bin, got %d", snfspectra.ErrInvalidArgument, b.N)
	}
	if !(b.Width > 0) || math.IsInf(b.Width, 0) {
		return fmt.Errorf("%w: bin width must be positive, got %v", snfspectra.ErrInvalidArgument, b.Width)
	}
	if math.IsNaN(b.Min) || math.IsInf(b.Min, 0) {
		return fmt.Errorf("%w: binning minimum must be finite, got %v", snfspectra.ErrInvalidArgument, b.Min)
	}
	return nil
}

// Max is the upper edge of the last bin.
func (b Binning) Max() float64 {
	return b.Min + float64(b.N)*b.Width
}

// Edges returns the N+1 bin edges.
func (b Binning) Edges() []float64 {
	if b.N <= 0 {
		return nil
	}
	return floats.Span(make([]float64, b.N+1), b.Min, b.Max())
}

// Centers returns the N bin centers.
func (b Binning) Centers() []float64 {
	if b.N <= 0 {
		return nil
	}
	half := b.Width / 2
	if b.N == 1 {
		return []float64{b.Min + half}
	}
	return floats.Span(make([]float64, b.N), b.Min+half, b.Max()-half)
}

// Center of bin i.
func (b Binning) Center(i int) float64 {
	return b.Min + (float64(i)+0.5)*b.Width
}

// Index returns the bin holding energy e, or -1 if e is outside [Min, Max).
func (b Binning) Index(e float64) int {
	if e < b.Min || e >= b.Max() {
		return -1
	}
	i := int((e - b.Min) / b.Width)
	if i >= b.N {
		i = b.N - 1
	}
	return i
}

// Equal reports whether both grids have the same bin count and edges.
func (b Binning) Equal(o Binning) bool {
	return b.N == o.N && b.Min == o.Min && b.Width == o.Width
}

func (b Binning) String() string {
	return fmt.Sprintf("%d bins over [%g, %g)", b.N, b.Min, b.Max())
}
