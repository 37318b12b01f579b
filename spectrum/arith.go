package spectrum

import (
	"fmt"
	"math"

	"github.com/carbocation/snfspectra"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// Scale multiplies every bin's content and error by factor.
func Scale(s Spectrum, factor float64) Spectrum {
	out := Zero(s.name, s.binning)
	vecmath.ScaleBlock(out.content, s.content, factor)
	vecmath.ScaleBlock(out.errors, s.errors, math.Abs(factor))
	return out
}

// Combine adds spectra bin by bin. Contents are summed and errors are summed
// in quadrature. All inputs must share the same binning.
func Combine(spectra ...Spectrum) (Spectrum, error) {
	if len(spectra) == 0 {
		return Spectrum{}, fmt.Errorf("%w: no spectra to combine", snfspectra.ErrInvalidArgument)
	}

	b := spectra[0].binning
	for _, s := range spectra[1:] {
		if !s.binning.Equal(b) {
			return Spectrum{}, fmt.Errorf("%w: %s has %s, %s has %s", snfspectra.ErrBinningMismatch, spectra[0].name, b, s.name, s.binning)
		}
	}

	out := Zero("combined", b)
	sq := make([]float64, b.N)
	for _, s := range spectra {
		vecmath.AddBlockInPlace(out.content, s.content)
		vecmath.MulBlock(sq, s.errors, s.errors)
		vecmath.AddBlockInPlace(out.errors, sq)
	}
	for i, v := range out.errors {
		out.errors[i] = math.Sqrt(v)
	}

	return out, nil
}
