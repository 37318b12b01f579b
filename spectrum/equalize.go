package spectrum

import (
	"fmt"
	"math"
	"sort"

	"github.com/carbocation/snfspectra"
	"gonum.org/v1/gonum/interp"
)

// Equalize resamples t onto unit-width bins covering [minEnergy, maxEnergy).
func Equalize(t Table, minEnergy, maxEnergy int) (Spectrum, error) {
	b, err := NewBinning(minEnergy, maxEnergy)
	if err != nil {
		return Spectrum{}, err
	}
	return EqualizeTo(t, b)
}

// EqualizeTo resamples t onto b. Each new bin takes the value of the straight
// line between the two reference bin centers that bracket it, and errors are
// combined in quadrature with the same weights. Outside the reference centers
// the nearest reference bin is repeated.
func EqualizeTo(t Table, b Binning) (Spectrum, error) {
	if err := b.Validate(); err != nil {
		return Spectrum{}, err
	}
	if t.Len() == 0 {
		return Spectrum{}, fmt.Errorf("%w: %s: reference table is empty", snfspectra.ErrInvalidArgument, t.name)
	}

	out := Zero(t.name, b)

	// A single reference bin is flat everywhere.
	if t.Len() == 1 {
		for i := range out.content {
			out.content[i], out.errors[i] = t.content[0], t.uncertainty[0]
		}
		return out, nil
	}

	x := t.Centers()
	e := t.uncertainty
	last := len(x) - 1

	var content interp.PiecewiseLinear
	if err := content.Fit(x, t.content); err != nil {
		return Spectrum{}, fmt.Errorf("%w: %s: %v", snfspectra.ErrInvalidArgument, t.name, err)
	}

	for i := 0; i < b.N; i++ {
		c := b.Center(i)
		out.content[i] = content.Predict(c)

		switch {
		case c <= x[0]:
			out.errors[i] = e[0]
			continue
		case c >= x[last]:
			out.errors[i] = e[last]
			continue
		}

		// x[hi] is the first reference center at or above c, and hi > 0 here.
		hi := sort.SearchFloat64s(x, c)
		if x[hi] == c {
			out.errors[i] = e[hi]
			continue
		}
		lo := hi - 1

		span := x[hi] - x[lo]
		wl := (x[hi] - c) / span
		wu := (c - x[lo]) / span

		out.errors[i] = math.Sqrt(wl*wl*e[lo]*e[lo] + wu*wu*e[hi]*e[hi])
	}

	return out, nil
}
