package sample

import (
	"fmt"
	"math"

	"github.com/carbocation/runningvariance"
	"github.com/carbocation/snfspectra"
	"github.com/carbocation/snfspectra/spectrum"
	"github.com/grd/histogram"
	"github.com/montanaflynn/stats"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Spectrum draws n energies from s. A bin is chosen with probability
// proportional to its content, then the energy is uniform within that bin.
// The same seed always yields the same samples.
func Spectrum(s spectrum.Spectrum, n int, seed uint64) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: cannot draw %d samples", snfspectra.ErrInvalidArgument, n)
	}

	weights := s.Content()
	var total float64
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: %s bin %d has content %v", snfspectra.ErrInvalidArgument, s.Name(), i, w)
		}
		total += w
	}
	if !(total > 0) {
		return nil, fmt.Errorf("%w: %s has no content to sample from", snfspectra.ErrInvalidArgument, s.Name())
	}

	src := rand.NewSource(seed)
	bins := distuv.NewCategorical(weights, src)
	uniform := rand.New(src)

	b := s.Binning()
	out := make([]float64, n)
	for i := range out {
		bin := int(bins.Rand())
		out[i] = b.Min + (float64(bin)+uniform.Float64())*b.Width
	}

	return out, nil
}

// Summary describes a set of samples.
type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Median float64
	P05    float64
	P95    float64
}

func Summarize(samples []float64) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, fmt.Errorf("%w: no samples", snfspectra.ErrInvalidArgument)
	}

	rs := runningvariance.NewRunningStat()
	for _, x := range samples {
		rs.Push(x)
	}

	out := Summary{
		N:      len(samples),
		Mean:   rs.Mean(),
		StdDev: rs.StandardDeviation(),
	}

	data := stats.Float64Data(samples)
	var err error
	if out.Median, err = data.Median(); err != nil {
		return out, err
	}
	if out.P05, err = data.Percentile(5); err != nil {
		return out, err
	}
	if out.P95, err = data.Percentile(95); err != nil {
		return out, err
	}

	return out, nil
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d mean=%.1f keV sd=%.1f keV median=%.1f keV 90%% interval=[%.1f, %.1f] keV", s.N, s.Mean, s.StdDev, s.Median, s.P05, s.P95)
}

// Histogram counts samples into the bins of b. Samples outside the grid are
// dropped.
func Histogram(samples []float64, b spectrum.Binning) ([]int, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	hg, err := histogram.NewHistogram(histogram.Range(b.Min, uint(b.N), b.Width))
	if err != nil {
		return nil, err
	}

	for _, x := range samples {
		if b.Index(x) < 0 {
			continue
		}
		hg.Add(x)
	}

	out := make([]int, b.N)
	for i := range out {
		out[i] = hg.Get(i)
	}

	return out, nil
}
