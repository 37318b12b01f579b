package spectrum

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds flux-weighted moments of a spectrum.
type Summary struct {
	Name         string
	Total        float64
	MeanEnergy   float64
	StdDevEnergy float64
	PeakEnergy   float64
	PeakContent  float64
}

// Summarize computes the total flux and the flux-weighted mean and standard
// deviation of the energy. Moments are left at zero for an empty spectrum.
func Summarize(s Spectrum) Summary {
	out := Summary{Name: s.name}
	if s.Len() == 0 {
		return out
	}

	out.Total = floats.Sum(s.content)

	peak := floats.MaxIdx(s.content)
	out.PeakEnergy = s.binning.Center(peak)
	out.PeakContent = s.content[peak]

	if out.Total <= 0 || floats.Min(s.content) < 0 {
		return out
	}

	centers := s.binning.Centers()
	out.MeanEnergy = stat.Mean(centers, s.content)

	// Population variance: the bin contents are fluxes, not sample counts.
	dev := make([]float64, len(centers))
	for i, c := range centers {
		d := c - out.MeanEnergy
		dev[i] = d * d
	}
	out.StdDevEnergy = math.Sqrt(stat.Mean(dev, s.content))

	return out
}

func (s Summary) String() string {
	return fmt.Sprintf("%s: total=%.6e mean=%.1f keV sd=%.1f keV peak=%.1f keV", s.Name, s.Total, s.MeanEnergy, s.StdDevEnergy, s.PeakEnergy)
}
