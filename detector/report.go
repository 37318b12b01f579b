package detector

import (
	"fmt"
	"io"
	"math"

	"github.com/carbocation/snfspectra/spectrum"
)

// ReportProbability is the detection probability whose live time is reported.
const ReportProbability = 0.9

// Report is the flux and event rate expected from one spectrum.
type Report struct {
	Distance  float64 // m
	Flux      float64 // cm^-2 s^-1
	FluxError float64 // cm^-2 s^-1
	LowerRate float64 // s^-1
	UpperRate float64 // s^-1
	// DayProbability is the chance of at least one event in a day at the
	// lower and upper rates.
	DayProbability [2]float64
	// TimeTo90 is the live time in seconds for a ReportProbability chance of
	// at least one event at the lower and upper rates. +Inf for a zero rate.
	TimeTo90 [2]float64
}

// NewReport computes the report for s seen by d at distanceM metres.
func NewReport(s spectrum.Spectrum, d Detector, distanceM float64) (Report, error) {
	flux, err := Flux(s, distanceM)
	if err != nil {
		return Report{}, err
	}
	fluxErr, err := FluxError(s, distanceM)
	if err != nil {
		return Report{}, err
	}

	out := Report{Distance: distanceM, Flux: flux, FluxError: fluxErr}
	out.LowerRate, out.UpperRate = d.EventRate(flux)

	for i, rate := range []float64{out.LowerRate, out.UpperRate} {
		p, err := DetectionProbability(rate, SecondsPerDay)
		if err != nil {
			return Report{}, err
		}
		out.DayProbability[i] = p

		out.TimeTo90[i] = math.Inf(1)
		if rate > 0 {
			if out.TimeTo90[i], err = TimeToProbability(rate, ReportProbability); err != nil {
				return Report{}, err
			}
		}
	}

	return out, nil
}

func (r Report) Fprint(w io.Writer) {
	fmt.Fprintf(w, "Flux: %.3e +/- %.3e cm^-2 s^-1\n", r.Flux, r.FluxError)
	fmt.Fprintf(w, "Flux: %.3e cm^-2 days^-1\n", PerDay(r.Flux))
	fmt.Fprintf(w, "Event rate: %.3e to %.3e per s\n", r.LowerRate, r.UpperRate)
	fmt.Fprintf(w, "Event rate: %.3f to %.3f per day\n", PerDay(r.LowerRate), PerDay(r.UpperRate))
	fmt.Fprintf(w, "P(at least one event in a day): %.3f to %.3f\n", r.DayProbability[0], r.DayProbability[1])
	fmt.Fprintf(w, "Days for a %.0f%% chance of an event: %.3g to %.3g\n", 100*ReportProbability, r.TimeTo90[1]/SecondsPerDay, r.TimeTo90[0]/SecondsPerDay)
}
