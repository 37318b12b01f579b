package plot

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/pfx"
	"github.com/carbocation/snfspectra"
	"github.com/carbocation/snfspectra/spectrum"
	"github.com/wcharczuk/go-chart/v2"
)

// Series is one labelled line on a spectrum chart.
type Series struct {
	Label    string
	Spectrum spectrum.Spectrum
}

// Spectra renders a PNG line chart of log10(flux) against energy in MeV.
// Empty bins cannot be drawn on a log scale and are left out.
func Spectra(w io.Writer, title string, series []Series) error {
	graph := chart.Chart{
		Title:  title,
		Width:  1200,
		Height: 600,
		XAxis: chart.XAxis{
			Name: "Antineutrino energy (MeV)",
		},
		YAxis: chart.YAxis{
			Name: "log10 flux (keV^-1 s^-1)",
		},
	}

	for _, s := range series {
		xs, ys := logPoints(s.Spectrum)
		if len(xs) < 2 {
			log.Printf("Not plotting %s: fewer than two bins with positive flux\n", s.Label)
			continue
		}
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    s.Label,
			XValues: xs,
			YValues: ys,
		})
	}
	if len(graph.Series) == 0 {
		return fmt.Errorf("%w: nothing to plot", snfspectra.ErrInvalidArgument)
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(&graph),
	}

	// Render to a byte buffer
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return pfx.Err(err)
	}

	_, err := buffer.WriteTo(w)
	return pfx.Err(err)
}

func SpectraFile(path, title string, series []Series) error {
	f, err := os.Create(snfspectra.ExpandHome(path))
	if err != nil {
		return pfx.Err(err)
	}

	if err := Spectra(f, title, series); err != nil {
		f.Close()
		return err
	}

	return pfx.Err(f.Close())
}

func logPoints(s spectrum.Spectrum) ([]float64, []float64) {
	centers := s.Centers()
	content := s.Content()

	xs := make([]float64, 0, len(centers))
	ys := make([]float64, 0, len(centers))
	for i, c := range content {
		if !(c > 0) || math.IsInf(c, 0) {
			continue
		}
		xs = append(xs, centers[i]/1e3)
		ys = append(ys, math.Log10(c))
	}

	return xs, ys
}

// Terminal prints an ASCII histogram of samples with the given number of
// bins, scaling the longest bar to width characters.
func Terminal(w io.Writer, samples []float64, bins, width int) error {
	if len(samples) == 0 || bins < 1 || width < 1 {
		return fmt.Errorf("%w: need samples, bins and width (got %d samples, %d bins, width %d)", snfspectra.ErrInvalidArgument, len(samples), bins, width)
	}

	hist := histogram.Hist(bins, samples)
	return pfx.Err(histogram.Fprint(w, hist, histogram.Linear(width)))
}
