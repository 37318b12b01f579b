package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/snfspectra"
	"github.com/carbocation/snfspectra/spectrum"
	"github.com/gocarina/gocsv"
)

type energyKeV float64

func (e energyKeV) MarshalCSV() (string, error) {
	return strconv.FormatFloat(float64(e), 'f', 1, 64), nil
}

type fluxValue float64

func (f fluxValue) MarshalCSV() (string, error) {
	return fmt.Sprintf("%.6e", float64(f)), nil
}

type spectrumRow struct {
	Energy energyKeV `csv:"energy"`
	Flux   fluxValue `csv:"flux"`
}

type sampleValue float64

func (s sampleValue) MarshalCSV() (string, error) {
	return strconv.FormatFloat(float64(s), 'g', -1, 64), nil
}

type sampleRow struct {
	Energy sampleValue `csv:"energy"`
}

// CSVPath appends .csv to name unless it already ends that way.
func CSVPath(name string) string {
	if strings.HasSuffix(name, ".csv") {
		return name
	}
	return name + ".csv"
}

// WriteSpectrumCSV writes one energy,flux row per bin, with the bin center in
// keV to one decimal place and the flux in scientific notation.
func WriteSpectrumCSV(w io.Writer, s spectrum.Spectrum) error {
	centers := s.Centers()
	rows := make([]spectrumRow, s.Len())
	for i := range rows {
		c, _ := s.At(i)
		rows[i] = spectrumRow{Energy: energyKeV(centers[i]), Flux: fluxValue(c)}
	}

	return pfx.Err(gocsv.Marshal(rows, w))
}

// WriteSpectrumFile writes s to path, adding .csv if needed, and returns the
// path written.
func WriteSpectrumFile(path string, s spectrum.Spectrum) (string, error) {
	path = CSVPath(snfspectra.ExpandHome(path))

	f, err := os.Create(path)
	if err != nil {
		return "", pfx.Err(err)
	}

	if err := WriteSpectrumCSV(f, s); err != nil {
		f.Close()
		return "", err
	}

	return path, pfx.Err(f.Close())
}

// WriteSamplesCSV writes one sampled energy per line with no header.
func WriteSamplesCSV(w io.Writer, samples []float64) error {
	rows := make([]sampleRow, len(samples))
	for i, x := range samples {
		rows[i] = sampleRow{Energy: sampleValue(x)}
	}

	return pfx.Err(gocsv.MarshalWithoutHeaders(rows, w))
}

func WriteSamplesFile(path string, samples []float64) (string, error) {
	path = CSVPath(snfspectra.ExpandHome(path))

	f, err := os.Create(path)
	if err != nil {
		return "", pfx.Err(err)
	}

	if err := WriteSamplesCSV(f, samples); err != nil {
		f.Close()
		return "", err
	}

	return path, pfx.Err(f.Close())
}
