package refdata

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/snfspectra"
	"github.com/carbocation/snfspectra/spectrum"
)

// ParseSpectrum reads a reference spectrum in the given layout. Blank lines
// and lines starting with # are ignored.
func ParseSpectrum(name string, r io.Reader, layout Layout) (spectrum.Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var energy, dnde, unc []float64
	need := layout.minColumns()

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo <= layout.HeaderLines {
			continue
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Fields(line)
		if len(cols) < need {
			return spectrum.Table{}, fmt.Errorf("%w: %s line %d: expected at least %d columns, found %d", snfspectra.ErrInvalidArgument, name, lineNo, need, len(cols))
		}

		if layout.ColBranch >= 0 {
			branch, err := strconv.ParseFloat(cols[layout.ColBranch], 64)
			if err != nil || branch != layout.Branch {
				continue
			}
		}

		var vals [3]float64
		for i, col := range [3]int{layout.ColEnergy, layout.ColDNdE, layout.ColUncertainty} {
			v, err := strconv.ParseFloat(cols[col], 64)
			if err != nil {
				return spectrum.Table{}, fmt.Errorf("%w: %s line %d column %d: %v", snfspectra.ErrInvalidArgument, name, lineNo, col, err)
			}
			vals[i] = v
		}

		energy = append(energy, vals[0])
		dnde = append(dnde, vals[1])
		unc = append(unc, vals[2])
	}
	if err := scanner.Err(); err != nil {
		return spectrum.Table{}, fmt.Errorf("%s: %w", name, err)
	}

	return spectrum.NewTable(name, energy, dnde, unc)
}
