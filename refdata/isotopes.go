package refdata

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/carbocation/snfspectra"
	"github.com/gocarina/gocsv"
)

//go:embed data/isotopes.csv
var embeddedIsotopes []byte

// Isotope holds the nuclear constants needed to turn a mass into an activity.
type Isotope struct {
	Name      string  `csv:"isotope"`
	MolarMass int     `csv:"molar_mass"`
	HalfLife  float64 `csv:"half_life"` // years
}

// ParseIsotopes reads an isotope constants table with the columns isotope,
// molar_mass and half_life (years).
func ParseIsotopes(r io.Reader) (map[string]Isotope, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	records := []*Isotope{}
	if err := gocsv.UnmarshalCSV(snfspectra.NewDelimitedReader(data), &records); err != nil {
		return nil, fmt.Errorf("%w: isotope table: %v", snfspectra.ErrInvalidArgument, err)
	}

	out := make(map[string]Isotope, len(records))
	for _, rec := range records {
		if rec.Name == "" {
			continue
		}
		if rec.MolarMass <= 0 || !(rec.HalfLife > 0) || math.IsInf(rec.HalfLife, 0) {
			return nil, fmt.Errorf("%w: isotope %s has molar mass %d and half-life %v", snfspectra.ErrInvalidArgument, rec.Name, rec.MolarMass, rec.HalfLife)
		}
		if _, dup := out[rec.Name]; dup {
			return nil, fmt.Errorf("%w: isotope %s is listed twice", snfspectra.ErrInvalidArgument, rec.Name)
		}
		out[rec.Name] = *rec
	}

	return out, nil
}

// DefaultIsotopes returns the constants compiled into the binary.
func DefaultIsotopes() (map[string]Isotope, error) {
	return ParseIsotopes(bytes.NewReader(embeddedIsotopes))
}

func isotopeNames(m map[string]Isotope) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
