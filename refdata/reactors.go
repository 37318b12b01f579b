package refdata

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/snfspectra"
	"github.com/gocarina/gocsv"
)

type compositionRow struct {
	Isotope    string  `csv:"isotope"`
	Proportion float64 `csv:"proportion"`
}

// ParseComposition reads a reactor composition table with the columns isotope
// and proportion. Proportions are mass fractions of the total fuel mass and
// are not required to sum to one.
func ParseComposition(r io.Reader) (map[string]float64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	rows := []*compositionRow{}
	if err := gocsv.UnmarshalCSV(snfspectra.NewDelimitedReader(data), &rows); err != nil {
		return nil, fmt.Errorf("%w: composition table: %v", snfspectra.ErrInvalidArgument, err)
	}

	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Isotope)
		if name == "" {
			continue
		}
		if row.Proportion < 0 || math.IsNaN(row.Proportion) || math.IsInf(row.Proportion, 0) {
			return nil, fmt.Errorf("%w: %s has proportion %v", snfspectra.ErrInvalidArgument, name, row.Proportion)
		}
		out[name] += row.Proportion
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: composition table has no isotopes", snfspectra.ErrInvalidArgument)
	}

	return out, nil
}

// ListReactors returns the names of the composition tables in dir, sorted.
func ListReactors(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, pfx.Err(err)
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		for _, ext := range []string{".csv", ".tsv", ".txt"} {
			if strings.HasSuffix(name, ext) {
				out = append(out, strings.TrimSuffix(name, ext))
				break
			}
		}
	}
	sort.Strings(out)

	return out, nil
}

func findReactorFile(dir, reactor string) string {
	for _, ext := range []string{".csv", ".tsv", ".txt"} {
		path := filepath.Join(dir, reactor+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
