package refdata

import (
	"fmt"
	"sort"
	"strings"
)

// Layout describes which whitespace-separated columns of a reference spectrum
// file hold the values we need. Column indices are zero-based.
type Layout struct {
	HeaderLines    int
	ColBranch      int // rows whose branch column differs from Branch are dropped; -1 disables the filter
	Branch         float64
	ColEnergy      int
	ColDNdE        int
	ColUncertainty int
	FileSuffix     string
}

var Layouts = map[string]Layout{
	// IAEA LiveChart antineutrino spectra. Column 3 is the parent level
	// energy; only the ground-state decay branch is kept.
	"IAEA": {
		HeaderLines:    1,
		ColBranch:      3,
		Branch:         0,
		ColEnergy:      7,
		ColDNdE:        10,
		ColUncertainty: 11,
		FileSuffix:     "_an.txt",
	},
	// Plain three-column energy, dN/dE, uncertainty files.
	"SIMPLE": {
		HeaderLines:    1,
		ColBranch:      -1,
		ColEnergy:      0,
		ColDNdE:        1,
		ColUncertainty: 2,
		FileSuffix:     ".txt",
	},
}

const DefaultLayout = "IAEA"

func LayoutNames() string {
	names := make([]string, 0, len(Layouts))
	for m := range Layouts {
		names = append(names, m)
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}

func LookupLayout(name string) (Layout, error) {
	l, exists := Layouts[name]
	if !exists {
		return Layout{}, fmt.Errorf("Layout %s is not found. Valid layout names include: %s", name, LayoutNames())
	}
	return l, nil
}

func (l Layout) minColumns() int {
	n := l.ColEnergy
	for _, c := range []int{l.ColBranch, l.ColDNdE, l.ColUncertainty} {
		if c > n {
			n = c
		}
	}
	return n + 1
}
