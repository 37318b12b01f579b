package cask

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/carbocation/pfx"
	"github.com/carbocation/snfspectra"
	"gopkg.in/guregu/null.v3"
)

// ManifestEntry is one row of a cask manifest. Either RemovalYears or
// Discharged must be set.
type ManifestEntry struct {
	Name         string
	Reactor      string
	Mass         float64
	RemovalYears null.Float
	Discharged   null.Time
	Count        int
}

var manifestColumns = []string{"name", "reactor", "mass_kg", "removal_years", "discharge_date", "count"}

// ReadManifest parses a delimited manifest with a header row naming the
// columns name, reactor, mass_kg, removal_years, discharge_date and count.
// Only reactor and mass_kg are required. Dates may be in any common format.
func ReadManifest(r io.Reader) ([]ManifestEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	entries, err := snfspectra.NewDelimitedReader(data).ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}
	if len(entries) < 2 {
		return nil, fmt.Errorf("%w: manifest has no casks", snfspectra.ErrInvalidArgument)
	}

	header := make(map[string]int)
	for key, name := range entries[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = key
	}
	for _, required := range []string{"reactor", "mass_kg"} {
		if _, exists := header[required]; !exists {
			return nil, fmt.Errorf("%w: manifest is missing the %s column (known columns: %s)", snfspectra.ErrInvalidArgument, required, strings.Join(manifestColumns, ", "))
		}
	}

	field := func(row []string, col string) string {
		i, exists := header[col]
		if !exists || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]ManifestEntry, 0, len(entries)-1)
	for i, row := range entries[1:] {
		line := i + 2
		e := ManifestEntry{
			Name:    field(row, "name"),
			Reactor: field(row, "reactor"),
			Count:   1,
		}
		if e.Reactor == "" {
			return nil, fmt.Errorf("%w: manifest line %d has no reactor", snfspectra.ErrInvalidArgument, line)
		}
		if e.Name == "" {
			e.Name = fmt.Sprintf("%s-%d", e.Reactor, i+1)
		}

		mass, err := strconv.ParseFloat(field(row, "mass_kg"), 64)
		if err != nil || mass < 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
			return nil, fmt.Errorf("%w: manifest line %d: bad mass_kg %q", snfspectra.ErrInvalidArgument, line, field(row, "mass_kg"))
		}
		e.Mass = mass

		if v := field(row, "removal_years"); v != "" {
			years, err := strconv.ParseFloat(v, 64)
			if err != nil || years < 0 {
				return nil, fmt.Errorf("%w: manifest line %d: bad removal_years %q", snfspectra.ErrInvalidArgument, line, v)
			}
			e.RemovalYears = null.FloatFrom(years)
		}

		if v := field(row, "discharge_date"); v != "" {
			t, err := dateparse.ParseAny(v)
			if err != nil {
				return nil, fmt.Errorf("%w: manifest line %d: bad discharge_date %q: %v", snfspectra.ErrInvalidArgument, line, v, err)
			}
			e.Discharged = null.TimeFrom(t)
		}

		if !e.RemovalYears.Valid && !e.Discharged.Valid {
			return nil, fmt.Errorf("%w: manifest line %d needs removal_years or discharge_date", snfspectra.ErrInvalidArgument, line)
		}

		if v := field(row, "count"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("%w: manifest line %d: bad count %q", snfspectra.ErrInvalidArgument, line, v)
			}
			e.Count = n
		}

		out = append(out, e)
	}

	return out, nil
}

const hoursPerYear = 365 * 24

// RemovalTime returns the years since discharge. An explicit removal_years
// wins over a discharge date, which is measured up to asOf.
func (e ManifestEntry) RemovalTime(asOf time.Time) (float64, error) {
	if e.RemovalYears.Valid {
		return e.RemovalYears.Float64, nil
	}
	if !e.Discharged.Valid {
		return 0, fmt.Errorf("%w: %s has neither a removal time nor a discharge date", snfspectra.ErrInvalidArgument, e.Name)
	}

	years := asOf.Sub(e.Discharged.Time).Hours() / hoursPerYear
	if years < 0 {
		return 0, fmt.Errorf("%w: %s was discharged on %s, after %s", snfspectra.ErrInvalidArgument, e.Name, e.Discharged.Time.Format("2006-01-02"), asOf.Format("2006-01-02"))
	}

	return years, nil
}

// ReactorSource looks up fuel compositions by reactor name. *refdata.Store
// satisfies it.
type ReactorSource interface {
	Reactor(name string) (map[string]float64, error)
}

// CasksFromManifest resolves each entry's reactor composition and removal
// time. Count identical casks are folded into one cask of Count times the
// mass.
func CasksFromManifest(entries []ManifestEntry, reactors ReactorSource, asOf time.Time) ([]Cask, error) {
	comps := make(map[string]Composition)

	out := make([]Cask, 0, len(entries))
	for _, e := range entries {
		comp, exists := comps[e.Reactor]
		if !exists {
			m, err := reactors.Reactor(e.Reactor)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", e.Name, err)
			}
			comp = Composition(m)
			comps[e.Reactor] = comp
		}

		removal, err := e.RemovalTime(asOf)
		if err != nil {
			return nil, err
		}

		out = append(out, Cask{
			Name:        e.Name,
			Reactor:     e.Reactor,
			Composition: comp,
			Mass:        e.Mass * float64(e.Count),
			RemovalTime: removal,
		})
	}

	return out, nil
}
