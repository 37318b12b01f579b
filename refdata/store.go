package refdata

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BenLubar/memoize"
	"github.com/carbocation/pfx"
	"github.com/carbocation/snfspectra"
	"github.com/carbocation/snfspectra/spectrum"
)

const (
	SpectrumDir = "spec_data"
	ReactorDir  = "reactor_data"
	IsotopeFile = "isotopes.csv"
)

// Store serves reference data from a directory laid out as
//
//	<dir>/isotopes.csv           optional, overrides the built-in constants
//	<dir>/spec_data/<iso>_an.txt one antineutrino spectrum per isotope
//	<dir>/reactor_data/<r>.csv   one fuel composition per reactor
//
// Spectrum files may be gzip, bzip2, xz, zip or zlib compressed. Each spectrum
// is read from disk at most once per Store.
type Store struct {
	dir      string
	layout   Layout
	isotopes map[string]Isotope

	mu           sync.Mutex
	loadSpectrum func(string) (spectrum.Table, error)
}

func NewStore(dir string, layout Layout) (*Store, error) {
	s := &Store{
		dir:    snfspectra.ExpandHome(dir),
		layout: layout,
	}

	isotopes, err := s.readIsotopes()
	if err != nil {
		return nil, err
	}
	s.isotopes = isotopes
	s.loadSpectrum = memoize.Memoize(s.readSpectrum).(func(string) (spectrum.Table, error))

	return s, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) readIsotopes() (map[string]Isotope, error) {
	path := filepath.Join(s.dir, IsotopeFile)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultIsotopes()
	} else if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	log.Printf("Using isotope constants from %s\n", path)
	return ParseIsotopes(f)
}

// Isotope returns the constants for one isotope.
func (s *Store) Isotope(name string) (Isotope, error) {
	iso, exists := s.isotopes[name]
	if !exists {
		return Isotope{}, fmt.Errorf("%w: isotope %s has no constants. Valid isotopes include: %s", snfspectra.ErrNotFound, name, strings.Join(isotopeNames(s.isotopes), ", "))
	}
	return iso, nil
}

// Isotopes lists every isotope with known constants.
func (s *Store) Isotopes() []string {
	return isotopeNames(s.isotopes)
}

// Spectrum returns the reference table for an isotope.
func (s *Store) Spectrum(name string) (spectrum.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadSpectrum(name)
}

func (s *Store) readSpectrum(name string) (spectrum.Table, error) {
	base := filepath.Join(s.dir, SpectrumDir, name+s.layout.FileSuffix)

	for _, ext := range snfspectra.CompressedExtensions {
		path := base + ext
		if _, err := os.Stat(path); err != nil {
			continue
		}

		rc, err := snfspectra.OpenMaybeCompressed(path)
		if err != nil {
			return spectrum.Table{}, err
		}
		defer rc.Close()

		return ParseSpectrum(name, rc, s.layout)
	}

	return spectrum.Table{}, fmt.Errorf("%w: spectrum data file for %s (looked for %s)", snfspectra.ErrNotFound, name, base)
}

// Reactor returns the fuel composition of the named reactor.
func (s *Store) Reactor(name string) (map[string]float64, error) {
	dir := filepath.Join(s.dir, ReactorDir)

	path := findReactorFile(dir, name)
	if path == "" {
		valid, _ := ListReactors(dir)
		return nil, fmt.Errorf("%w: reactor %s is not found. Valid reactor names include: %s", snfspectra.ErrNotFound, name, strings.Join(valid, ", "))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	comp, err := ParseComposition(f)
	if err != nil {
		return nil, fmt.Errorf("reactor %s: %w", name, err)
	}

	return comp, nil
}

// Reactors lists the reactors with a composition file.
func (s *Store) Reactors() ([]string, error) {
	return ListReactors(filepath.Join(s.dir, ReactorDir))
}
