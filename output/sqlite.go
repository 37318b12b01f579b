package output

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carbocation/pfx"
	"github.com/carbocation/snfspectra"
	"github.com/carbocation/snfspectra/spectrum"
	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS spectrum (
	name       TEXT PRIMARY KEY,
	min_energy REAL NOT NULL,
	bin_width  REAL NOT NULL,
	bins       INTEGER NOT NULL,
	saved_at   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS spectrum_bin (
	name       TEXT NOT NULL,
	bin        INTEGER NOT NULL,
	energy     REAL NOT NULL,
	flux       REAL NOT NULL,
	flux_error REAL NOT NULL,
	PRIMARY KEY (name, bin)
);`

// SQLite stores spectra bin by bin, keyed by spectrum name.
type SQLite struct {
	db *sqlx.DB
}

type spectrumMeta struct {
	Name      string  `db:"name"`
	MinEnergy float64 `db:"min_energy"`
	BinWidth  float64 `db:"bin_width"`
	Bins      int     `db:"bins"`
}

type binRow struct {
	Bin       int     `db:"bin"`
	Energy    float64 `db:"energy"`
	Flux      float64 `db:"flux"`
	FluxError float64 `db:"flux_error"`
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	path = snfspectra.ExpandHome(path)

	// URI filenames have to begin with 'file:'
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, pfx.Err(err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// SaveSpectrum stores sp under name, replacing any spectrum already saved
// with that name.
func (s *SQLite) SaveSpectrum(name string, sp spectrum.Spectrum) (err error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return pfx.Err(err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec("DELETE FROM spectrum_bin WHERE name = ?", name); err != nil {
		return pfx.Err(err)
	}
	if _, err = tx.Exec("DELETE FROM spectrum WHERE name = ?", name); err != nil {
		return pfx.Err(err)
	}

	b := sp.Binning()
	if _, err = tx.Exec("INSERT INTO spectrum (name, min_energy, bin_width, bins, saved_at) VALUES (?, ?, ?, ?, ?)",
		name, b.Min, b.Width, b.N, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return pfx.Err(err)
	}

	stmt, err := tx.Preparex("INSERT INTO spectrum_bin (name, bin, energy, flux, flux_error) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return pfx.Err(err)
	}
	defer stmt.Close()

	for i := 0; i < sp.Len(); i++ {
		c, e := sp.At(i)
		if _, err = stmt.Exec(name, i, b.Center(i), c, e); err != nil {
			return pfx.Err(err)
		}
	}

	return pfx.Err(tx.Commit())
}

// LoadSpectrum reads back a spectrum saved with SaveSpectrum.
func (s *SQLite) LoadSpectrum(name string) (spectrum.Spectrum, error) {
	meta := spectrumMeta{}
	err := s.db.Get(&meta, "SELECT name, min_energy, bin_width, bins FROM spectrum WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return spectrum.Spectrum{}, fmt.Errorf("%w: no spectrum named %s in the database", snfspectra.ErrNotFound, name)
	} else if err != nil {
		return spectrum.Spectrum{}, pfx.Err(err)
	}

	rows := []binRow{}
	if err := s.db.Select(&rows, "SELECT bin, energy, flux, flux_error FROM spectrum_bin WHERE name = ? ORDER BY bin", name); err != nil {
		return spectrum.Spectrum{}, pfx.Err(err)
	}

	content := make([]float64, meta.Bins)
	errs := make([]float64, meta.Bins)
	for _, r := range rows {
		if r.Bin < 0 || r.Bin >= meta.Bins {
			return spectrum.Spectrum{}, fmt.Errorf("%w: %s has bin %d outside its %d bins", snfspectra.ErrInvalidArgument, name, r.Bin, meta.Bins)
		}
		content[r.Bin] = r.Flux
		errs[r.Bin] = r.FluxError
	}

	return spectrum.New(name, spectrum.Binning{Min: meta.MinEnergy, Width: meta.BinWidth, N: meta.Bins}, content, errs)
}

// Names lists the saved spectra.
func (s *SQLite) Names() ([]string, error) {
	names := []string{}
	if err := s.db.Select(&names, "SELECT name FROM spectrum ORDER BY name"); err != nil {
		return nil, pfx.Err(err)
	}
	return names, nil
}
