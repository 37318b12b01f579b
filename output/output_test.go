package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/snfspectra"
	"github.com/carbocation/snfspectra/spectrum"
)

func testSpectrum(t *testing.T) spectrum.Spectrum {
	t.Helper()
	s, err := spectrum.New("cask", spectrum.Binning{Min: 0, Width: 1, N: 3}, []float64{1.5e10, 0, 123.456}, []float64{1e8, 0, 1.5})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestCSVPath(t *testing.T) {
	cases := map[string]string{
		"out":         "out.csv",
		"out.csv":     "out.csv",
		"dir/out.txt": "dir/out.txt.csv",
	}
	for in, want := range cases {
		if got := CSVPath(in); got != want {
			t.Fatalf("CSVPath(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestWriteSpectrumCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSpectrumCSV(&buf, testSpectrum(t)); err != nil {
		t.Fatal(err)
	}

	want := "energy,flux\n0.5,1.500000e+10\n1.5,0.000000e+00\n2.5,1.234560e+02\n"
	if buf.String() != want {
		t.Fatalf("got\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteSpectrumFile(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteSpectrumFile(filepath.Join(dir, "sizewell_0.5"), testSpectrum(t))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "sizewell_0.5.csv" {
		t.Fatalf("wrote to %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 4 {
		t.Fatalf("got %d lines", len(lines))
	}
}

func TestWriteSamplesCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSamplesCSV(&buf, []float64{1800.25, 3}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "1800.25\n3\n" {
		t.Fatalf("got %q", got)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "spectra.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	s := testSpectrum(t)
	if err := db.SaveSpectrum("cask", s); err != nil {
		t.Fatal(err)
	}
	// Saving again replaces the earlier copy.
	if err := db.SaveSpectrum("cask", spectrum.Scale(s, 2)); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadSpectrum("cask")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Binning().Equal(s.Binning()) {
		t.Fatalf("got binning %s", got.Binning())
	}
	for i := 0; i < s.Len(); i++ {
		c, e := s.At(i)
		gc, ge := got.At(i)
		if gc != 2*c || ge != 2*e {
			t.Fatalf("bin %d: got (%v, %v), want (%v, %v)", i, gc, ge, 2*c, 2*e)
		}
	}

	names, err := db.Names()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "cask" {
		t.Fatalf("got names %v", names)
	}

	if _, err := db.LoadSpectrum("missing"); !errors.Is(err, snfspectra.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
