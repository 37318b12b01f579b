package snfspectra

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDetermineDelimiter(t *testing.T) {
	cases := []struct {
		input string
		want  rune
	}{
		{"isotope,proportion\nSr90,0.5\nCs137,0.5\n", ','},
		{"isotope\tproportion\nSr90\t0.5\nCs137\t0.5\n", '\t'},
		{"isotope;proportion\nSr90;0.5\nCs137;0.5\n", ';'},
	}

	for _, c := range cases {
		if got := DetermineDelimiter(strings.NewReader(c.input)); got != c.want {
			t.Fatalf("%q: got %q, want %q", c.input, got, c.want)
		}
	}
}

func TestNewDelimitedReader(t *testing.T) {
	cr := NewDelimitedReader([]byte("isotope\tproportion\nSr90\t0.25\n"))
	rows, err := cr.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1][0] != "Sr90" || rows[1][1] != "0.25" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := ExpandHome("~/data"); got != filepath.Join(home, "data") {
		t.Fatalf("got %s", got)
	}
	if got := ExpandHome("/abs/data"); got != "/abs/data" {
		t.Fatalf("got %s", got)
	}
	if got := ExpandHome("rel/~/data"); got != "rel/~/data" {
		t.Fatalf("got %s", got)
	}
}
