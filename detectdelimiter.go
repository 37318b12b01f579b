package snfspectra

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 && len(delimiters[0]) > 0 {
		return rune(delimiters[0][0])
	}

	return ','
}

// NewDelimitedReader sniffs the delimiter of a small tabular file and returns
// a csv.Reader over it. Comma, tab and semicolon separated files are all
// accepted this way.
func NewDelimitedReader(data []byte) *csv.Reader {
	delim := DetermineDelimiter(bytes.NewReader(data))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	return cr
}
