package snfspectra

import (
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"io"
	"os"

	"github.com/carbocation/pfx"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

// CompressedExtensions are tried, in order, after the bare file name when
// looking for a reference file on disk.
var CompressedExtensions = []string{"", ".gz", ".xz", ".bz2", ".zip", ".z"}

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x78},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

func (d DataType) String() string {
	switch d {
	case DataTypeNoCompression:
		return "uncompressed"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeZ:
		return "zlib"
	case DataTypeBZip2:
		return "bzip2"
	}
	return "invalid"
}

// DetectDataType sniffs the first bytes of r for a known compression magic
// number. Short or empty streams are reported as uncompressed.
func DetectDataType(r io.Reader) (DataType, error) {
	buff := make([]byte, 6)
	n, err := io.ReadFull(r, buff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return DataTypeInvalid, err
	}
	buff = buff[:n]

	// Longest signatures first so that the one-byte zlib header cannot shadow
	// anything else.
	for _, dt := range []DataType{DataTypeXZ, DataTypeZip, DataTypeGzip, DataTypeBZip2, DataTypeZ} {
		sig := byteCodeSigs[dt]
		if len(buff) < len(sig) {
			continue
		}
		matched := true
		for position := range sig {
			if buff[position] != sig[position] {
				matched = false
				break
			}
		}
		if matched {
			return dt, nil
		}
	}

	return DataTypeNoCompression, nil
}

// OpenMaybeCompressed opens path and returns a reader over its decompressed
// contents. Closing the returned reader closes the file.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	f, err := os.Open(ExpandHome(path))
	if err != nil {
		return nil, pfx.Err(err)
	}

	rc, err := MaybeDecompressReadCloserFromFile(f)
	if err != nil {
		f.Close()
		return nil, pfx.Err(err)
	}

	return rc, nil
}

// MaybeDecompressReadCloserFromFile detects the compression used by f and
// wraps it accordingly. The file offset is rewound before the decompressor
// sees any bytes.
func MaybeDecompressReadCloserFromFile(f *os.File) (io.ReadCloser, error) {
	dt, err := DetectDataType(f)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	switch dt {
	case DataTypeGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		return &stackedCloser{Reader: gz, closers: []io.Closer{gz, f}}, nil
	case DataTypeZip:
		zr := zipstream.NewReader(f)
		if _, err := zr.Next(); err != nil {
			return nil, err
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{f}}, nil
	case DataTypeBZip2:
		return &stackedCloser{Reader: bzip2.NewReader(f), closers: []io.Closer{f}}, nil
	case DataTypeXZ:
		reader, err := xz.NewReader(f, 0)
		if err != nil {
			return nil, err
		}
		return &stackedCloser{Reader: reader, closers: []io.Closer{f}}, nil
	case DataTypeZ:
		zl, err := zlib.NewReader(f)
		if err != nil {
			// A leading 0x78 is also plain ASCII 'x'. Fall back to the raw
			// bytes if the zlib header does not check out.
			if _, serr := f.Seek(0, io.SeekStart); serr != nil {
				return nil, serr
			}
			return f, nil
		}
		return &stackedCloser{Reader: zl, closers: []io.Closer{zl, f}}, nil
	}

	return f, nil
}

// stackedCloser closes the decompressor and then the underlying file.
type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (c *stackedCloser) Close() error {
	var errs []error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
