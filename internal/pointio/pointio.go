// Package pointio reads lon/lat point sets from delimited text.
//
// Each record is one point. The first record read fixes the expected number
// of attributes; later records with a different count, and values that do
// not parse as numbers or fall outside the lon/lat domain, are reported as
// diagnostics and loading continues. A value that cannot be used is taken
// as 0.
package pointio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Options controls how records are split and which columns hold the
// coordinates.
type Options struct {
	// Delimiter separates attributes. Default: ','.
	Delimiter rune

	// SkipHeader drops the first record.
	SkipHeader bool

	// XColumn and YColumn are the 0-based columns holding longitude and
	// latitude. Default: 0 and 1.
	XColumn, YColumn int

	// Logger receives one warning per diagnostic. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns comma-separated input with lon, lat in the first
// two columns and no header.
func DefaultOptions() Options {
	return Options{Delimiter: ',', XColumn: 0, YColumn: 1}
}

// Diagnostic describes one problem found while reading. Line is 1-based;
// Column is 0-based, or -1 when the problem concerns the whole record.
type Diagnostic struct {
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) String() string {
	if d.Column < 0 {
		return fmt.Sprintf("line %d: %s", d.Line, d.Message)
	}
	return fmt.Sprintf("line %d, column %d: %s", d.Line, d.Column, d.Message)
}

// Dataset is the result of a read: one point per record plus everything that
// went wrong along the way.
type Dataset struct {
	Points      []orb.Point
	Diagnostics []Diagnostic
}

// Read parses every record from r. Malformed records do not stop the read;
// only I/O errors do.
func Read(r io.Reader, opts Options) (*Dataset, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.XColumn < 0 || opts.YColumn < 0 {
		return nil, fmt.Errorf("pointio: negative column (x %d, y %d)", opts.XColumn, opts.YColumn)
	}
	if opts.XColumn == opts.YColumn {
		return nil, fmt.Errorf("pointio: x and y share column %d", opts.XColumn)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	cr := csv.NewReader(r)
	cr.Comma = opts.Delimiter
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	ds := &Dataset{}
	report := func(d Diagnostic) {
		ds.Diagnostics = append(ds.Diagnostics, d)
		log.Warn("malformed input", "line", d.Line, "column", d.Column, "problem", d.Message)
	}

	attributes := -1
	for first := true; ; first = false {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("pointio: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if first && opts.SkipHeader {
			continue
		}

		if attributes < 0 {
			attributes = len(record)
		} else if len(record) != attributes {
			report(Diagnostic{
				Line:    line,
				Column:  -1,
				Message: fmt.Sprintf("expected %d attributes, got %d", attributes, len(record)),
			})
		}

		x := parseValue(record, opts.XColumn, line, 180, report)
		y := parseValue(record, opts.YColumn, line, 90, report)
		ds.Points = append(ds.Points, orb.Point{x, y})
	}
	return ds, nil
}

// parseValue reads column col of record, which must lie in [-limit, limit].
func parseValue(record []string, col, line int, limit float64, report func(Diagnostic)) float64 {
	if col >= len(record) {
		report(Diagnostic{Line: line, Column: col, Message: "missing value"})
		return 0
	}
	raw := strings.TrimSpace(record[col])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		report(Diagnostic{Line: line, Column: col, Message: fmt.Sprintf("illegal value %q", raw)})
		return 0
	}
	if v < -limit || v > limit {
		report(Diagnostic{Line: line, Column: col, Message: fmt.Sprintf("value %v out of range [-%v, %v]", v, limit, limit)})
		return 0
	}
	return v
}

// ReadFile opens path and reads it with opts.
func ReadFile(path string, opts Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pointio: %w", err)
	}
	defer f.Close()
	return Read(f, opts)
}
