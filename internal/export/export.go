// Package export writes clustering output: MST and cluster-tree segments as
// WKT-in-CSV or GeoJSON, and per-point labels as CSV. Any output whose name
// ends in ".zst" is zstd-compressed on the fly.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"

	"github.com/TrevorS/geohdbscan"
)

// Format is a segment file layout.
type Format string

const (
	FormatWKT     Format = "wkt"
	FormatGeoJSON Format = "geojson"
)

// FormatFor picks the segment format from a file name, ignoring a trailing
// ".zst". ".geojson" and ".json" select GeoJSON; anything else is WKT CSV.
func FormatFor(path string) Format {
	name := strings.TrimSuffix(strings.ToLower(path), ".zst")
	switch filepath.Ext(name) {
	case ".geojson", ".json":
		return FormatGeoJSON
	default:
		return FormatWKT
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteWKT writes one CSV row per segment: both node labels, the weight and
// the segment as a WKT LINESTRING.
func WriteWKT(w io.Writer, segs []geohdbscan.Segment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"v1", "v2", "weight", "wkt"}); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, s := range segs {
		line := orb.LineString{s.From, s.To}
		row := []string{
			strconv.Itoa(s.A),
			strconv.Itoa(s.B),
			formatFloat(s.Weight),
			wkt.MarshalString(line),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// WriteGeoJSON writes the segments as a FeatureCollection of LineStrings with
// v1, v2 and weight properties.
func WriteGeoJSON(w io.Writer, segs []geohdbscan.Segment) error {
	fc := geojson.NewFeatureCollection()
	for _, s := range segs {
		f := geojson.NewFeature(orb.LineString{s.From, s.To})
		f.Properties["v1"] = s.A
		f.Properties["v2"] = s.B
		f.Properties["weight"] = s.Weight
		fc.Append(f)
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// WriteSegments writes segs to w in the given format.
func WriteSegments(w io.Writer, segs []geohdbscan.Segment, format Format) error {
	switch format {
	case FormatGeoJSON:
		return WriteGeoJSON(w, segs)
	case FormatWKT:
		return WriteWKT(w, segs)
	default:
		return fmt.Errorf("export: unknown format %q", format)
	}
}

// LabelRow is one input point with its clustering outcome.
type LabelRow struct {
	Point        orb.Point
	Label        int
	Probability  float64
	OutlierScore float64
}

// LabelRows pairs every input point with its entries in r. points must be
// the slice r was computed from.
func LabelRows(points []orb.Point, r *geohdbscan.Result) []LabelRow {
	rows := make([]LabelRow, len(points))
	for i, p := range points {
		rows[i] = LabelRow{
			Point:        p,
			Label:        r.Labels[i],
			Probability:  r.Probabilities[i],
			OutlierScore: r.OutlierScores[i],
		}
	}
	return rows
}

// WriteLabels writes rows as CSV with a lon,lat,label,probability,outlier_score
// header.
func WriteLabels(w io.Writer, rows []LabelRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"lon", "lat", "label", "probability", "outlier_score"}); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, r := range rows {
		err := cw.Write([]string{
			formatFloat(r.Point.Lon()),
			formatFloat(r.Point.Lat()),
			strconv.Itoa(r.Label),
			formatFloat(r.Probability),
			formatFloat(r.OutlierScore),
		})
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// Create opens path for writing, creating parent directories. Names ending in
// ".zst" get a zstd encoder in front of the file. Close flushes every layer.
func Create(path string) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("export: failed to create directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("export: failed to create file: %w", err)
	}

	out := &output{file: file, buf: bufio.NewWriterSize(file, 1<<20)}
	out.w = out.buf
	if strings.HasSuffix(strings.ToLower(path), ".zst") {
		enc, err := zstd.NewWriter(out.buf, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("export: failed to create zstd writer: %w", err)
		}
		out.enc = enc
		out.w = enc
	}
	return out, nil
}

type output struct {
	file *os.File
	buf  *bufio.Writer
	enc  *zstd.Encoder
	w    io.Writer
}

func (o *output) Write(p []byte) (int, error) { return o.w.Write(p) }

func (o *output) Close() error {
	var errs []error
	if o.enc != nil {
		errs = append(errs, o.enc.Close())
	}
	errs = append(errs, o.buf.Flush(), o.file.Close())
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
