package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/TrevorS/geohdbscan"
	"github.com/TrevorS/geohdbscan/internal/pointio"
)

// settings is everything a run can be configured with, from the --config
// file and then from flags.
type settings struct {
	K            int     `yaml:"k"`
	Tolerance    float64 `yaml:"tolerance"`
	MinPts       int     `yaml:"min_pts"`
	Delimiter    string  `yaml:"delimiter"`
	SkipHeader   bool    `yaml:"skip_header"`
	XColumn      int     `yaml:"x_column"`
	YColumn      int     `yaml:"y_column"`
	Reachability string  `yaml:"reachability"`
	Algorithm    string  `yaml:"algorithm"`
	Selection    string  `yaml:"selection"`
}

func defaultSettings() settings {
	cfg := geohdbscan.DefaultConfig()
	return settings{
		K:            cfg.K,
		Tolerance:    cfg.Tolerance,
		MinPts:       cfg.MinPts,
		Delimiter:    ",",
		XColumn:      0,
		YColumn:      1,
		Reachability: string(cfg.Reachability),
		Algorithm:    string(cfg.Algorithm),
		Selection:    cfg.SelectionMethod,
	}
}

// loadSettings returns the defaults overlaid with the YAML file at path.
// An empty path yields the defaults. Unknown keys are an error.
func loadSettings(path string) (settings, error) {
	s := defaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return s, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return s, nil
}

// bindFlags registers one flag per setting on cmd. Defaults shown in help
// come from defaultSettings; values only replace the file's when the flag is
// set on the command line (see applyFlags).
func (s *settings) bindFlags(cmd *cobra.Command) {
	d := defaultSettings()
	f := cmd.Flags()
	f.IntVarP(&s.K, "k", "k", d.K, "neighbors behind the core distance")
	f.Float64Var(&s.Tolerance, "tolerance", d.Tolerance, "coordinate snapping precision in degrees (0 disables)")
	f.IntVar(&s.MinPts, "min-pts", d.MinPts, "minimum cluster size")
	f.StringVar(&s.Delimiter, "delimiter", d.Delimiter, `input field delimiter (a single character, or "tab")`)
	f.BoolVar(&s.SkipHeader, "skip-header", d.SkipHeader, "ignore the first input record")
	f.IntVar(&s.XColumn, "x-column", d.XColumn, "0-based input column holding longitude")
	f.IntVar(&s.YColumn, "y-column", d.YColumn, "0-based input column holding latitude")
	f.StringVar(&s.Reachability, "reachability", d.Reachability, `edge weight: "full" or "coremax"`)
	f.StringVar(&s.Algorithm, "algorithm", d.Algorithm, `MST strategy: "auto", "spatial" or "brute"`)
	f.StringVar(&s.Selection, "selection", d.Selection, `cluster selection: "eom" or "leaf"`)
}

// applyFlags copies every flag explicitly set on cmd from flagged into s.
func (s *settings) applyFlags(cmd *cobra.Command, flagged settings) {
	changed := cmd.Flags().Changed
	if changed("k") {
		s.K = flagged.K
	}
	if changed("tolerance") {
		s.Tolerance = flagged.Tolerance
	}
	if changed("min-pts") {
		s.MinPts = flagged.MinPts
	}
	if changed("delimiter") {
		s.Delimiter = flagged.Delimiter
	}
	if changed("skip-header") {
		s.SkipHeader = flagged.SkipHeader
	}
	if changed("x-column") {
		s.XColumn = flagged.XColumn
	}
	if changed("y-column") {
		s.YColumn = flagged.YColumn
	}
	if changed("reachability") {
		s.Reachability = flagged.Reachability
	}
	if changed("algorithm") {
		s.Algorithm = flagged.Algorithm
	}
	if changed("selection") {
		s.Selection = flagged.Selection
	}
}

func (s settings) delimiter() (rune, error) {
	switch s.Delimiter {
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s.Delimiter)
	if r == utf8.RuneError || size != len(s.Delimiter) {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s.Delimiter)
	}
	return r, nil
}

func (s settings) readOptions() (pointio.Options, error) {
	delim, err := s.delimiter()
	if err != nil {
		return pointio.Options{}, err
	}
	opts := pointio.DefaultOptions()
	opts.Delimiter = delim
	opts.SkipHeader = s.SkipHeader
	opts.XColumn = s.XColumn
	opts.YColumn = s.YColumn
	return opts, nil
}

func (s settings) clusterConfig() geohdbscan.Config {
	return geohdbscan.Config{
		K:               s.K,
		Tolerance:       s.Tolerance,
		MinPts:          s.MinPts,
		Reachability:    geohdbscan.Reachability(s.Reachability),
		Algorithm:       geohdbscan.Algorithm(s.Algorithm),
		SelectionMethod: s.Selection,
	}
}
