package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// app carries the persistent flags and what is derived from them into the
// subcommands.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	logger *slog.Logger
	runID  string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "geohdbscan",
		Short: "Density-based clustering of geographic points",
		Long: `geohdbscan - HDBSCAN* clustering of lon/lat points under great-circle distance.

Input is delimited text with one point per record. Settings come from
defaults, then the --config YAML file, then flags given on the command line.

Examples:
  # Cluster a CSV and write labels next to it
  geohdbscan cluster points.csv -o labels.csv --min-pts 10

  # Also export the MST and the cluster tree as GeoJSON
  geohdbscan cluster points.csv --mst mst.geojson --tree tree.geojson

  # Only the MST, compressed WKT CSV
  geohdbscan mst points.csv -o mst.csv.zst`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), a.logLevel, a.logFormat)
			if err != nil {
				return err
			}
			a.logger = logger
			a.runID = uuid.New().String()[:8]
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML settings file")
	pf.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.StringVar(&a.logFormat, "log-format", "text", "log format: text or json")

	rootCmd.AddCommand(
		newClusterCmd(a),
		newMSTCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}
