package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"github.com/TrevorS/geohdbscan"
	"github.com/TrevorS/geohdbscan/internal/export"
	"github.com/TrevorS/geohdbscan/internal/pointio"
)

func newClusterCmd(a *app) *cobra.Command {
	var (
		flagged  settings
		output   string
		mstPath  string
		treePath string
	)

	cmd := &cobra.Command{
		Use:   "cluster <input>",
		Short: "Cluster a point file and write per-point labels",
		Long: `Cluster the points of <input> and write one CSV row per input point:
lon, lat, cluster label (-1 for noise), membership probability and GLOSH
outlier score.

--mst and --tree additionally export the MST and the cluster tree as line
segments: GeoJSON for .geojson/.json names, WKT CSV otherwise. Any output
ending in .zst is zstd-compressed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, result, err := a.cluster(cmd, flagged, args[0])
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("geohdbscan-%s-labels.csv", a.runID)
			}
			err = writeFile(output, func(w io.Writer) error {
				return export.WriteLabels(w, export.LabelRows(points, result))
			})
			if err != nil {
				return err
			}
			if mstPath != "" {
				if err := writeSegments(mstPath, result.MSTSegments()); err != nil {
					return err
				}
			}
			if treePath != "" {
				if err := writeSegments(treePath, result.ClusterSegments()); err != nil {
					return err
				}
			}

			noise := 0
			for _, l := range result.Labels {
				if l < 0 {
					noise++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "clusters: %d, noise: %d, labels: %s\n",
				result.NumClusters, noise, output)
			return nil
		},
	}

	flagged.bindFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "labels file (default geohdbscan-<run>-labels.csv)")
	cmd.Flags().StringVar(&mstPath, "mst", "", "also write the MST segments to this file")
	cmd.Flags().StringVar(&treePath, "tree", "", "also write the cluster tree segments to this file")
	return cmd
}

// load resolves settings and reads input.
func (a *app) load(cmd *cobra.Command, flagged settings, input string) (settings, []orb.Point, error) {
	s, err := loadSettings(a.configPath)
	if err != nil {
		return s, nil, err
	}
	s.applyFlags(cmd, flagged)

	opts, err := s.readOptions()
	if err != nil {
		return s, nil, err
	}
	opts.Logger = a.logger
	ds, err := pointio.ReadFile(input, opts)
	if err != nil {
		return s, nil, err
	}
	if n := len(ds.Diagnostics); n > 0 {
		a.logger.Warn("input has malformed records", "file", input, "diagnostics", n)
	}
	return s, ds.Points, nil
}

// cluster reads input and runs the clustering.
func (a *app) cluster(cmd *cobra.Command, flagged settings, input string) ([]orb.Point, *geohdbscan.Result, error) {
	s, points, err := a.load(cmd, flagged, input)
	if err != nil {
		return nil, nil, err
	}

	cfg := s.clusterConfig()
	cfg.Logger = a.logger
	start := time.Now()
	result, err := geohdbscan.ClusterPoints(points, cfg)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Info("clustered",
		"run", a.runID,
		"points", len(points),
		"unique", len(result.Points),
		"clusters", result.NumClusters,
		"algorithm", result.Algorithm,
		"elapsed", time.Since(start))
	return points, result, nil
}

// spanningTree reads input and builds its MST only.
func (a *app) spanningTree(cmd *cobra.Command, flagged settings, input string) (*geohdbscan.Result, error) {
	s, points, err := a.load(cmd, flagged, input)
	if err != nil {
		return nil, err
	}

	cfg := s.clusterConfig()
	cfg.Logger = a.logger
	start := time.Now()
	tree, err := geohdbscan.SpanningTree(points, cfg)
	if err != nil {
		return nil, err
	}
	a.logger.Info("spanning tree",
		"run", a.runID,
		"points", len(points),
		"unique", len(tree.Points),
		"edges", len(tree.MST.Edges),
		"algorithm", tree.Algorithm,
		"elapsed", time.Since(start))
	return tree, nil
}

func writeSegments(path string, segs []geohdbscan.Segment) error {
	format := export.FormatFor(path)
	return writeFile(path, func(w io.Writer) error {
		return export.WriteSegments(w, segs, format)
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	w, err := export.Create(path)
	if err != nil {
		return err
	}
	if err := write(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
