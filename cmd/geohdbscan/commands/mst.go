package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMSTCmd(a *app) *cobra.Command {
	var (
		flagged settings
		output  string
	)

	cmd := &cobra.Command{
		Use:   "mst <input>",
		Short: "Write the mutual reachability MST of a point file",
		Long: `Build the mutual reachability minimum spanning tree of <input> and write
one line segment per edge, between the snapped node coordinates, weighted in
km. GeoJSON for .geojson/.json names, WKT CSV (v1,v2,weight,wkt) otherwise.
Names ending in .zst are zstd-compressed. The hierarchy is not built, so
--min-pts and --selection are ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.spanningTree(cmd, flagged, args[0])
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("geohdbscan-%s-mst.csv", a.runID)
			}
			if err := writeSegments(output, result.MSTSegments()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "edges: %d, total weight: %.3f km, mst: %s\n",
				len(result.MST.Edges), result.MST.TotalWeight(), output)
			return nil
		},
	}

	flagged.bindFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "MST file (default geohdbscan-<run>-mst.csv)")
	return cmd
}
