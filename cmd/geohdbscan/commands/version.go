package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/TrevorS/geohdbscan/cmd/geohdbscan/internal/build"
)

func newVersionCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, build.String())
			if verbose {
				fmt.Fprintf(out, "  go:       %s\n", runtime.Version())
				fmt.Fprintf(out, "  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			}
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also print the Go version and platform")
	return cmd
}
