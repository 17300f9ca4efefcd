package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/trailmap/pkg/trailmap"
)

const modulePath = "github.com/mesh-intelligence/trailmap"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the trailmap version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "trailmap v%s\nmodule: %s\n", trailmap.Version, modulePath)
			return nil
		},
	}
}
