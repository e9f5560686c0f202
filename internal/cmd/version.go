package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/painel/internal/version"
)

// versionText is the text rendering of `painel version`
type versionText struct {
	info    version.Info
	verbose bool
}

func (v versionText) String() string {
	if v.verbose {
		return v.info.String()
	}
	return "painel " + v.info.Short()
}

func newVersionCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print version information including version number, git commit,
build date, Go version, and platform.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, err := NewCommandContext(cmd)
			if err != nil {
				return fmt.Errorf("failed to create command context: %w", err)
			}
			if jsonOut {
				cctx.Format = "json"
			}

			info := version.GetInfo()
			if cctx.Format == "" || cctx.Format == "text" {
				return printFormatted(cmd.OutOrStdout(), cctx, versionText{info: info, verbose: cctx.Verbose})
			}
			return printFormatted(cmd.OutOrStdout(), cctx, info)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "output version information as JSON")
	return cmd
}
