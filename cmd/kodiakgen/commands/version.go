package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/kodiakgen/display"
	"github.com/teranos/kodiakgen/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show kodiakgen version information",
	Long:  `Display version, build time, commit hash, and platform information for the kodiakgen binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		info := version.Get()
		out := cmd.OutOrStdout()

		if jsonOutput {
			return display.Write(out, display.FormatJSON, info, "")
		}
		fmt.Fprintln(out, info.String())
		fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
		return nil
	},
}

func init() {
	VersionCmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
}
