package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/kodiakgen/display"
	"github.com/teranos/kodiakgen/logger"
)

var groupsFormat string

// GroupsCmd prints the reduced group table
var GroupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Print the reduced command groups",
	Long: `Run the generator without writing anything and print every final
group: its guard key and, for each command, the tier and the block it is
loaded from.

Examples:
  kodiakgen groups                 # YAML
  kodiakgen groups --format json   # JSON, for jq`,
	RunE: runGroups,
}

func init() {
	addSourceFlags(GroupsCmd)
	GroupsCmd.Flags().StringVar(&groupsFormat, "format", "yaml", "Output format: yaml, json")
}

func runGroups(cmd *cobra.Command, args []string) error {
	format, err := display.ParseFormat(groupsFormat, display.FormatYAML, display.FormatJSON)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	result, err := generate(ctx, cfg, logger.LoggerFromContext(ctx))
	if err != nil {
		return err
	}
	return display.Write(cmd.OutOrStdout(), format, result.Groups,
		fmt.Sprintf("%d groups, %d merged", len(result.Groups), result.Merged))
}
