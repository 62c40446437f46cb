package internal

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available recipes",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, name := range registry.Names() {
		rec, _ := registry.Lookup(name)
		info := rec.Info()
		versions := make([]string, len(info.Versions))
		for i, v := range info.Versions {
			versions[i] = v.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, strings.Join(versions, ","), info.Description)
	}
	return tw.Flush()
}
