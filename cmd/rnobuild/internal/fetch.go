package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fetchDir string

var fetchCmd = &cobra.Command{
	Use:   "fetch <name>[@version]",
	Short: "Fetch the sources of a recipe",
	Args:  cobra.ExactArgs(1),
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchDir, "dir", "C", "", "Directory to fetch into (default in the work dir)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	req, err := parseRequest(args)
	if err != nil {
		return err
	}
	b, err := newBuilder(cmd)
	if err != nil {
		return err
	}
	dir, commit, err := b.Fetch(cmd.Context(), req, fetchDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", dir, commit)
	return nil
}
