package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

var envPrefix string

var envCmd = &cobra.Command{
	Use:   "env <name>[@version] [variant...]",
	Short: "Print the environment a recipe builds with",
	Long: `Env resolves a recipe and its dependencies and prints the environment its
build would run with, without fetching or building anything. Dependencies
that have a recipe are reported at their default install prefix.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEnv,
}

func init() {
	envCmd.Flags().StringVar(&envPrefix, "prefix", "", "Install prefix")
	rootCmd.AddCommand(envCmd)
}

func runEnv(cmd *cobra.Command, args []string) error {
	req, err := parseRequest(args)
	if err != nil {
		return err
	}
	req.Prefix = envPrefix
	b, err := newBuilder(cmd)
	if err != nil {
		return err
	}
	env, err := b.SetupEnv(cmd.Context(), req)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), env)
	return nil
}
