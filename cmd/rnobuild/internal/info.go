package internal

import (
	"fmt"
	"io"
	"strings"

	"github.com/rno-g/rnobuild/formula"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show a recipe's versions, variants and dependencies",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	rec, err := registry.Lookup(args[0])
	if err != nil {
		return err
	}
	printInfo(cmd.OutOrStdout(), rec.Info())
	return nil
}

func printInfo(w io.Writer, info *formula.Info) {
	fmt.Fprintf(w, "%s: %s\n", info.Name, info.Description)
	fmt.Fprintf(w, "Homepage: %s\n", info.Homepage)
	fmt.Fprintf(w, "Git:      %s\n", info.Git)

	fmt.Fprintln(w, "\nVersions:")
	for _, v := range info.Versions {
		fmt.Fprintf(w, "    %-12s branch %s\n", v.Name, v.Branch)
	}

	if len(info.Variants) > 0 {
		fmt.Fprintln(w, "\nVariants:")
		for _, v := range info.Variants {
			values := "on, off"
			if !v.IsBool() {
				values = strings.Join(v.Values, ", ")
			}
			fmt.Fprintf(w, "    %-12s [%s] (%s) %s\n", v.Name, v.Default, values, v.Description)
		}
	}

	m := formula.VariantMatrix(info)
	fmt.Fprintf(w, "\nConfigurations: %d\n", m.CombinationCount())
	for _, c := range m.Combinations() {
		fmt.Fprintf(w, "    %s\n", c)
	}

	fmt.Fprintln(w, "\nDependencies:")
	for _, d := range info.Dependencies {
		types := make([]string, 0, 3)
		for _, t := range d.TypesOrDefault() {
			types = append(types, string(t))
		}
		line := fmt.Sprintf("    %-12s (%s)", d.Name, strings.Join(types, ", "))
		if d.When != "" {
			line += " when " + d.When
		}
		fmt.Fprintln(w, line)
	}
}
