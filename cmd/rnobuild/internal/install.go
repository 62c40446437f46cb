package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rno-g/rnobuild/internal/build"
	"github.com/rno-g/rnobuild/internal/vcs"
	"github.com/spf13/cobra"
)

var (
	installPrefix string
	installForce  bool
	installOutput string
	installSource string
)

var installCmd = &cobra.Command{
	Use:   "install <name>[@version] [variant...]",
	Short: "Build and install a recipe with its dependencies",
	Long: `Install fetches, builds and installs a recipe after the recipes it depends
on. Variants are written +name, ~name or name=value, for example:

    rnobuild install mattak ~python driver=cmake --prefix /opt/rno-g`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installPrefix, "prefix", "", "Install prefix (default in the work dir)")
	installCmd.Flags().BoolVar(&installForce, "force", false, "Rebuild even if a cached install exists")
	installCmd.Flags().StringVarP(&installOutput, "output", "o", "", "Also write the install tree to a .tar.xz archive or a directory")
	installCmd.Flags().StringVar(&installSource, "source", "", "Build the requested recipe from a local source tree")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	req, err := parseRequest(args)
	if err != nil {
		return err
	}
	req.Prefix = installPrefix

	// Resolve output path before building.
	if installOutput != "" {
		if installOutput, err = filepath.Abs(installOutput); err != nil {
			return fmt.Errorf("failed to resolve output path: %w", err)
		}
	}

	rec, err := registry.Lookup(req.Name)
	if err != nil {
		return err
	}
	b, err := newBuilder(cmd, func(o *build.Options) {
		// A local tree may have changed since it was last built.
		o.Force = installForce || installSource != ""
		if installSource != "" {
			o.Fetcher = sourceFetcher{
				git:   rec.Info().Git,
				local: vcs.LocalFetcher{Dir: installSource},
				next:  vcs.NewGitFetcher(),
			}
		}
	})
	if err != nil {
		return err
	}

	results, err := b.Build(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("failed to install %s: %w", args[0], err)
	}
	main := results[len(results)-1]
	printResults(cmd.OutOrStdout(), results)

	if installOutput != "" {
		if err := outputResult(main.Prefix.String(), installOutput); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func printResults(w io.Writer, results []build.Result) {
	for _, r := range results {
		switch {
		case r.External:
			fmt.Fprintf(w, "%-12s external  %s\n", r.Name, r.Prefix)
		case r.Cached:
			fmt.Fprintf(w, "%-12s cached    %s\n", r.Name, r.Prefix)
		default:
			fmt.Fprintf(w, "%-12s installed %s\n", r.Name, r.Prefix)
		}
	}
	main := results[len(results)-1]
	if pcs := pkgConfigNames(main.Prefix.Lib()); len(pcs) > 0 {
		fmt.Fprintf(w, "\npkg-config modules: %s\n", strings.Join(pcs, " "))
		fmt.Fprintf(w, "    export PKG_CONFIG_PATH=%s\n", filepath.Join(main.Prefix.Lib(), "pkgconfig"))
	}
}

// pkgConfigNames returns the .pc modules installed below libDir.
func pkgConfigNames(libDir string) []string {
	entries, err := os.ReadDir(filepath.Join(libDir, "pkgconfig"))
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), ".pc"); ok {
			names = append(names, name)
		}
	}
	return names
}

// outputResult writes the install tree to dest: a .tar.xz archive when
// dest ends with ".tar.xz", otherwise a copy of the directory.
func outputResult(srcDir, dest string) error {
	if strings.HasSuffix(dest, ".tar.xz") {
		return build.Archive(srcDir, dest)
	}
	return os.CopyFS(dest, os.DirFS(srcDir))
}
