package internal

import (
	"context"
	"os"
	"os/signal"

	"github.com/qiniu/x/log"
	"github.com/rno-g/rnobuild/formula"
	"github.com/rno-g/rnobuild/internal/build"
	"github.com/rno-g/rnobuild/internal/config"
	"github.com/rno-g/rnobuild/mod/module"
	"github.com/rno-g/rnobuild/pkgs/buildsys"
	"github.com/rno-g/rnobuild/recipes"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

// registry holds the recipes the commands operate on.
var registry = recipes.Default()

var rootCmd = &cobra.Command{
	Use:   "rnobuild",
	Short: "rnobuild builds the RNO-G C++ libraries",
	Long: `rnobuild fetches, builds and installs librno-g and mattak, the C++ libraries
of the RNO-G experiment, together with the dependencies they need.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetOutputLevel(log.Ldebug)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <user config dir>/rnobuild/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Fatal(err)
	}
}

// builderOptions tweaks the options derived from the config.
type builderOptions func(*build.Options)

// newBuilder creates a Builder configured from the config file.
func newBuilder(cmd *cobra.Command, opts ...builderOptions) (*build.Builder, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		log.SetOutputLevel(log.Ldebug)
	}
	lookup, err := cfg.Lookup()
	if err != nil {
		return nil, err
	}
	o := build.Options{
		Registry:  registry,
		Runner:    &buildsys.ExecRunner{Stdout: cmd.ErrOrStderr(), Stderr: cmd.ErrOrStderr()},
		WorkDir:   cfg.WorkDir,
		Externals: cfg.Externals,
		Python:    cfg.Python,
		Jobs:      cfg.Jobs,
		Lookup:    lookup,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return build.NewBuilder(o)
}

// parseRequest turns "<name>[@version] [variant...]" arguments into a
// build request.
func parseRequest(args []string) (build.Request, error) {
	v, err := module.Parse(args[0])
	if err != nil {
		return build.Request{}, err
	}
	req := build.Request{Name: v.Path, Version: v.Version, Variants: args[1:]}
	rec, err := registry.Lookup(req.Name)
	if err != nil {
		return req, err
	}
	// Reject bad variants before anything is fetched.
	if _, err := formula.ParseVariants(rec.Info(), req.Variants); err != nil {
		return req, err
	}
	return req, nil
}
