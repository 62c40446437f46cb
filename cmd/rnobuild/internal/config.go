package internal

import (
	"fmt"
	"os"

	"github.com/qiniu/x/log"
	"github.com/rno-g/rnobuild/internal/config"
	"github.com/rno-g/rnobuild/internal/env"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Config prints the configuration rnobuild runs with. With --init it writes
that configuration to the config file, which must not exist yet.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "Write the configuration file")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if configInit {
		path := configPath
		if path == "" {
			if path, err = env.ConfigFile(); err != nil {
				return err
			}
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.Save(cfg, path); err != nil {
			return err
		}
		log.Infof("wrote %s", path)
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
