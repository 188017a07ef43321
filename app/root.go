// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/orbitdesk/orbitdesk/internal/config"
	"github.com/orbitdesk/orbitdesk/internal/logger"
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "Directory holding main.toml")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "Enable dev mode")
}

var (
	configPath string // Path to the configuration directory
	devMode    bool

	rootCmd = &cobra.Command{
		Use:   "orbitdesk",
		Short: "orbitdesk is a multi tenant platform with role based access control",
		Long: `orbitdesk runs the auth, admin and organization servers of the platform.
All of them share one authorization core: global and organization roles,
cached role resolution and session validation.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration, applies command line overrides and sets up logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.ReadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if devMode {
		cfg.DevMode = true
		cfg.Auth.SecureCookies = false
	}

	if err = logger.Init(cfg.Log); err != nil {
		return nil, err
	}

	return &cfg, nil
}
