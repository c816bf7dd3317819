// Package app implements the main application commands.
package app

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GoBazaar/GoBazaar/internal/config"
	"github.com/GoBazaar/GoBazaar/internal/logger"
)

// EnvConfigPath names the environment variable holding the config directory.
const EnvConfigPath = "GOBAZAAR_CONFIG_PATH"

const (
	keyConfig = "config"
	keyDev    = "dev"
)

var (
	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "gobazaar",
		Short: "GoBazaar is the marketplace admin service",
		Long: `GoBazaar serves the marketplace catalog (categories, brands, models)
and guards its admin operations with roles made of access types.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().String(keyConfig, "./etc/", "directory holding main.toml")
	rootCmd.PersistentFlags().Bool(keyDev, false, "Enable dev mode")

	_ = viper.BindPFlag(keyConfig, rootCmd.PersistentFlags().Lookup(keyConfig))
	_ = viper.BindPFlag(keyDev, rootCmd.PersistentFlags().Lookup(keyDev))
	_ = viper.BindEnv(keyConfig, EnvConfigPath)
}

// loadConfig reads the config directory named by --config or GOBAZAAR_CONFIG_PATH and
// initializes the logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(viper.GetString(keyConfig)); err != nil {
		return err //nolint:wrapcheck
	}

	if viper.GetBool(keyDev) {
		cfg.DevMode = true
	}

	if err = logger.Init(cfg.Log); err != nil {
		return err //nolint:wrapcheck
	}

	log.Debug().Str("config", viper.GetString(keyConfig)).Bool("dev", cfg.DevMode).Msg("config loaded")

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background()) //nolint:wrapcheck
}
