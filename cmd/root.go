// Package cmd implements the CLI commands for pagemd using Cobra.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/gaurav-prasanna/pagemd/core/config"
	"github.com/gaurav-prasanna/pagemd/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "pagemd",
	Short: "pagemd saves web pages as clean Markdown",
	Long: `pagemd converts the main content of a web page into Markdown, keeping
embedded videos, maps, charts, SVGs and downloads as readable placeholders
instead of dropping them.

Usage:
  pagemd convert <url|file> [flags]
  pagemd inspect <url|file>`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configErr
	},
}

// configErr holds the config file failure from initConfig, which cobra
// gives no way to return.
var configErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default ./.pagemd.yaml or $HOME/.pagemd.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON lines")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	cfgFile := viper.GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".pagemd")
		viper.SetConfigType("yaml")
	}

	config.ConfigureEnv(viper.GetViper())

	configErr = readConfig(viper.GetViper(), cfgFile != "")

	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
	})
	if configErr == nil && viper.ConfigFileUsed() != "" {
		logger.Debug("loaded config", "file", viper.ConfigFileUsed())
	}
}

// readConfig reads the config file. A file missing from the default search
// path is fine; an explicit --config file must exist and parse.
func readConfig(v *viper.Viper, explicit bool) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !explicit && errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("reading config: %w", err)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// progressf prints a progress line to stdout unless --quiet is set.
func progressf(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(rootCmd.OutOrStdout(), format, args...)
	}
}
