// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the newsriver CLI. It collects news
// articles and events from the Event Registry service and persists them to
// local files for later analysis.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/newsriver/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if non-empty, otherwise the secret value
// for key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the newsriver CLI.
var rootCmd = &cobra.Command{
	Use:   "newsriver",
	Short: "Collect news articles and events from Event Registry",
	Long: `newsriver queries the Event Registry news aggregation service and saves
the results to local files. Collections are incremental: rerunning a command
against an existing output file resumes from the date of its last record.

Each collection mode is a subcommand: articles, events, event-articles, and
event-articles-from-file. The runs subcommand lists past collections recorded
in the run ledger.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./newsriver.yaml or ~/.config/newsriver/config.yaml)")
	rootCmd.PersistentFlags().String("api-key", "", "Event Registry API key (overrides NEWSRIVER_API_KEY and .secrets/)")
	rootCmd.PersistentFlags().Int("max-retries", -1, "retry attempts for failed requests (-1 retries until interrupted)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("ledger", "", "run ledger database path (empty disables run recording)")
}

func initConfig() {
	// .env files carry local development credentials.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("newsriver")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "newsriver"))
		}
	}

	viper.SetEnvPrefix("NEWSRIVER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// An interrupted collection is a normal way to stop an
		// open-ended run; everything written so far is on disk.
		if ctx.Err() != nil {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
