// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the marker CLI: an HTTP service that
// turns base64-encoded documents into Markdown, a client for it, and a local
// batch converter.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/marker/internal/config"
	"github.com/pdiddy/marker/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds values loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// log is configured from --log-level and --log-json before any command runs.
var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "marker",
	Short: "Convert documents to Markdown over HTTP",
	Long: `marker accepts base64-encoded documents (PDF, HTML, plain text) on
POST /mark, authenticates them with a shared API key and returns Markdown.

Use "marker serve" to run the service, "marker mark" to send a document to a
running server, and "marker convert" to convert local files without a server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}
		if err := bindFlags(cmd, map[string]string{config.KeyLogLevel: "log-level"}); err != nil {
			return err
		}
		if err := setupLogging(cmd); err != nil {
			return err
		}
		if f := viper.ConfigFileUsed(); f != "" {
			log.WithField("file", f).Debug("using config file")
		}

		s, err := secrets.Load(".secrets/", log)
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
			log.WithField("keys", keys).Debug("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./marker.yaml or ~/.config/marker/config.yaml)")
	pf.String("env-file", ".env", "dotenv file loaded into the environment; missing is fine")
	pf.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	pf.Bool("log-json", false, "emit logs as JSON")
}

func initConfig() {
	v := viper.GetViper()
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("marker")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "marker"))
		}
	}

	if err := config.Setup(v); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		fmt.Fprintln(os.Stderr, "reading config file:", err)
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command) error {
	level, err := logrus.ParseLevel(viper.GetString(config.KeyLogLevel))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	asJSON, _ := cmd.Flags().GetBool("log-json")
	if asJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// bindFlags binds the named flags of cmd to viper keys. Binding happens when
// the command runs so commands sharing a key do not shadow each other.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			return fmt.Errorf("unknown flag %q", name)
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
