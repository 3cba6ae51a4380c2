// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/marker/internal/client"
	"github.com/pdiddy/marker/internal/config"
)

var markCmd = &cobra.Command{
	Use:   "mark <file|->",
	Short: "Send a document to a marker server",
	Long: `Mark base64-encodes a local document (or stdin when the argument is "-"),
posts it to <host>/mark with the configured API key and prints the Markdown.
With --json the full response {"id", "markdown", "title"} is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := bindFlags(cmd, map[string]string{
			config.KeyHost:          "host",
			config.KeyClientTimeout: "timeout",
			config.KeyMaxRetries:    "max-retries",
		})
		if err != nil {
			return err
		}

		cfg, err := config.LoadClient(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}

		doc, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}

		resp, err := client.New(cfg, log).Mark(cmd.Context(), doc)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}
		_, err = fmt.Fprintln(out, resp.Markdown)
		return err
	},
}

func readInput(cmd *cobra.Command, arg string) ([]byte, error) {
	if arg == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", arg, err)
	}
	return data, nil
}

func init() {
	f := markCmd.Flags()
	f.String("host", config.DefaultHost, "base URL of the marker server")
	f.Duration("timeout", config.DefaultClientTimeout, "HTTP timeout per attempt")
	f.Int("max-retries", config.DefaultMaxRetries, "retries on HTTP 429")
	f.Bool("json", false, "print the full JSON response")

	rootCmd.AddCommand(markCmd)
}
