// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/marker/internal/config"
	"github.com/pdiddy/marker/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert local documents to Markdown files",
	Long: `Convert runs the same converters as the server on local files and writes
<out-dir>/<name>.md with a YAML frontmatter header. Existing outputs are
skipped unless --force is given. With --dir every regular file in that
directory is converted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := bindFlags(cmd, map[string]string{
			config.KeyBackend:        "backend",
			config.KeyConvertTimeout: "convert-timeout",
		})
		if err != nil {
			return err
		}

		paths := args
		if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
			found, err := listFiles(dir)
			if err != nil {
				return err
			}
			paths = append(paths, found...)
		}
		if len(paths) == 0 {
			return fmt.Errorf("no input files; pass paths or --dir")
		}

		cfg, err := config.LoadConversion(viper.GetViper())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		conv, err := convert.NewBackend(ctx, cfg, log)
		if err != nil {
			return err
		}

		conv = convert.WithTimeout(conv, cfg.Timeout)

		outDir, _ := cmd.Flags().GetString("out-dir")
		force, _ := cmd.Flags().GetBool("force")

		res := convert.ConvertBatch(ctx, conv, paths, outDir, force, cmd.ErrOrStderr())
		log.WithField("converted", res.Converted).
			WithField("skipped", res.Skipped).
			WithField("failed", res.Failed).
			Info("batch finished")
		if res.HasFailures() {
			return fmt.Errorf("%d of %d files failed", res.Failed, res.Total())
		}
		return nil
	},
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}

func init() {
	f := convertCmd.Flags()
	f.String("backend", "native", "conversion backend: native or markitdown")
	f.Duration("convert-timeout", config.DefaultConvertTimeout, "maximum time for one conversion")
	f.String("out-dir", "markdown", "directory for converted Markdown")
	f.String("dir", "", "convert every file in this directory")
	f.Bool("force", false, "overwrite existing outputs")

	rootCmd.AddCommand(convertCmd)
}
