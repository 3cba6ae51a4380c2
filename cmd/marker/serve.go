// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/marker/internal/config"
	"github.com/pdiddy/marker/internal/convert"
	"github.com/pdiddy/marker/internal/mark"
	"github.com/pdiddy/marker/internal/server"
	"github.com/pdiddy/marker/internal/shutdown"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP conversion service",
	Long: `Serve listens for POST /mark requests. Each request carries the API key
in the x-api-key header and a JSON body {"base64": "..."}; the response is
{"id", "markdown", "title"}.

The API key comes from MARKER_API_KEY or API_KEY, a .env file, marker.yaml or
.secrets/api-key. The service refuses to start without one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := bindFlags(cmd, map[string]string{
			config.KeyListen:          "listen",
			config.KeyTmpDir:          "tmp-dir",
			config.KeyBackend:         "backend",
			config.KeyConvertTimeout:  "convert-timeout",
			config.KeyMaxPayloadBytes: "max-payload-bytes",
			config.KeyShutdownTimeout: "shutdown-timeout",
		})
		if err != nil {
			return err
		}

		cfg, err := config.LoadServer(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		conv, err := convert.NewBackend(ctx, cfg.ConversionConfig, log)
		if err != nil {
			return err
		}

		svc := mark.NewService(cfg, conv, log)
		router := server.NewRouter(server.NewHandler(svc, cfg.MaxPayloadBytes, log), log)
		srv := server.NewHTTPServer(router, log, server.WithAddress(cfg.Listen))

		log.WithFields(logrus.Fields{
			"backend":         cfg.Backend,
			"tmp_dir":         cfg.TmpDir,
			"convert_timeout": cfg.Timeout,
			"max_payload":     cfg.MaxPayloadBytes,
		}).Info("marker starting")

		g := shutdown.New(ctx, cfg.ShutdownTimeout, log)
		g.Go(srv.Start)
		g.OnClose(srv.Stop)
		return g.Wait()
	},
}

func init() {
	f := serveCmd.Flags()
	f.String("listen", config.DefaultListen, "address to listen on")
	f.String("tmp-dir", "", "directory for temporary artifacts (default: system temp dir)")
	f.String("backend", "native", "conversion backend: native or markitdown")
	f.Duration("convert-timeout", config.DefaultConvertTimeout, "maximum time for one conversion")
	f.Int64("max-payload-bytes", config.DefaultMaxPayloadBytes, "maximum request body size")
	f.Duration("shutdown-timeout", config.DefaultShutdownTimeout, "maximum time to drain in-flight requests")

	rootCmd.AddCommand(serveCmd)
}
