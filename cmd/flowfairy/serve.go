package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/flowfairy/internal/api"
	"github.com/samcharles93/flowfairy/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		maxUpload   int64
		uploadRate  float64
		uploadBurst int
	)

	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the dataset REST API",
		Before: setup,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.Int64Flag{
				Name:        "max-upload-bytes",
				Usage:       "largest accepted upload body",
				Value:       api.DefaultMaxUploadBytes,
				Destination: &maxUpload,
			},
			&cli.Float64Flag{
				Name:        "upload-rate",
				Usage:       "uploads per second across all clients (0 = unlimited)",
				Destination: &uploadRate,
			},
			&cli.IntFlag{
				Name:        "upload-burst",
				Usage:       "uploads allowed in a burst above --upload-rate",
				Value:       4,
				Destination: &uploadBurst,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyServeConfig(cmd, cfg, &addr, &maxUpload, &uploadRate, &uploadBurst)
			log := logger.FromContext(ctx)

			server := api.NewServer(api.NewDatasetStore(), api.Config{
				MaxUploadBytes:  maxUpload,
				UploadRate:      uploadRate,
				UploadBurst:     uploadBurst,
				LenientKeywords: lenient,
				Logger:          log,
			})
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr, "max_upload_bytes", maxUpload, "upload_rate", uploadRate)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
