package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/flowfairy/internal/logger"
	"github.com/samcharles93/flowfairy/pkg/fcs"
)

var (
	configFile string
	logLevel   string
	logFormat  string
	debug      bool
	lenient    bool

	// cfg is the loaded config file, available to every command after setup.
	cfg Config
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml",
			Sources:     cli.EnvVars(envConfig),
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, plain, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
		&cli.BoolFlag{
			Name:        "lenient",
			Usage:       "accept keywords outside the FCS 3.x vocabulary",
			Destination: &lenient,
		},
	}
}

// setup loads the config file and stores the logger in the context. It runs
// as each subcommand's Before hook so global flags given after the
// subcommand name are already parsed.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	loaded, err := LoadConfig(resolveConfigPath(configFile))
	if err != nil {
		return ctx, cli.Exit(err.Error(), 1)
	}
	cfg = loaded
	applyGlobalConfig(cmd, cfg)

	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return ctx, cli.Exit(err.Error(), 1)
	}
	if debug {
		level = slog.LevelDebug
	}
	format, err := logger.ParseFormat(logFormat)
	if err != nil {
		return ctx, cli.Exit(err.Error(), 1)
	}
	log := logger.New(os.Stderr, logger.Options{Level: level, Format: format})
	return logger.WithContext(ctx, log), nil
}

// decodeOptions returns the pkg/fcs options shared by every command.
func decodeOptions(ctx context.Context) []fcs.Option {
	opts := []fcs.Option{fcs.WithLogger(logger.FromContext(ctx))}
	if lenient {
		opts = append(opts, fcs.WithLenientKeywords())
	}
	return opts
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
