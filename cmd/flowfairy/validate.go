package main

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/samcharles93/flowfairy/internal/fcsfile"
	"github.com/samcharles93/flowfairy/internal/logger"
	"github.com/samcharles93/flowfairy/pkg/fcs"
)

type validateResult struct {
	Path       string
	Events     int
	Parameters int
	Err        error
}

func validateCmd() *cli.Command {
	var workers int

	return &cli.Command{
		Name:      "validate",
		Usage:     "Decode FCS files and report which ones fail",
		ArgsUsage: "PATH...",
		Before:    setup,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "workers",
				Aliases:     []string{"j"},
				Usage:       "files decoded in parallel",
				Value:       runtime.GOMAXPROCS(0),
				Destination: &workers,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyValidateConfig(cmd, cfg, &workers)
			args := cmd.Args().Slice()
			if len(args) == 0 {
				return cli.Exit("error: validate needs at least one file or directory", 1)
			}
			paths, err := fcsfile.Expand(args)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if len(paths) == 0 {
				return cli.Exit("error: no .fcs files found", 1)
			}

			results, err := validateFiles(ctx, paths, workers, decodeOptions(ctx)...)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if failed := printValidateResults(stdout(cmd), results); failed > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d files failed", failed, len(results)), 1)
			}
			return nil
		},
	}
}

// validateFiles decodes paths with at most workers files in flight. Decode
// failures are recorded per file; only context cancellation aborts the run.
func validateFiles(ctx context.Context, paths []string, workers int, opts ...fcs.Option) ([]validateResult, error) {
	log := logger.FromContext(ctx)
	results := make([]validateResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := validateResult{Path: path}
			fd, err := fcsfile.Decode(gctx, path, opts...)
			if err != nil {
				res.Err = err
				log.Debug("validate failed", "path", path, "error", err)
			} else {
				res.Events = fd.EventCount()
				res.Parameters = len(fd.Parameters)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func printValidateResults(w io.Writer, results []validateResult) int {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			_, _ = fmt.Fprintf(w, "FAIL %s: %v\n", r.Path, r.Err)
			continue
		}
		_, _ = fmt.Fprintf(w, "ok   %s (%d events, %d parameters)\n", r.Path, r.Events, r.Parameters)
	}
	return failed
}
