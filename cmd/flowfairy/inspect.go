package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/flowfairy/internal/fcsfile"
	"github.com/samcharles93/flowfairy/internal/summary"
	"github.com/samcharles93/flowfairy/pkg/fcs"
)

type inspectReport struct {
	File       string              `json:"file"`
	Bytes      int64               `json:"bytes"`
	Mapped     bool                `json:"mapped"`
	Header     fcs.Header          `json:"header"`
	Delimiter  string              `json:"delimiter"`
	Events     int                 `json:"events"`
	Parameters []summary.Parameter `json:"parameters"`
	Keywords   []summary.Keyword   `json:"keywords,omitempty"`
}

func inspectCmd() *cli.Command {
	var (
		filePath     string
		showKeywords bool
		filter       string
		asJSON       bool
	)

	return &cli.Command{
		Name:   "inspect",
		Usage:  "Show the header, keywords and parameter summary of an FCS file",
		Before: setup,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to .fcs file",
				Destination: &filePath,
				Required:    true,
			},
			&cli.BoolFlag{Name: "keywords", Usage: "list TEXT keywords", Destination: &showKeywords},
			&cli.StringFlag{Name: "filter", Usage: "keyword prefix filter (implies --keywords)", Destination: &filter},
			&cli.BoolFlag{Name: "json", Usage: "print the report as JSON", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rep, err := buildInspectReport(ctx, filePath, showKeywords || filter != "", filter)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			out := stdout(cmd)
			if asJSON {
				b, err := json.MarshalIndent(rep, "", "  ")
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: encode report: %v", err), 1)
				}
				_, err = fmt.Fprintln(out, string(b))
				return err
			}
			printInspectReport(out, rep)
			return nil
		},
	}
}

func buildInspectReport(ctx context.Context, path string, withKeywords bool, filter string) (*inspectReport, error) {
	f, err := fcsfile.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	h, err := fcs.ReadHeader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	fd, err := fcs.DecodeContext(ctx, f, path, decodeOptions(ctx)...)
	if err != nil {
		return nil, err
	}

	rep := &inspectReport{
		File:       path,
		Bytes:      f.Size(),
		Mapped:     f.Mapped(),
		Header:     h,
		Delimiter:  fmt.Sprintf("%q", fd.Metadata.Delimiter),
		Events:     fd.EventCount(),
		Parameters: summary.Parameters(fd),
	}
	if withKeywords {
		rep.Keywords = summary.Keywords(&fd.Metadata, filter)
	}
	return rep, nil
}

func printInspectReport(w io.Writer, rep *inspectReport) {
	_, _ = fmt.Fprintf(w, "FCS Inspect: %s\n", rep.File)
	_, _ = fmt.Fprintf(w, "File: %s (%s)\n", filepath.Base(rep.File), formatBytes(uint64(rep.Bytes)))

	h := rep.Header
	section(w, "Header")
	row(w, "version", h.Version)
	row(w, "text", fmt.Sprintf("%d-%d", h.TextStart, h.TextEnd))
	row(w, "data", fmt.Sprintf("%d-%d", h.DataStart, h.DataEnd))
	if h.HasAnalysis() {
		row(w, "analysis", fmt.Sprintf("%d-%d", h.AnalysisStart, h.AnalysisEnd))
	}
	row(w, "delimiter", rep.Delimiter)
	rowInt(w, "events", rep.Events)
	rowInt(w, "parameters", len(rep.Parameters))

	section(w, "Parameters")
	_, _ = fmt.Fprintf(w, "%-4s %-20s %10s %14s %14s %14s %14s\n", "#", "id", "count", "min", "max", "mean", "stddev")
	for _, p := range rep.Parameters {
		s := p.Stats
		_, _ = fmt.Fprintf(w, "%-4d %-20s %10d %14.6g %14.6g %14.6g %14.6g\n", p.Index, p.ID, s.Count, s.Min, s.Max, s.Mean, s.StdDev)
	}

	if rep.Keywords != nil {
		section(w, "Keywords")
		if len(rep.Keywords) == 0 {
			_, _ = fmt.Fprintln(w, "(no matching keywords)")
		}
		for _, k := range rep.Keywords {
			_, _ = fmt.Fprintf(w, "%-24s %s\n", k.Key, k.Value)
		}
	}
}

func section(w io.Writer, title string) {
	line := strings.Repeat("-", len(title)+8)
	_, _ = fmt.Fprintf(w, "\n%s\n--- %s ---\n%s\n", line, title, line)
}

func row(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	_, _ = fmt.Fprintf(w, "%-24s %s\n", label+":", value)
}

func rowInt(w io.Writer, label string, v int) {
	row(w, label, fmt.Sprintf("%d", v))
}

func formatBytes(b uint64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case b >= gb:
		return fmt.Sprintf("%.2f GiB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.2f MiB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.2f KiB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
