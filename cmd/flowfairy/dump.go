package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/flowfairy/internal/fcsfile"
	"github.com/samcharles93/flowfairy/internal/summary"
	"github.com/samcharles93/flowfairy/pkg/fcs"
)

type dumpDoc struct {
	File       string           `json:"file"`
	Parameters []string         `json:"parameters"`
	Events     []summary.Values `json:"events"`
}

func dumpCmd() *cli.Command {
	var (
		filePath string
		format   string
		limit    int
		params   []string
	)

	return &cli.Command{
		Name:   "dump",
		Usage:  "Print events of an FCS file as event-major rows",
		Before: setup,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to .fcs file",
				Destination: &filePath,
				Required:    true,
			},
			&cli.StringFlag{Name: "format", Usage: "output format (csv, json)", Value: "csv", Destination: &format},
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "maximum events to print (0 = all)", Destination: &limit},
			&cli.StringSliceFlag{Name: "params", Aliases: []string{"p"}, Usage: "parameter ids to print, in order (default all)", Destination: &params},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if limit < 0 {
				return cli.Exit("error: --limit must not be negative", 1)
			}
			fd, err := fcsfile.Decode(ctx, filePath, decodeOptions(ctx)...)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			cols, err := selectParameters(fd, params)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			out := stdout(cmd)
			switch strings.ToLower(format) {
			case "csv":
				err = writeCSV(out, cols, limit)
			case "json":
				err = writeJSON(out, filePath, cols, limit)
			default:
				return cli.Exit(fmt.Sprintf("error: unknown format %q (want csv or json)", format), 1)
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: write %s: %v", format, err), 1)
			}
			return nil
		},
	}
}

// selectParameters returns the named parameters in the requested order, or
// all of them when ids is empty. Entries may be comma separated.
func selectParameters(fd *fcs.FlowData, ids []string) ([]fcs.Parameter, error) {
	var want []string
	for _, id := range ids {
		for part := range strings.SplitSeq(id, ",") {
			if part = strings.TrimSpace(part); part != "" {
				want = append(want, part)
			}
		}
	}
	if len(want) == 0 {
		return fd.Parameters, nil
	}
	out := make([]fcs.Parameter, 0, len(want))
	for _, id := range want {
		p, ok := fd.Parameter(id)
		if !ok {
			return nil, fmt.Errorf("unknown parameter %q", id)
		}
		out = append(out, *p)
	}
	return out, nil
}

func rowCount(cols []fcs.Parameter, limit int) int {
	if len(cols) == 0 {
		return 0
	}
	n := len(cols[0].Events)
	if limit > 0 {
		n = min(n, limit)
	}
	return n
}

func writeCSV(w io.Writer, cols []fcs.Parameter, limit int) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(cols))
	for i, p := range cols {
		header[i] = p.ID
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	rec := make([]string, len(cols))
	for ev := range rowCount(cols, limit) {
		for i, p := range cols {
			rec[i] = strconv.FormatFloat(p.Events[ev], 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, name string, cols []fcs.Parameter, limit int) error {
	n := rowCount(cols, limit)
	doc := dumpDoc{
		File:       name,
		Parameters: make([]string, len(cols)),
		Events:     make([]summary.Values, n),
	}
	for i, p := range cols {
		doc.Parameters[i] = p.ID
	}
	for ev := range n {
		row := make(summary.Values, len(cols))
		for i, p := range cols {
			row[i] = p.Events[ev]
		}
		doc.Events[ev] = row
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
