package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"sheetchat/adapters/excel"
	"sheetchat/domain/dataset"
	"sheetchat/internal/profiling"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const maxColumnWidth = 30

func newPreviewCmd() *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Print column summaries and the first rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preview, err := loadPreview(cmd.Context(), args[0], rows)
			if err != nil {
				return err
			}
			printPreview(cmd.OutOrStdout(), preview)
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 10, "Number of rows to show")
	return cmd
}

func loadPreview(ctx context.Context, path string, rows int) (dataset.Preview, error) {
	ds, err := excel.NewDataReader(excel.DefaultReaderConfig()).ReadFile(ctx, path)
	if err != nil {
		return dataset.Preview{}, err
	}
	return profiling.NewProfiler(rows).Preview(ds), nil
}

func printPreview(out io.Writer, p dataset.Preview) {
	header := color.New(color.Bold, color.FgCyan)
	header.Fprintf(out, "%s (sheet %s): %d rows, %d columns\n\n", p.Name, p.Sheet, p.TotalRows, len(p.Columns))

	widths := make([]int, len(p.Columns))
	for i, col := range p.Columns {
		widths[i] = cellWidth(col)
	}
	for _, row := range p.Rows {
		for i, cell := range row {
			if w := cellWidth(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}

	printRow(out, p.Columns, widths, color.New(color.Bold))
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	printRow(out, sep, widths, dimStyle)
	for _, row := range p.Rows {
		printRow(out, row, widths, color.New(color.Reset))
	}
	if p.Truncated {
		dimStyle.Fprintf(out, "... %d more rows\n", p.TotalRows-len(p.Rows))
	}

	fmt.Fprintln(out)
	header.Fprintln(out, "Column summaries")
	for _, s := range p.Summaries {
		if s.Numeric {
			fmt.Fprintf(out, "  %s: %d present, %d missing, %d unique, mean %.4g, median %.4g, min %.4g, max %.4g, std %.4g\n",
				s.Name, s.Present, s.Missing, s.Unique, s.Mean, s.Median, s.Min, s.Max, s.StdDev)
			continue
		}
		fmt.Fprintf(out, "  %s: %d present, %d missing, %d unique\n", s.Name, s.Present, s.Missing, s.Unique)
	}
}

func printRow(out io.Writer, cells []string, widths []int, style *color.Color) {
	parts := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = truncate(cells[i], widths[i])
		}
		parts[i] = cell + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell))
	}
	style.Fprintln(out, strings.TrimRight(strings.Join(parts, " | "), " "))
}

func cellWidth(s string) int {
	n := utf8.RuneCountInString(s)
	if n > maxColumnWidth {
		return maxColumnWidth
	}
	return n
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + "…"
}
