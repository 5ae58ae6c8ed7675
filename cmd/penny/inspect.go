package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/penny/internal/importer/csvreader"
)

func inspectCmd() *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show a statement's columns, sample rows and detected date formats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			preview, err := csvreader.New().ParseForPreview(f, rows)
			if err != nil {
				return fmt.Errorf("inspect %s: %w", args[0], err)
			}

			printPreview(cmd.OutOrStdout(), preview)

			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 10, "number of data rows to show (0 for all)")

	return cmd
}

func printPreview(w io.Writer, p *csvreader.Preview) {
	headers := make([]string, 0, len(p.Headers)+1)
	headers = append(headers, "#")

	for i, h := range p.Headers {
		headers = append(headers, fmt.Sprintf("%d %s", i+1, h))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)

	for i, row := range p.Rows {
		t.Row(append([]string{strconv.Itoa(i + 1)}, row...)...)
	}

	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "rows: %d  charset: %s  delimiter: %q\n", p.TotalRows, p.Charset, p.Delimiter)

	columns := make([]int, 0, len(p.DetectedDateFormats))
	for col := range p.DetectedDateFormats {
		columns = append(columns, col)
	}

	slices.Sort(columns)

	for _, col := range columns {
		fmt.Fprintf(w, "column %d looks like dates in %s\n", col, p.DetectedDateFormats[col])
	}

	if m := p.Suggested; m != nil {
		sc := m.Schema
		fmt.Fprintf(w, "header on line %d matches %q: data from line %d, date %d, balance %d, ",
			m.HeaderLine, m.Profile, sc.TransactionDataStart, sc.DateColumn, sc.BalanceColumn)

		if sc.UsesSingleAmountColumn() {
			fmt.Fprintf(w, "amount %d", sc.AmountColumn)
		} else {
			fmt.Fprintf(w, "paid in %d, paid out %d", sc.PaidInColumn, sc.PaidOutColumn)
		}

		fmt.Fprintf(w, ", description %d\n", sc.DescriptionColumn)
	}
}
