package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/penny/internal/dateparse"
)

func parseDateCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse-date VALUE",
		Short: "Print the canonical YYYY-MM-DD form of a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := dateparse.Format(format)
			if f != "" && !dateparse.Known(f) {
				return fmt.Errorf("unknown date format %q", format)
			}

			date, err := dateparse.Parse(args[0], f)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), date)

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", `expected format, e.g. "d/m/Y"`)

	return cmd
}
