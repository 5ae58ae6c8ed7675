package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/penny/internal/database"
)

func (a *app) migrateCmd() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			db, err := database.New(ctx, a.cfg.ConnectionString(), database.Pool{MaxOpenConns: 1})
			if err != nil {
				return err
			}
			defer db.Close()

			if !status {
				if err := database.Migrate(ctx, db); err != nil {
					return err
				}
			}

			current, err := database.CurrentVersion(ctx, db)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d of %d\n", current, database.LatestVersion())

			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "report the schema version without migrating")

	return cmd
}
