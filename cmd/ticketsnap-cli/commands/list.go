package commands

import (
	"ticketsnap-backend/lib/serviceutil"
	"ticketsnap-backend/lib/sqliteutil"
	"ticketsnap-backend/services/snapshots"
	"ticketsnap-backend/services/snapshots/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listDb *string

func init() {
	listDb = listCmd.Flags().String("db", "snapshots.db", "The database to read snapshots from.")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list [--db <path/to/snapshots.db>]",
	Short: "Lists every recorded snapshot, newest first.",
	Run: func(cmd *cobra.Command, args []string) {
		database, err := sqliteutil.OpenDB(db.Schema, *listDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()
		service := snapshots.NewService(database)

		entries, err := service.List(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list snapshots", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Platform", "Category", "Extracted At", "Events"})
		for _, entry := range entries {
			t.AppendRow(table.Row{
				entry.Platform,
				entry.Category,
				entry.ExtractedAt,
				entry.TotalEvents,
			})
		}
		t.Render()
	},
}
