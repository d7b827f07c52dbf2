package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"ticketsnap-backend/lib/catalog"
	"ticketsnap-backend/lib/serviceutil"
	"ticketsnap-backend/lib/sqliteutil"
	"ticketsnap-backend/services/snapshots"
	"ticketsnap-backend/services/snapshots/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var summaryDb *string
var summaryPlatform *string
var summaryOut *string

func init() {
	summaryDb = summaryCmd.Flags().String("db", "snapshots.db", "The database to read snapshots from.")
	summaryPlatform = summaryCmd.Flags().String("platform", "melon", "Platform to summarize.")
	summaryOut = summaryCmd.Flags().String("out", "", "Also write the summary as JSON to this file.")
	rootCmd.AddCommand(summaryCmd)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func renderSummary(summary catalog.Summary) {
	t := newTable()
	t.AppendHeader(table.Row{"Category", "Events", "Venues", "Regions", "Top Venues"})

	keys := make([]string, 0, len(summary.Categories))
	for key := range summary.Categories {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		cat := summary.Categories[key]
		t.AppendRow(table.Row{
			cat.Name,
			cat.TotalEvents,
			cat.UniqueVenues,
			len(cat.Regions),
			strings.Join(cat.TopVenues, ", "),
		})
	}
	t.AppendFooter(table.Row{
		"Total",
		summary.TotalEvents,
		summary.UniqueVenues,
		summary.TotalRegions,
		"",
	})
	t.Render()

	if summary.PriceRange != nil {
		fmt.Printf(
			"Price range: %.2f - %.2f\n",
			summary.PriceRange.Lowest,
			summary.PriceRange.Highest,
		)
	}
}

var summaryCmd = &cobra.Command{
	Use:   "summary [--platform melon] [--db <path/to/snapshots.db>]",
	Short: "Summarizes the latest snapshot of every category of a platform.",
	Run: func(cmd *cobra.Command, args []string) {
		database, err := sqliteutil.OpenDB(db.Schema, *summaryDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()
		service := snapshots.NewService(database)

		docs, err := service.LatestByPlatform(cmd.Context(), *summaryPlatform)
		if err != nil {
			serviceutil.Fatal("failed to load snapshots", err)
		}
		if len(docs) == 0 {
			fmt.Printf("no snapshots recorded for platform %q\n", *summaryPlatform)
			return
		}

		summary := catalog.Summarize(docs)
		renderSummary(summary)

		if *summaryOut != "" {
			serialized, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				serviceutil.Fatal("failed to serialize summary", err)
			}
			if err := os.WriteFile(*summaryOut, serialized, 0644); err != nil {
				serviceutil.Fatal("failed to write summary", err)
			}
		}
	},
}
