package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"ticketsnap-backend/lib/catalog"
	"ticketsnap-backend/lib/platforms/melon"
	"ticketsnap-backend/lib/platforms/yes24"
	"ticketsnap-backend/lib/serviceutil"

	"github.com/spf13/cobra"
)

var parseCategory *string

func init() {
	parseCategory = parseCmd.Flags().String("category", "concerts", "Category key to label the output document with.")
	rootCmd.AddCommand(parseCmd)
}

func parseMelonFile(path string) (catalog.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return catalog.Document{}, err
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return catalog.Document{}, fmt.Errorf("parse %s: %w", path, err)
	}

	cat, ok := melon.CategoryByKey(*parseCategory)
	if !ok {
		return catalog.Document{}, fmt.Errorf("unknown category %q", *parseCategory)
	}
	return catalog.MelonPipeline().Process(cat.SourceInfo(), payload)
}

func parseYes24File(cmd *cobra.Command, path string) (catalog.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return catalog.Document{}, err
	}

	events, err := yes24.ParseList(cmd.Context(), string(raw))
	if err != nil {
		return catalog.Document{}, err
	}

	stats := catalog.Aggregate(yes24.StatsConfig(), events)
	source := catalog.SourceInfo{
		Platform: "yes24",
		Category: *parseCategory,
		Name:     *parseCategory,
	}
	return catalog.Assemble(source, events, stats), nil
}

var parseCmd = &cobra.Command{
	Use:   "parse <path/to/listing.(json|html)>",
	Short: "Processes a saved listing payload into a snapshot document without hitting the network.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := args[0]

		var doc catalog.Document
		var err error
		if strings.HasSuffix(input, ".html") || strings.HasSuffix(input, ".htm") {
			doc, err = parseYes24File(cmd, input)
		} else {
			doc, err = parseMelonFile(input)
		}
		if err != nil {
			serviceutil.Fatal("failed to parse listing", err)
		}

		serialized, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			serviceutil.Fatal("failed to serialize document", err)
		}
		output := strings.TrimSuffix(strings.TrimSuffix(
			strings.TrimSuffix(input, ".json"), ".html"), ".htm") + "_parsed.json"
		if err := os.WriteFile(output, serialized, 0644); err != nil {
			serviceutil.Fatal("failed to write document", err)
		}

		slog.Info("wrote parsed document", "output", output, "events", doc.TotalEvents)
	},
}
