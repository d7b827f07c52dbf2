package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ticketsnap-backend/lib/catalog"
	"ticketsnap-backend/lib/configutil"
	"ticketsnap-backend/lib/platforms/melon"
	"ticketsnap-backend/lib/platforms/melonglobal"
	"ticketsnap-backend/lib/restyutil"
	"ticketsnap-backend/lib/serviceutil"
	"ticketsnap-backend/lib/sqliteutil"
	"ticketsnap-backend/lib/telemetry"
	"ticketsnap-backend/services/snapshots"
	"ticketsnap-backend/services/snapshots/db"

	"github.com/mazen160/go-random"
	"github.com/spf13/cobra"
)

type ScrapeConfig struct {
	Proxy    string `json:"proxy"`
	Language string `json:"language"`
}

var scrapeDb *string
var scrapeOut *string
var scrapeCategory *string
var scrapePlatform *string
var scrapePages *int
var scrapeDump *bool

func init() {
	scrapeDb = scrapeCmd.Flags().String("db", "snapshots.db", "The database to write snapshots to.")
	scrapeOut = scrapeCmd.Flags().String("out", "", "Also write each document as JSON into this directory.")
	scrapeCategory = scrapeCmd.Flags().String("category", "", "Scrape a single category instead of all of them.")
	scrapePlatform = scrapeCmd.Flags().String("platform", "melon", "Platform to scrape: melon or melonglobal.")
	scrapePages = scrapeCmd.Flags().Int("pages", 1, "Number of listing pages to fetch (melonglobal only).")
	scrapeDump = scrapeCmd.Flags().Bool("dump", false, "Write raw HTTP exchanges to .dev/resty for debugging.")
	rootCmd.AddCommand(scrapeCmd)
}

// pause sleeps a randomized interval between requests so the scrape
// does not look like a tight loop to the WAF.
func pause() {
	seconds, err := random.IntRange(2, 6)
	if err != nil {
		seconds = 3
	}
	time.Sleep(time.Duration(seconds) * time.Second)
}

func writeDocument(dir string, doc catalog.Document) error {
	serialized, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	name := fmt.Sprintf("%s_%s.json", doc.Source.Platform, doc.Source.Category)
	return os.WriteFile(filepath.Join(dir, name), serialized, 0644)
}

func scrapeMelon(ctx context.Context, cfg ScrapeConfig, service snapshots.Service) {
	client, err := melon.NewClient(melon.ClientOptions{Proxy: cfg.Proxy})
	if err != nil {
		serviceutil.Fatal("failed to initialize melon client", err)
	}
	if err := client.WarmUp(ctx); err != nil {
		serviceutil.Fatal("failed to warm up melon session", err)
	}

	categories := melon.Categories()
	if *scrapeCategory != "" {
		cat, ok := melon.CategoryByKey(*scrapeCategory)
		if !ok {
			serviceutil.Fatal("unknown category", fmt.Errorf("%q", *scrapeCategory))
		}
		categories = []melon.Category{cat}
	}

	pipeline := catalog.MelonPipeline()
	for i, cat := range categories {
		if i > 0 {
			pause()
		}

		slog.Info("fetching category", "key", cat.Key, "name", cat.Name)
		payload, err := client.FetchCategory(ctx, cat)
		if err != nil {
			slog.Error("failed to fetch category", "key", cat.Key, "err", err)
			continue
		}

		doc, err := pipeline.Process(cat.SourceInfo(), payload)
		if err != nil {
			slog.Error("failed to process category", "key", cat.Key, "err", err)
			continue
		}

		if err := service.Save(ctx, doc); err != nil {
			serviceutil.Fatal("failed to save snapshot", err)
		}
		if *scrapeOut != "" {
			if err := writeDocument(*scrapeOut, doc); err != nil {
				serviceutil.Fatal("failed to write document", err)
			}
		}
		slog.Info("saved snapshot", "key", cat.Key, "events", doc.TotalEvents)
	}
}

func scrapeMelonGlobal(ctx context.Context, cfg ScrapeConfig, service snapshots.Service) {
	client, err := melonglobal.NewClient(melonglobal.ClientOptions{
		Language: cfg.Language,
		Proxy:    cfg.Proxy,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize melon global client", err)
	}
	if err := client.WarmUp(ctx); err != nil {
		serviceutil.Fatal("failed to warm up melon global session", err)
	}

	const pageSize = 20
	pipeline := catalog.MelonGlobalPipeline()
	for page := 1; page <= *scrapePages; page++ {
		if page > 1 {
			pause()
		}

		payload, err := client.FetchPage(ctx, page, pageSize)
		if err != nil {
			slog.Error("failed to fetch page", "page", page, "err", err)
			continue
		}

		doc, err := pipeline.Process(client.SourceInfo(page, pageSize), payload)
		if err != nil {
			slog.Error("failed to process page", "page", page, "err", err)
			continue
		}

		if err := service.Save(ctx, doc); err != nil {
			serviceutil.Fatal("failed to save snapshot", err)
		}
		slog.Info("saved snapshot", "page", page, "events", doc.TotalEvents)
	}
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--platform melon|melonglobal] [--db <path/to/snapshots.db>]",
	Short: "Scrapes event listings and writes snapshot documents to a database.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[ScrapeConfig]("config.json5")
		if err != nil && !os.IsNotExist(err) {
			serviceutil.Fatal("failed to read config", err)
		}

		if *scrapeDump {
			melon.SetRestyDumpOutput(restyutil.NewFilesystemOutput(".dev/resty/melon"))
			melonglobal.SetRestyDumpOutput(restyutil.NewFilesystemOutput(".dev/resty/melonglobal"))
		}
		if *scrapeOut != "" {
			if err := os.MkdirAll(*scrapeOut, 0755); err != nil {
				serviceutil.Fatal("failed to create output directory", err)
			}
		}

		database, err := sqliteutil.OpenDB(db.Schema, *scrapeDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()
		service := snapshots.NewService(database)

		ctx := serviceutil.SignalContext()
		telemetry.InstrumentPerfStats(ctx)

		t1 := time.Now()
		switch *scrapePlatform {
		case "melon":
			scrapeMelon(ctx, cfg, service)
		case "melonglobal":
			scrapeMelonGlobal(ctx, cfg, service)
		default:
			serviceutil.Fatal("unknown platform", fmt.Errorf("%q", *scrapePlatform))
		}
		slog.Info("scraping time", "seconds", time.Since(t1).Seconds())
	},
}
