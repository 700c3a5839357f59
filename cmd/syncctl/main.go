package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/printshop-os/inventory_api/internal/cache"
	"github.com/printshop-os/inventory_api/internal/config"
	"github.com/printshop-os/inventory_api/internal/models"
	"github.com/printshop-os/inventory_api/internal/service"
	"github.com/printshop-os/inventory_api/pkg/ascolour"
	"github.com/printshop-os/inventory_api/pkg/sanmar"
	"github.com/printshop-os/inventory_api/pkg/ssactivewear"
	"github.com/printshop-os/inventory_api/pkg/strapi"
)

const usage = `Print-shop supplier sync CLI

Usage:
  syncctl <command> [flags]

Commands:
  analyze            Analyze order history to identify top products
  sync-top-products  Push the top-product ranking to the CMS
  update-inventory   Refresh price and stock on existing top products
  full-refresh       Analyze, sync and refresh inventory in one run
  sanmar-refresh     Reload the SanMar bulk catalog (use -delta for the hourly delta)
  status             Show CMS, supplier and catalog status
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	a := newApp(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var runErr error
	switch cmd := os.Args[1]; cmd {
	case "analyze":
		runErr = a.cmdAnalyze(ctx, os.Args[2:])
	case "sync-top-products":
		runErr = a.cmdSyncTopProducts(ctx, os.Args[2:])
	case "update-inventory":
		runErr = a.cmdUpdateInventory(ctx, os.Args[2:])
	case "full-refresh":
		runErr = a.cmdFullRefresh(ctx, os.Args[2:])
	case "sanmar-refresh":
		runErr = a.cmdSanMarRefresh(ctx, os.Args[2:])
	case "status":
		runErr = a.cmdStatus(ctx, os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", cmd, usage)
		os.Exit(1)
	}

	if runErr != nil {
		log.Fatal().Err(runErr).Msg("command failed")
	}
}

// app wires the services the commands run against. Same construction as the
// API server, minus HTTP and workers.
type app struct {
	cfg         *config.Config
	analyzer    *service.AnalyzerService
	catalogSync *service.CatalogSyncService
	sanmarSync  *service.SanMarSyncService
}

func newApp(cfg *config.Config) *app {
	redisClient := cache.NewRedisClient(&cfg.Redis, cfg.Cache.Disabled)
	invCache := cache.NewInventoryCache(redisClient, cache.NewStats(cfg.Cache.CostPerCall), cfg.Cache.TTL)

	catalog := sanmar.NewCatalog()
	downloader := sanmar.NewDownloader(sanmar.SFTPConfig{
		Host:      cfg.SanMar.SFTPHost,
		Port:      cfg.SanMar.SFTPPort,
		Username:  cfg.SanMar.SFTPUsername,
		Password:  cfg.SanMar.SFTPPassword,
		RemoteDir: cfg.SanMar.RemoteDir,
	})
	sanmarSync := service.NewSanMarSyncService(downloader, catalog, invCache, cfg.SanMar)

	supplierRouter := service.NewSupplierRouter()
	if cfg.ASColour.Configured() {
		client := ascolour.NewClient(ascolour.Config{
			SubscriptionKey: cfg.ASColour.APIKey,
			Email:           cfg.ASColour.Email,
			Password:        cfg.ASColour.Password,
		})
		supplierRouter.Register(service.NewASColourConnector(client))
	}
	if cfg.SSActivewear.Configured() {
		client := ssactivewear.NewClient(ssactivewear.Config{
			AccountNumber: cfg.SSActivewear.AccountNumber,
			APIKey:        cfg.SSActivewear.APIKey,
		})
		supplierRouter.Register(service.NewSSActivewearConnector(client))
	}
	supplierRouter.Register(service.NewSanMarConnector(catalog))

	cms := strapi.NewClient(strapi.Config{BaseURL: cfg.Strapi.URL, APIToken: cfg.Strapi.APIToken})
	inventory := service.NewInventoryService(supplierRouter, invCache)

	return &app{
		cfg:         cfg,
		analyzer:    service.NewAnalyzerService(cms),
		catalogSync: service.NewCatalogSyncService(cms, inventory),
		sanmarSync:  sanmarSync,
	}
}

func (a *app) cmdAnalyze(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	limit := fs.Int("limit", service.DefaultTopLimit, "number of top products")
	output := fs.String("output", "", "write full results to a JSON file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	products, err := a.analyzer.Analyze(ctx, *limit)
	if err != nil {
		return err
	}

	printTopProducts(products, 20)

	if *output != "" {
		if err := writeAnalysis(*output, products); err != nil {
			return err
		}
		log.Info().Str("path", *output).Msg("Analysis written")
	}
	return nil
}

func (a *app) cmdSyncTopProducts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sync-top-products", flag.ExitOnError)
	limit := fs.Int("limit", service.DefaultTopLimit, "number of products to sync")
	dryRun := fs.Bool("dry-run", false, "preview without writing to the CMS")
	if err := fs.Parse(args); err != nil {
		return err
	}

	products, err := a.analyzer.Analyze(ctx, *limit)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		log.Warn().Msg("No products found in order history")
		return nil
	}

	result, err := a.catalogSync.SyncTopProducts(ctx, products, service.SyncOptions{
		DryRun:   *dryRun,
		Progress: progressEvery(50, len(products)),
	})
	if err != nil {
		return err
	}

	log.Info().
		Int("synced", result.Synced).
		Int("errors", result.Errors).
		Bool("dry_run", *dryRun).
		Msg("Sync complete")
	return nil
}

func (a *app) cmdUpdateInventory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update-inventory", flag.ExitOnError)
	limit := fs.Int("limit", service.DefaultTopLimit, "number of top products to refresh")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.catalogSync.UpdateInventory(ctx, *limit)
	if err != nil {
		return err
	}

	log.Info().Int("updated", result.Synced).Int("errors", result.Errors).Msg("Inventory update complete")
	return nil
}

func (a *app) cmdFullRefresh(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("full-refresh", flag.ExitOnError)
	limit := fs.Int("limit", service.DefaultTopLimit, "number of top products")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Load the bulk catalog first so SanMar SKUs can be enriched. A failure
	// here only costs enrichment, not the run.
	log.Info().Msg("Step 1: loading SanMar bulk catalog")
	if err := a.sanmarSync.FullSync(ctx); err != nil {
		log.Warn().Err(err).Msg("SanMar catalog unavailable, continuing without enrichment")
	}

	log.Info().Msg("Step 2: analyzing order history")
	products, err := a.analyzer.Analyze(ctx, *limit)
	if err != nil {
		return err
	}

	log.Info().Msg("Step 3: syncing top products to the CMS")
	result, err := a.catalogSync.SyncTopProducts(ctx, products, service.SyncOptions{
		Progress: progressEvery(50, len(products)),
	})
	if err != nil {
		return err
	}
	log.Info().Int("synced", result.Synced).Int("errors", result.Errors).Msg("Sync complete")

	log.Info().Msg("Step 4: refreshing inventory")
	refresh, err := a.catalogSync.UpdateInventory(ctx, *limit)
	if err != nil {
		return err
	}
	log.Info().Int("updated", refresh.Synced).Int("errors", refresh.Errors).Msg("Full refresh complete")
	return nil
}

func (a *app) cmdSanMarRefresh(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sanmar-refresh", flag.ExitOnError)
	delta := fs.Bool("delta", false, "apply the hourly inventory delta instead of a full reload")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *delta {
		// Delta needs a loaded catalog underneath
		if err := a.sanmarSync.FullSync(ctx); err != nil {
			return err
		}
		if err := a.sanmarSync.DeltaSync(ctx); err != nil {
			return err
		}
	} else if err := a.sanmarSync.FullSync(ctx); err != nil {
		return err
	}

	stats := a.sanmarSync.Catalog().Stats()
	log.Info().Int("styles", stats.Styles).Int("variants", stats.Variants).Msg("SanMar catalog refreshed")
	return nil
}

func (a *app) cmdStatus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	status := a.catalogSync.Status(ctx)

	fmt.Println("\nSupplier Sync Status")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n%s CMS: %s\n", checkmark(status.CMSHealthy), a.cfg.Strapi.URL)

	fmt.Println("\nSupplier connections:")
	for _, code := range models.AllSuppliers() {
		ok, registered := status.Suppliers[code]
		switch {
		case !registered:
			fmt.Printf("   -  %s (not configured)\n", code)
		default:
			fmt.Printf("   %s %s\n", checkmark(ok), code)
		}
	}

	if status.CMSHealthy {
		fmt.Println("\nCMS products:")
		fmt.Printf("   Total products: %d\n", status.TotalProducts)
		fmt.Printf("   Top products:   %d\n", status.TopProducts)
	}

	stats := a.sanmarSync.Catalog().Stats()
	fmt.Println("\nSanMar bulk catalog:")
	if stats.Loaded {
		fmt.Printf("   Styles:   %d\n", stats.Styles)
		fmt.Printf("   Variants: %d\n", stats.Variants)
	} else {
		fmt.Println("   Not loaded. Run: syncctl sanmar-refresh")
	}
	return nil
}

func checkmark(ok bool) string {
	if ok {
		return "OK"
	}
	return "!!"
}

// progressEvery logs every nth item plus the final one.
func progressEvery(n, total int) func(done, _ int) {
	return func(done, _ int) {
		if done%n == 0 || done == total {
			log.Info().Int("done", done).Int("total", total).Msg("Progress")
		}
	}
}

func printTopProducts(products []models.TopProduct, limit int) {
	fmt.Println("\nTop Products Summary:")
	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("%-5s %-15s %8s %10s %8s  %-30s\n", "Rank", "SKU", "Orders", "Units", "Score", "Name")
	fmt.Println(strings.Repeat("-", 80))

	for i, p := range products {
		if i == limit {
			break
		}
		name := strings.ReplaceAll(p.StyleName, "\n", " ")
		if len(name) > 30 {
			name = name[:30]
		}
		fmt.Printf("%-5d %-15s %8d %10d %8.1f  %-30s\n",
			i+1, p.StyleNumber, p.OrderCount, p.TotalQuantity, p.Score, name)
	}
	if len(products) > limit {
		fmt.Printf("\n... and %d more products\n", len(products)-limit)
	}
}

// writeAnalysis saves the full ranking to a JSON file.
func writeAnalysis(path string, products []models.TopProduct) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	payload := map[string]any{
		"generatedAt":     time.Now().UTC().Format(time.RFC3339),
		"topProductCount": len(products),
		"products":        products,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
