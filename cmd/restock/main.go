package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkoller/restock/internal/classifier"
	"github.com/mkoller/restock/internal/config"
	"github.com/mkoller/restock/internal/database"
	"github.com/mkoller/restock/internal/fetch"
	"github.com/mkoller/restock/internal/server"
	"github.com/mkoller/restock/internal/session"
	"github.com/mkoller/restock/internal/view"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "restock",
	Short:   "Inventory replenishment dashboard",
	Long:    "Restock serves a product catalog, classifies each product as reorder or safe with a small trained model, and slices the results for review.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(exportCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("restock", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/restock/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to adjust the backend URL, training schedule, and seed size.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Database: %s\n\n", db.Path())
		fmt.Println("Catalog:")
		fmt.Printf("  Products: %d\n", stats.TotalProducts)
		fmt.Printf("  Out of stock: %d\n", stats.OutOfStock)
		fmt.Println("\nBackend:")
		fmt.Printf("  URL: %s\n", cfg.Backend.BaseURL)
		return nil
	},
}

// --- seed command ---

var (
	seedCount int
	seedReset bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the catalog with generated products",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if seedReset {
			if err := db.DeleteAllProducts(); err != nil {
				return fmt.Errorf("clearing catalog: %w", err)
			}
		}

		count := seedCount
		if count <= 0 {
			count = cfg.Seed.Count
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		inserted, err := db.Seed(count, rng)
		if err != nil {
			return err
		}

		total, _ := db.CountProducts()
		fmt.Printf("Seeded %d products (%d total).\n", inserted, total)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 0, "Number of products to generate (default from config)")
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "Clear the catalog before seeding")
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the products API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		fmt.Printf("Starting products API at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

// --- analyze command ---

var (
	analyzeFilter string
	analyzeSearch string
	analyzeSort   string
	analyzeDesc   bool
	analyzePage   int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Train the classifier, fetch the catalog, and show the replenishment dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := runSession(cmd.Context())
		if err != nil {
			return err
		}

		applyViewFlags(s)
		printDashboard(s)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFilter, "filter", "all", "Filter by status: all, Reorder, Safe")
	analyzeCmd.Flags().StringVar(&analyzeSearch, "search", "", "Search product names")
	analyzeCmd.Flags().StringVar(&analyzeSort, "sort", "name", "Sort key: name, stock, sales, lead_time, status")
	analyzeCmd.Flags().BoolVar(&analyzeDesc, "desc", false, "Sort descending")
	analyzeCmd.Flags().IntVar(&analyzePage, "page", 1, "Page to display")
}

// --- export command ---

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run the analysis and export the full catalog as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := runSession(cmd.Context())
		if err != nil {
			return err
		}

		csvText := s.ExportCSV()
		if exportOut == "" {
			fmt.Print(csvText)
			return nil
		}

		if err := os.WriteFile(exportOut, []byte(csvText), 0o644); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		fmt.Printf("Exported %d products to %s\n", s.Report().ProductCount, exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (stdout when empty)")
}

// runSession trains and fetches concurrently, returning a Ready session.
func runSession(ctx context.Context) (*session.Session, error) {
	client := fetch.NewClient(
		cfg.Backend.BaseURL,
		time.Duration(cfg.Backend.TimeoutSeconds)*time.Second,
		cfg.Backend.MaxRetries,
	)
	trainer := session.DefaultTrainer(classifier.Config{
		HiddenUnits:  cfg.Training.HiddenUnits,
		LearningRate: cfg.Training.LearningRate,
		Epochs:       cfg.Training.Epochs,
	})

	s := session.New(client, trainer)
	fmt.Println("Training model and fetching catalog...")
	if err := s.Run(ctx); err != nil {
		return nil, fmt.Errorf("analysis failed: %w (fix the backend and retry)", err)
	}
	return s, nil
}

func applyViewFlags(s *session.Session) {
	switch analyzeFilter {
	case string(view.FilterReorder):
		s.SetFilter(view.FilterReorder)
	case string(view.FilterSafe):
		s.SetFilter(view.FilterSafe)
	}
	if analyzeSearch != "" {
		s.Search(analyzeSearch)
	}
	key := view.SortKey(analyzeSort)
	if key != s.Snapshot().State.SortKey {
		s.SortBy(key)
	}
	if analyzeDesc {
		s.SortBy(key) // re-selecting the active key toggles to descending
	}
	for p := 1; p < analyzePage; p++ {
		s.NextPage()
	}
}

func printDashboard(s *session.Session) {
	snap := s.Snapshot()

	fmt.Println("\nStock & Replenishment Dashboard")
	fmt.Printf("  Total SKUs:       %d\n", snap.Summary.Total)
	fmt.Printf("  Restock required: %d (%.1f%%)\n", snap.Summary.Reorder, snap.ReorderPercent)
	fmt.Printf("  Healthy stock:    %d\n", snap.Summary.Safe)

	if len(snap.TopSellers) > 0 {
		fmt.Println("\nTop sellers (units/week):")
		for _, p := range snap.TopSellers {
			fmt.Printf("  %-32s %d\n", p.Name, p.AvgSales)
		}
	}

	fmt.Printf("\nProducts (page %d/%d, %d matching):\n",
		snap.Page.CurrentPage, snap.Page.TotalPages, snap.Page.FilteredCount)
	fmt.Printf("  %-32s %7s %9s %10s  %s\n", "Name", "Stock", "Sales/Wk", "Lead Time", "Status")
	for _, p := range snap.Page.Items {
		d, _ := s.Decision(p.ID)
		fmt.Printf("  %-32s %7d %9d %10d  %s\n",
			p.Name, p.CurrentInventory, p.AvgSales, p.LeadTime, d.Label)
		if verbose {
			fmt.Printf("    %s\n", s.Explain(p))
		}
	}

	report := s.Report()
	fmt.Printf("\nRun %s completed in %.1fs.\n", report.RunID, report.Duration.Seconds())
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "restock.db")
	return database.Open(dbPath)
}
