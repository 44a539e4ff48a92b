package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"voyage/internal/catalog"
	"voyage/pkg/config"
	"voyage/pkg/db"
)

var migrateFlags struct {
	path string
	seed bool
}

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Apply database migrations and optionally seed the mock catalog",
	SilenceUsage: true,
	RunE:         runMigrate,
}

func init() {
	rootCmd.Flags().StringVar(&migrateFlags.path, "path", "", "Migrations source (default: MIGRATIONS_PATH or file://migrations)")
	rootCmd.Flags().BoolVar(&migrateFlags.seed, "seed", false, "Upsert the built-in destinations and tours after migrating")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate failed: %v\n", err)
		os.Exit(1)
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()

	path := migrateFlags.path
	if path == "" {
		path = cfg.MigrationsPath
	}
	if path == "" {
		path = db.DefaultMigrationsPath
	}

	// Uses DIRECT_URL when set.
	if err := db.MigrateConfig(path, cfg); err != nil {
		return err
	}

	// Don't print DSNs here.
	pool, err := db.Open(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("runtime db open: %w", err)
	}
	defer pool.Close()

	fmt.Println("migrations applied")

	if !migrateFlags.seed {
		return nil
	}
	repo := catalog.NewRepository(pool)
	if err := repo.Import(cmd.Context(), catalog.MockDestinations, catalog.MockTours); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	fmt.Printf("seeded destinations=%d tours=%d\n", len(catalog.MockDestinations), len(catalog.MockTours))
	return nil
}
