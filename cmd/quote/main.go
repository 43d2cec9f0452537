package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jesses-code-adventures/quote/internal/config"
	"github.com/jesses-code-adventures/quote/internal/database"
	"github.com/jesses-code-adventures/quote/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("", "", "", "")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DevMode {
		cfg.Dump()
	}

	cat, err := service.LoadCatalog(cfg)
	if err != nil {
		return err
	}

	db, err := database.NewDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	quoteService := service.NewQuoteService(db, cfg, cat)

	rootCmd := newRootCmd(quoteService)
	return rootCmd.ExecuteContext(ctx)
}
