package service

import (
	"fmt"
	"time"

	"github.com/jesses-code-adventures/quote/internal/catalog"
	"github.com/jesses-code-adventures/quote/internal/config"
	"github.com/jesses-code-adventures/quote/internal/database"
)

// QuoteService ties the pricing engine to the job store and renders its
// results for the command line.
type QuoteService struct {
	db  database.DB
	cfg *config.Config
	cat *catalog.Catalog
	now func() time.Time
}

func NewQuoteService(db database.DB, cfg *config.Config, cat *catalog.Catalog) *QuoteService {
	return &QuoteService{db: db, cfg: cfg, cat: cat, now: time.Now}
}

// LoadCatalog reads the catalog file named by the config, or returns the
// built-in catalog when none is set.
func LoadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

func (s *QuoteService) Catalog() *catalog.Catalog {
	return s.cat
}

func (s *QuoteService) Config() *config.Config {
	return s.cfg
}

// Now is the service clock, used to date documents.
func (s *QuoteService) Now() time.Time {
	return s.now()
}
