package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medisearch/backend/config"
	"github.com/medisearch/backend/internal/delivery/http"
	"github.com/medisearch/backend/internal/domain"
	"github.com/medisearch/backend/internal/importer"
	"github.com/medisearch/backend/internal/infrastructure/cache"
	"github.com/medisearch/backend/internal/infrastructure/memstore"
	"github.com/medisearch/backend/internal/infrastructure/mongodb"
	"github.com/medisearch/backend/internal/search"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting MediSearch Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Store: %s", cfg.Store.Type)

	// Initialize the store backend
	store, pincodes, err := buildStores(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	// Per-instance caches: a short-lived one for hot search pages, a
	// long-lived one for the effectively static pincode data.
	searchCache := cache.New[domain.ResultPage](cfg.Cache.SearchCapacity, cfg.Cache.SearchTTL)
	pincodeCache := cache.New[http.PincodeResult](cfg.Cache.PincodeCapacity, cfg.Cache.PincodeTTL)
	log.Printf("Search cache: %d entries, TTL %s", cfg.Cache.SearchCapacity, cfg.Cache.SearchTTL)

	engine := search.NewEngine(store, searchCache, search.Config{
		RelevanceEnabled: cfg.Search.RelevanceEnabled,
	})
	log.Printf("Relevance search: enabled=%v, store support=%v",
		cfg.Search.RelevanceEnabled, store.SupportsRelevance())

	imp := importer.New(store)

	// Create HTTP handler with dependencies
	handler := http.NewHandler(engine, store, pincodes, pincodeCache, imp, cfg.Import.CSVPath)

	// Setup router
	router := http.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildStores connects the configured backend. The memory store backs
// development and tests; Mongo is the production path.
func buildStores(cfg *config.Config) (domain.MedicineStore, domain.PincodeStore, error) {
	if cfg.Store.Type == "memory" {
		log.Printf("Using in-memory store (substring search only)")
		return memstore.New(), noPincodes{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Store.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("pinging mongo: %w", err)
	}

	db := client.Database(cfg.Store.Database)
	store := mongodb.NewStore(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		// Text index creation can fail on restricted deployments; the
		// engine then falls back to substring mode.
		log.Printf("WARNING: index creation failed, relevance search disabled: %v", err)
	}

	return store, mongodb.NewPincodeStore(db), nil
}

// noPincodes is the pincode lookup for store-less development mode.
type noPincodes struct{}

func (noPincodes) FindByCode(context.Context, string) ([]domain.Pincode, error) {
	return nil, domain.ErrNotFound
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
