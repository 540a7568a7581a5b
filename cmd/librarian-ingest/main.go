package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"librarian/internal/catalog"
	"librarian/internal/config"
	embopenai "librarian/internal/embedding/openai"
	"librarian/internal/ingest"
	"librarian/internal/logger"
	"librarian/internal/vectorstore/sqlite"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/librarian/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer zlog.Sync()

	entries, err := catalog.LoadCatalog(cfg.Data.CatalogPath)
	if err != nil {
		zlog.Fatal("loading catalog", zap.Error(err))
	}

	embedder, err := embopenai.NewClient(embopenai.Config{
		BaseURL:   cfg.OpenAI.BaseURL,
		APIKeyEnv: cfg.OpenAI.APIKeyEnv,
		Model:     cfg.OpenAI.EmbedModel,
		Timeout:   time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
	})
	if err != nil {
		zlog.Fatal("embedder init failed", zap.Error(err))
	}

	store, err := sqlite.Open(cfg.Store.Path, cfg.Store.Collection)
	if err != nil {
		zlog.Fatal("opening vector store", zap.Error(err))
	}
	defer store.Close()

	count, err := ingest.Rebuild(context.Background(), embedder, store, entries)
	if err != nil {
		zlog.Fatal("ingest failed", zap.Error(err))
	}

	zlog.Info("catalog indexed",
		zap.Int("books", count),
		zap.String("collection", cfg.Store.Collection),
		zap.String("path", cfg.Store.Path),
	)
}
