package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"librarian/internal/catalog"
	"librarian/internal/chatmodel/openai"
	"librarian/internal/config"
	"librarian/internal/domain"
	embopenai "librarian/internal/embedding/openai"
	"librarian/internal/ingest"
	"librarian/internal/librarian"
	"librarian/internal/retriever"
	"librarian/internal/tui"
	"librarian/internal/vectorstore/memory"
	"librarian/internal/vectorstore/sqlite"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var once string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/librarian/config.yaml if not provided)")
	flag.StringVar(&once, "once", "", "Answer a single question and exit instead of starting the chat UI")
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

	timeout := time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second

	embedder, err := embopenai.NewClient(embopenai.Config{
		BaseURL:   cfg.OpenAI.BaseURL,
		APIKeyEnv: cfg.OpenAI.APIKeyEnv,
		Model:     cfg.OpenAI.EmbedModel,
		Timeout:   timeout,
	})
	if err != nil {
		log.Fatalf("embedder init failed: %v", err)
	}

	var store domain.VectorStore
	switch cfg.Store.Type {
	case "sqlite", "":
		s, err := sqlite.Open(cfg.Store.Path, cfg.Store.Collection)
		if err != nil {
			log.Fatalf("opening vector store: %v", err)
		}
		defer s.Close()
		store = s
	case "memory":
		// ephemeral store: build the index from the catalog on startup
		m := memory.NewStore()
		entries, err := catalog.LoadCatalog(cfg.Data.CatalogPath)
		if err != nil {
			log.Fatalf("loading catalog: %v", err)
		}
		if _, err := ingest.Rebuild(context.Background(), embedder, m, entries); err != nil {
			log.Fatalf("building in-memory index: %v", err)
		}
		store = m
	default:
		log.Fatalf("unknown vector store: %s", cfg.Store.Type)
	}

	summaries, err := catalog.LoadSummaries(cfg.Data.SummariesPath)
	if err != nil {
		log.Fatalf("loading summaries: %v", err)
	}

	chat, err := openai.NewClient(openai.Config{
		BaseURL:   cfg.OpenAI.BaseURL,
		APIKeyEnv: cfg.OpenAI.APIKeyEnv,
		Model:     cfg.OpenAI.ChatModel,
		Timeout:   timeout,
	})
	if err != nil {
		log.Fatalf("chat model init failed: %v", err)
	}

	svc := librarian.New(retriever.New(embedder, store), chat, summaries, librarian.Options{
		Denylist:         cfg.Chat.Denylist,
		TopK:             cfg.Chat.TopK,
		ResponseLanguage: cfg.Chat.ResponseLanguage,
	})

	if once != "" {
		reply, err := svc.Answer(context.Background(), once)
		if err != nil {
			log.Fatalf("turn failed: %v", err)
		}
		if reply != nil {
			fmt.Println(reply.Text)
		}
		return
	}

	m := tui.New(svc)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
