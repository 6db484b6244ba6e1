package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"FondoSync/internal/collector"
	"FondoSync/internal/config"
	"FondoSync/internal/extractor"
	"FondoSync/internal/fund"
	"FondoSync/internal/mail"
	"FondoSync/internal/notifier"
	"FondoSync/internal/pipeline"
	"FondoSync/internal/scheduler"
	"FondoSync/internal/server"
	"FondoSync/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] FondoSync starting...")

	// .env first, so it can feed the config overrides
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] .env loaded")
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Fund registry
	registry, err := fund.NewRegistry(cfg.Funds)
	if err != nil {
		log.Fatalf("[FATAL] build fund registry: %v", err)
	}

	// Storage backend: SurrealDB when configured, SQLite otherwise.
	var st store.Store
	if cfg.Storage.Surreal.Address != "" {
		st, err = store.NewSurrealStore(cfg.Storage.Surreal)
		if err != nil {
			log.Fatalf("[FATAL] init surrealdb store: %v", err)
		}
	} else {
		st, err = store.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("[FATAL] init sqlite store: %v", err)
		}
	}
	defer st.Close()
	writer := store.NewWriter(st)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// API ingestion path
	fetcher, err := collector.NewAcciFetcher(collector.AcciOptions{
		BaseURL:    cfg.API.BaseURL,
		Password:   cfg.API.Password,
		CodigoApp:  cfg.API.CodigoApp,
		ClientCert: cfg.API.ClientCert,
		ClientKey:  cfg.API.ClientKey,
		Proxy:      cfg.Proxy,
	})
	if err != nil {
		log.Fatalf("[FATAL] init api fetcher: %v", err)
	}
	apiRunner := pipeline.NewRunner(collector.NewAPICollector(fetcher, registry), writer)

	// Mail/AI ingestion path, only when fully configured
	var mailRunner *pipeline.Runner
	if cfg.MailEnabled() {
		ext, err := extractor.NewGeminiExtractor(ctx, cfg.Gemini.APIKey, registry, extractor.WithModel(cfg.Gemini.Model))
		if err != nil {
			log.Fatalf("[FATAL] init gemini extractor: %v", err)
		}
		source := mail.NewGmailSource(mail.Options{
			ClientID:     cfg.Gmail.ClientID,
			ClientSecret: cfg.Gmail.ClientSecret,
			RefreshToken: cfg.Gmail.RefreshToken,
			Sender:       cfg.Gmail.Sender,
			Subject:      cfg.Gmail.Subject,
			Proxy:        cfg.Proxy,
		})
		mailRunner = pipeline.NewRunner(collector.NewMailCollector(source, ext, registry), writer)
		log.Println("[INFO] mail ingestion path enabled")
	} else {
		log.Println("[WARN] mail ingestion path disabled (gemini/gmail credentials not configured)")
	}

	// Optional Telegram notifications
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	// Scheduler
	sched := scheduler.NewScheduler(ctx, apiRunner, mailRunner, tn)
	if err := sched.RegisterAll(cfg.Schedule.APICron, cfg.Schedule.MailCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// HTTP trigger/diagnostics server
	srv := server.New(cfg.Server.Port, sched, cfg)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing api ingestion now")
		go sched.RunAPINow()
	}

	log.Println("[INFO] FondoSync is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] FondoSync stopped")
}
