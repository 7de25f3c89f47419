package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FranciscoRer293/pizzaria-ultimat/bot"
	"github.com/FranciscoRer293/pizzaria-ultimat/config"
	"github.com/FranciscoRer293/pizzaria-ultimat/db"
	"github.com/FranciscoRer293/pizzaria-ultimat/monitoring"
	"github.com/FranciscoRer293/pizzaria-ultimat/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(cfg)
		return
	}

	simulate := flag.Bool("simular", false, "talk to the bot on stdin instead of Telegram")
	flag.Parse()

	if !*simulate && cfg.Telegram.Token == "" {
		fmt.Fprintln(os.Stderr, "TOKEN not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.NeedsDB() {
		if err := db.Init(ctx, cfg.DB); err != nil {
			fmt.Fprintln(os.Stderr, "db:", err)
			os.Exit(1)
		}
		defer db.Close()

		if cfg.AutoMigrate {
			if err := applyMigrations(ctx, false); err != nil {
				fmt.Fprintln(os.Stderr, "migrate:", err)
				os.Exit(1)
			}
		}
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("timezone %q not available, using local time: %v", cfg.Timezone, err)
		loc = time.Local
	}

	catalog, zones, err := services.LoadCatalog(cfg.Storage.CatalogPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "catalog:", err)
		os.Exit(1)
	}

	metrics := monitoring.NewMetrics()
	if cfg.MetricsAddr != "" {
		go monitoring.Serve(ctx, cfg.MetricsAddr, metrics)
	}

	var (
		ledger   services.Ledger
		sessions services.SessionStore
		history  services.History
	)
	if cfg.Storage.LedgerBackend == config.BackendPostgres {
		ledger = services.NewPostgresLedger(db.Pool)
	} else {
		ledger = services.NewCSVLedger(cfg.Storage.LedgerPath, loc)
	}
	if cfg.Storage.SessionBackend == config.BackendPostgres {
		sessions = services.NewPostgresStore(db.Pool)
		history = services.NewPostgresHistory(db.Pool)
	} else {
		sessions = services.NewMemoryStore()
		history = services.NewMemoryHistory(services.HistoryLimit)
	}

	var interpreter services.Interpreter = services.CannedInterpreter{}
	if cfg.LLM.APIKey != "" {
		llm, err := services.NewLLMInterpreter(services.LLMConfig{
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			BaseURL: cfg.LLM.BaseURL,
		}, services.BuildInterpreterPrompt(catalog, cfg.Shop.DigitalMenuURL))
		if err != nil {
			log.Printf("interpreter disabled: %v", err)
		} else {
			interpreter = llm
		}
	}

	flow := bot.NewFlow(bot.FlowDeps{
		Catalog:        catalog,
		Zones:          zones,
		Ledger:         ledger,
		Proofs:         services.NewDirProofStore(cfg.Storage.ProofDir, loc),
		Interpreter:    interpreter,
		History:        history,
		Metrics:        metrics,
		DigitalMenuURL: cfg.Shop.DigitalMenuURL,
		Pix: bot.PixInfo{
			Key:  cfg.Shop.PixKey,
			Name: cfg.Shop.PixName,
			Bank: cfg.Shop.PixBank,
		},
		Now: time.Now,
	})

	if *simulate {
		console := bot.NewConsole(os.Stdout)
		b := bot.New(flow, sessions, history, bot.NewPresenter(console), metrics)
		fmt.Println("Modo simulação. Digite as mensagens do cliente (/foto <arquivo> envia uma imagem).")
		if err := bot.RunConsole(ctx, os.Stdin, b); err != nil {
			fmt.Fprintln(os.Stderr, "console:", err)
			os.Exit(1)
		}
		return
	}

	tg, err := bot.NewTelegram(cfg.Telegram.Token)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bot:", err)
		os.Exit(1)
	}
	b := bot.New(flow, sessions, history, bot.NewPresenter(tg), metrics)
	log.Printf("bot started ledger=%s sessions=%s", cfg.Storage.LedgerBackend, cfg.Storage.SessionBackend)
	tg.Start(ctx, b)
}

func runMigrate(cfg *config.Config) {
	ctx := context.Background()
	if err := db.Init(ctx, cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := applyMigrations(ctx, true); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
