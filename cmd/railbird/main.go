package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/railbirdlabs/railbird/internal/agent"
	"github.com/railbirdlabs/railbird/internal/config"
	"github.com/railbirdlabs/railbird/internal/evaluator"
	"github.com/railbirdlabs/railbird/internal/feed"
	"github.com/railbirdlabs/railbird/internal/session"
	"github.com/railbirdlabs/railbird/internal/store"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"railbird.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" long:"addr" help:"Spectator feed address to bind to (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	Postgres string `long:"postgres" help:"Postgres DSN (overrides config; empty uses the in-memory store)"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		kctx.Exit(1)
	}

	if CLI.Addr != "" {
		cfg.Server.Addr = CLI.Addr
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if CLI.Postgres != "" {
		cfg.Server.Postgres = CLI.Postgres
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		kctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st store.Store
	if cfg.Server.Postgres != "" {
		pg, err := store.OpenPostgres(ctx, cfg.Server.Postgres)
		if err != nil {
			logger.Error("Failed to connect to postgres", "error", err)
			kctx.Exit(1)
		}
		defer pg.Close()
		st = pg
		logger.Info("Using postgres store")
	} else {
		st = store.NewMemoryStore()
		logger.Info("Using in-memory store")
	}

	hub := feed.NewHub(logger)
	mux := http.NewServeMux()
	mux.Handle("/feed", hub)

	httpServer := &http.Server{Addr: cfg.Server.Addr, Handler: mux}
	go func() {
		logger.Info("Spectator feed listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Feed server failed", "error", err)
		}
	}()

	orchestrators := make([]*session.Orchestrator, 0, len(cfg.Games))
	for i, gc := range cfg.Games {
		game := session.NewGame(i+1, gc.Seats, gc.StartingChips)
		game.MaxHands = gc.MaxHands
		game.BettingClosesAfterHand = gc.BettingClosesAfterHand

		sources := make(map[int]agent.DecisionSource, gc.Seats)
		for seat, name := range gc.Strategies {
			src, ok := agent.ByName(name, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
			if !ok {
				logger.Error("Unknown strategy", "game", gc.Name, "strategy", name)
				kctx.Exit(1)
			}
			sources[seat] = src
		}

		orchestrators = append(orchestrators, session.New(session.Params{
			Game:            game,
			Store:           st,
			Feed:            hub,
			Evaluator:       evaluator.New(),
			Sources:         sources,
			Logger:          logger.With("table", gc.Name),
			SmallBlind:      gc.SmallBlind,
			BigBlind:        gc.BigBlind,
			BettingWindow:   time.Duration(gc.BettingWindowSeconds) * time.Second,
			DecisionTimeout: time.Duration(gc.DecisionTimeoutMillis) * time.Millisecond,
		}))

		logger.Info("Created game",
			"id", game.ID,
			"name", gc.Name,
			"stakes", fmt.Sprintf("%d/%d", gc.SmallBlind, gc.BigBlind),
			"seats", gc.Seats,
			"maxHands", gc.MaxHands)
	}

	manager := session.NewManager(logger, orchestrators...)
	if err := manager.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("Game run failed", "error", err)
		kctx.Exit(1)
	}

	logger.Info("All games finished, shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
}
