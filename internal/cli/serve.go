package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"StockLens/internal/metrics"
	"StockLens/internal/notifier"
	"StockLens/internal/recorder"
	"StockLens/internal/scheduler"
	"StockLens/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard and the watchlist scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(a)
		},
	}
}

func runServe(a *app) error {
	cfg := a.cfg
	log.Println("[INFO] StockLens starting...")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.NewMetrics()
	col, err := newCollector(cfg, m)
	if err != nil {
		return err
	}

	var reporter server.Reporter
	crew, err := newCrew(ctx, cfg, col.Fetcher)
	switch {
	case err != nil:
		log.Printf("[WARN] report crew unavailable, dashboard runs charts only: %v", err)
	case crew == nil:
		log.Println("[WARN] no LLM api key configured, dashboard runs charts only")
	default:
		reporter = crew
	}

	rec := recorder.Open(cfg.Database.SQLitePath)
	defer rec.Close()

	var tn *notifier.TelegramNotifier
	var sender scheduler.Sender
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	}

	sched := scheduler.NewScheduler(ctx, col, sender, rec, cfg.Schedule.Watchlist)
	sched.Metrics = m
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, refreshing watchlist now")
		go sched.RunNow()
	}

	handler := server.NewHandler(col, reporter, rec, m)
	if err := server.Run(ctx, cfg.Server.Addr, server.SetupRoutes(handler, m.Handler())); err != nil {
		return err
	}
	log.Println("[INFO] StockLens stopped")
	return nil
}
