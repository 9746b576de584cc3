// Package main provides the HTTP API for starting runs and downloading tables.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"newsfetch/internal/batch"
	"newsfetch/internal/config"
	"newsfetch/internal/dataset"
	"newsfetch/internal/handler"
	"newsfetch/internal/logger"
	"newsfetch/internal/scheduler"
	"newsfetch/internal/seekingalpha"
	"newsfetch/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	config.LoadDotEnv()

	cfg, err := config.LoadConfig(config.Locate(*configFile))
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, frontendURL)
	}

	logs := logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logs.Slog())

	sessions, err := session.OpenStore(cfg.Session.DBPath)
	if err != nil {
		log.Fatalf("error opening session store: %v", err)
	}
	defer sessions.Close()

	store := dataset.NewStore(cfg.Output.Dir)
	if err := store.Ensure(); err != nil {
		log.Fatalf("error preparing output directory: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := batch.NewRunner(seekingalpha.NewClient(&cfg.API), store, sessions, logs)
	symbols := func() ([]string, error) {
		return dataset.ReadSymbols(cfg.Input.SymbolsFile)
	}

	var sched *scheduler.Scheduler
	if cfg.Schedule.Cron != "" {
		sched, err = startSchedule(ctx, &cfg.Schedule, runner, symbols, logs)
		if err != nil {
			log.Fatalf("error scheduling runs: %v", err)
		}
	}

	runs := handler.NewRunHandler(ctx, runner, symbols, cfg.Window, logs)
	files := handler.NewFileHandler(store, logs)

	gin.SetMode(gin.ReleaseMode)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.NewRouter(runs, files, cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logs.Info("listening", "addr", cfg.Server.Addr, "origins", cfg.Server.AllowedOrigins)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	logs.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logs.Error("error during shutdown", "error", err)
	}

	if sched != nil {
		<-sched.Stop().Done()
	}

	runs.Wait()
}

// startSchedule fires a run over the trailing lookback window on every tick.
// A tick that finds a run in progress is skipped.
func startSchedule(ctx context.Context, cfg *config.ScheduleConfig, runner *batch.Runner, symbols handler.SymbolSource, logs *logger.Logger) (*scheduler.Scheduler, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	sched := scheduler.NewScheduler(loc)

	err = sched.Schedule(cfg.Cron, func() {
		list, err := symbols()
		if err != nil {
			logs.Error("scheduled run skipped", "error", err)
			return
		}

		since, until := scheduler.Window(time.Now().In(loc), cfg.LookbackDays)

		if _, err := runner.Run(ctx, list, since, until); err != nil {
			logs.Warn("scheduled run did not complete", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}

	sched.Start()
	logs.Info("scheduled runs enabled", "cron", cfg.Cron, "timezone", loc.String(), "next", sched.Next())

	return sched, nil
}
