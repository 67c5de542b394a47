package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yegors/flightplanner/internal/api"
	"github.com/yegors/flightplanner/internal/briefing"
	"github.com/yegors/flightplanner/internal/config"
	"github.com/yegors/flightplanner/internal/metrics"
	"github.com/yegors/flightplanner/internal/planner"
	"github.com/yegors/flightplanner/internal/route"
	"github.com/yegors/flightplanner/internal/storage/sqlite"
	"github.com/yegors/flightplanner/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.toml", "path to the TOML config file")
	printPath := flag.String("print", "", "print the report of a route file and exit")
	aircraftName := flag.String("aircraft", "", "aircraft for -print (default: first configured)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *printPath != "" {
		if err := printRoute(cfg, *printPath, *aircraftName); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("Planner stopped", logger.Error(err))
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Storage.SQLitePath)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := sqlite.NewRouteStorage(db, log)
	if err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	plannerService := planner.NewService(cfg, store, log)
	plannerService.SetMetrics(reg)
	briefs := briefing.NewGeneratorFromConfig(cfg.Briefing, log)
	router := api.NewRouter(plannerService, briefs, reg, cfg, log)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		log.Info("Starting HTTP server",
			logger.String("addr", server.Addr),
			logger.Int("airports", len(cfg.Airports)),
			logger.Int("aircraft", len(cfg.Aircraft)),
			logger.String("database", cfg.Storage.SQLitePath))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	})

	return eg.Wait()
}

// printRoute writes the text report of a route file to stdout
func printRoute(cfg *config.Config, path, aircraftName string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open route file: %w", err)
	}
	defer f.Close()

	name, wps, err := route.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	aircraft := cfg.DefaultAircraft()
	if aircraftName != "" {
		var ok bool
		if aircraft, ok = cfg.FindAircraft(aircraftName); !ok {
			return fmt.Errorf("unknown aircraft %s", aircraftName)
		}
	}

	report, err := route.NewRoute(name, aircraft, wps...).Format()
	if err != nil {
		return err
	}
	fmt.Println(report)
	return nil
}
