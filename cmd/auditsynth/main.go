package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/auditsynth/internal/config"
	"github.com/rpggio/auditsynth/internal/domain/activity"
	"github.com/rpggio/auditsynth/internal/domain/dataset"
	"github.com/rpggio/auditsynth/internal/domain/run"
	"github.com/rpggio/auditsynth/internal/export"
	"github.com/rpggio/auditsynth/internal/mcp"
	"github.com/rpggio/auditsynth/internal/sqlite"
)

var version = "0.1.0"

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

func realMain(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return 1
	}
	if err := applyFlags(&cfg, args, stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "flag error: %v\n", err)
		return 2
	}

	// stdout carries JSON-RPC in stdio mode and summaries in cli mode.
	logWriter := stderr
	if cfg.Transport.Mode == "http" {
		logWriter = stdout
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	var repo run.Repository
	if cfg.DB.Path != "" {
		if err := ensureDBDir(cfg.DB.Path); err != nil {
			logger.Error("failed to prepare database path", "error", err)
			return 1
		}
		db, err := sqlite.New(cfg.DB.Path)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			return 1
		}
		defer db.Close()

		if err := db.RunMigrations(); err != nil {
			logger.Error("failed to run migrations", "error", err)
			return 1
		}
		repo = sqlite.NewRunRepository(db)
	}

	cat := activity.Default()
	runSvc := run.NewService(dataset.NewRegistry(cat), export.FileSink{Dir: cfg.Generate.OutDir}, repo, logger)

	switch cfg.Transport.Mode {
	case "cli":
		return runCLIMode(logger, runSvc, cfg.Generate, stdout)
	case "stdio":
		return runStdioMode(logger, newMCPServer(cfg, runSvc, cat, logger))
	default:
		return runHTTPMode(logger, newMCPServer(cfg, runSvc, cat, logger), cfg.Server.Host, cfg.Server.Port)
	}
}

func applyFlags(cfg *config.Config, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("auditsynth", flag.ContinueOnError)
	fs.SetOutput(stderr)

	gen := &cfg.Generate
	var (
		variants    int
		anomalies   int
		probability float64
	)
	fs.StringVar(&gen.Generator, "generator", gen.Generator, "generator: enhanced, augmented or mixed")
	fs.IntVar(&gen.Sequences, "sequences", gen.Sequences, "sequences or correct batches (0 = generator default)")
	fs.IntVar(&variants, "variants", 0, "anomalous variant files for augmented (unset = default)")
	fs.IntVar(&anomalies, "anomalies", 0, "mutations per variant file for augmented (unset = default)")
	fs.Float64Var(&probability, "anomaly-probability", 0, "anomaly probability for mixed (unset = default)")
	fs.Uint64Var(&gen.Seed, "seed", gen.Seed, "random seed (0 = fresh)")
	fs.StringVar(&gen.OutDir, "out", gen.OutDir, "output directory, one subdirectory per run")
	fs.StringVar(&cfg.Transport.Mode, "mode", cfg.Transport.Mode, "cli, stdio or http")

	if err := fs.Parse(args); err != nil {
		return err
	}
	// Only flags given on the command line override the optional settings.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "variants":
			gen.Variants = &variants
		case "anomalies":
			gen.Anomalies = &anomalies
		case "anomaly-probability":
			gen.AnomalyProbability = &probability
		}
	})
	return cfg.Validate()
}

func newMCPServer(cfg config.Config, runs *run.Service, cat *activity.Catalog, logger *slog.Logger) *sdkmcp.Server {
	return mcp.NewServer(mcp.Config{
		Runs:          runs,
		Catalog:       cat,
		AuthToken:     os.Getenv("AUDITSYNTH_AUTH_TOKEN"),
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
		Version:       version,
	})
}

func runCLIMode(logger *slog.Logger, runs *run.Service, gen config.GenerateConfig, stdout io.Writer) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	r, err := runs.Generate(ctx, run.GenerateRequest{
		Generator: gen.Generator,
		Seed:      gen.Seed,
		Options: dataset.Options{
			Sequences:          gen.Sequences,
			Variants:           gen.Variants,
			Anomalies:          gen.Anomalies,
			AnomalyProbability: gen.AnomalyProbability,
		},
	})
	if err != nil {
		logger.Error("generation failed", "error", err)
		return 1
	}

	fmt.Fprintf(stdout, "run %s generator=%s seed=%d status=%s\n", r.ID, r.Generator, r.Seed, r.Status)
	for _, out := range r.Outputs {
		if out.Written {
			fmt.Fprintf(stdout, "wrote %s rows=%d anomalies=%d sequences=%d\n", out.Path, out.Rows, out.Anomalies, out.Sequences)
		} else {
			fmt.Fprintf(stdout, "failed %s: %s\n", out.Name, out.Error)
		}
	}
	if r.Failed() {
		return 1
	}
	return 0
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) int {
	logger.Info("starting stdio transport", "auth", "disabled")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
		return 1
	}
	logger.Info("shutting down")
	return 0
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, host string, port int) int {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	return waitForShutdown(logger, httpServer, errCh)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server, errCh <-chan error) int {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("server error", "error", err)
		return 1
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		return 1
	}
	return 0
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
