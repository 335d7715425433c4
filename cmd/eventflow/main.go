package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Joseda-hg/eventflow/internal/calendar"
	"github.com/Joseda-hg/eventflow/internal/config"
	"github.com/Joseda-hg/eventflow/internal/db"
	"github.com/Joseda-hg/eventflow/internal/export"
	"github.com/Joseda-hg/eventflow/internal/logging"
	"github.com/Joseda-hg/eventflow/internal/store"
	"github.com/Joseda-hg/eventflow/internal/tui"
	"github.com/Joseda-hg/eventflow/internal/web"
)

type cliFlags struct {
	DBPath  string
	Web     bool
	WebOnly bool
	Port    int
	LogPath string
	EnvFile string
	Format  string
	Out     string
}

func main() {
	var flags cliFlags
	configPathFlag := flag.String("config", "", "config file path")
	flag.StringVar(&flags.DBPath, "db", "", "sqlite db path")
	flag.BoolVar(&flags.Web, "web", false, "enable web server")
	flag.BoolVar(&flags.WebOnly, "web-only", false, "run web server only")
	flag.IntVar(&flags.Port, "port", 0, "web server port")
	flag.StringVar(&flags.LogPath, "log", "", "log file path")
	flag.StringVar(&flags.EnvFile, "env-file", ".env", "optional .env file with EVENTFLOW_* overrides")
	exportFlag := flag.String("export", "", "export the month YYYY-MM and exit")
	flag.StringVar(&flags.Format, "format", "", "export format: json, ics or yaml")
	flag.StringVar(&flags.Out, "out", "", "export directory")
	flag.Parse()

	boot := logging.Console(os.Stderr, "info")

	cfgPath, err := resolveConfigPath(*configPathFlag)
	if err != nil {
		boot.Fatal().Err(err).Msg("resolve config path")
	}

	cfg, err := loadConfig(cfgPath, flags)
	if err != nil {
		boot.Fatal().Err(err).Str("path", cfgPath).Msg("load config")
	}

	format, err := export.ParseFormat(cfg.ExportFormat)
	if err != nil {
		boot.Fatal().Err(err).Msg("export format")
	}

	// The TUI owns the terminal, so it logs to a file.
	logger := logging.Console(os.Stderr, cfg.LogLevel)
	var logCloser io.Closer
	if !flags.WebOnly && *exportFlag == "" {
		logger, logCloser, err = logging.Open(cfg.LogPath, cfg.LogLevel)
		if err != nil {
			boot.Fatal().Err(err).Msg("open log file")
		}
		defer logCloser.Close()
	}

	ctx := context.Background()
	events, backend, closeDB, err := openStore(ctx, cfg.DBPath, logger)
	if err != nil {
		boot.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open store")
	}
	defer closeDB()

	if *exportFlag != "" {
		if err := runExport(events, *exportFlag, cfg.ExportDir, format); err != nil {
			boot.Error().Err(err).Msg("export failed")
			closeDB()
			os.Exit(1)
		}
		return
	}

	var server *http.Server
	if cfg.WebEnabled {
		opts := []web.Option{web.WithHistory(backend), web.WithLogger(logger)}
		if len(cfg.CORSOrigins) > 0 {
			opts = append(opts, web.WithCORS(cfg.CORSOrigins))
		}
		server = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.WebPort),
			Handler:           web.NewServer(events, opts...).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		if flags.WebOnly {
			serveUntilSignal(server, logger)
			return
		}

		go func() {
			logger.Info().Str("address", server.Addr).Msg("web server running")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("web server error")
			}
		}()
	}

	if flags.WebOnly {
		return
	}

	tuiErr := tui.Run(events, tui.Options{
		History:      backend,
		Log:          logger,
		ExportDir:    cfg.ExportDir,
		ExportFormat: format,
	})
	if server != nil {
		shutdown(server, logger)
	}
	if tuiErr != nil {
		fmt.Fprintln(os.Stderr, tuiErr)
		closeDB()
		os.Exit(1)
	}
}

func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DefaultConfigPath()
}

// loadConfig reads the config file and saves it back with the -db, -web and
// -port flags applied. Environment overrides and the remaining flags only
// affect the returned config.
func loadConfig(path string, flags cliFlags) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	persistFlags := func(cfg *config.Config) {
		if flags.DBPath != "" {
			cfg.DBPath = flags.DBPath
		}
		if flags.Web {
			cfg.WebEnabled = true
		}
		if flags.Port != 0 {
			cfg.WebPort = flags.Port
		}
	}
	persistFlags(&cfg)
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), "eventflow.db")
	}
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(filepath.Dir(path), "eventflow.log")
	}
	if cfg.WebPort == 0 {
		cfg.WebPort = 8080
	}
	if err := config.Save(path, cfg); err != nil {
		return cfg, fmt.Errorf("save config: %w", err)
	}

	if err := config.ApplyEnv(&cfg, flags.EnvFile); err != nil {
		return cfg, err
	}
	persistFlags(&cfg)
	if flags.WebOnly {
		cfg.WebEnabled = true
	}
	if flags.LogPath != "" {
		cfg.LogPath = flags.LogPath
	}
	if flags.Format != "" {
		cfg.ExportFormat = flags.Format
	}
	if flags.Out != "" {
		cfg.ExportDir = flags.Out
	}
	return cfg, nil
}

func openStore(ctx context.Context, dbPath string, logger zerolog.Logger) (*store.Store, *db.Store, func(), error) {
	if err := config.EnsureDir(dbPath); err != nil {
		return nil, nil, nil, err
	}

	sqlDB, err := db.Open(dbPath)
	if err != nil {
		return nil, nil, nil, err
	}

	backend := db.NewStore(sqlDB)
	events, err := store.New(ctx, backend, store.WithLogger(logger), store.WithJournal(backend))
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, nil, err
	}
	closed := false
	closeDB := func() {
		if closed {
			return
		}
		closed = true
		_ = sqlDB.Close()
	}
	return events, backend, closeDB, nil
}

func runExport(events *store.Store, monthValue, dir string, format export.Format) error {
	month, err := calendar.ParseMonth(monthValue)
	if err != nil {
		return err
	}
	path, err := export.ToFile(dir, events.List(), month, format)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func serveUntilSignal(server *http.Server, logger zerolog.Logger) {
	errChan := make(chan error, 1)
	go func() {
		logger.Info().Str("address", server.Addr).Msg("web server running")
		errChan <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("web server error")
		}
		return
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down web server")
	}
	shutdown(server, logger)
}

func shutdown(server *http.Server, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("web server forced to shutdown")
	}
}
