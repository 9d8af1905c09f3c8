package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"

	"github.com/avhost/playerd/internal/config"
	"github.com/avhost/playerd/internal/ipcserver"
	"github.com/avhost/playerd/internal/logger"
	"github.com/avhost/playerd/internal/player"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	configPath := flag.String("config", config.GetConfigPath(), "path to the config file")
	socketPath := flag.String("socket", "", "override the IPC socket path")
	logLevel := flag.String("log-level", "", "override the log level (debug, info, warn, error, none)")
	logPath := flag.String("log-path", "", "override the log file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *socketPath != "" {
		cfg.Socket.Path = *socketPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logPath != "" {
		cfg.LogPath = *logPath
	}

	if err := logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.LogPath); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		if err != nil {
			logger.Error("Fatal error: %v", err)
		}
		if closeErr := logger.Global().Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close logger: %v\n", closeErr)
		}
	}()
	slog.SetDefault(slog.New(logger.NewSlogHandler(logger.Global())))

	core := player.NewCore()

	var srv *ipcserver.Server
	if cfg.Socket.Enabled {
		srv = ipcserver.New(cfg, core)
		if startErr := srv.Start(); startErr != nil {
			// The player still runs without its control socket.
			logger.Error("failed to start IPC server: %v", startErr)
			srv = nil
		}
	} else {
		logger.Info("IPC socket disabled by configuration")
	}

	watcher := watchConfig(*configPath)
	if watcher != nil {
		defer watcher.Close()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received %v, shutting down", sig)
		core.Shutdown()
	case <-core.Done():
		logger.Info("player core stopped, shutting down")
	}

	if srv != nil {
		srv.Stop()
	}
	return nil
}

// watchConfig applies log level and log path changes from the config
// file while the daemon runs. Returns nil when watching is unavailable.
func watchConfig(path string) *fsnotify.Watcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("config watching unavailable: %v", err)
		return nil
	}
	// Watch the directory so atomic rename-into-place updates are seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("failed to watch config directory: %v", err)
		watcher.Close()
		return nil
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != path {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				cfg, err := config.Load(path)
				if err != nil {
					logger.Warn("failed to reload config: %v", err)
					continue
				}
				level := logger.ParseLevel(cfg.LogLevel)
				if level != logger.Global().GetLevel() {
					logger.Info("log level changed to %s", cfg.LogLevel)
					logger.Global().SetLevel(level)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error: %v", err)
			}
		}
	}()
	return watcher
}
