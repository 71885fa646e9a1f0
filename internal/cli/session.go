package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/clive/forget-me-not/internal/clock"
	"github.com/clive/forget-me-not/internal/config"
	"github.com/clive/forget-me-not/internal/controller"
	"github.com/clive/forget-me-not/internal/exitcode"
	"github.com/clive/forget-me-not/internal/prefs"
	"github.com/clive/forget-me-not/internal/taskstore"
)

// loadConfig reads the config file and applies flag overrides
func loadConfig(opts *globalOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, withCode(exitcode.ConfigError, err)
	}
	if opts.backend != "" {
		cfg.Backend = prefs.Backend(opts.backend)
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}
	if opts.store != "" {
		cfg.StoreName = opts.store
	}
	if opts.debug {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, withCode(exitcode.ConfigError, fmt.Errorf("config validation: %w", err))
	}
	return cfg, nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// newLogger returns a text logger for headless commands
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
}

// newFileLogger returns a JSON logger writing to the config's log file.
// The screen owns the terminal, so nothing may log to stdout or stderr.
func newFileLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	if cfg.Backend == prefs.BackendMemory && cfg.DataDir == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() {}, nil
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data directory: %w", err)
	}
	f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	return logger, func() { f.Close() }, nil
}

// session is an opened preference store with a controller on top
type session struct {
	prefs prefs.Store
	ctrl  *controller.Controller
}

func openSession(cfg *config.Config, logger *slog.Logger) (*session, error) {
	p, err := prefs.Open(cfg.Backend, cfg.DataDir, cfg.StoreName)
	if err != nil {
		return nil, withCode(exitcode.StorageError, err)
	}
	logger.Debug("preference store opened", "backend", cfg.Backend, "store", cfg.StoreName)

	ctrl := controller.New(taskstore.New(p), clock.NewReceiver(nil), logger)
	return &session{prefs: p, ctrl: ctrl}, nil
}

func (s *session) Close() error {
	return s.prefs.Close()
}

// headless runs fn between Start and Stop, so restore and persist follow
// the same path as the screen
func headless(opts *globalOptions, stderr io.Writer, fn func(ctrl *controller.Controller) error) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger := newLogger(stderr, cfg)

	s, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.ctrl.Start(); err != nil {
		return withCode(exitcode.StorageError, err)
	}
	fnErr := fn(s.ctrl)
	if err := s.ctrl.Stop(); err != nil {
		return withCode(exitcode.StorageError, err)
	}
	if err := s.ctrl.Destroy(); err != nil {
		logger.Warn("destroy controller", "error", err)
	}
	return fnErr
}
