package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/clive/forget-me-not/internal/exitcode"
	"github.com/clive/forget-me-not/internal/lifecycle"
	"github.com/clive/forget-me-not/internal/tui"
)

// runScreen opens the task list screen
func runScreen(cmd *cobra.Command, opts *globalOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := newFileLogger(cfg)
	if err != nil {
		return withCode(exitcode.StorageError, err)
	}
	defer closeLog()

	s, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	logger.Info("screen starting", "backend", cfg.Backend, "store", cfg.StoreName, "config", cfg.Source)

	p := tea.NewProgram(
		tui.NewRootModel(s.ctrl, tui.Options{
			TickInterval: cfg.TickInterval,
			Debug:        cfg.Debug,
			Logger:       logger,
		}),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(cmd.Context()),
	)

	_, runErr := p.Run()

	// A killed program never delivered quit; save what we have
	if s.ctrl.State() != lifecycle.Destroyed {
		if err := s.ctrl.Background(); err != nil {
			logger.Error("save tasks on exit", "error", err)
			return withCode(exitcode.StorageError, err)
		}
	}

	if runErr != nil {
		logger.Error("screen stopped", "error", runErr)
		return fmt.Errorf("running screen: %w", runErr)
	}
	logger.Info("screen stopped")
	return nil
}
