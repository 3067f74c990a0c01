package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gnana997/propgen/pkg/scanner"
	"github.com/gnana997/propgen/pkg/watch"
)

// WatchCmd regenerates outputs whenever component sources settle after a
// change.
type WatchCmd struct {
	Path        string `short:"p" help:"Root directory of the component sources" env:"PROPGEN_PATH"`
	OutputFlags `embed:""`
	DebounceMs  int `help:"Quiet period before a change is processed, in milliseconds" default:"200"`
}

// Run is called by kong when the watch command is executed.
func (c *WatchCmd) Run(logger *slog.Logger, project *ProjectConfig) error {
	root := resolveRoot(c.Path, project)

	s, err := scanner.NewScanner(logger, project.Scan)
	if err != nil {
		return err
	}
	defer s.Close()

	var mu sync.Mutex
	regenerate := func() {
		mu.Lock()
		defer mu.Unlock()
		comps, _, err := s.Run(root, project.Scan)
		if err != nil {
			logger.Error("scan failed", "path", root, "error", err)
			return
		}
		if err := writeOutputs(c.OutputFlags, root, comps, logger); err != nil {
			logger.Error("generate failed", "error", err)
		}
	}
	regenerate()

	w, err := startWatcher(root, c.DebounceMs, project, s, logger, regenerate)
	if err != nil {
		return err
	}
	defer w.Stop()

	logger.Info("watching for changes", "path", root)
	waitForSignal()
	return nil
}

// startWatcher watches root, invalidating changed files in s before
// calling onChange.
func startWatcher(
	root string,
	debounceMs int,
	project *ProjectConfig,
	s *scanner.Scanner,
	logger *slog.Logger,
	onChange func(),
) (*watch.Watcher, error) {
	opts := watch.DefaultOptions()
	opts.Scan = project.Scan
	if debounceMs > 0 {
		opts.DebounceMs = debounceMs
	}

	w, err := watch.New(root, opts, func(changed []string) {
		for _, path := range changed {
			s.Invalidate(path)
		}
		logger.Info("sources changed", "files", len(changed))
		onChange()
	}, logger)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w, nil
}

func waitForSignal() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
}
