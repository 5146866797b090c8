package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"bugtracker/internal/api"
	"bugtracker/internal/bugs"
	"bugtracker/internal/config"
	"bugtracker/internal/store"
)

// BugApp is the application layer between the CLI and the HTTP API.
// It constructs all dependencies from config, serves the API, and releases
// the store and log file on Close.
type BugApp struct {
	cfg             *config.Config
	store           bugs.Store
	service         *bugs.BugService
	handler         http.Handler
	logger          *slog.Logger
	logFile         *os.File
	shutdownTimeout time.Duration

	// ready is closed once the listener is bound; addr is valid after that.
	ready chan struct{}
	addr  net.Addr
}

// NewBugApp creates a fully wired BugApp from the given config.
// The caller must call Close when done.
func NewBugApp(cfg *config.Config) (*BugApp, error) {
	if cfg.Server.Address == "" {
		return nil, fmt.Errorf("no server address configured")
	}

	shutdownTimeout, err := cfg.Server.ShutdownGrace()
	if err != nil {
		return nil, err
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	logger, logFile, err := newLogger(cfg.LogDir, cfg.InstanceID, level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	st, err := store.NewStoreFromConfig(cfg.Store)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, fmt.Errorf("creating store: %w", err)
	}

	log := &slogAdapter{l: logger}
	svc := bugs.NewBugService(st, log, bugs.RealClock{})

	return &BugApp{
		cfg:             cfg,
		store:           st,
		service:         svc,
		handler:         api.NewHandler(svc, log, api.UUIDRequestIDs{}),
		logger:          logger,
		logFile:         logFile,
		shutdownTimeout: shutdownTimeout,
		ready:           make(chan struct{}),
	}, nil
}

// Handler returns the HTTP handler serving the bug API.
func (a *BugApp) Handler() http.Handler {
	return a.handler
}

// Ready returns a channel that is closed once Serve is accepting connections.
func (a *BugApp) Ready() <-chan struct{} {
	return a.ready
}

// Addr returns the resolved listen address. Only valid after Ready is closed.
func (a *BugApp) Addr() net.Addr {
	return a.addr
}

// Serve listens on the configured address and serves the API until ctx is
// cancelled, then stops accepting connections and waits up to the configured
// shutdown timeout for in-flight requests.
func (a *BugApp) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.Server.Address, err)
	}
	a.addr = listener.Addr()
	close(a.ready)

	server := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("http server listening", "address", a.addr.String(), "store", a.cfg.Store.Type)

	serveDone := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveDone <- err
		}
		close(serveDone)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("http server shutting down")
	case err := <-serveDone:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", "error", err)
		return fmt.Errorf("http server shutdown: %w", err)
	}

	a.logger.Info("http server stopped")
	return nil
}

// Close releases the store and the log file. Every bug held by the store is
// discarded.
func (a *BugApp) Close() error {
	var firstErr error

	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}

	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}

	return firstErr
}
