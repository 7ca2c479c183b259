package agent

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ritual-app/ritual/internal/constants"
	"github.com/ritual-app/ritual/internal/keyring"
	"github.com/ritual-app/ritual/internal/logger"
)

// Run starts the notification agent: the timer engine, the delivery loop, and
// the loopback HTTP API. It writes a lockfile ("port|pid|secret") so the CLI
// can discover the running instance, and blocks until ctx is cancelled.
func Run(ctx context.Context, listen string) error {
	if listen == "" {
		listen = constants.DefaultAgentListen
	}

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", listen, err)
	}

	secret := uuid.New().String()
	if err := keyring.SetAgentSecret(secret); err != nil {
		// The lockfile still carries the secret, so a missing keyring only
		// costs the fallback path.
		logger.Warn("Failed to store agent secret in keyring", "error", err)
	}

	port := ln.Addr().(*net.TCPAddr).Port
	lockfile, err := writeLockfile(port, secret)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer os.Remove(lockfile)

	engine := NewEngine(constants.AgentQueueSize)
	engine.Start()
	defer engine.Stop()

	deliverer := NewTrayDeliverer()
	go deliveryLoop(engine, deliverer)

	srv := &http.Server{Handler: NewServer(engine, deliverer, secret).Router()}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	logger.Info("Agent listening", "port", port)
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// deliveryLoop drains due reminders from the engine and hands them to the
// deliverer. Delivery failures are logged and dropped; the reminder channel is
// best-effort by design.
func deliveryLoop(engine *Engine, deliverer Deliverer) {
	for req := range engine.C() {
		remindersPending.Set(float64(len(engine.Pending())))
		if err := deliverer.Deliver(req); err != nil {
			remindersFired.WithLabelValues("error").Inc()
			logger.Warn("Failed to deliver reminder", "external_id", req.ID, "error", err)
			continue
		}
		remindersFired.WithLabelValues("ok").Inc()
		logger.Debug("Delivered reminder", "external_id", req.ID)
	}
}

func writeLockfile(port int, secret string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	dir := filepath.Join(configDir, constants.AppName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(dir, constants.AgentLockfileName)
	content := fmt.Sprintf("%d|%d|%s", port, os.Getpid(), secret)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("failed to write agent lockfile: %w", err)
	}
	return path, nil
}
