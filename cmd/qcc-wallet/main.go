// Command qcc-wallet serves the local QCC wallet API.
// Usage: QCC_FILE_PATH=wallet.cwt go run ./cmd/qcc-wallet
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/qcc-wallet/internal/api"
	"github.com/AlexZinkM/qcc-wallet/internal/client"
	"github.com/AlexZinkM/qcc-wallet/internal/config"
	"github.com/AlexZinkM/qcc-wallet/internal/crypto"
	"github.com/AlexZinkM/qcc-wallet/internal/handler"
	"github.com/AlexZinkM/qcc-wallet/internal/keyring"
	"github.com/AlexZinkM/qcc-wallet/internal/logger"
	"github.com/AlexZinkM/qcc-wallet/qcc"
)

const shutdownTimeout = 10 * time.Second

// @title           QCC Wallet API
// @version         1.0
// @description     Local QCC wallet: key management, signing and payments.
// @BasePath        /
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.Init(); err != nil {
		return err
	}
	if err := logger.Init(config.GetLogLevel()); err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if err := config.PromptForPassword(); err != nil {
		return err
	}
	defer config.ClearPassword()

	backend := client.NewQCCClientFromConfig()

	keys := keyring.NewManager(crypto.FileKeySource{}, keyring.WithLogger(logger.L()))
	defer keys.OnTeardown()

	payer := qcc.NewPayer(keys, backend, config.GetPayCooldown())
	h, err := handler.NewQCCHandler(payer, backend)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           api.SetupRouter(h, api.NewLimiterFromConfig()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", srv.Addr, "wallet", config.GetWalletFilePath())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	keys.OnSuspend()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
