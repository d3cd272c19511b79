package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arena-fleet/internal/config"
	"arena-fleet/internal/logging"
	"arena-fleet/internal/orchestrator"
	httptransport "arena-fleet/internal/transport/http"
	"arena-fleet/internal/wallet"

	"github.com/rs/zerolog/log"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)
	defer func() { _ = logging.Close() }()

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("load server config failed")
	}

	keys, err := wallet.NewKeyring(cfg.WalletSecretHex)
	if err != nil {
		log.Fatal().Err(err).Msg("wallet keyring init failed")
	}

	orch := orchestrator.New(cfg, keys)
	if err := orch.Boot(); err != nil {
		log.Fatal().Err(err).Msg("boot failed")
	}

	r := httptransport.NewRouter(orch, cfg)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("http shutdown failed")
	}
	// Flushes the final snapshot and stops every actor.
	orch.Close()
	log.Info().Msg("orchestrator stopped")
}
