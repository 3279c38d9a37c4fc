package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridian-research/memogen/internal/api"
	"github.com/meridian-research/memogen/internal/config"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the memo and infographic flows over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initGenerator(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		srv := buildServer(cfg, env)

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

// buildServer assembles the http.Server from config and the generator
// environment. The --addr flag wins over config when set.
func buildServer(cfg *config.Config, env *generatorEnv) *http.Server {
	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	return &http.Server{
		Addr:         addr,
		Handler:      api.NewServer(cfg, env.Generator, env.Store, env.Registry),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address override (default from config)")
	rootCmd.AddCommand(serveCmd)
}
