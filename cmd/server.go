package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/askbox/internal/app"
	"github.com/example/askbox/internal/config"
	"github.com/example/askbox/internal/directory"
	"github.com/example/askbox/internal/questions"
	"github.com/example/askbox/internal/session"
	"github.com/example/askbox/internal/store"
	"github.com/example/askbox/internal/token"
	"github.com/example/askbox/internal/web"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Run the web app",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			logger := zap.Must(zap.NewProduction()).Sugar()
			defer func() { _ = logger.Sync() }()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			st, err := store.Open(cfg.DataFile, logger)
			if err != nil {
				return err
			}

			dir := directory.New(st)
			repo := questions.NewRepo(st)
			sessions := session.NewManager(token.NewCodec(), st, dir, logger)
			a := app.New(sessions, dir, repo)

			srv := &web.Server{
				App:     a,
				Cookies: web.NewCookieManager(cfg.CookieHashKey, cfg.CookieBlockKey),
				BaseURL: cfg.BaseURL,
				Log:     logger,
			}
			return web.Start(ctx, cfg.ListenAddr, srv.Routes(), logger)
		},
	}
}
