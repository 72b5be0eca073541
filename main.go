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

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"

	"github.com/ChrisTheAbysswalker/nyanko/config"
	h "github.com/ChrisTheAbysswalker/nyanko/handlers"
	"github.com/ChrisTheAbysswalker/nyanko/logger"
	s "github.com/ChrisTheAbysswalker/nyanko/services"
)

func main() {
	app := &cli.Command{
		Name:           "nyanko",
		Usage:          "きょうのにゃんこ: un gato al azar por visita",
		DefaultCommand: "serve",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "archivo de configuración (.env, yaml, json)",
				Sources: cli.EnvVars("NYANKO_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "levanta el servidor web",
				Action: serve,
			},
			{
				Name:  "fetch",
				Usage: "pide un gato a la API y muestra su URL",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "preview",
						Usage: "pinta el gato en la terminal",
					},
				},
				Action: fetch,
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.WithError(err).Fatal("❌ Error")
	}
}

func load(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.Config{}, err
	}
	logger.Init(cfg.LogLevel)
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := load(cmd)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)

	catService := s.NewCatService(cfg.CatAPIURL, cfg.FetchTimeout)
	catHandler := h.NewCatHandler(catService, s.NewPreviewService(cfg.FetchTimeout, cfg.PreviewCols, cfg.PreviewRows), cfg.Caption)

	router := h.NewRouter(catHandler, h.RouterOptions{
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      2*cfg.FetchTimeout + 5*time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Infof("🚀 Nyanko corriendo en %s", cfg.BaseURL)
	log.Infof("📡 Endpoints disponibles:")
	log.Infof("   • GET  %s/            - Página con un gato", cfg.BaseURL)
	log.Infof("   • GET  %s/api/cat     - Otro gato (JSON)", cfg.BaseURL)
	log.Infof("   • GET  %s/api/health  - Health check", cfg.BaseURL)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("error al iniciar el servidor: %w", err)
	case <-ctx.Done():
	}

	log.Info("🛑 Apagando servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func fetch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := load(cmd)
	if err != nil {
		return err
	}

	image, err := s.NewCatService(cfg.CatAPIURL, cfg.FetchTimeout).FetchCatImage(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("preview") {
		art, err := s.NewPreviewService(cfg.FetchTimeout, cfg.PreviewCols, cfg.PreviewRows).Preview(ctx, image.URL)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, art)
	}

	fmt.Fprintln(os.Stdout, image.URL)
	return nil
}
