package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"hwStore/config"
	"hwStore/handlers"
	"hwStore/repository"
	"hwStore/services"
)

func main() {
	app := &cli.App{
		Name:     "hwstore",
		Usage:    "example storefront: host server and terminal client",
		Metadata: map[string]interface{}{},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err = cfg.InitLogging(); err != nil {
				return err
			}
			c.App.Metadata["config"] = cfg
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "serve the storefront API and static bundle",
				Action: serve,
			},
			catalogCommand,
			productCommand,
			cartCommand,
			checkoutCommand,
			pageCommand,
			importCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("hwstore failed")
	}
}

func configFrom(c *cli.Context) config.Config {
	return c.App.Metadata["config"].(config.Config)
}

func serve(c *cli.Context) error {
	cfg := configFrom(c)

	db, err := repository.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	log.WithField("driver", cfg.DatabaseDriver).Info("db connected")

	pR, err := repository.NewProductRepository(db)
	if err != nil {
		return err
	}
	oR, err := repository.NewOrderRepository(db)
	if err != nil {
		return err
	}
	hp := handlers.HandlerParams{
		PrdService: services.NewProductService(pR),
		OrdService: services.NewOrderService(pR, oR),
	}
	ha := handlers.NewHandler(hp)

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Port),
		Handler: handlers.NewRouter(ha, cfg.BasePath, cfg.StaticDir),
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("storefront listening at http://localhost:%d%s", cfg.Port, cfg.BasePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
