package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/cloud"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/cloud/tencent"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/config"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/environment"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/inflight"
	ll "gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/logger"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/metrics"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/nginx"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/server/http"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/certificate"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/probe"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/rule"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/storage"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/storage/postgres"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/storage/sqlite"
)

//nolint:gochecknoglobals
var (
	version   = "unknown"
	buildTime = "unknown"
)

func main() {
	appConfig, err := config.New()
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("failed to read app config: %v", err)
	}

	logger, err := ll.New(version, appConfig.Env, appConfig.Logger.Level)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	ctx = environment.CtxWithEnv(ctx, appConfig.Env)
	ctx = environment.CtxWithVersion(ctx, version)
	ctx = environment.CtxWithBuildTime(ctx, buildTime)

	st, closeStorage, err := openStorage(ctx, logger, appConfig)
	if err != nil {
		logger.Error("failed to open storage", zap.String("driver", appConfig.Storage.Driver), zap.Error(err))
		return
	}
	defer closeStorage() //nolint:errcheck

	var ca cloud.CA
	if appConfig.Cloud.CloudEnabled() {
		tc, err := tencent.New(&appConfig.Cloud, logger)
		if err != nil {
			logger.Error("failed to create cloud CA client", zap.Error(err))
			return
		}
		ca = tc
	} else {
		logger.Info("cloud certificates are disabled")
	}

	registry := metrics.New()
	guard := inflight.New()

	ruleService := rule.NewService(st, nginx.New(&appConfig.Nginx, logger), guard, logger)
	certService := certificate.NewService(
		st,
		ca,
		ruleService,
		certificate.NewFiles(appConfig.Certs.Dir),
		guard,
		logger,
	)
	probeService := probe.New(ruleService, registry, logger, appConfig.Probe.Timeout)

	if err := ruleService.RenderAll(ctx); err != nil {
		logger.Error("failed to render stored rules", zap.Error(err))
	}

	httpServer, err := http.NewServer(logger, appConfig, ruleService, certService, registry)
	if err != nil {
		logger.Error("failed to create http server", zap.Error(err))
		return
	}

	gr, appctx := errgroup.WithContext(ctx)
	gr.Go(func() error {
		return httpServer.Serve(appctx)
	})

	gr.Go(func() error {
		return tick(appctx, logger, registry, "cert_refresh", appConfig.Tickers.CertRefresh, func(ctx context.Context) error {
			views, err := certService.List(ctx)
			if err != nil {
				return err
			}
			registry.ObserveCertificates(views)
			return nil
		})
	})

	if certService.CloudEnabled() {
		gr.Go(func() error {
			return tick(appctx, logger, registry, "cloud_sync", appConfig.Tickers.CloudSync, func(ctx context.Context) error {
				n, err := certService.SyncCloud(ctx)
				if err == nil && n > 0 {
					logger.Info("cloud certificates checked", zap.Int("count", n))
				}
				return err
			})
		})
	}

	if appConfig.Probe.Enabled {
		gr.Go(func() error {
			return tick(appctx, logger, registry, "probe", appConfig.Tickers.Probe, func(ctx context.Context) error {
				_, err := probeService.ProbeRules(ctx)
				return err
			})
		})
	}

	if err := gr.Wait(); err != nil {
		logger.Error("application exited with error", zap.Error(err))
	}
}

func openStorage(ctx context.Context, logger *zap.Logger, conf *config.AppConfig) (storage.Common, func() error, error) {
	switch conf.Storage.Driver {
	case config.DriverPostgres:
		pg, err := postgres.New(ctx, logger, &conf.Postgres)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	case config.DriverSQLite:
		lite, err := sqlite.New(ctx, logger, &conf.SQLite)
		if err != nil {
			return nil, nil, err
		}
		return lite, lite.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}

// tick runs job now and then every period until ctx is done. Job failures
// are logged and counted; they never stop the service.
func tick(
	ctx context.Context,
	logger *zap.Logger,
	registry *metrics.Registry,
	name string,
	period time.Duration,
	job func(ctx context.Context) error,
) error {
	run := func() {
		start := time.Now()
		err := job(ctx)
		registry.RecordTicker(name, err)
		if err != nil {
			logger.Error("background job failed", zap.String("job", name), zap.Error(err))
			return
		}
		logger.Debug("background job done", zap.String("job", name), zap.Duration("duration", time.Since(start)))
	}

	run()
	if period <= 0 {
		return nil
	}

	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			run()
		}
	}
}
