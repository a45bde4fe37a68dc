package subscription

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/nebulanet/panel/core/worker"
	"github.com/nebulanet/panel/internal/config"
	"github.com/nebulanet/panel/internal/postgres"
	"github.com/nebulanet/panel/modules/subscription/api/httphandler"
	"github.com/nebulanet/panel/modules/subscription/audit"
	repository "github.com/nebulanet/panel/modules/subscription/repository/postgres"
	"github.com/nebulanet/panel/modules/subscription/usecase"
	"github.com/nebulanet/panel/pkg/alertclient"
	"github.com/nebulanet/panel/pkg/codegen"
	"github.com/nebulanet/panel/pkg/logger"
	"github.com/samber/do/v2"
)

const Version = "v0.1.0"

// Module owns the subscription service resources. Its worker half runs the
// audit exporter when enabled, otherwise it just parks until shutdown.
type Module struct {
	exporter     *audit.Exporter
	cleanupFuncs []func(context.Context) error

	quitOnce sync.Once
	quit     chan struct{}
}

func New(injector do.Injector) (worker.Worker, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)

	pg, err := postgres.NewPool(ctx, conf.Postgres)
	if err != nil {
		return nil, fmt.Errorf("can't create postgres connection : %w", err)
	}
	var cleanupFuncs []func(context.Context) error
	cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
		pg.Close()
		return nil
	})
	repository := repository.NewRepository(pg)

	var alerter usecase.Alerter
	if !conf.Alert.Disabled {
		alertClient, err := alertclient.New(conf.Alert)
		if err != nil {
			return nil, errors.Wrap(err, "invalid alert configuration")
		}
		alerter = alertClient
	}

	subscriptionUsecase := usecase.New(repository, codegen.New(), alerter, conf.Subscription)

	httpServer := do.MustInvoke[*fiber.App](injector)
	subscriptionHandler := httphandler.New(subscriptionUsecase)
	if err := subscriptionHandler.Mount(httpServer); err != nil {
		return nil, fmt.Errorf("can't mount subscription API : %w", err)
	}
	logger.InfoContext(ctx, "Mounted subscription HTTP handler")

	var exporter *audit.Exporter
	if !conf.AuditExport.Disabled {
		exporter, err = audit.New(ctx, repository, conf.AuditExport)
		if err != nil {
			return nil, errors.Wrap(err, "can't create audit exporter")
		}
	}

	logger.InfoContext(ctx, "Subscription module started.")
	return &Module{
		exporter:     exporter,
		cleanupFuncs: cleanupFuncs,
		quit:         make(chan struct{}),
	}, nil
}

func (m *Module) Run(ctx context.Context) error {
	if m.exporter != nil {
		return errors.WithStack(m.exporter.Run(ctx))
	}
	select {
	case <-m.quit:
	case <-ctx.Done():
	}
	return nil
}

func (m *Module) ShutdownWithTimeout(timeout time.Duration) error {
	m.quitOnce.Do(func() {
		close(m.quit)
	})
	if m.exporter != nil {
		if err := m.exporter.ShutdownWithTimeout(timeout); err != nil {
			return errors.WithStack(err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	for _, cleanupFunc := range m.cleanupFuncs {
		if err := cleanupFunc(ctx); err != nil {
			return errors.Wrap(err, "cleanup function error")
		}
	}
	return nil
}
