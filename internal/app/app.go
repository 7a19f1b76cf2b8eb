// Package app assembles the object graph of the finance server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/dig"

	"github.com/hongminglow/finance-be/internal/auth"
	"github.com/hongminglow/finance-be/internal/config"
	"github.com/hongminglow/finance-be/internal/events"
	"github.com/hongminglow/finance-be/internal/http/handlers"
	"github.com/hongminglow/finance-be/internal/middleware"
	"github.com/hongminglow/finance-be/internal/seed"
	"github.com/hongminglow/finance-be/internal/server"
	"github.com/hongminglow/finance-be/internal/service"
	"github.com/hongminglow/finance-be/internal/storage"
	"github.com/hongminglow/finance-be/internal/storage/postgres"
	"github.com/hongminglow/finance-be/internal/storage/sqlite"
)

// App is a fully wired server plus the resources it must release.
type App struct {
	Server  *server.Server
	Handler http.Handler
	Store   storage.Store

	publisher events.Publisher
}

// Close releases the store and the event broker connection.
func (a *App) Close() {
	if c, ok := a.publisher.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			logrus.WithError(err).Warn("close event publisher")
		}
	}
	if a.Store != nil {
		a.Store.Close()
	}
}

// Build wires every component from cfg, runs migrations and seeds the default categories.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	c := dig.New()
	providers := []any{
		func() context.Context { return ctx },
		func() config.Config { return cfg },
		openStore,
		func(s storage.Store) storage.UserStore { return s },
		func(s storage.Store) storage.SessionStore { return s },
		func(s storage.Store) storage.CategoryStore { return s },
		func(s storage.Store) storage.TransactionStore { return s },
		func(s storage.Store) storage.GoalStore { return s },
		newPublisher,
		service.SystemClock,
		func(cfg config.Config) *auth.TokenManager {
			return auth.NewTokenManager(cfg.Session.JWTSecret, cfg.Session.JWTIssuer, cfg.SessionTTL())
		},
		func(cfg config.Config) (*middleware.Limiter, error) {
			proxies, err := cfg.ProxyNetworks()
			if err != nil {
				return nil, err
			}
			return middleware.NewLimiter(cfg.LoginRatePerMinute, proxies), nil
		},

		service.NewUserService,
		service.NewCategoryService,
		service.NewTransactionService,
		service.NewGoalService,
		service.NewReportService,

		func(cfg config.Config, users *service.UserService, limiter *middleware.Limiter) *handlers.AuthHandler {
			return handlers.NewAuthHandler(users, limiter, cfg.Session.CookieName)
		},
		func(s storage.Store) *handlers.HealthHandler { return handlers.NewHealthHandler(time.Now(), s) },
		handlers.NewCategoryHandler,
		handlers.NewTransactionHandler,
		handlers.NewGoalHandler,
		handlers.NewReportHandler,
		newRoutes,
		func(cfg config.Config, users *service.UserService, routes server.Routes) http.Handler {
			return server.NewHandler(cfg, users, routes)
		},
		server.New,
	}
	for _, p := range providers {
		if err := c.Provide(p); err != nil {
			return nil, fmt.Errorf("register provider: %w", err)
		}
	}

	// Resources are resolved in order so a failure releases what is already open.
	app := &App{}
	if err := c.Invoke(func(store storage.Store) { app.Store = store }); err != nil {
		return nil, dig.RootCause(err)
	}
	if err := c.Invoke(func(publisher events.Publisher) { app.publisher = publisher }); err != nil {
		app.Close()
		return nil, dig.RootCause(err)
	}
	err := c.Invoke(func(handler http.Handler, srv *server.Server) error {
		app.Server, app.Handler = srv, handler
		defaults, err := seed.Defaults()
		if err != nil {
			return err
		}
		return seed.Categories(ctx, app.Store, defaults)
	})
	if err != nil {
		app.Close()
		return nil, dig.RootCause(err)
	}
	return app, nil
}

type routeParams struct {
	dig.In

	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	Categories   *handlers.CategoryHandler
	Transactions *handlers.TransactionHandler
	Goals        *handlers.GoalHandler
	Reports      *handlers.ReportHandler
}

func newRoutes(p routeParams) server.Routes {
	return server.Routes{
		Public:    []server.Registrar{p.Health, p.Auth},
		Protected: []server.Registrar{p.Categories, p.Transactions, p.Goals, p.Reports},
	}
}

var openStore = OpenStore

// OpenStore connects to the configured storage backend.
func OpenStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.DataBackend {
	case config.BackendSQLite:
		logrus.WithField("path", cfg.SQLitePath).Info("using sqlite storage")
		return sqlite.New(ctx, cfg.SQLitePath)
	case config.BackendPostgres:
		logrus.Info("using postgres storage")
		return postgres.New(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}

func newPublisher(cfg config.Config) (events.Publisher, error) {
	if cfg.AMQP.URL == "" {
		logrus.Info("AMQP_URL not set; domain events are disabled")
		return events.Nop{}, nil
	}
	p, err := events.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange)
	if err != nil {
		return nil, err
	}
	return p, nil
}
