package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"

	"github.com/nekogravitycat/court-rental-backend/internal/app"
	"github.com/nekogravitycat/court-rental-backend/internal/config"
	"github.com/nekogravitycat/court-rental-backend/internal/db"
	"github.com/nekogravitycat/court-rental-backend/internal/events"
	"github.com/nekogravitycat/court-rental-backend/internal/logger"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/response"
)

func main() {
	fx.New(
		fx.NopLogger,
		fx.Provide(
			config.Load,
			newLogger,
			newPool,
			db.NewSQLX,
			newPublisher,
			newContainer,
			newServer,
		),
		fx.Invoke(func(*http.Server) {}),
	).Run()
}

func newLogger(cfg *config.Config) *logrus.Logger {
	l := logger.New(cfg.LogLevel, cfg.LogFormat)
	response.SetLogger(l)
	if !cfg.DotEnvLoaded {
		l.Debug("no .env file, using process environment only")
	}
	return l
}

func newPool(lc fx.Lifecycle, cfg *config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return nil, errors.Wrap(err, "connect to db")
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})
	return pool, nil
}

// newPublisher falls back to dropping events when no broker is configured.
func newPublisher(lc fx.Lifecycle, cfg *config.Config, log *logrus.Logger) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		log.Info("AMQP_URL not set, domain events are disabled")
		return events.NoopPublisher{}, nil
	}

	pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, errors.Wrap(err, "connect to broker")
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return pub.Close() },
	})
	return pub, nil
}

func newContainer(
	cfg *config.Config,
	pool *pgxpool.Pool,
	sqlxDB *sqlx.DB,
	pub events.Publisher,
	log *logrus.Logger,
) (*app.Container, error) {
	return app.NewContainer(app.Config{
		IsProduction:    cfg.IsProduction(),
		ClientOrigin:    cfg.ClientOrigin,
		DBPool:          pool,
		SQLX:            sqlxDB,
		Publisher:       pub,
		Logger:          log,
		JWTSecret:       cfg.JWTSecret,
		JWTTTL:          cfg.JWTTTL,
		BcryptCost:      cfg.BcryptCost,
		StripeSecretKey: cfg.StripeSecretKey,
		StoragePath:     cfg.StoragePath,
	})
}

// newServer binds the listener on start and drains requests for up to 5s on stop.
func newServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	cfg *config.Config,
	c *app.Container,
	l *logrus.Logger,
) *http.Server {
	server := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           c.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return errors.Wrapf(err, "listen on %s", server.Addr)
			}
			l.WithField("addr", server.Addr).Info("server running")
			go serve(server, ln, sd, l)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			l.Info("shutdown signal received")
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return errors.Wrap(err, "server forced to shutdown")
			}
			l.Info("server exited gracefully")
			return nil
		},
	})
	return server
}

// serve blocks until the server stops. An unexpected failure shuts the app
// down through fx so the OnStop hooks still run.
func serve(server *http.Server, ln net.Listener, sd fx.Shutdowner, l logrus.FieldLogger) {
	err := server.Serve(ln)
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return
	}
	l.WithError(err).Error("server stopped unexpectedly")
	if err := sd.Shutdown(fx.ExitCode(1)); err != nil {
		l.WithError(err).Error("request app shutdown")
	}
}
