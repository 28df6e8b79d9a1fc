package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eventreport/backend/modules/admin"
	"github.com/eventreport/backend/modules/auth"
	"github.com/eventreport/backend/modules/event"
	"github.com/eventreport/backend/modules/live"
	"github.com/eventreport/backend/modules/notifier"
	"github.com/eventreport/backend/pkg/blob"
	"github.com/eventreport/backend/pkg/broadcast"
	"github.com/eventreport/backend/pkg/clientip"
	"github.com/eventreport/backend/pkg/config"
	"github.com/eventreport/backend/pkg/email"
	"github.com/eventreport/backend/pkg/httpserver"
	"github.com/eventreport/backend/pkg/jwt"
	"github.com/eventreport/backend/pkg/logger"
	appmongo "github.com/eventreport/backend/pkg/mongo"
	"github.com/eventreport/backend/pkg/metrics"
	"github.com/eventreport/backend/pkg/requestid"
	"github.com/eventreport/backend/pkg/sms"
	"github.com/eventreport/backend/pkg/worker"
)

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"APP_NAME" envDefault:"eventreport-api"`
}

func main() {
	var appCfg appConfig
	config.MustLoad(&appCfg)

	log := logger.New(logger.WithEnvironment(appCfg.Environment, appCfg.ServiceName))
	logger.SetAsDefault(log)

	if err := run(context.Background(), appCfg, log); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, appCfg appConfig, log *slog.Logger) error {
	var (
		mongoCfg  appmongo.Config
		httpCfg   httpserver.Config
		emailCfg  email.Config
		smsCfg    sms.Config
		authCfg   auth.Config
		fanoutCfg notifier.Config
	)
	config.MustLoad(&mongoCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&emailCfg)
	config.MustLoad(&smsCfg)
	config.MustLoad(&authCfg)
	config.MustLoad(&fanoutCfg)

	db, err := appmongo.NewWithDatabase(ctx, mongoCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Error("failed to disconnect from mongodb", logger.Error(err))
		}
	}()

	m := metrics.New()

	// Repositories and index bootstrap.
	userRepo := auth.NewRepository(db)
	adminRepo := admin.NewRepository(db)
	eventRepo := event.NewRepository(db)
	ledger := notifier.NewMongoLedger(db)
	if err := ensureIndexes(ctx, userRepo, adminRepo, eventRepo, ledger); err != nil {
		return err
	}

	blobs, err := blob.NewGridFS(db)
	if err != nil {
		return err
	}

	// Delivery channels.
	var mailer email.EmailSender
	if emailCfg.Configured() {
		mailer, err = email.NewPostmarkClient(emailCfg)
		if err != nil {
			return err
		}
	} else {
		log.Warn("postmark is not configured, writing emails to disk",
			slog.String("dir", emailCfg.DevDir))
		mailer = email.NewDevSender(emailCfg.DevDir)
	}
	smsSender := sms.New(smsCfg)
	if !smsCfg.Configured() {
		log.Warn("twilio is not configured, SMS deliveries will be recorded as failed")
	}

	// Notification pipeline.
	fanout := notifier.NewFanout(fanoutCfg, adminRepo, ledger, mailer, smsSender, m, log)
	pool := worker.NewPool(
		worker.WithWorkers(4),
		worker.WithQueueSize(256),
		worker.WithLogger(log),
	)
	if err := pool.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := pool.Stop(); err != nil {
			log.Error("worker pool shutdown failed", logger.Error(err))
		}
	}()

	// Live feed.
	hub := broadcast.NewHub[event.BroadcastMessage](broadcast.Config{
		DefaultBufferSize: 32,
		ShutdownTimeout:   10 * time.Second,
		MetricsCallback: func(subscribers int) {
			m.LiveSubscribers.Set(float64(subscribers))
		},
	})
	defer func() {
		if err := hub.Close(); err != nil {
			log.Error("broadcast hub shutdown failed", logger.Error(err))
		}
	}()

	jwtSvc, err := jwt.NewFromString(authCfg.JWTSigningKey)
	if err != nil {
		return err
	}

	authSvc := auth.NewService(authCfg, userRepo, jwtSvc, mailer, log)
	eventSvc := event.NewService(eventRepo, fanout, pool, hub, blobs, m, log)

	authHandler := auth.NewHandler(authSvc, log)
	adminHandler := admin.NewHandler(adminRepo, log)
	eventHandler := event.NewHandler(eventSvc, log)
	liveHandler := live.NewHandler(hub, log)
	smsHandler := notifier.NewHandler(fanoutCfg, smsSender, log)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"message":"EventReport Backend is running!"}`))
	})
	r.Get("/health", httpserver.HealthCheckHandler(ctx, log, appmongo.Healthcheck(db.Client())))
	r.Handle("/metrics", promhttp.Handler())

	r.Mount("/auth", authHandler.Routes())
	r.Mount("/admins", adminHandler.Routes(authSvc.RequireUser))
	r.Mount("/events", eventHandler.Routes(authSvc.RequireUser))
	r.Mount("/sms", smsHandler.Routes(authSvc.RequireUser))
	r.Get("/images/{imageID}", eventHandler.ImageHandler)
	r.Handle("/ws/events", liveHandler)

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

// requestLogger emits one structured line per request, tagged with the
// correlation id and resolved client address.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("http request",
				slog.String("request_id", requestid.FromContext(r.Context())),
				slog.String("client_ip", clientip.GetIPFromContext(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// ensureIndexes creates all collection indexes before the server
// starts accepting traffic.
func ensureIndexes(ctx context.Context, userRepo *auth.Repository, adminRepo *admin.Repository, eventRepo *event.Repository, ledger *notifier.MongoLedger) error {
	for _, fn := range []func(context.Context) error{
		userRepo.EnsureIndexes,
		adminRepo.EnsureIndexes,
		eventRepo.EnsureIndexes,
		ledger.EnsureIndexes,
	} {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return nil
}

