// launching the server, DB, scheduler
package appServer

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/abfall-notifier/config"
	"github.com/ds124wfegd/abfall-notifier/internal/calendar"
	repository "github.com/ds124wfegd/abfall-notifier/internal/database/postgres"
	"github.com/ds124wfegd/abfall-notifier/internal/service"
	"github.com/ds124wfegd/abfall-notifier/internal/transport"
	"github.com/ds124wfegd/abfall-notifier/pkg/postgres"
	"github.com/ds124wfegd/abfall-notifier/pkg/scheduler"

	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	if cfg.WebPush.PublicKey == "" || cfg.WebPush.PrivateKey == "" {
		logrus.Warn("VAPID keys not configured, push delivery will fail")
	}

	// Initialize database
	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logrus.Fatalf("Failed to load timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	// Initialize repositories
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	dispatchLogRepo := repository.NewDispatchLogRepository(db)

	// Initialize services
	loader := calendar.NewLoader(cfg.Calendar.File)
	sender := service.NewWebPushSender(&cfg.WebPush)
	subscriptionService := service.NewSubscriptionUseCase(subscriptionRepo)
	dispatchService := service.NewDispatchService(subscriptionRepo, loader, sender, loc)

	// Initialize and start the daily scheduler
	dailyScheduler := scheduler.NewScheduler(dispatchService, dispatchLogRepo, cfg.Scheduler.Cron, loc)
	if err := dailyScheduler.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer dailyScheduler.Stop()

	router := transport.InitRoutes(cfg, subscriptionService, dispatchService)

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, router); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Error occurred while running http server: %s", err.Error())
		}
	}()

	logrus.Infof("Server is running on port %s", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Info("Server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Error occurred on server shutting down: %s", err.Error())
	}
}
