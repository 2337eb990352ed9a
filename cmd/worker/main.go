package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/clinicore/clinic-api/config"
	"github.com/clinicore/clinic-api/internal/email"
	"github.com/clinicore/clinic-api/internal/repository/postgres"
	activitysvc "github.com/clinicore/clinic-api/internal/service/activity"
	notificationsvc "github.com/clinicore/clinic-api/internal/service/notification"
	waitinglistsvc "github.com/clinicore/clinic-api/internal/service/waitinglist"
	"github.com/clinicore/clinic-api/internal/worker"
	"github.com/clinicore/clinic-api/pkg/logger"
	redisbroker "github.com/clinicore/clinic-api/pkg/messaging/redis"
	"github.com/clinicore/clinic-api/pkg/metrics"
)

const workerHealthPort = 8081

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	appLogger := logger.New(&logger.Config{
		Level:   level,
		Pretty:  cfg.PrettyLogs,
		Service: "clinic-worker",
	})
	zlog.Logger = appLogger.ZL

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &appLogger.ZL)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	m := metrics.New("clinic_worker")

	userRepo := postgres.NewUserRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	waitingListRepo := postgres.NewWaitingListRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	activityRepo := postgres.NewActivityLogRepository(db)

	auditor := activitysvc.NewService(activityRepo)
	mailer := email.NewSMTPService(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	notifier := notificationsvc.NewService(notificationRepo, userRepo, m,
		notificationsvc.NewEmailSender(mailer),
		notificationsvc.NewInAppSender(broker),
	)
	waitingListService := waitinglistsvc.NewService(waitingListRepo, notifier, auditor, cfg.Jobs.PromoterBatchSize)

	promoter := worker.NewPromoterWorker(appointmentRepo, waitingListService, m, cfg.Jobs.PromoterInterval)
	reminder := worker.NewReminderWorker(appointmentRepo, notifier, m, cfg.Jobs.ReminderInterval, cfg.Jobs.ReminderLeadTime)
	retention := worker.NewRetentionWorker(waitingListRepo, activityRepo, m,
		cfg.Jobs.RetentionInterval, cfg.Jobs.WaitingListRetention, cfg.Jobs.ActivityLogRetention)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	for _, run := range []func(context.Context){promoter.Run, reminder.Run, retention.Run} {
		wg.Add(1)
		go func(run func(context.Context)) {
			defer wg.Done()
			run(ctx)
		}(run)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", workerHealthPort),
		Handler: mux,
	}
	go func() {
		appLogger.WithFields(map[string]interface{}{"port": workerHealthPort}).Info("worker health endpoint up")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error(err, "health server failed")
		}
	}()

	appLogger.Info("workers running")
	<-ctx.Done()
	appLogger.Info("shutting down workers")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	healthServer.Shutdown(shutdownCtx)
	wg.Wait()
	appLogger.Info("workers stopped")
}
