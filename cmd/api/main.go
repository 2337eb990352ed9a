package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/clinicore/clinic-api/config"
	"github.com/clinicore/clinic-api/internal/email"
	"github.com/clinicore/clinic-api/internal/gateway"
	adminhandler "github.com/clinicore/clinic-api/internal/handler/admin"
	appointmenthandler "github.com/clinicore/clinic-api/internal/handler/appointment"
	authhandler "github.com/clinicore/clinic-api/internal/handler/auth"
	clinichandler "github.com/clinicore/clinic-api/internal/handler/clinic"
	consultationhandler "github.com/clinicore/clinic-api/internal/handler/consultation"
	doctorhandler "github.com/clinicore/clinic-api/internal/handler/doctor"
	healthhandler "github.com/clinicore/clinic-api/internal/handler/health"
	notificationhandler "github.com/clinicore/clinic-api/internal/handler/notification"
	specialtyhandler "github.com/clinicore/clinic-api/internal/handler/specialty"
	uploadhandler "github.com/clinicore/clinic-api/internal/handler/upload"
	userhandler "github.com/clinicore/clinic-api/internal/handler/user"
	waitinglisthandler "github.com/clinicore/clinic-api/internal/handler/waitinglist"
	"github.com/clinicore/clinic-api/internal/repository/postgres"
	"github.com/clinicore/clinic-api/internal/router"
	activitysvc "github.com/clinicore/clinic-api/internal/service/activity"
	appointmentsvc "github.com/clinicore/clinic-api/internal/service/appointment"
	authsvc "github.com/clinicore/clinic-api/internal/service/auth"
	clinicsvc "github.com/clinicore/clinic-api/internal/service/clinic"
	consultationsvc "github.com/clinicore/clinic-api/internal/service/consultation"
	doctorsvc "github.com/clinicore/clinic-api/internal/service/doctor"
	notificationsvc "github.com/clinicore/clinic-api/internal/service/notification"
	specialtysvc "github.com/clinicore/clinic-api/internal/service/specialty"
	statssvc "github.com/clinicore/clinic-api/internal/service/stats"
	usersvc "github.com/clinicore/clinic-api/internal/service/user"
	waitinglistsvc "github.com/clinicore/clinic-api/internal/service/waitinglist"
	"github.com/clinicore/clinic-api/pkg/auth"
	"github.com/clinicore/clinic-api/pkg/logger"
	redisbroker "github.com/clinicore/clinic-api/pkg/messaging/redis"
	"github.com/clinicore/clinic-api/pkg/metrics"
	"github.com/clinicore/clinic-api/pkg/security"
	"github.com/clinicore/clinic-api/pkg/upload"
)

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
		Service: "clinic-api",
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

	m := metrics.New("clinic")
	jwtService := auth.NewJWTService(auth.Config{
		Secret:             cfg.JWT.Secret,
		RefreshSecret:      cfg.JWT.RefreshSecret,
		ExpiryHours:        cfg.JWT.ExpiryHours,
		RefreshExpiryHours: cfg.JWT.RefreshExpiryHours,
	})
	hasher := security.NewBcryptHasher(0)

	storage, err := upload.NewStorage(upload.Config{
		BaseDir:      cfg.Upload.BaseDir,
		MaxSizeBytes: cfg.Upload.MaxSizeMB << 20,
		AllowedMIMEs: cfg.Upload.AllowedMIMEs,
	})
	if err != nil {
		appLogger.Fatal(err, "failed to init upload storage")
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	clinicRepo := postgres.NewClinicRepository(db)
	specialtyRepo := postgres.NewSpecialtyRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	consultationRepo := postgres.NewConsultationRepository(db)
	messageRepo := postgres.NewMessageRepository(db)
	waitingListRepo := postgres.NewWaitingListRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	activityRepo := postgres.NewActivityLogRepository(db)
	statsRepo := postgres.NewStatsRepository(db)

	// Services
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
		notificationsvc.NewNotImplementedSender("sms"),
		notificationsvc.NewNotImplementedSender("push"),
	)
	authService := authsvc.NewService(userRepo, jwtService, hasher, auditor)
	userService := usersvc.NewService(userRepo, hasher, auditor)
	clinicService := clinicsvc.NewService(clinicRepo, auditor)
	specialtyService := specialtysvc.NewService(specialtyRepo)
	doctorService := doctorsvc.NewService(doctorRepo, appointmentRepo, auditor)
	appointmentService := appointmentsvc.NewService(appointmentRepo, doctorRepo, auditor)
	consultationService := consultationsvc.NewService(consultationRepo, messageRepo, appointmentRepo, auditor)
	waitingListService := waitinglistsvc.NewService(waitingListRepo, notifier, auditor, cfg.Jobs.PromoterBatchSize)
	statsService := statssvc.NewService(statsRepo)

	// Gateway
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	presence := gateway.NewRedisPresence(broker.Client())
	hub := gateway.NewHub(broker, presence, m)
	go hub.Run(ctx)
	gatewayHandler := gateway.NewHandler(hub, consultationService, appointmentRepo, doctorRepo)

	engine := router.New(cfg, jwtService, router.Handlers{
		Health:       healthhandler.NewHandler(db, broker.Client()),
		Auth:         authhandler.NewHandler(authService),
		User:         userhandler.NewHandler(userService),
		Doctor:       doctorhandler.NewHandler(doctorService),
		Clinic:       clinichandler.NewHandler(clinicService),
		Specialty:    specialtyhandler.NewHandler(specialtyService),
		Appointment:  appointmenthandler.NewHandler(appointmentService),
		Consultation: consultationhandler.NewHandler(consultationService, gatewayHandler),
		WaitingList:  waitinglisthandler.NewHandler(waitingListService),
		Notification: notificationhandler.NewHandler(notifier),
		Admin:        adminhandler.NewHandler(statsService, auditor),
		Upload:       uploadhandler.NewHandler(storage, userService),
		Gateway:      gatewayHandler,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.WithFields(map[string]interface{}{"port": cfg.Server.Port}).Info("starting api server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err, "server failed")
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(err, "graceful shutdown failed")
	}
	appLogger.Info("server stopped")
}
