package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	blockedDatesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/blocked_dates"
	cancelReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/cancel_reservation"
	confirmReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/confirm_reservation"
	createBusinessHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_business"
	createReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_reservation"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_available_slots"
	getBusinessConfigHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_business_config"
	getReservationHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_reservation"
	listReservationsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/list_reservations"
	listServicesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/list_services"
	specialSchedulesHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/special_schedules"
	updateBusinessConfigHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_business_config"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	businessCache "github.com/m04kA/SMC-ReservationService/internal/infra/cache/business"
	businessRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/business"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notifier"
	businessService "github.com/m04kA/SMC-ReservationService/internal/service/business"
	reservationsService "github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	confirmReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/confirm_reservation"
	createReservationUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	getAvailableSlotsUC "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-ReservationService/internal/worker/expiry"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// reservationNotifier объединяет уведомления, нужные usecases и сервису бронирований
type reservationNotifier interface {
	NotifyCreated(ctx context.Context, business *domain.BusinessConfig, res *domain.Reservation) error
	NotifyConfirmed(ctx context.Context, business *domain.BusinessConfig, res *domain.Reservation) error
	NotifyCancelled(ctx context.Context, business *domain.BusinessConfig, res *domain.Reservation) error
}

// reservationMetrics учёт исходов операций с бронированиями
type reservationMetrics interface {
	RecordReservation(outcome string)
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.toml"
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ReservationService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		dbRecorder       dbmetrics.Recorder
		outcomes         reservationMetrics
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbRecorder = metricsCollector
		outcomes = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без recorder обёртка работает как прозрачный прокси
	wrappedDB := dbmetrics.WrapWithDefault(db, dbRecorder, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Кэш конфигурации бизнесов (опционально)
	var configCache businessService.ConfigCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  time.Duration(cfg.Redis.Timeout) * time.Second,
			ReadTimeout:  time.Duration(cfg.Redis.Timeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Redis.Timeout) * time.Second,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.Timeout)*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}

		configCache = businessCache.NewCache(redisClient, time.Duration(cfg.Cache.ConfigTTLSeconds)*time.Second)
		log.Info("Config cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Cache.ConfigTTLSeconds)
	} else {
		log.Warn("Redis disabled, business config is read from the database on every request")
	}

	// Публикация уведомлений (опционально)
	var notify reservationNotifier
	if cfg.RabbitMQ.Enabled {
		conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer conn.Close()

		ch, err := conn.Channel()
		if err != nil {
			log.Fatal("Failed to open RabbitMQ channel: %v", err)
		}
		defer ch.Close()

		if err := notifier.DeclareQueue(ch, cfg.RabbitMQ.Queue); err != nil {
			log.Fatal("Failed to declare notification queue: %v", err)
		}

		notify = notifier.NewClient(
			ch,
			cfg.RabbitMQ.Queue,
			cfg.Booking.PublicBaseURL,
			time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second,
			metricsCollector,
			log,
		)
		log.Info("Notifications enabled (queue=%s)", cfg.RabbitMQ.Queue)
	} else {
		log.Warn("RabbitMQ disabled, reservation emails will not be sent")
	}

	// Инициализируем репозитории
	businessRepository := businessRepo.NewRepository(wrappedDB)
	reservationRepository := reservationRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	businessSvc := businessService.NewService(
		businessRepository,
		configCache,
		txMgr,
		validator.New(),
		log,
	).WithDefaults(
		time.Duration(cfg.Booking.ConfirmationWindowHours)*time.Hour,
		cfg.Booking.SlotGranularityMinutes,
	)

	reservationSvc := reservationsService.NewService(
		reservationRepository,
		businessSvc,
		notify,
		txMgr,
		outcomes,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		reservationRepository,
		businessSvc,
		cfg.Booking.MinNoticeMinutes,
		log,
	)

	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		businessRepository,
		notify,
		txMgr,
		outcomes,
		time.Duration(cfg.Booking.CreateTimeoutSeconds)*time.Second,
		cfg.Booking.MinNoticeMinutes,
		log,
	)

	confirmReservationUseCase := confirmReservationUC.NewUseCase(
		reservationRepository,
		businessSvc,
		notify,
		txMgr,
		outcomes,
		log,
	)

	// Фоновое истечение неподтверждённых броней
	workerCtx, stopWorker := context.WithCancel(context.Background())
	expiryWorker := expiry.NewWorker(
		reservationSvc,
		time.Duration(cfg.Booking.ExpirySweepIntervalSeconds)*time.Second,
		log,
	)
	expiryWorker.Start(workerCtx)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	confirmReservation := confirmReservationHandler.NewHandler(confirmReservationUseCase, reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	listReservations := listReservationsHandler.NewHandler(reservationSvc, log)
	listServices := listServicesHandler.NewHandler(businessSvc, log)
	createBusiness := createBusinessHandler.NewHandler(businessSvc, log)
	getBusinessConfig := getBusinessConfigHandler.NewHandler(businessSvc, log)
	updateBusinessConfig := updateBusinessConfigHandler.NewHandler(businessSvc, log)
	blockedDates := blockedDatesHandler.NewHandler(businessSvc, log)
	specialSchedules := specialSchedulesHandler.NewHandler(businessSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Ссылки из писем клиенту
	r.HandleFunc("/confirmar/{token}", confirmReservation.Handle).Methods(http.MethodGet)
	r.HandleFunc("/cancelar-reserva", cancelReservation.HandleByToken).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/businesses/{businessId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/reservations", createReservation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reservations/confirm/{token}", confirmReservation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reservations/cancel", cancelReservation.HandleByToken).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-Key header)
	// ============================================================

	admin := api.PathPrefix("").Subrouter()
	admin.Use(middleware.AdminKey(cfg.Booking.AdminKey, log))

	// --- Бизнес и конфигурация ---
	admin.HandleFunc("/businesses", createBusiness.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/businesses/{businessId}/config", getBusinessConfig.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/businesses/{businessId}/config", updateBusinessConfig.Handle).Methods(http.MethodPut)

	admin.HandleFunc("/businesses/{businessId}/blocked-dates", blockedDates.List).Methods(http.MethodGet)
	admin.HandleFunc("/businesses/{businessId}/blocked-dates", blockedDates.Add).Methods(http.MethodPost)
	admin.HandleFunc("/businesses/{businessId}/blocked-dates/{date}", blockedDates.Remove).Methods(http.MethodDelete)

	admin.HandleFunc("/businesses/{businessId}/special-schedules", specialSchedules.List).Methods(http.MethodGet)
	admin.HandleFunc("/businesses/{businessId}/special-schedules", specialSchedules.Add).Methods(http.MethodPost)
	admin.HandleFunc("/businesses/{businessId}/special-schedules/{scheduleId}", specialSchedules.Remove).Methods(http.MethodDelete)

	// --- Бронирования ---
	admin.HandleFunc("/businesses/{businessId}/admin/reservations", createReservation.HandleAdmin).Methods(http.MethodPost)
	admin.HandleFunc("/businesses/{businessId}/reservations", listReservations.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/reservations/{reservationId}/confirm", confirmReservation.HandleAdmin).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем expiry worker
	stopWorker()
	expiryWorker.Stop()

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
