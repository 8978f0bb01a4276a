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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_booking"
	createScheduleHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_schedule"
	deleteScheduleHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/delete_schedule"
	generateSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/generate_slots"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_booking"
	getScheduleHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_schedule"
	listBookingsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/list_bookings"
	listSchedulesHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/list_schedules"
	releaseSlotHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/release_slot"
	reserveSlotHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/reserve_slot"
	updateScheduleHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_schedule"
	updateSlotHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_slot"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	timeslotRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/timeslot"
	bookingsService "github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	schedulesService "github.com/m04kA/SMC-SchedulingService/internal/service/schedules"
	slotsService "github.com/m04kA/SMC-SchedulingService/internal/service/slots"
	cancelBookingUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/cancel_booking"
	createBookingUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
	generateSlotsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/generate_slots"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
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

	// Инициализируем репозитории (с метриками или без)
	var (
		scheduleRepository *scheduleRepo.Repository
		timeslotRepository *timeslotRepo.Repository
		bookingRepository  *bookingRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		timeslotRepository = timeslotRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		scheduleRepository = scheduleRepo.NewRepository(db)
		timeslotRepository = timeslotRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	scheduleSvc := schedulesService.NewService(scheduleRepository, log)
	slotSvc := slotsService.NewService(timeslotRepository, log)
	bookingSvc := bookingsService.NewService(bookingRepository, log)

	// Инициализируем use cases
	generateSlotsUseCase := generateSlotsUC.NewUseCase(
		scheduleRepository,
		timeslotRepository,
		cfg.Scheduler.MaxGenerationRangeDays,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		timeslotRepository,
		txMgr,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		timeslotRepository,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createSchedule := createScheduleHandler.NewHandler(scheduleSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	listSchedules := listSchedulesHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	deleteSchedule := deleteScheduleHandler.NewHandler(scheduleSvc, log)
	generateSlots := generateSlotsHandler.NewHandler(generateSlotsUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(slotSvc, log)
	reserveSlot := reserveSlotHandler.NewHandler(slotSvc, log)
	releaseSlot := releaseSlotHandler.NewHandler(slotSvc, log)
	updateSlot := updateSlotHandler.NewHandler(slotSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Просмотр расписаний и слотов
	api.HandleFunc("/schedules/{scheduleId}", getSchedule.Handle).Methods(http.MethodGet)
	api.HandleFunc("/companies/{companyId}/schedules", listSchedules.Handle).Methods(http.MethodGet)
	api.HandleFunc("/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования: гостевое идет без заголовка X-User-ID,
	// наличие контактов клиента проверяет сам handler
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Расписания ---
	protected.HandleFunc("/schedules", createSchedule.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/schedules/{scheduleId}", updateSchedule.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/schedules/{scheduleId}", deleteSchedule.Handle).Methods(http.MethodDelete)

	// Генерация слотов по расписанию
	protected.HandleFunc("/schedules/{scheduleId}/generate-slots", generateSlots.Handle).Methods(http.MethodPost)

	// --- Слоты ---
	protected.HandleFunc("/slots/{slotId}", updateSlot.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/slots/{slotId}/reserve", reserveSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{slotId}/release", releaseSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{slotId}/block", updateSlot.HandleBlock).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{slotId}/unblock", updateSlot.HandleUnblock).Methods(http.MethodPost)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
