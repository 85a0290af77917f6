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

	appendDraftSlotHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/append_draft_slot"
	deleteSlotSettingsHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/delete_slot_settings"
	discardDraftHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/discard_draft"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/get_available_slots"
	getDraftHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/get_draft"
	getMonthCalendarHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/get_month_calendar"
	getSlotSettingsHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/get_slot_settings"
	listDraftsHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/list_drafts"
	removeDraftSlotHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/remove_draft_slot"
	submitDraftHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/submit_draft"
	updateDraftSlotHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/update_draft_slot"
	updateSlotSettingsHandler "github.com/m04kA/SMC-SlotScheduler/internal/api/handlers/update_slot_settings"
	"github.com/m04kA/SMC-SlotScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SlotScheduler/internal/config"
	calendarCache "github.com/m04kA/SMC-SlotScheduler/internal/infra/cache/calendar"
	draftRepo "github.com/m04kA/SMC-SlotScheduler/internal/infra/storage/draft"
	settingsRepo "github.com/m04kA/SMC-SlotScheduler/internal/infra/storage/settings"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/branchbackend"
	draftsService "github.com/m04kA/SMC-SlotScheduler/internal/service/drafts"
	settingsService "github.com/m04kA/SMC-SlotScheduler/internal/service/settings"
	getAvailableSlotsUC "github.com/m04kA/SMC-SlotScheduler/internal/usecase/get_available_slots"
	getMonthCalendarUC "github.com/m04kA/SMC-SlotScheduler/internal/usecase/get_month_calendar"
	submitDraftUC "github.com/m04kA/SMC-SlotScheduler/internal/usecase/submit_draft"
	"github.com/m04kA/SMC-SlotScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotScheduler/pkg/logger"
	"github.com/m04kA/SMC-SlotScheduler/pkg/metrics"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
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

	log.Info("Starting SMC-SlotScheduler...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены). Nil коллектор отключает запись.
	var metricsCollector *metrics.Metrics
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
	var dbExecutor dbmetrics.DBExecutor = db
	if cfg.Metrics.Enabled {
		dbExecutor = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	}
	draftRepository := draftRepo.NewRepository(dbExecutor)
	settingsRepository := settingsRepo.NewRepository(dbExecutor)

	// Инициализируем клиент backend API слотов
	backendClient := branchbackend.NewClient(
		cfg.Backend.URL,
		cfg.Backend.BackendTimeout(),
		branchbackend.Options{
			FetchPath:    cfg.Backend.FetchPath,
			SubmitPath:   cfg.Backend.SubmitPath,
			Retries:      cfg.Backend.Retries,
			RetryBackoff: cfg.Backend.RetryBackoff(),
		},
		log,
		metricsCollector,
	)
	log.Info("Slot backend client initialized (url=%s, timeout=%ds, retries=%d)",
		cfg.Backend.URL, cfg.Backend.Timeout, cfg.Backend.Retries)

	// Кэш последних успешно загруженных календарей
	calendars, err := calendarCache.NewCache(cfg.Cache.Size, metricsCollector)
	if err != nil {
		log.Fatal("Failed to create calendar cache: %v", err)
	}

	// Инициализируем сервисы
	settingsSvc := settingsService.NewService(
		settingsRepository,
		settingsService.Defaults{
			SlotDurationMinutes: cfg.Calendar.DefaultSlotDuration,
			DefaultCapacity:     cfg.Calendar.DefaultSlotCapacity,
			DayStart:            cfg.Calendar.DayStart(),
		},
		log,
	)

	draftSvc := draftsService.NewService(
		draftRepository,
		backendClient,
		settingsSvc,
		log,
	)

	// Инициализируем use cases
	getMonthCalendarUseCase := getMonthCalendarUC.NewUseCase(
		backendClient,
		calendars,
		cfg.Calendar.WeekStarts(),
		metricsCollector,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		backendClient,
		getAvailableSlotsUC.Options{
			MinNoticeMinutes: cfg.Booking.MinNoticeMinutes,
			AdvanceDays:      cfg.Booking.AdvanceDays,
		},
		log,
	)

	submitDraftUseCase := submitDraftUC.NewUseCase(
		draftRepository,
		backendClient,
		calendars,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getMonthCalendar := getMonthCalendarHandler.NewHandler(getMonthCalendarUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	listDrafts := listDraftsHandler.NewHandler(draftSvc, log)
	getDraft := getDraftHandler.NewHandler(draftSvc, log)
	appendDraftSlot := appendDraftSlotHandler.NewHandler(draftSvc, log)
	updateDraftSlot := updateDraftSlotHandler.NewHandler(draftSvc, log)
	removeDraftSlot := removeDraftSlotHandler.NewHandler(draftSvc, log)
	discardDraft := discardDraftHandler.NewHandler(draftSvc, log)
	submitDraft := submitDraftHandler.NewHandler(submitDraftUseCase, log)
	getSlotSettings := getSlotSettingsHandler.NewHandler(settingsSvc, log)
	updateSlotSettings := updateSlotSettingsHandler.NewHandler(settingsSvc, log)
	deleteSlotSettings := deleteSlotSettingsHandler.NewHandler(settingsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Настройки слотов фичи (для всех филиалов) ---
	api.HandleFunc("/features/{feature}/settings", updateSlotSettings.Handle).Methods(http.MethodPut)
	api.HandleFunc("/features/{feature}/settings", deleteSlotSettings.Handle).Methods(http.MethodDelete)

	branch := api.PathPrefix("/features/{feature}/branches/{branchId:[0-9]+}").Subrouter()

	// --- Настройки слотов филиала ---
	branch.HandleFunc("/settings", getSlotSettings.Handle).Methods(http.MethodGet)
	branch.HandleFunc("/settings", updateSlotSettings.Handle).Methods(http.MethodPut)
	branch.HandleFunc("/settings", deleteSlotSettings.Handle).Methods(http.MethodDelete)

	// --- Календарь ---
	branch.HandleFunc("/calendar", getMonthCalendar.Handle).Methods(http.MethodGet)

	// Свободные для записи слоты дня
	branch.HandleFunc("/days/{date}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Черновики дня ---
	branch.HandleFunc("/drafts", listDrafts.Handle).Methods(http.MethodGet)

	day := branch.PathPrefix("/days/{date}/draft").Subrouter()
	day.HandleFunc("", getDraft.Handle).Methods(http.MethodGet)
	day.HandleFunc("", discardDraft.Handle).Methods(http.MethodDelete)
	day.HandleFunc("/slots", appendDraftSlot.Handle).Methods(http.MethodPost)
	day.HandleFunc("/slots/{slotKey}", updateDraftSlot.Handle).Methods(http.MethodPatch)
	day.HandleFunc("/slots/{slotKey}", removeDraftSlot.Handle).Methods(http.MethodDelete)
	day.HandleFunc("/submit", submitDraft.Handle).Methods(http.MethodPost)

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
	close(stopMetricsCh)

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
