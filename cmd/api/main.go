package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/kintai-check/kintai-backend-go/internal/config"
	"github.com/kintai-check/kintai-backend-go/internal/domain/setting"
	appHTTP "github.com/kintai-check/kintai-backend-go/internal/handler/http"
	"github.com/kintai-check/kintai-backend-go/internal/handler/http/middleware"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/cron"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/csvimport"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/database"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/jwt"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/metrics"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/sse"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/storage"
	"github.com/kintai-check/kintai-backend-go/internal/repository/postgresql"
	attendanceService "github.com/kintai-check/kintai-backend-go/internal/service/attendance"
	serviceAuth "github.com/kintai-check/kintai-backend-go/internal/service/auth"
	"github.com/kintai-check/kintai-backend-go/internal/service/detection"
	"github.com/kintai-check/kintai-backend-go/internal/service/file"
	issueService "github.com/kintai-check/kintai-backend-go/internal/service/issue"
	reportService "github.com/kintai-check/kintai-backend-go/internal/service/report"
	settingService "github.com/kintai-check/kintai-backend-go/internal/service/setting"
	storeService "github.com/kintai-check/kintai-backend-go/internal/service/store"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLevel(cfg.App.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "kintai-check"),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	applied, err := postgresql.Migrate(ctx, db)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logger.Info("database migrated", "applied", applied)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	tx := postgresql.NewTransactor(db)
	orgRepo := postgresql.NewOrganizationRepository(db)
	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	storeRepo := postgresql.NewStoreRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	issueRepo := postgresql.NewIssueRepository(db)
	ruleRepo := postgresql.NewRuleRepository(db)
	templateRepo := postgresql.NewTemplateRepository(db)
	vocabularyRepo := postgresql.NewVocabularyRepository(db)
	tokenRepo := postgresql.NewTokenRepository(db)

	appMetrics := metrics.New()
	eventHub := sse.NewHub()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	fileService := file.NewFileService(fileStorage)
	resolver := detection.NewResolver(ruleRepo, setting.PolicyConfig{
		BreakMinutesOver6h:      cfg.Detection.BreakMinutesOver6h,
		BreakMinutesOver8h:      cfg.Detection.BreakMinutesOver8h,
		DailyHoursOvertimeAlert: cfg.Detection.DailyHoursOvertimeAlert,
		NightStartHour:          cfg.Detection.NightStartHour,
		NightEndHour:            cfg.Detection.NightEndHour,
	})

	authSvc := serviceAuth.NewAuthService(userRepo, tokenRepo, JWTService)
	settingSvc := settingService.NewSettingService(tx, ruleRepo, templateRepo, vocabularyRepo, resolver)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceService.Deps{
		Tx:           tx,
		Attendance:   attendanceRepo,
		Employees:    employeeRepo,
		Orgs:         orgRepo,
		Stores:       storeRepo,
		Issues:       issueRepo,
		Resolver:     resolver,
		Detector:     detection.NewDetector(detection.LocaleJA),
		FileService:  fileService,
		Metrics:      appMetrics,
		Events:       eventHub,
		ImportLimits: csvimport.Limits{MaxBytes: cfg.Import.MaxBytes, MaxRows: cfg.Import.MaxRows},
	})
	issueSvc := issueService.NewIssueService(tx, issueRepo, orgRepo, userRepo, templateRepo, vocabularyRepo, nil)
	reportSvc := reportService.NewReportService(issueRepo, orgRepo, storeRepo, fileService, cfg.Report.FontPath)
	storeSvc := storeService.NewStoreService(storeRepo)

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, cfg.Import.MaxBytes),
		Issue:      appHTTP.NewIssueHandler(issueSvc),
		Setting:    appHTTP.NewSettingHandler(settingSvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
		Store:      appHTTP.NewStoreHandler(storeSvc),
		Events:     appHTTP.NewEventHandler(eventHub),
	}, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Logger:         logger,
		Metrics:        appMetrics,
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	})

	scheduler := cron.NewScheduler(logger)
	scheduler.AddJob("prune_revoked_tokens", time.Hour, func(ctx context.Context) error {
		n, err := tokenRepo.PruneExpired(ctx, time.Now())
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("pruned revoked tokens", "count", n)
		}
		return nil
	})
	scheduler.AddJob("archive_monthly_reports", cfg.Report.ArchiveInterval, func(ctx context.Context) error {
		return archivePreviousMonth(ctx, logger, orgRepo.ListIDs, reportSvc.Archive, time.Now())
	})
	scheduler.Start(ctx)
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// event streams end when the signal context is cancelled
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
