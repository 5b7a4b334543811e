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
	"syscall"
	"time"

	"github.com/cmlabs-hris/hr-admin-backend/internal/config"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	appHTTP "github.com/cmlabs-hris/hr-admin-backend/internal/handler/http"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/attendancecode"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/cron"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/database"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/email"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/geofence"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/oauth"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/sse"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/storage"
	"github.com/cmlabs-hris/hr-admin-backend/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hr-admin-backend/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hr-admin-backend/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/hr-admin-backend/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/hr-admin-backend/internal/service/employee"
	"github.com/cmlabs-hris/hr-admin-backend/internal/service/file"
	leaveService "github.com/cmlabs-hris/hr-admin-backend/internal/service/leave"
	notificationService "github.com/cmlabs-hris/hr-admin-backend/internal/service/notification"
	reportService "github.com/cmlabs-hris/hr-admin-backend/internal/service/report"
	taskService "github.com/cmlabs-hris/hr-admin-backend/internal/service/task"
	"github.com/go-chi/httplog/v3"
)

const refreshTokenRetention = 24 * time.Hour

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hr-admin"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db, cfg.Office.Location())
	reportRepo := postgresql.NewReportRepository(db, cfg.Office.Location())

	office, err := geofence.NewOffice(cfg.Office.Latitude, cfg.Office.Longitude, cfg.Office.RadiusMeters)
	if err != nil {
		return fmt.Errorf("office location: %w", err)
	}
	policy, err := attendance.NewPolicy(cfg.Office.Location(), cfg.Office.WorkStartTime, cfg.Office.LateGraceMinutes)
	if err != nil {
		return fmt.Errorf("attendance policy: %w", err)
	}
	codes, err := attendancecode.New(cfg.AttendanceCode.Secret, cfg.AttendanceCode.PeriodSeconds)
	if err != nil {
		return fmt.Errorf("attendance code generator: %w", err)
	}
	if cfg.AttendanceCode.Secret == "" {
		slog.Warn("ATTENDANCE_QR_SECRET is empty, QR codes will not survive a restart")
	}
	if cfg.Biometric.DeviceKey == "" {
		slog.Warn("BIOMETRIC_DEVICE_KEY is empty, biometric punches are disabled")
	}

	secureCookie := cfg.App.Env == "production"
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, secureCookie)

	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	var fileStorage storage.FileStorage
	var uploadsDir string
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			return fmt.Errorf("initialize local storage: %w", err)
		}
		uploadsDir = cfg.Storage.BasePath
	default:
		return fmt.Errorf("unsupported storage type: %q", cfg.Storage.Type)
	}

	fileSvc := file.NewFileService(fileStorage)
	emailSvc, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("initialize email service: %w", err)
	}

	hub := sse.NewHub()
	notificationSvc := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{})
	defer notificationSvc.Stop()

	authSvc := serviceAuth.NewAuthService(tx, userRepo, employeeRepo, JWTService, JWTRepository)
	employeeSvc := employeeService.NewEmployeeService(tx, employeeRepo, userRepo, emailSvc, cfg.App.FrontendURL)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		leaveRequestRepo,
		fileSvc,
		notificationSvc,
		hub,
		codes,
		attendanceService.Settings{
			Office:    office,
			Policy:    policy,
			DeviceKey: cfg.Biometric.DeviceKey,
		},
	)
	leaveSvc := leaveService.NewLeaveService(leaveRequestRepo, employeeRepo, fileSvc, emailSvc, notificationSvc, hub, cfg.App.FrontendURL)
	taskSvc := taskService.NewTaskService(taskRepo, employeeRepo, fileSvc, emailSvc, notificationSvc, hub, cfg.Office.Location(), cfg.App.FrontendURL)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, attendanceRepo, policy)
	reportSvc := reportService.NewReportService(reportRepo, policy)

	if cfg.Bootstrap.AdminEmail != "" {
		if err := authSvc.BootstrapAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword, cfg.Bootstrap.AdminName); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc, policy).RegisterJobs(scheduler)
	cron.NewMaintenanceJobs(JWTRepository, refreshTokenRetention).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:         logger,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		UploadsDir:     uploadsDir,
	}, JWTService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(JWTService, authSvc, googleService, cfg.App.FrontendURL, secureCookie),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc),
		Task:         appHTTP.NewTaskHandler(taskSvc),
		Notification: appHTTP.NewNotificationHandler(notificationSvc, JWTService, hub),
		Dashboard:    appHTTP.NewDashboardHandler(dashboardSvc),
		Report:       appHTTP.NewReportHandler(reportSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Request contexts end on shutdown so open SSE streams return
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	return nil
}
