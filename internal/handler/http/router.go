package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	// UploadsDir is served under /uploads when set (local storage only).
	UploadsDir string
}

type Handlers struct {
	Auth         AuthHandler
	Employee     EmployeeHandler
	Attendance   AttendanceHandler
	Leave        LeaveHandler
	Task         TaskHandler
	Notification NotificationHandler
	Dashboard    DashboardHandler
	Report       ReportHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", DeviceKeyHeader},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  cfg.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	perm := middleware.RequirePermission

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", h.Auth.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.Post("/", h.Auth.Login)
				r.Get("/google", h.Auth.LoginWithGoogle)
			})
		})

		// Authenticated by device key and SSE token respectively
		r.Post("/attendance/biometric", h.Attendance.BiometricPunch)
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/employees", func(r chi.Router) {
				r.With(perm(user.PermissionViewOwnProfile)).Get("/me", h.Employee.GetMyProfile)
				r.With(perm(user.PermissionEditOwnProfile)).Put("/me", h.Employee.UpdateMyProfile)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.With(perm(user.PermissionEmployeeViewAll)).Get("/", h.Employee.ListEmployees)
					r.With(perm(user.PermissionEmployeeViewAll)).Get("/{id}", h.Employee.GetEmployee)

					r.Group(func(r chi.Router) {
						r.Use(perm(user.PermissionEmployeeManage))
						r.Post("/", h.Employee.CreateEmployee)
						r.Put("/{id}", h.Employee.UpdateEmployee)
						r.Post("/{id}/deactivate", h.Employee.DeactivateEmployee)
						r.Delete("/{id}", h.Employee.DeleteEmployee)
					})
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(perm(user.PermissionAttendanceCreate)).Post("/check-in", h.Attendance.CheckIn)
				r.With(perm(user.PermissionAttendanceCreate)).Post("/check-out", h.Attendance.CheckOut)
				r.With(perm(user.PermissionAttendanceViewOwn)).Get("/status", h.Attendance.Status)
				r.With(perm(user.PermissionAttendanceViewOwn)).Get("/my", h.Attendance.GetMyAttendance)

				r.With(perm(user.PermissionAttendanceViewAll)).Get("/", h.Attendance.List)
				r.With(perm(user.PermissionAttendanceExport)).Get("/export", h.Attendance.Export)

				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionAttendanceManage))
					r.Get("/qr-code", h.Attendance.QRCode)
					r.Post("/manual", h.Attendance.Mark)
					r.Put("/{id}", h.Attendance.Update)
					r.Delete("/{id}", h.Attendance.Delete)
				})

				// Employees only see their own records
				r.With(perm(user.PermissionAttendanceViewOwn)).Get("/{id}", h.Attendance.Get)
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.With(perm(user.PermissionLeaveCreate)).Post("/", h.Leave.CreateRequest)
				r.With(perm(user.PermissionLeaveViewOwn)).Get("/my", h.Leave.GetMyRequests)
				r.With(perm(user.PermissionLeaveCreate)).Delete("/{id}", h.Leave.CancelRequest)

				r.With(perm(user.PermissionLeaveViewAll)).Get("/", h.Leave.ListRequests)
				r.With(perm(user.PermissionLeaveViewOwn)).Get("/{id}", h.Leave.GetRequest)

				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionLeaveApprove))
					r.Post("/{id}/approve", h.Leave.ApproveRequest)
					r.Post("/{id}/reject", h.Leave.RejectRequest)
				})
			})

			r.Route("/tasks", func(r chi.Router) {
				r.With(perm(user.PermissionTaskViewOwn)).Get("/my", h.Task.GetMyTasks)
				r.With(perm(user.PermissionTaskViewOwn)).Get("/{id}", h.Task.Get)

				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionTaskWork))
					r.Post("/{id}/start", h.Task.Start)
					r.Post("/{id}/complete", h.Task.Complete)
				})

				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionTaskManage))
					r.Post("/", h.Task.Create)
					r.Get("/", h.Task.List)
					r.Put("/{id}", h.Task.Update)
					r.Delete("/{id}", h.Task.Delete)
					r.Post("/{id}/shelve", h.Task.Shelve)
					r.Post("/{id}/reopen", h.Task.Reopen)
				})

				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionTaskReview))
					r.Post("/{id}/accept", h.Task.Accept)
					r.Post("/{id}/reject", h.Task.Reject)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Put("/read", h.Notification.MarkAsRead)
				r.Put("/read-all", h.Notification.MarkAllAsRead)
				r.Delete("/{id}", h.Notification.Delete)
				r.Get("/preferences", h.Notification.GetPreferences)
				r.Put("/preferences", h.Notification.UpdatePreference)
				r.Post("/sse-token", h.Notification.GetSSEToken)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.With(perm(user.PermissionDashboardAdmin)).Get("/admin", h.Dashboard.GetAdminDashboard)
				r.Get("/me", h.Dashboard.GetMyDashboard)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Use(perm(user.PermissionReportView))
				r.Get("/attendance", h.Report.GetMonthlyAttendanceReport)
				r.Get("/new-hires", h.Report.GetNewHireReport)
			})
		})
	})
	return r
}
