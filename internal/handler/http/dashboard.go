package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/dashboard"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetAdminDashboard returns organisation-wide counters
	GetAdminDashboard(w http.ResponseWriter, r *http.Request)
	// GetMyDashboard returns the caller's own summary
	GetMyDashboard(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetAdminDashboard handles GET /dashboard/admin
func (h *dashboardHandlerImpl) GetAdminDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetAdminDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMyDashboard handles GET /dashboard/me
func (h *dashboardHandlerImpl) GetMyDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetMyDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
