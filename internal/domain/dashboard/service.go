package dashboard

import "context"

type DashboardService interface {
	// GetAdminDashboard runs its queries concurrently.
	GetAdminDashboard(ctx context.Context) (AdminDashboardResponse, error)
	GetMyDashboard(ctx context.Context) (MyDashboardResponse, error)
}
