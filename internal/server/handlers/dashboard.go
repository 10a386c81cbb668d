// Role-specific dashboard statistics.

package handlers

import (
	"context"

	"github.com/konselin/konselin/internal/models"
)

// DashboardRequest selects the stats payload by role. Siswa and guru need
// user_id.
type DashboardRequest struct {
	Role   string `json:"-" query:"role"`
	UserID int    `json:"-" query:"user_id"`
}

func (r *DashboardRequest) Validate() error {
	if r.Role == "" {
		return models.MissingField("Role")
	}
	if (r.Role == "siswa" || r.Role == "guru") && r.UserID <= 0 {
		return models.MissingField("user_id")
	}
	return nil
}

// Dashboard returns the statistics for the requested role.
func (h *Handler) Dashboard(ctx context.Context, req *DashboardRequest) (*models.Envelope, error) {
	var (
		stats any
		err   error
	)
	switch req.Role {
	case "siswa":
		stats, err = h.Svc.Dashboard.Siswa(req.UserID)
	case "guru":
		stats, err = h.Svc.Dashboard.Guru(req.UserID)
	case "admin":
		stats, err = h.Svc.Dashboard.Admin()
	default:
		return nil, models.BadRequest("Role tidak valid")
	}
	if err != nil {
		return nil, models.InternalWithError("Gagal memuat statistik dashboard", err)
	}
	return models.OK(stats), nil
}
