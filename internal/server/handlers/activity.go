// Admin view of the audit log.

package handlers

import (
	"context"

	"github.com/konselin/konselin/internal/models"
	"github.com/konselin/konselin/internal/server/reqctx"
)

// ListActivityRequest pages the audit log.
type ListActivityRequest struct {
	Limit int `json:"-" query:"limit"`
}

func (r *ListActivityRequest) Validate() error {
	if r.Limit < 0 {
		return models.BadRequest("Limit tidak valid")
	}
	return nil
}

// ListActivity returns the latest audit records. Admin only.
func (h *Handler) ListActivity(ctx context.Context, _ *reqctx.AuthUser, req *ListActivityRequest) (*models.Envelope, error) {
	rows, err := h.Svc.Activity.Recent(req.Limit)
	if err != nil {
		return nil, models.InternalWithError("Gagal memuat log aktivitas", err)
	}
	return models.OK(rows), nil
}
