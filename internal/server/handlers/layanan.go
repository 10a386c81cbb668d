// Counseling service catalog.

package handlers

import (
	"context"

	"github.com/konselin/konselin/internal/models"
)

// ListLayanan returns the active counseling services ordered by name.
func (h *Handler) ListLayanan(ctx context.Context, _ *EmptyRequest) (*models.Envelope, error) {
	rows, err := h.Svc.Layanan.ListActive()
	if err != nil {
		return nil, models.InternalWithError("Gagal memuat layanan", err)
	}
	return models.OK(rows), nil
}
