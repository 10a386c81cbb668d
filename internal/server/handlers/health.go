package handlers

import (
	"context"
	"time"

	"github.com/konselin/konselin/internal/models"
)

// Health reports liveness.
func (h *Handler) Health(ctx context.Context, _ *EmptyRequest) (*models.Envelope, error) {
	return models.OK(map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}), nil
}
