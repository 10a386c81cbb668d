package storage

import (
	"context"
	"log/slog"

	"github.com/konselin/konselin/internal/jsondb"
)

// ActivityService appends audit records to log_aktivitas. Logging is
// best-effort: a failed write must never fail the action it describes.
type ActivityService struct {
	store *jsondb.Store
}

// Log records an action. userID of 0 marks an anonymous action (a failed
// login attempt, for example).
func (s *ActivityService) Log(ctx context.Context, userID int, aksi, detail, ip string) {
	_, err := s.store.Insert("log_aktivitas",
		[]string{"user_id", "aksi", "detail", "ip_address"},
		zeroNil(userID), aksi, orNil(detail), orNil(ip))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to record activity", "aksi", aksi, "err", err)
	}
}

// Recent returns the latest audit records, newest first.
func (s *ActivityService) Recent(limit int) ([]jsondb.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.Select(jsondb.Query{
		From:    "log_aktivitas",
		OrderBy: "created_at",
		Desc:    true,
		Limit:   limit,
	})
}
