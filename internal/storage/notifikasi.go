package storage

import (
	"errors"

	"github.com/konselin/konselin/internal/jsondb"
)

var ErrNotifikasiNotFound = errors.New("notifikasi not found")

// NotifikasiService manages per-user notifications.
type NotifikasiService struct {
	store *jsondb.Store
}

// List returns a user's notifications, newest first. isRead filters when
// non-nil; limit of 0 defaults to 20.
func (s *NotifikasiService) List(userID int, isRead *bool, limit int) ([]jsondb.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	where := []jsondb.Clause{jsondb.Eq("user_id")}
	params := []any{userID}
	if isRead != nil {
		where = append(where, jsondb.Eq("is_read"))
		params = append(params, *isRead)
	}
	return s.store.Select(jsondb.Query{
		From:    "notifikasi",
		Where:   where,
		OrderBy: "created_at",
		Desc:    true,
		Limit:   limit,
	}, params...)
}

// Create adds a notification. Empty tipe defaults to "info"; empty link is
// stored as null.
func (s *NotifikasiService) Create(userID int, judul, pesan, tipe, link string) (int, error) {
	if tipe == "" {
		tipe = "info"
	}
	return s.store.Insert("notifikasi",
		[]string{"user_id", "judul", "pesan", "tipe", "link", "is_read"},
		userID, judul, pesan, tipe, orNil(link), false)
}

// MarkRead flips the read flag; read_at follows it (stamped when read,
// cleared when unread).
func (s *NotifikasiService) MarkRead(id int, isRead bool) error {
	readAt := jsondb.SetNull("read_at")
	if isRead {
		readAt = jsondb.SetNow("read_at")
	}
	n, err := s.store.Update("notifikasi",
		[]jsondb.Assignment{jsondb.SetVal("is_read", isRead), readAt},
		[]jsondb.Clause{jsondb.Eq("id")},
		id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotifikasiNotFound
	}
	return nil
}
