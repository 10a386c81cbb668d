// User preferences and system settings.

package storage

import (
	"errors"

	"github.com/konselin/konselin/internal/jsondb"
)

var ErrSettingNotFound = errors.New("setting not found")

// PengaturanService manages pengaturan_user and pengaturan_sistem.
type PengaturanService struct {
	store *jsondb.Store
}

// userSettingFields are the preference columns an update may touch.
var userSettingFields = []string{"notifikasi_aktif", "notifikasi_email", "tema_preferensi", "bahasa"}

// GetUser returns a user's preferences, or the defaults when none are stored
// yet (id 0 marks the synthetic record).
func (s *PengaturanService) GetUser(userID int) (jsondb.Record, error) {
	rec, err := s.store.SelectOne(jsondb.Query{
		From:  "pengaturan_user",
		Where: []jsondb.Clause{jsondb.Eq("user_id")},
	}, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return jsondb.Record{
			"id":               0,
			"user_id":          userID,
			"notifikasi_aktif": true,
			"notifikasi_email": true,
			"tema_preferensi":  "auto",
			"bahasa":           "id",
		}, nil
	}
	return rec, nil
}

// UpdateUser upserts preference fields for a user. Unknown fields are
// ignored; an update with nothing recognized is ErrSettingNotFound.
func (s *PengaturanService) UpdateUser(userID int, updates map[string]any) error {
	var set []jsondb.Assignment
	for _, f := range userSettingFields {
		if v, ok := updates[f]; ok {
			set = append(set, jsondb.SetVal(f, v))
		}
	}
	if len(set) == 0 {
		return ErrSettingNotFound
	}

	n, err := s.store.Update("pengaturan_user", set,
		[]jsondb.Clause{jsondb.Eq("user_id")},
		userID)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	// First write for this user: insert a full row, defaults filling the
	// fields the update left out.
	row := map[string]any{
		"notifikasi_aktif": true,
		"notifikasi_email": true,
		"tema_preferensi":  "auto",
		"bahasa":           "id",
	}
	for _, f := range userSettingFields {
		if v, ok := updates[f]; ok {
			row[f] = v
		}
	}
	_, err = s.store.Insert("pengaturan_user",
		[]string{"user_id", "notifikasi_aktif", "notifikasi_email", "tema_preferensi", "bahasa"},
		userID, row["notifikasi_aktif"], row["notifikasi_email"], row["tema_preferensi"], row["bahasa"])
	return err
}

// ListSystem returns system settings, optionally narrowed by category and
// key, ordered by category then key.
func (s *PengaturanService) ListSystem(kategori, key string) ([]jsondb.Record, error) {
	where := []jsondb.Clause{}
	params := []any{}
	if kategori != "" {
		where = append(where, jsondb.Eq("kategori"))
		params = append(params, kategori)
	}
	if key != "" {
		where = append(where, jsondb.Eq("key_setting"))
		params = append(params, key)
	}
	return s.store.Select(jsondb.Query{
		From:           "pengaturan_sistem",
		Where:          where,
		OrderBy:        "kategori",
		SecondaryField: "key_setting",
	}, params...)
}

// UpdateSystem sets a system setting's value by key. An unknown key is
// ErrSettingNotFound.
func (s *PengaturanService) UpdateSystem(key, value string, updatedBy int) error {
	n, err := s.store.Update("pengaturan_sistem",
		[]jsondb.Assignment{
			jsondb.Set("value_setting"),
			jsondb.SetVal("updated_by", zeroNil(updatedBy)),
		},
		[]jsondb.Clause{jsondb.Eq("key_setting")},
		value, key)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSettingNotFound
	}
	return nil
}
