// Counseling appointment lifecycle.

package storage

import (
	"errors"

	"github.com/konselin/konselin/internal/jsondb"
)

var (
	ErrJadwalNotFound = errors.New("jadwal not found")
	ErrInvalidStatus  = errors.New("invalid status")
)

// validStatuses is the full appointment lifecycle.
var validStatuses = []string{"menunggu", "dijadwalkan", "berlangsung", "selesai", "dibatalkan", "tidak_hadir"}

// ValidStatus reports whether s is one of the recognized appointment states.
func ValidStatus(s string) bool {
	for _, v := range validStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// JadwalService manages the jadwal_konseling collection.
type JadwalService struct {
	store *jsondb.Store
}

// CreateJadwalInput carries a new appointment request. All fields are
// required.
type CreateJadwalInput struct {
	SiswaID         int
	GuruID          int
	LayananID       int
	Tanggal         string
	WaktuMulai      string
	WaktuSelesai    string
	AlasanKonseling string
}

// List returns appointments with student, counselor and service display
// fields resolved, newest first. Zero/empty filters are skipped.
func (s *JadwalService) List(siswaID, guruID int, status string) ([]jsondb.Record, error) {
	where := []jsondb.Clause{}
	params := []any{}
	if siswaID > 0 {
		where = append(where, jsondb.Eq("siswa_id"))
		params = append(params, siswaID)
	}
	if guruID > 0 {
		where = append(where, jsondb.Eq("guru_id"))
		params = append(params, guruID)
	}
	if status != "" {
		where = append(where, jsondb.Eq("status"))
		params = append(params, status)
	}
	return s.store.Select(jsondb.Query{
		From:           "jadwal_konseling",
		Join:           jsondb.JoinJadwalRefs,
		Where:          where,
		OrderBy:        "tanggal",
		SecondaryField: "waktu_mulai",
		Desc:           true,
	}, params...)
}

// ListByGuru returns one counselor's schedule, optionally narrowed to a date
// and status, ordered by date then start time ascending.
func (s *JadwalService) ListByGuru(guruID int, tanggal, status string) ([]jsondb.Record, error) {
	where := []jsondb.Clause{jsondb.Eq("guru_id")}
	params := []any{guruID}
	if tanggal != "" {
		where = append(where, jsondb.Eq("tanggal"))
		params = append(params, tanggal)
	}
	if status != "" {
		where = append(where, jsondb.Eq("status"))
		params = append(params, status)
	}
	return s.store.Select(jsondb.Query{
		From:           "jadwal_konseling",
		Join:           jsondb.JoinJadwalRefs,
		Where:          where,
		OrderBy:        "tanggal",
		SecondaryField: "waktu_mulai",
	}, params...)
}

// Create inserts a new appointment in the waiting state and returns its id.
func (s *JadwalService) Create(in CreateJadwalInput) (int, error) {
	return s.store.Insert("jadwal_konseling",
		[]string{"siswa_id", "guru_id", "layanan_id", "tanggal", "waktu_mulai",
			"waktu_selesai", "alasan_konseling", "status"},
		in.SiswaID, in.GuruID, in.LayananID, in.Tanggal, in.WaktuMulai,
		in.WaktuSelesai, in.AlasanKonseling, "menunggu")
}

// Get returns one appointment by id or ErrJadwalNotFound.
func (s *JadwalService) Get(id int) (jsondb.Record, error) {
	rec, err := s.store.SelectOne(jsondb.Query{
		From:  "jadwal_konseling",
		Where: []jsondb.Clause{jsondb.Eq("id")},
	}, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrJadwalNotFound
	}
	return rec, nil
}

// UpdateStatus transitions an appointment and returns the updated record.
func (s *JadwalService) UpdateStatus(id int, status string) (jsondb.Record, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	n, err := s.store.Update("jadwal_konseling",
		[]jsondb.Assignment{jsondb.Set("status")},
		[]jsondb.Clause{jsondb.Eq("id")},
		status, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrJadwalNotFound
	}
	return s.Get(id)
}

// Delete soft-deletes an appointment.
func (s *JadwalService) Delete(id int) error {
	n, err := s.store.SoftDelete("jadwal_konseling", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrJadwalNotFound
	}
	return nil
}
