// Selection periods: windows during which students may book counselors.

package storage

import (
	"errors"

	"github.com/konselin/konselin/internal/jsondb"
)

var ErrPeriodeNotFound = errors.New("periode not found")

// PeriodeService manages periode_pemilihan. At most one period is active at
// a time; activating one deactivates the rest.
type PeriodeService struct {
	store *jsondb.Store
}

// CreatePeriodeInput carries a new selection period.
type CreatePeriodeInput struct {
	NamaPeriode    string
	TanggalMulai   string
	TanggalSelesai string
	WaktuMulai     string
	WaktuSelesai   string
	IsActive       bool
	Keterangan     string
	CreatedBy      int
}

// List returns periods newest first. isActive filters when non-nil.
func (s *PeriodeService) List(isActive *bool) ([]jsondb.Record, error) {
	where := []jsondb.Clause{}
	params := []any{}
	if isActive != nil {
		where = append(where, jsondb.Eq("is_active"))
		params = append(params, *isActive)
	}
	return s.store.Select(jsondb.Query{
		From:    "periode_pemilihan",
		Where:   where,
		OrderBy: "created_at",
		Desc:    true,
	}, params...)
}

// Create inserts a new period. When it is created active, every other active
// period is deactivated first.
func (s *PeriodeService) Create(in CreatePeriodeInput) (int, error) {
	if in.IsActive {
		if err := s.deactivateAll(); err != nil {
			return 0, err
		}
	}
	return s.store.Insert("periode_pemilihan",
		[]string{"nama_periode", "tanggal_mulai", "tanggal_selesai",
			"waktu_mulai", "waktu_selesai", "is_active", "keterangan", "created_by"},
		in.NamaPeriode, in.TanggalMulai, in.TanggalSelesai,
		in.WaktuMulai, in.WaktuSelesai, in.IsActive,
		orNil(in.Keterangan), zeroNil(in.CreatedBy))
}

// periodeFields are the columns an update may touch.
var periodeFields = []string{"nama_periode", "tanggal_mulai", "tanggal_selesai",
	"waktu_mulai", "waktu_selesai", "is_active", "keterangan"}

// Update applies the provided fields to a period. Activating it deactivates
// every other period first, keeping the single-active invariant.
func (s *PeriodeService) Update(id int, updates map[string]any) error {
	if active, ok := updates["is_active"].(bool); ok && active {
		if err := s.deactivateAll(); err != nil {
			return err
		}
	}

	var set []jsondb.Assignment
	for _, f := range periodeFields {
		if v, ok := updates[f]; ok {
			set = append(set, jsondb.SetVal(f, v))
		}
	}
	if len(set) == 0 {
		return ErrPeriodeNotFound
	}

	n, err := s.store.Update("periode_pemilihan", set,
		[]jsondb.Clause{jsondb.Eq("id")},
		id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPeriodeNotFound
	}
	return nil
}

func (s *PeriodeService) deactivateAll() error {
	_, err := s.store.Update("periode_pemilihan",
		[]jsondb.Assignment{jsondb.SetVal("is_active", false)},
		[]jsondb.Clause{jsondb.EqVal("is_active", true)})
	return err
}
