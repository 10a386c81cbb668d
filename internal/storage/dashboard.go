// Dashboard statistics assembled from count queries.

package storage

import (
	"time"

	"github.com/konselin/konselin/internal/jsondb"
)

// DashboardService computes role-specific statistics.
type DashboardService struct {
	store *jsondb.Store
	now   func() time.Time
}

// SiswaStats is the student dashboard payload.
type SiswaStats struct {
	SiswaID              int    `json:"siswa_id"`
	NamaSiswa            string `json:"nama_siswa"`
	TotalKonseling       int    `json:"total_konseling"`
	KonselingSelesai     int    `json:"konseling_selesai"`
	JadwalMendatang      int    `json:"jadwal_mendatang"`
	KonselingBerlangsung int    `json:"konseling_berlangsung"`
}

// AdminStats is the admin dashboard payload.
type AdminStats struct {
	TotalSiswa           int `json:"total_siswa"`
	TotalGuruAktif       int `json:"total_guru_aktif"`
	JadwalMendatang      int `json:"jadwal_mendatang"`
	KonselingBerlangsung int `json:"konseling_berlangsung"`
	KonselingHariIni     int `json:"konseling_hari_ini"`
	KonselingBulanIni    int `json:"konseling_bulan_ini"`
}

// GuruStats is the counselor dashboard payload.
type GuruStats struct {
	TotalJadwal       int `json:"total_jadwal"`
	JadwalHariIni     int `json:"jadwal_hari_ini"`
	JadwalMendatang   int `json:"jadwal_mendatang"`
	JadwalSelesai     int `json:"jadwal_selesai"`
	JadwalBerlangsung int `json:"jadwal_berlangsung"`
}

func (s *DashboardService) today() string {
	return s.now().Format("2006-01-02")
}

// Siswa returns a student's counseling statistics. A student with no
// appointments gets zeros, not an error.
func (s *DashboardService) Siswa(siswaID int) (*SiswaStats, error) {
	stats := &SiswaStats{SiswaID: siswaID}

	user, err := s.store.SelectOne(jsondb.Query{
		From:  "users",
		Where: []jsondb.Clause{jsondb.Eq("id")},
	}, siswaID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		stats.NamaSiswa = user.String("nama_lengkap")
	}

	base := jsondb.Query{From: "jadwal_konseling"}

	if stats.TotalKonseling, err = s.count(base, jsondb.Eq("siswa_id"))(siswaID); err != nil {
		return nil, err
	}
	if stats.KonselingSelesai, err = s.count(base, jsondb.Eq("siswa_id"), jsondb.EqVal("status", "selesai"))(siswaID); err != nil {
		return nil, err
	}
	if stats.JadwalMendatang, err = s.count(base, jsondb.Eq("siswa_id"), jsondb.EqVal("status", "dijadwalkan"), jsondb.Gte("tanggal"))(siswaID, s.today()); err != nil {
		return nil, err
	}
	if stats.KonselingBerlangsung, err = s.count(base, jsondb.Eq("siswa_id"), jsondb.EqVal("status", "berlangsung"))(siswaID); err != nil {
		return nil, err
	}
	return stats, nil
}

// Admin returns server-wide statistics.
func (s *DashboardService) Admin() (*AdminStats, error) {
	stats := &AdminStats{}
	var err error

	today := s.today()
	monthStart := s.now().Format("2006-01") + "-01"

	if stats.TotalSiswa, err = s.count(jsondb.Query{From: "users"}, jsondb.EqVal("role", "siswa"))(); err != nil {
		return nil, err
	}
	if stats.TotalGuruAktif, err = s.count(jsondb.Query{From: "guru_bk"}, jsondb.EqVal("is_active", true))(); err != nil {
		return nil, err
	}

	base := jsondb.Query{From: "jadwal_konseling"}
	if stats.JadwalMendatang, err = s.count(base, jsondb.EqVal("status", "dijadwalkan"), jsondb.Gte("tanggal"))(today); err != nil {
		return nil, err
	}
	if stats.KonselingBerlangsung, err = s.count(base, jsondb.EqVal("status", "berlangsung"))(); err != nil {
		return nil, err
	}
	if stats.KonselingHariIni, err = s.count(base, jsondb.Eq("tanggal"))(today); err != nil {
		return nil, err
	}
	if stats.KonselingBulanIni, err = s.count(base, jsondb.Gte("tanggal"))(monthStart); err != nil {
		return nil, err
	}
	return stats, nil
}

// Guru returns one counselor's schedule statistics.
func (s *DashboardService) Guru(guruID int) (*GuruStats, error) {
	stats := &GuruStats{}
	var err error

	today := s.today()
	base := jsondb.Query{From: "jadwal_konseling"}

	if stats.TotalJadwal, err = s.count(base, jsondb.Eq("guru_id"))(guruID); err != nil {
		return nil, err
	}
	if stats.JadwalHariIni, err = s.count(base, jsondb.Eq("guru_id"), jsondb.Eq("tanggal"))(guruID, today); err != nil {
		return nil, err
	}
	if stats.JadwalMendatang, err = s.count(base, jsondb.Eq("guru_id"), jsondb.EqVal("status", "dijadwalkan"), jsondb.Gte("tanggal"))(guruID, today); err != nil {
		return nil, err
	}
	if stats.JadwalSelesai, err = s.count(base, jsondb.Eq("guru_id"), jsondb.EqVal("status", "selesai"))(guruID); err != nil {
		return nil, err
	}
	if stats.JadwalBerlangsung, err = s.count(base, jsondb.Eq("guru_id"), jsondb.EqVal("status", "berlangsung"))(guruID); err != nil {
		return nil, err
	}
	return stats, nil
}

// count curries a filtered count over the base query.
func (s *DashboardService) count(base jsondb.Query, where ...jsondb.Clause) func(params ...any) (int, error) {
	q := base
	q.Where = where
	return func(params ...any) (int, error) {
		return s.store.Count(q, params...)
	}
}
