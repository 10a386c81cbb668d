package storage

import "github.com/konselin/konselin/internal/jsondb"

// HistoryService manages completed counseling session records.
type HistoryService struct {
	store *jsondb.Store
}

// AddHistoryInput records the outcome of a finished session.
type AddHistoryInput struct {
	JadwalID         int
	SiswaID          int
	GuruID           int
	LayananID        int
	TanggalKonseling string
	WaktuMulai       string
	WaktuSelesai     string
	Ringkasan        string
	TindakLanjut     string
}

// List returns session history with display fields resolved, most recent
// first. siswaID of 0 means all students; limit of 0 defaults to 10.
func (s *HistoryService) List(siswaID, limit int) ([]jsondb.Record, error) {
	if limit <= 0 {
		limit = 10
	}
	where := []jsondb.Clause{}
	params := []any{}
	if siswaID > 0 {
		where = append(where, jsondb.Eq("siswa_id"))
		params = append(params, siswaID)
	}
	return s.store.Select(jsondb.Query{
		From:           "history_konseling",
		Join:           jsondb.JoinJadwalRefs,
		Where:          where,
		OrderBy:        "tanggal_konseling",
		SecondaryField: "waktu_mulai",
		Desc:           true,
		Limit:          limit,
	}, params...)
}

// Add appends a history record and returns its id.
func (s *HistoryService) Add(in AddHistoryInput) (int, error) {
	return s.store.Insert("history_konseling",
		[]string{"jadwal_id", "siswa_id", "guru_id", "layanan_id",
			"tanggal_konseling", "waktu_mulai", "waktu_selesai",
			"ringkasan", "tindak_lanjut"},
		in.JadwalID, in.SiswaID, in.GuruID, in.LayananID,
		in.TanggalKonseling, in.WaktuMulai, in.WaktuSelesai,
		orNil(in.Ringkasan), orNil(in.TindakLanjut))
}
