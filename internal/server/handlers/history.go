// Counseling session history.

package handlers

import (
	"context"

	"github.com/konselin/konselin/internal/models"
	"github.com/konselin/konselin/internal/storage"
)

// ListHistoryRequest filters session history.
type ListHistoryRequest struct {
	SiswaID int `json:"-" query:"siswa_id"`
	Limit   int `json:"-" query:"limit"`
}

func (r *ListHistoryRequest) Validate() error {
	if r.Limit < 0 {
		return models.BadRequest("Limit tidak valid")
	}
	return nil
}

// ListHistory returns finished sessions, most recent first.
func (h *Handler) ListHistory(ctx context.Context, req *ListHistoryRequest) (*models.Envelope, error) {
	rows, err := h.Svc.History.List(req.SiswaID, req.Limit)
	if err != nil {
		return nil, models.InternalWithError("Gagal memuat history konseling", err)
	}
	return models.OK(rows), nil
}

// AddHistoryRequest records the outcome of a finished session.
type AddHistoryRequest struct {
	JadwalID         int    `json:"jadwal_id"`
	SiswaID          int    `json:"siswa_id"`
	GuruID           int    `json:"guru_id"`
	LayananID        int    `json:"layanan_id"`
	TanggalKonseling string `json:"tanggal_konseling"`
	WaktuMulai       string `json:"waktu_mulai"`
	WaktuSelesai     string `json:"waktu_selesai"`
	Ringkasan        string `json:"ringkasan"`
	TindakLanjut     string `json:"tindak_lanjut"`
}

func (r *AddHistoryRequest) Validate() error {
	if r.SiswaID == 0 || r.GuruID == 0 || r.LayananID == 0 || r.TanggalKonseling == "" {
		return models.BadRequest("Siswa, guru, layanan, dan tanggal harus diisi")
	}
	return nil
}

// AddHistory stores a session record.
func (h *Handler) AddHistory(ctx context.Context, req *AddHistoryRequest) (*models.Envelope, error) {
	id, err := h.Svc.History.Add(storage.AddHistoryInput{
		JadwalID:         req.JadwalID,
		SiswaID:          req.SiswaID,
		GuruID:           req.GuruID,
		LayananID:        req.LayananID,
		TanggalKonseling: req.TanggalKonseling,
		WaktuMulai:       req.WaktuMulai,
		WaktuSelesai:     req.WaktuSelesai,
		Ringkasan:        req.Ringkasan,
		TindakLanjut:     req.TindakLanjut,
	})
	if err != nil {
		return nil, models.InternalWithError("Gagal menambah history konseling", err)
	}
	return models.OKMessage("History konseling berhasil ditambahkan", map[string]any{"id": id}), nil
}
