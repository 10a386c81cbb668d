// Counseling appointment endpoints.

package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/konselin/konselin/internal/models"
	"github.com/konselin/konselin/internal/server/reqctx"
	"github.com/konselin/konselin/internal/storage"
)

// ListJadwalRequest filters the appointment list. Zero values are skipped.
type ListJadwalRequest struct {
	SiswaID int    `json:"-" query:"siswa_id"`
	GuruID  int    `json:"-" query:"guru_id"`
	Status  string `json:"-" query:"status"`
}

func (r *ListJadwalRequest) Validate() error {
	if r.Status != "" && !storage.ValidStatus(r.Status) {
		return models.BadRequest("Status tidak valid")
	}
	return nil
}

// ListJadwal returns appointments newest first with display fields resolved.
func (h *Handler) ListJadwal(ctx context.Context, req *ListJadwalRequest) (*models.Envelope, error) {
	rows, err := h.Svc.Jadwal.List(req.SiswaID, req.GuruID, req.Status)
	if err != nil {
		return nil, models.InternalWithError("Gagal memuat jadwal", err)
	}
	return models.OK(rows), nil
}

// CreateJadwalRequest books a counseling session.
type CreateJadwalRequest struct {
	SiswaID         int    `json:"siswa_id"`
	GuruID          int    `json:"guru_id"`
	LayananID       int    `json:"layanan_id"`
	Tanggal         string `json:"tanggal"`
	WaktuMulai      string `json:"waktu_mulai"`
	WaktuSelesai    string `json:"waktu_selesai"`
	AlasanKonseling string `json:"alasan_konseling"`
}

func (r *CreateJadwalRequest) Validate() error {
	if r.SiswaID == 0 || r.GuruID == 0 || r.LayananID == 0 ||
		r.Tanggal == "" || r.WaktuMulai == "" || r.WaktuSelesai == "" ||
		r.AlasanKonseling == "" {
		return models.BadRequest("Semua field harus diisi")
	}
	return nil
}

// CreateJadwal books an appointment in status menunggu.
func (h *Handler) CreateJadwal(ctx context.Context, req *CreateJadwalRequest) (*models.Envelope, error) {
	id, err := h.Svc.Jadwal.Create(storage.CreateJadwalInput{
		SiswaID:         req.SiswaID,
		GuruID:          req.GuruID,
		LayananID:       req.LayananID,
		Tanggal:         req.Tanggal,
		WaktuMulai:      req.WaktuMulai,
		WaktuSelesai:    req.WaktuSelesai,
		AlasanKonseling: req.AlasanKonseling,
	})
	if err != nil {
		return nil, models.InternalWithError("Gagal membuat jadwal", err)
	}

	h.Svc.Activity.Log(ctx, req.SiswaID, "create_jadwal",
		fmt.Sprintf("Membuat jadwal konseling %s %s", req.Tanggal, req.WaktuMulai),
		reqctx.ClientIP(ctx))

	return models.OKMessage("Jadwal konseling berhasil dibuat", map[string]any{"id": id}), nil
}

// GetJadwalRequest fetches one appointment.
type GetJadwalRequest struct {
	ID int `json:"-" path:"id"`
}

func (r *GetJadwalRequest) Validate() error {
	if r.ID <= 0 {
		return models.BadRequest("ID jadwal tidak valid")
	}
	return nil
}

// GetJadwal returns one appointment by id.
func (h *Handler) GetJadwal(ctx context.Context, req *GetJadwalRequest) (*models.Envelope, error) {
	rec, err := h.Svc.Jadwal.Get(req.ID)
	if err != nil {
		if errors.Is(err, storage.ErrJadwalNotFound) {
			return nil, models.NotFound("Jadwal tidak ditemukan")
		}
		return nil, models.InternalWithError("Gagal memuat jadwal", err)
	}
	return models.OK(rec), nil
}

// UpdateJadwalStatusRequest moves an appointment through its lifecycle.
type UpdateJadwalStatusRequest struct {
	ID     int    `json:"-" path:"id"`
	Status string `json:"status"`
}

func (r *UpdateJadwalStatusRequest) Validate() error {
	if r.ID <= 0 {
		return models.BadRequest("ID jadwal tidak valid")
	}
	if r.Status == "" {
		return models.MissingField("Status")
	}
	return nil
}

// UpdateJadwalStatus validates the new status and applies it.
func (h *Handler) UpdateJadwalStatus(ctx context.Context, req *UpdateJadwalStatusRequest) (*models.Envelope, error) {
	rec, err := h.Svc.Jadwal.UpdateStatus(req.ID, req.Status)
	switch {
	case errors.Is(err, storage.ErrInvalidStatus):
		return nil, models.BadRequest("Status tidak valid")
	case errors.Is(err, storage.ErrJadwalNotFound):
		return nil, models.NotFound("Jadwal tidak ditemukan")
	case err != nil:
		return nil, models.InternalWithError("Gagal memperbarui status", err)
	}
	return models.OKMessage("Status jadwal berhasil diperbarui", rec), nil
}

// DeleteJadwalRequest removes an appointment.
type DeleteJadwalRequest struct {
	ID int `json:"-" path:"id"`
}

func (r *DeleteJadwalRequest) Validate() error {
	if r.ID <= 0 {
		return models.BadRequest("ID jadwal tidak valid")
	}
	return nil
}

// DeleteJadwal soft-deletes the appointment.
func (h *Handler) DeleteJadwal(ctx context.Context, req *DeleteJadwalRequest) (*models.Envelope, error) {
	if err := h.Svc.Jadwal.Delete(req.ID); err != nil {
		if errors.Is(err, storage.ErrJadwalNotFound) {
			return nil, models.NotFound("Jadwal tidak ditemukan")
		}
		return nil, models.InternalWithError("Gagal menghapus jadwal", err)
	}
	return models.OKMessage("Jadwal berhasil dihapus", nil), nil
}
