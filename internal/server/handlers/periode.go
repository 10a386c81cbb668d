// Selection period management.

package handlers

import (
	"context"
	"errors"

	"github.com/konselin/konselin/internal/models"
	"github.com/konselin/konselin/internal/storage"
)

// ListPeriodeRequest filters periods by active flag when is_active is
// "true" or "false".
type ListPeriodeRequest struct {
	IsActive string `json:"-" query:"is_active"`
}

func (r *ListPeriodeRequest) Validate() error {
	if r.IsActive != "" && r.IsActive != "true" && r.IsActive != "false" {
		return models.BadRequest("is_active harus true atau false")
	}
	return nil
}

// ListPeriode returns periods, newest first.
func (h *Handler) ListPeriode(ctx context.Context, req *ListPeriodeRequest) (*models.Envelope, error) {
	var filter *bool
	if req.IsActive != "" {
		v := req.IsActive == "true"
		filter = &v
	}
	rows, err := h.Svc.Periode.List(filter)
	if err != nil {
		return nil, models.InternalWithError("Gagal memuat periode", err)
	}
	return models.OK(rows), nil
}

// CreatePeriodeRequest opens a new selection period.
type CreatePeriodeRequest struct {
	NamaPeriode    string `json:"nama_periode"`
	TanggalMulai   string `json:"tanggal_mulai"`
	TanggalSelesai string `json:"tanggal_selesai"`
	WaktuMulai     string `json:"waktu_mulai"`
	WaktuSelesai   string `json:"waktu_selesai"`
	IsActive       bool   `json:"is_active"`
	Keterangan     string `json:"keterangan"`
	CreatedBy      int    `json:"created_by"`
}

func (r *CreatePeriodeRequest) Validate() error {
	if r.NamaPeriode == "" || r.TanggalMulai == "" || r.TanggalSelesai == "" {
		return models.BadRequest("Nama periode, tanggal mulai, dan tanggal selesai harus diisi")
	}
	return nil
}

// CreatePeriode stores a period. Creating it active deactivates every other
// period.
func (h *Handler) CreatePeriode(ctx context.Context, req *CreatePeriodeRequest) (*models.Envelope, error) {
	id, err := h.Svc.Periode.Create(storage.CreatePeriodeInput{
		NamaPeriode:    req.NamaPeriode,
		TanggalMulai:   req.TanggalMulai,
		TanggalSelesai: req.TanggalSelesai,
		WaktuMulai:     req.WaktuMulai,
		WaktuSelesai:   req.WaktuSelesai,
		IsActive:       req.IsActive,
		Keterangan:     req.Keterangan,
		CreatedBy:      req.CreatedBy,
	})
	if err != nil {
		return nil, models.InternalWithError("Gagal membuat periode", err)
	}
	return models.OKMessage("Periode berhasil dibuat", map[string]any{"id": id}), nil
}

// UpdatePeriodeRequest carries a partial period update.
type UpdatePeriodeRequest struct {
	ID             int     `json:"-" path:"id"`
	NamaPeriode    *string `json:"nama_periode"`
	TanggalMulai   *string `json:"tanggal_mulai"`
	TanggalSelesai *string `json:"tanggal_selesai"`
	WaktuMulai     *string `json:"waktu_mulai"`
	WaktuSelesai   *string `json:"waktu_selesai"`
	IsActive       *bool   `json:"is_active"`
	Keterangan     *string `json:"keterangan"`
}

func (r *UpdatePeriodeRequest) Validate() error {
	if r.ID <= 0 {
		return models.BadRequest("ID periode tidak valid")
	}
	return nil
}

// UpdatePeriode applies the provided fields. Activating a period
// deactivates every other one.
func (h *Handler) UpdatePeriode(ctx context.Context, req *UpdatePeriodeRequest) (*models.Envelope, error) {
	updates := map[string]any{}
	put := func(field string, v *string) {
		if v != nil {
			updates[field] = *v
		}
	}
	put("nama_periode", req.NamaPeriode)
	put("tanggal_mulai", req.TanggalMulai)
	put("tanggal_selesai", req.TanggalSelesai)
	put("waktu_mulai", req.WaktuMulai)
	put("waktu_selesai", req.WaktuSelesai)
	put("keterangan", req.Keterangan)
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return nil, models.BadRequest("Tidak ada field yang diperbarui")
	}
	if err := h.Svc.Periode.Update(req.ID, updates); err != nil {
		if errors.Is(err, storage.ErrPeriodeNotFound) {
			return nil, models.NotFound("Periode tidak ditemukan")
		}
		return nil, models.InternalWithError("Gagal memperbarui periode", err)
	}
	return models.OKMessage("Periode berhasil diperbarui", nil), nil
}
