// Counselor endpoints, including slot availability.

package handlers

import (
	"context"
	"errors"

	"github.com/konselin/konselin/internal/models"
	"github.com/konselin/konselin/internal/storage"
)

// ListGuruRequest filters counselors by active flag when is_active is
// "true" or "false".
type ListGuruRequest struct {
	IsActive string `json:"-" query:"is_active"`
}

func (r *ListGuruRequest) Validate() error {
	if r.IsActive != "" && r.IsActive != "true" && r.IsActive != "false" {
		return models.BadRequest("is_active harus true atau false")
	}
	return nil
}

// ListGuru returns counselors with their service names resolved.
func (h *Handler) ListGuru(ctx context.Context, req *ListGuruRequest) (*models.Envelope, error) {
	var filter *bool
	if r := req.IsActive; r != "" {
		v := r == "true"
		filter = &v
	}
	rows, err := h.Svc.Guru.List(filter)
	if err != nil {
		return nil, models.InternalWithError("Gagal memuat data guru", err)
	}
	return models.OK(rows), nil
}

// GetGuruRequest fetches one counselor.
type GetGuruRequest struct {
	ID int `json:"-" path:"id"`
}

func (r *GetGuruRequest) Validate() error {
	if r.ID <= 0 {
		return models.BadRequest("ID guru tidak valid")
	}
	return nil
}

// GetGuru returns one counselor by id.
func (h *Handler) GetGuru(ctx context.Context, req *GetGuruRequest) (*models.Envelope, error) {
	rec, err := h.Svc.Guru.Get(req.ID)
	if err != nil {
		if errors.Is(err, storage.ErrGuruNotFound) {
			return nil, models.NotFound("Guru tidak ditemukan")
		}
		return nil, models.InternalWithError("Gagal memuat data guru", err)
	}
	return models.OK(rec), nil
}

// UpdateGuruRequest toggles a counselor's active flag.
type UpdateGuruRequest struct {
	ID       int   `json:"-" path:"id"`
	IsActive *bool `json:"is_active"`
}

func (r *UpdateGuruRequest) Validate() error {
	if r.ID <= 0 {
		return models.BadRequest("ID guru tidak valid")
	}
	if r.IsActive == nil {
		return models.MissingField("is_active")
	}
	return nil
}

// UpdateGuru applies the active flag and returns the updated record.
func (h *Handler) UpdateGuru(ctx context.Context, req *UpdateGuruRequest) (*models.Envelope, error) {
	rec, err := h.Svc.Guru.SetActive(req.ID, *req.IsActive)
	if err != nil {
		if errors.Is(err, storage.ErrGuruNotFound) {
			return nil, models.NotFound("Guru tidak ditemukan")
		}
		return nil, models.InternalWithError("Gagal memperbarui data guru", err)
	}
	return models.OKMessage("Data guru berhasil diperbarui", rec), nil
}

// GuruJadwalRequest asks for one counselor's schedule.
type GuruJadwalRequest struct {
	ID      int    `json:"-" path:"id"`
	Tanggal string `json:"-" query:"tanggal"`
	Status  string `json:"-" query:"status"`
}

func (r *GuruJadwalRequest) Validate() error {
	if r.ID <= 0 {
		return models.BadRequest("ID guru tidak valid")
	}
	if r.Status != "" && !storage.ValidStatus(r.Status) {
		return models.BadRequest("Status tidak valid")
	}
	return nil
}

// GuruJadwal returns a counselor's appointments, optionally narrowed to a
// date and status.
func (h *Handler) GuruJadwal(ctx context.Context, req *GuruJadwalRequest) (*models.Envelope, error) {
	rows, err := h.Svc.Jadwal.ListByGuru(req.ID, req.Tanggal, req.Status)
	if err != nil {
		return nil, models.InternalWithError("Gagal memuat jadwal guru", err)
	}
	return models.OK(rows), nil
}

// GuruAvailabilityRequest asks for the free slots of one counselor on a date.
type GuruAvailabilityRequest struct {
	ID      int    `json:"-" path:"id"`
	Tanggal string `json:"-" query:"tanggal"`
}

func (r *GuruAvailabilityRequest) Validate() error {
	if r.ID <= 0 {
		return models.BadRequest("ID guru tidak valid")
	}
	if r.Tanggal == "" {
		return models.MissingField("Tanggal")
	}
	return nil
}

// GuruAvailability returns the slot grid minus slots overlapping open
// bookings on the requested date.
func (h *Handler) GuruAvailability(ctx context.Context, req *GuruAvailabilityRequest) (*models.Envelope, error) {
	av, err := h.Svc.Guru.AvailableSlots(req.ID, req.Tanggal)
	if err != nil {
		return nil, models.InternalWithError("Gagal memuat jadwal tersedia", err)
	}
	return models.OK(av), nil
}
