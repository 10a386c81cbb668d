// User preferences and admin-managed system settings.

package handlers

import (
	"context"
	"errors"

	"github.com/konselin/konselin/internal/models"
	"github.com/konselin/konselin/internal/server/reqctx"
	"github.com/konselin/konselin/internal/storage"
)

// GetPengaturanRequest fetches a user's preferences.
type GetPengaturanRequest struct {
	UserID int `json:"-" query:"user_id"`
}

func (r *GetPengaturanRequest) Validate() error {
	if r.UserID <= 0 {
		return models.MissingField("user_id")
	}
	return nil
}

// GetPengaturan returns stored preferences, or the defaults when the user
// has never saved any.
func (h *Handler) GetPengaturan(ctx context.Context, req *GetPengaturanRequest) (*models.Envelope, error) {
	rec, err := h.Svc.Pengaturan.GetUser(req.UserID)
	if err != nil {
		return nil, models.InternalWithError("Gagal memuat pengaturan", err)
	}
	return models.OK(rec), nil
}

// UpdatePengaturanRequest upserts preference fields. Only fields present in
// the body are applied.
type UpdatePengaturanRequest struct {
	UserID          int     `json:"user_id"`
	NotifikasiAktif *bool   `json:"notifikasi_aktif"`
	NotifikasiEmail *bool   `json:"notifikasi_email"`
	TemaPreferensi  *string `json:"tema_preferensi"`
	Bahasa          *string `json:"bahasa"`
}

func (r *UpdatePengaturanRequest) Validate() error {
	if r.UserID <= 0 {
		return models.MissingField("user_id")
	}
	return nil
}

// UpdatePengaturan saves a user's preferences.
func (h *Handler) UpdatePengaturan(ctx context.Context, req *UpdatePengaturanRequest) (*models.Envelope, error) {
	updates := map[string]any{}
	if req.NotifikasiAktif != nil {
		updates["notifikasi_aktif"] = *req.NotifikasiAktif
	}
	if req.NotifikasiEmail != nil {
		updates["notifikasi_email"] = *req.NotifikasiEmail
	}
	if req.TemaPreferensi != nil {
		updates["tema_preferensi"] = *req.TemaPreferensi
	}
	if req.Bahasa != nil {
		updates["bahasa"] = *req.Bahasa
	}
	if err := h.Svc.Pengaturan.UpdateUser(req.UserID, updates); err != nil {
		if errors.Is(err, storage.ErrSettingNotFound) {
			return nil, models.BadRequest("Tidak ada pengaturan yang diperbarui")
		}
		return nil, models.InternalWithError("Gagal menyimpan pengaturan", err)
	}
	return models.OKMessage("Pengaturan berhasil disimpan", nil), nil
}

// ListPengaturanSistemRequest filters system settings.
type ListPengaturanSistemRequest struct {
	Kategori string `json:"-" query:"kategori"`
	Key      string `json:"-" query:"key"`
}

func (r *ListPengaturanSistemRequest) Validate() error { return nil }

// ListPengaturanSistem returns system settings ordered by category then key.
func (h *Handler) ListPengaturanSistem(ctx context.Context, req *ListPengaturanSistemRequest) (*models.Envelope, error) {
	rows, err := h.Svc.Pengaturan.ListSystem(req.Kategori, req.Key)
	if err != nil {
		return nil, models.InternalWithError("Gagal memuat pengaturan sistem", err)
	}
	return models.OK(rows), nil
}

// UpdatePengaturanSistemRequest sets one system setting by key.
type UpdatePengaturanSistemRequest struct {
	KeySetting   string `json:"key_setting"`
	ValueSetting string `json:"value_setting"`
}

func (r *UpdatePengaturanSistemRequest) Validate() error {
	if r.KeySetting == "" {
		return models.MissingField("key_setting")
	}
	return nil
}

// UpdatePengaturanSistem updates a system setting. Admin only.
func (h *Handler) UpdatePengaturanSistem(ctx context.Context, user *reqctx.AuthUser, req *UpdatePengaturanSistemRequest) (*models.Envelope, error) {
	if err := h.Svc.Pengaturan.UpdateSystem(req.KeySetting, req.ValueSetting, user.ID); err != nil {
		if errors.Is(err, storage.ErrSettingNotFound) {
			return nil, models.NotFound("Pengaturan tidak ditemukan")
		}
		return nil, models.InternalWithError("Gagal memperbarui pengaturan sistem", err)
	}

	h.Svc.Activity.Log(ctx, user.ID, "update_pengaturan_sistem", req.KeySetting, reqctx.ClientIP(ctx))

	return models.OKMessage("Pengaturan berhasil diperbarui", nil), nil
}
