// Account endpoints: student listing, profile, password, deletion.

package handlers

import (
	"context"
	"errors"

	"github.com/konselin/konselin/internal/models"
	"github.com/konselin/konselin/internal/server/reqctx"
	"github.com/konselin/konselin/internal/storage"
)

// ListSiswaRequest filters the student roster. A non-empty search term
// overrides the kelas and jurusan filters.
type ListSiswaRequest struct {
	Kelas   string `json:"-" query:"kelas"`
	Jurusan string `json:"-" query:"jurusan"`
	Search  string `json:"-" query:"search"`
}

func (r *ListSiswaRequest) Validate() error { return nil }

// ListSiswa returns student accounts, password hashes stripped.
func (h *Handler) ListSiswa(ctx context.Context, req *ListSiswaRequest) (*models.Envelope, error) {
	rows, err := h.Svc.User.ListSiswa(req.Kelas, req.Jurusan, req.Search)
	if err != nil {
		return nil, models.InternalWithError("Gagal memuat data siswa", err)
	}
	for _, rec := range rows {
		storage.Sanitize(rec)
	}
	return models.OK(rows), nil
}

// GetUserRequest fetches one account.
type GetUserRequest struct {
	ID int `json:"-" path:"id"`
}

func (r *GetUserRequest) Validate() error {
	if r.ID <= 0 {
		return models.BadRequest("ID user tidak valid")
	}
	return nil
}

// GetUser returns one account by id, password hash stripped.
func (h *Handler) GetUser(ctx context.Context, req *GetUserRequest) (*models.Envelope, error) {
	user, err := h.Svc.User.Get(req.ID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, models.NotFound("User tidak ditemukan")
		}
		return nil, models.InternalWithError("Gagal memuat data user", err)
	}
	return models.OK(storage.Sanitize(user)), nil
}

// UpdateUserRequest carries a partial profile update. Only the fields
// present in the body are applied.
type UpdateUserRequest struct {
	ID          int     `json:"-" path:"id"`
	Email       *string `json:"email"`
	FotoProfil  *string `json:"foto_profil"`
	NamaLengkap *string `json:"nama_lengkap"`
	Alamat      *string `json:"alamat"`
	NoTelepon   *string `json:"no_telepon"`
	Kelas       *string `json:"kelas"`
	Jurusan     *string `json:"jurusan"`
}

func (r *UpdateUserRequest) Validate() error {
	if r.ID <= 0 {
		return models.BadRequest("ID user tidak valid")
	}
	if r.NamaLengkap != nil && *r.NamaLengkap == "" {
		return models.MissingField("Nama lengkap")
	}
	return nil
}

func (r *UpdateUserRequest) updates() map[string]any {
	m := map[string]any{}
	put := func(field string, v *string) {
		if v != nil {
			m[field] = *v
		}
	}
	put("email", r.Email)
	put("foto_profil", r.FotoProfil)
	put("nama_lengkap", r.NamaLengkap)
	put("alamat", r.Alamat)
	put("no_telepon", r.NoTelepon)
	put("kelas", r.Kelas)
	put("jurusan", r.Jurusan)
	return m
}

// UpdateUser applies the provided profile fields and returns the updated
// account.
func (h *Handler) UpdateUser(ctx context.Context, req *UpdateUserRequest) (*models.Envelope, error) {
	updates := req.updates()
	if len(updates) == 0 {
		return nil, models.BadRequest("Tidak ada field yang diperbarui")
	}
	user, err := h.Svc.User.UpdateProfile(req.ID, updates)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, models.NotFound("User tidak ditemukan")
		}
		return nil, models.InternalWithError("Gagal memperbarui profil", err)
	}
	return models.OKMessage("Profil berhasil diperbarui", storage.Sanitize(user)), nil
}

// DeleteUserRequest removes an account.
type DeleteUserRequest struct {
	ID int `json:"-" path:"id"`
}

func (r *DeleteUserRequest) Validate() error {
	if r.ID <= 0 {
		return models.BadRequest("ID user tidak valid")
	}
	return nil
}

// DeleteUser soft-deletes the account.
func (h *Handler) DeleteUser(ctx context.Context, req *DeleteUserRequest) (*models.Envelope, error) {
	if err := h.Svc.User.Delete(req.ID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, models.NotFound("User tidak ditemukan")
		}
		return nil, models.InternalWithError("Gagal menghapus user", err)
	}
	return models.OKMessage("User berhasil dihapus", nil), nil
}

// UpdatePasswordRequest changes an account password. UserID of 0 means the
// authenticated account.
type UpdatePasswordRequest struct {
	UserID       int    `json:"user_id"`
	PasswordLama string `json:"password_lama"`
	PasswordBaru string `json:"password_baru"`
}

func (r *UpdatePasswordRequest) Validate() error {
	if r.PasswordBaru == "" {
		return models.MissingField("Password baru")
	}
	if len(r.PasswordBaru) < 6 {
		return models.BadRequest("Password baru minimal 6 karakter")
	}
	return nil
}

// UpdatePassword changes a password. Anyone can change their own password
// after verifying the old one; admins can reset any account without it.
func (h *Handler) UpdatePassword(ctx context.Context, user *reqctx.AuthUser, req *UpdatePasswordRequest) (*models.Envelope, error) {
	targetID := req.UserID
	if targetID == 0 {
		targetID = user.ID
	}

	if targetID == user.ID {
		if req.PasswordLama == "" {
			return nil, models.MissingField("Password lama")
		}
		if err := h.Svc.User.VerifyPassword(user.ID, req.PasswordLama); err != nil {
			if errors.Is(err, storage.ErrWrongPassword) {
				return nil, models.BadRequest("Password lama tidak sesuai")
			}
			return nil, models.InternalWithError("Gagal memverifikasi password", err)
		}
	} else if user.Role != "admin" {
		return nil, models.Forbidden("Anda tidak memiliki akses")
	}

	if err := h.Svc.User.SetPassword(targetID, req.PasswordBaru); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, models.NotFound("User tidak ditemukan")
		}
		return nil, models.InternalWithError("Gagal mengubah password", err)
	}

	h.Svc.Activity.Log(ctx, user.ID, "update_password", "Mengubah password", reqctx.ClientIP(ctx))

	return models.OKMessage("Password berhasil diubah", nil), nil
}
