// In-app notifications.

package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/konselin/konselin/internal/email"
	"github.com/konselin/konselin/internal/models"
	"github.com/konselin/konselin/internal/storage"
)

// ListNotifikasiRequest filters a user's notifications.
type ListNotifikasiRequest struct {
	UserID int    `json:"-" query:"user_id"`
	IsRead string `json:"-" query:"is_read"`
	Limit  int    `json:"-" query:"limit"`
}

func (r *ListNotifikasiRequest) Validate() error {
	if r.UserID <= 0 {
		return models.MissingField("user_id")
	}
	if r.IsRead != "" && r.IsRead != "true" && r.IsRead != "false" {
		return models.BadRequest("is_read harus true atau false")
	}
	return nil
}

// ListNotifikasi returns a user's notifications, newest first.
func (h *Handler) ListNotifikasi(ctx context.Context, req *ListNotifikasiRequest) (*models.Envelope, error) {
	var isRead *bool
	if req.IsRead != "" {
		v := req.IsRead == "true"
		isRead = &v
	}
	rows, err := h.Svc.Notifikasi.List(req.UserID, isRead, req.Limit)
	if err != nil {
		return nil, models.InternalWithError("Gagal memuat notifikasi", err)
	}
	return models.OK(rows), nil
}

// CreateNotifikasiRequest pushes a notification to a user.
type CreateNotifikasiRequest struct {
	UserID int    `json:"user_id"`
	Judul  string `json:"judul"`
	Pesan  string `json:"pesan"`
	Tipe   string `json:"tipe"`
	Link   string `json:"link"`
}

func (r *CreateNotifikasiRequest) Validate() error {
	if r.UserID == 0 || r.Judul == "" || r.Pesan == "" {
		return models.BadRequest("User, judul, dan pesan harus diisi")
	}
	return nil
}

// CreateNotifikasi stores a notification, defaulting tipe to info. The
// stored notification is then mirrored to the delivery channels the
// recipient opted into: email when SMTP is configured, web push when the
// browser registered a subscription.
func (h *Handler) CreateNotifikasi(ctx context.Context, req *CreateNotifikasiRequest) (*models.Envelope, error) {
	id, err := h.Svc.Notifikasi.Create(req.UserID, req.Judul, req.Pesan, req.Tipe, req.Link)
	if err != nil {
		return nil, models.InternalWithError("Gagal membuat notifikasi", err)
	}

	h.mirrorNotifikasiEmail(ctx, req.UserID, req.Judul, req.Pesan)
	h.mirrorNotifikasiPush(ctx, req.UserID, req.Judul, req.Pesan, req.Tipe, req.Link)

	return models.OKMessage("Notifikasi berhasil dibuat", map[string]any{"id": id}), nil
}

// mirrorNotifikasiEmail sends the notification by email, best effort. The
// notification itself is already stored; delivery failures are only logged.
func (h *Handler) mirrorNotifikasiEmail(ctx context.Context, userID int, judul, pesan string) {
	if h.Mailer == nil {
		return
	}
	user, err := h.Svc.User.Get(userID)
	if err != nil {
		return
	}
	to := user.String("email")
	if to == "" {
		return
	}
	prefs, err := h.Svc.Pengaturan.GetUser(userID)
	if err != nil || !prefs.Bool("notifikasi_email") {
		return
	}
	locale := email.ParseLocale(prefs.String("bahasa"))
	if err := h.Mailer.SendNotifikasi(ctx, to, user.String("nama_lengkap"), judul, pesan, locale); err != nil {
		slog.WarnContext(ctx, "Failed to send notification email", "user_id", userID, "err", err)
	}
}

// MarkNotifikasiRequest flips the read flag. A missing is_read marks read.
type MarkNotifikasiRequest struct {
	ID     int   `json:"-" path:"id"`
	IsRead *bool `json:"is_read"`
}

func (r *MarkNotifikasiRequest) Validate() error {
	if r.ID <= 0 {
		return models.BadRequest("ID notifikasi tidak valid")
	}
	return nil
}

// MarkNotifikasi updates the read flag and read_at stamp.
func (h *Handler) MarkNotifikasi(ctx context.Context, req *MarkNotifikasiRequest) (*models.Envelope, error) {
	isRead := true
	if req.IsRead != nil {
		isRead = *req.IsRead
	}
	if err := h.Svc.Notifikasi.MarkRead(req.ID, isRead); err != nil {
		if errors.Is(err, storage.ErrNotifikasiNotFound) {
			return nil, models.NotFound("Notifikasi tidak ditemukan")
		}
		return nil, models.InternalWithError("Gagal memperbarui notifikasi", err)
	}
	return models.OKMessage("Notifikasi diperbarui", nil), nil
}
