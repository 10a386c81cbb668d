// Web push subscription endpoints and dispatch.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/konselin/konselin/internal/models"
	"github.com/konselin/konselin/internal/storage"
)

// PushPublicKey returns the VAPID public key the frontend needs to call
// PushManager.subscribe.
func (h *Handler) PushPublicKey(ctx context.Context, _ *EmptyRequest) (*models.Envelope, error) {
	if !h.VAPID.Enabled() {
		return nil, models.NotFound("Push tidak dikonfigurasi")
	}
	return models.OK(map[string]any{"public_key": h.VAPID.PublicKey}), nil
}

// SubscribePushRequest carries the PushSubscription JSON the browser hands
// out, plus the account it belongs to.
type SubscribePushRequest struct {
	UserID   int    `json:"user_id"`
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

func (r *SubscribePushRequest) Validate() error {
	if r.UserID <= 0 {
		return models.MissingField("user_id")
	}
	if r.Endpoint == "" {
		return models.MissingField("endpoint")
	}
	if r.Keys.P256dh == "" || r.Keys.Auth == "" {
		return models.BadRequest("Kunci langganan push tidak lengkap")
	}
	return nil
}

// SubscribePush registers a browser for push delivery. Re-posting an
// endpoint refreshes the stored keys.
func (h *Handler) SubscribePush(ctx context.Context, req *SubscribePushRequest) (*models.Envelope, error) {
	id, err := h.Svc.Push.Subscribe(req.UserID, req.Endpoint, req.Keys.P256dh, req.Keys.Auth)
	if err != nil {
		return nil, models.InternalWithError("Gagal menyimpan langganan push", err)
	}
	return models.OKMessage("Langganan push berhasil disimpan", map[string]any{"id": id}), nil
}

// UnsubscribePushRequest drops one endpoint's subscription.
type UnsubscribePushRequest struct {
	Endpoint string `json:"endpoint"`
}

func (r *UnsubscribePushRequest) Validate() error {
	if r.Endpoint == "" {
		return models.MissingField("endpoint")
	}
	return nil
}

// UnsubscribePush removes the subscription for the given endpoint.
func (h *Handler) UnsubscribePush(ctx context.Context, req *UnsubscribePushRequest) (*models.Envelope, error) {
	if err := h.Svc.Push.DeleteByEndpoint(req.Endpoint); err != nil {
		if errors.Is(err, storage.ErrPushSubNotFound) {
			return nil, models.NotFound("Langganan push tidak ditemukan")
		}
		return nil, models.InternalWithError("Gagal menghapus langganan push", err)
	}
	return models.OKMessage("Langganan push dihapus", nil), nil
}

// mirrorNotifikasiPush dispatches the notification to the user's registered
// browsers, best effort and asynchronous. A push service answering 410 Gone
// invalidates that subscription.
func (h *Handler) mirrorNotifikasiPush(ctx context.Context, userID int, judul, pesan, tipe, link string) {
	if !h.VAPID.Enabled() {
		return
	}
	prefs, err := h.Svc.Pengaturan.GetUser(userID)
	if err != nil || !prefs.Bool("notifikasi_aktif") {
		return
	}
	subs, err := h.Svc.Push.ListByUser(userID)
	if err != nil || len(subs) == 0 {
		return
	}

	payload, _ := json.Marshal(map[string]string{
		"judul": judul,
		"pesan": pesan,
		"tipe":  tipe,
		"link":  link,
	})
	vapid := h.VAPID
	go func() {
		for _, sub := range subs {
			resp, err := webpush.SendNotification(payload, &webpush.Subscription{
				Endpoint: sub.String("endpoint"),
				Keys: webpush.Keys{
					P256dh: sub.String("p256dh"),
					Auth:   sub.String("auth"),
				},
			}, &webpush.Options{
				Subscriber:      vapid.Subscriber,
				VAPIDPublicKey:  vapid.PublicKey,
				VAPIDPrivateKey: vapid.PrivateKey,
				TTL:             86400,
			})
			if err != nil {
				slog.Warn("Web push send failed", "user_id", userID, "err", err)
				continue
			}
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusGone {
				if id, ok := sub.Int("id"); ok {
					if err := h.Svc.Push.Delete(id); err != nil {
						slog.Warn("Failed to drop expired push subscription", "id", id, "err", err)
					}
				}
			}
		}
	}()
}
