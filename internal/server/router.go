// HTTP route wiring.

package server

import (
	"net/http"

	"github.com/konselin/konselin/internal/email"
	"github.com/konselin/konselin/internal/server/handlers"
	"github.com/konselin/konselin/internal/server/ratelimit"
	"github.com/konselin/konselin/internal/storage"
)

// NewRouter builds the API mux. Login and register share a per-IP rate
// limiter; system settings updates and password changes require a session
// token. mailer may be nil when SMTP is not configured.
func NewRouter(svc *storage.Services, cfg *storage.ServerConfig, mailer *email.Service) http.Handler {
	h := handlers.New(svc, cfg.JWTSecret, mailer, cfg.VAPID)
	authLimiter := ratelimit.New(cfg.RateLimits.AuthRatePerMin)

	mux := http.NewServeMux()

	mux.Handle("GET /api/health", Wrap(h.Health, nil))

	mux.Handle("POST /api/auth/login", Wrap(h.Login, authLimiter))
	mux.Handle("POST /api/auth/register", Wrap(h.Register, authLimiter))

	mux.Handle("GET /api/jadwal", Wrap(h.ListJadwal, nil))
	mux.Handle("POST /api/jadwal", Wrap(h.CreateJadwal, nil))
	mux.Handle("GET /api/jadwal/{id}", Wrap(h.GetJadwal, nil))
	mux.Handle("PATCH /api/jadwal/{id}", Wrap(h.UpdateJadwalStatus, nil))
	mux.Handle("DELETE /api/jadwal/{id}", Wrap(h.DeleteJadwal, nil))

	mux.Handle("GET /api/guru", Wrap(h.ListGuru, nil))
	mux.Handle("GET /api/guru/{id}", Wrap(h.GetGuru, nil))
	mux.Handle("PATCH /api/guru/{id}", Wrap(h.UpdateGuru, nil))
	mux.Handle("GET /api/guru/{id}/jadwal", Wrap(h.GuruJadwal, nil))
	mux.Handle("GET /api/guru/{id}/jadwal-tersedia", Wrap(h.GuruAvailability, nil))

	mux.Handle("GET /api/layanan", Wrap(h.ListLayanan, nil))

	mux.Handle("GET /api/siswa", Wrap(h.ListSiswa, nil))

	mux.Handle("GET /api/history", Wrap(h.ListHistory, nil))
	mux.Handle("POST /api/history", Wrap(h.AddHistory, nil))

	mux.Handle("GET /api/push/public-key", Wrap(h.PushPublicKey, nil))
	mux.Handle("POST /api/push/subscribe", Wrap(h.SubscribePush, nil))
	mux.Handle("DELETE /api/push/subscribe", Wrap(h.UnsubscribePush, nil))

	mux.Handle("GET /api/notifikasi", Wrap(h.ListNotifikasi, nil))
	mux.Handle("POST /api/notifikasi", Wrap(h.CreateNotifikasi, nil))
	mux.Handle("PATCH /api/notifikasi/{id}", Wrap(h.MarkNotifikasi, nil))

	mux.Handle("GET /api/pengaturan", Wrap(h.GetPengaturan, nil))
	mux.Handle("PATCH /api/pengaturan", Wrap(h.UpdatePengaturan, nil))
	mux.Handle("GET /api/pengaturan-sistem", Wrap(h.ListPengaturanSistem, nil))
	mux.Handle("PATCH /api/pengaturan-sistem", WrapAuth(h.UpdatePengaturanSistem, cfg.JWTSecret, "admin"))

	mux.Handle("GET /api/periode", Wrap(h.ListPeriode, nil))
	mux.Handle("POST /api/periode", Wrap(h.CreatePeriode, nil))
	mux.Handle("PATCH /api/periode/{id}", Wrap(h.UpdatePeriode, nil))

	mux.Handle("GET /api/users/{id}", Wrap(h.GetUser, nil))
	mux.Handle("PATCH /api/users/{id}", Wrap(h.UpdateUser, nil))
	mux.Handle("DELETE /api/users/{id}", Wrap(h.DeleteUser, nil))
	mux.Handle("PATCH /api/users/password", WrapAuth(h.UpdatePassword, cfg.JWTSecret, ""))

	mux.Handle("GET /api/dashboard", Wrap(h.Dashboard, nil))

	mux.Handle("GET /api/log-aktivitas", WrapAuth(h.ListActivity, cfg.JWTSecret, "admin"))

	return mux
}
