// Package storage implements the domain services on top of the JSON document
// store. Each service holds the shared store and expresses its reads and
// writes as structured queries.
package storage

import (
	"time"

	"github.com/konselin/konselin/internal/jsondb"
)

// Services bundles every domain service around one store.
type Services struct {
	User       *UserService
	Guru       *GuruService
	Layanan    *LayananService
	Jadwal     *JadwalService
	History    *HistoryService
	Notifikasi *NotifikasiService
	Pengaturan *PengaturanService
	Periode    *PeriodeService
	Dashboard  *DashboardService
	Activity   *ActivityService
	Push       *PushService
}

// NewServices wires the services around the store. The now function supplies
// "today" for date-relative queries; nil uses the wall clock.
func NewServices(store *jsondb.Store, hours WorkingHours, now func() time.Time) *Services {
	if now == nil {
		now = time.Now
	}
	return &Services{
		User:       &UserService{store: store},
		Guru:       &GuruService{store: store, hours: hours},
		Layanan:    &LayananService{store: store},
		Jadwal:     &JadwalService{store: store},
		History:    &HistoryService{store: store},
		Notifikasi: &NotifikasiService{store: store},
		Pengaturan: &PengaturanService{store: store},
		Periode:    &PeriodeService{store: store},
		Dashboard:  &DashboardService{store: store, now: now},
		Activity:   &ActivityService{store: store},
		Push:       &PushService{store: store},
	}
}
