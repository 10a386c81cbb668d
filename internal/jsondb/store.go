package jsondb

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL is how long a loaded snapshot stays valid for reads before the
// file is consulted again.
const DefaultTTL = 5 * time.Second

const storeFile = "database.json"

// snapshotKey is the single cache key under which the live snapshot lives.
const snapshotKey = "db"

// database is the whole persisted unit: the fixed set of named collections.
// Field order is the on-disk key order; it must stay stable so an
// uncorrupted file round-trips unchanged.
type database struct {
	Users            []Record `json:"users"`
	GuruBK           []Record `json:"guru_bk"`
	LayananBK        []Record `json:"layanan_bk"`
	GuruLayanan      []Record `json:"guru_layanan"`
	PeriodePemilihan []Record `json:"periode_pemilihan"`
	JadwalKonseling  []Record `json:"jadwal_konseling"`
	HistoryKonseling []Record `json:"history_konseling"`
	Notifikasi       []Record `json:"notifikasi"`
	PengaturanUser   []Record `json:"pengaturan_user"`
	PengaturanSistem []Record `json:"pengaturan_sistem"`
	LogAktivitas     []Record `json:"log_aktivitas"`
	LaporanKonseling []Record `json:"laporan_konseling"`
	BackupLog        []Record `json:"backup_log"`
	PushSubscription []Record `json:"push_subscriptions"`
}

func newDatabase() *database {
	return &database{
		Users:            []Record{},
		GuruBK:           []Record{},
		LayananBK:        []Record{},
		GuruLayanan:      []Record{},
		PeriodePemilihan: []Record{},
		JadwalKonseling:  []Record{},
		HistoryKonseling: []Record{},
		Notifikasi:       []Record{},
		PengaturanUser:   []Record{},
		PengaturanSistem: []Record{},
		LogAktivitas:     []Record{},
		LaporanKonseling: []Record{},
		BackupLog:        []Record{},
		PushSubscription: []Record{},
	}
}

// collection returns a pointer to the named collection, or nil for an
// unrecognized name. Readers treat nil as an empty result, never an error.
func (d *database) collection(name string) *[]Record {
	switch name {
	case "users":
		return &d.Users
	case "guru_bk":
		return &d.GuruBK
	case "layanan_bk":
		return &d.LayananBK
	case "guru_layanan":
		return &d.GuruLayanan
	case "periode_pemilihan":
		return &d.PeriodePemilihan
	case "jadwal_konseling":
		return &d.JadwalKonseling
	case "history_konseling":
		return &d.HistoryKonseling
	case "notifikasi":
		return &d.Notifikasi
	case "pengaturan_user":
		return &d.PengaturanUser
	case "pengaturan_sistem":
		return &d.PengaturanSistem
	case "log_aktivitas":
		return &d.LogAktivitas
	case "laporan_konseling":
		return &d.LaporanKonseling
	case "backup_log":
		return &d.BackupLog
	case "push_subscriptions":
		return &d.PushSubscription
	}
	return nil
}

// Options tunes a Store. The zero value selects production defaults.
type Options struct {
	// TTL overrides the snapshot time-to-live.
	TTL time.Duration
	// Now overrides the clock used for timestamps and TTL bookkeeping.
	Now func() time.Time
	// Seed overrides the baseline data written when the store file is
	// missing or unusable. Nil selects the built-in fixture.
	Seed func(stamp string) (*database, error)
}

// Store is the single-file JSON document store. One Store instance per
// process; all operations serialize on its mutex around the
// read-modify-persist sequence.
type Store struct {
	path string
	now  func() time.Time
	ttl  time.Duration
	seed func(stamp string) (*database, error)

	mu   sync.Mutex
	snap *gocache.Cache
}

// Open creates the data directory if needed and loads (seeding on first use)
// the store file.
func Open(dataDir string, opts *Options) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	s := &Store{
		path: filepath.Join(dataDir, storeFile),
		now:  time.Now,
		ttl:  DefaultTTL,
		seed: seedDatabase,
	}
	if opts != nil {
		if opts.TTL > 0 {
			s.ttl = opts.TTL
		}
		if opts.Now != nil {
			s.now = opts.Now
		}
		if opts.Seed != nil {
			s.seed = opts.Seed
		}
	}
	s.snap = gocache.New(s.ttl, 0)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// timestamp renders the current clock as the ISO 8601 form stored on disk.
func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// load returns the current snapshot, reading the file when the cached one has
// expired. A missing file is seeded with baseline data and written
// immediately; a file that fails to parse, or that lacks the users collection
// the configured seed would have written, is treated as uninitialized and
// destructively reseeded. Callers must hold s.mu.
func (s *Store) load() (*database, error) {
	if v, ok := s.snap.Get(snapshotKey); ok {
		return v.(*database), nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read store file %s: %w", s.path, err)
		}
		return s.reseed("store file missing")
	}

	db := newDatabase()
	if err := json.Unmarshal(data, db); err != nil {
		slog.Error("Store file does not parse, reseeding baseline data", "path", s.path, "err", err)
		return s.reseed("store file corrupted")
	}
	if len(db.Users) == 0 && s.seedHasUsers() {
		slog.Error("Store file has no users, reseeding baseline data", "path", s.path)
		return s.reseed("users collection empty")
	}

	s.snap.Set(snapshotKey, db, gocache.DefaultExpiration)
	return db, nil
}

// seedHasUsers reports whether the configured seed populates the users
// collection. The empty-users heuristic only fires when it would: a seed
// that legitimately produces no users must not get live data wiped on the
// next reload. Callers must hold s.mu.
func (s *Store) seedHasUsers() bool {
	db, err := s.seed(s.timestamp())
	if err != nil {
		return false
	}
	return len(db.Users) > 0
}

// reseed builds the baseline database and persists it. This is destructive
// for whatever was in the file before; load logs loudly before calling it.
// Callers must hold s.mu.
func (s *Store) reseed(reason string) (*database, error) {
	db, err := s.seed(s.timestamp())
	if err != nil {
		return nil, fmt.Errorf("failed to build seed data: %w", err)
	}
	if err := s.save(db); err != nil {
		return nil, err
	}
	slog.Info("Seeded baseline store data", "path", s.path, "reason", reason)
	return db, nil
}

// save serializes the whole database and overwrites the file. Write failures
// propagate; a mutation that did not reach disk must not look successful.
// Callers must hold s.mu.
func (s *Store) save(db *database) error {
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(s.path, data, 0o644); err != nil { //nolint:gosec // G306: the store file is operator-readable by design
		return fmt.Errorf("failed to write store file %s: %w", s.path, err)
	}
	// Read-after-write: the just-written snapshot is fresh for a full TTL.
	s.snap.Set(snapshotKey, db, gocache.DefaultExpiration)
	return nil
}

// Invalidate drops the cached snapshot so the next operation rereads the
// file regardless of TTL.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Delete(snapshotKey)
}

// nextID returns 1 for an empty collection, otherwise one greater than the
// largest positive numeric id present. Non-numeric and non-positive strays
// are ignored.
func nextID(records []Record) int {
	maxID := 0
	for _, r := range records {
		if id, ok := r.Int("id"); ok && id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// NextID reports the identifier the next insert into the collection would
// receive. Unknown collections yield 1.
func (s *Store) NextID(collection string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.load()
	if err != nil {
		return 0, err
	}
	col := db.collection(collection)
	if col == nil {
		return 1, nil
	}
	return nextID(*col), nil
}
