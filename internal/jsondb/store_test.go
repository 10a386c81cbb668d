package jsondb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T, opts *Options) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(dir, opts)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	return s, dir
}

// emptySeed is a minimal baseline for tests that need empty collections.
func emptySeed(string) (*database, error) {
	return newDatabase(), nil
}

func TestOpenSeedsBaseline(t *testing.T) {
	s, dir := testStore(t, nil)

	if _, err := os.Stat(filepath.Join(dir, "database.json")); err != nil {
		t.Fatalf("Store file not created: %v", err)
	}

	users, err := s.Select(Query{From: "users"})
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 5 {
		t.Errorf("Expected 5 seeded users, got %d", len(users))
	}
	if users[0].String("username") != "admin" {
		t.Errorf("Expected first seeded user admin, got %q", users[0].String("username"))
	}
	if users[0].String("created_at") == "" {
		t.Error("Seeded user missing created_at")
	}

	layanan, err := s.Select(Query{From: "layanan_bk"})
	if err != nil {
		t.Fatal(err)
	}
	if len(layanan) != 6 {
		t.Errorf("Expected 6 seeded layanan, got %d", len(layanan))
	}

	links, err := s.Select(Query{From: "guru_layanan"})
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 10 {
		t.Errorf("Expected 10 guru_layanan links, got %d", len(links))
	}
	if _, ok := links[0]["created_at"]; ok {
		t.Error("guru_layanan links should not carry timestamps")
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	_, dir := testStore(t, nil)
	path := filepath.Join(dir, "database.json")

	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// A second store over the same file must not rewrite or reorder it.
	s2, err := Open(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s2.Select(Query{From: "users"}); err != nil {
		t.Fatal(err)
	}

	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Error("Reloading an uncorrupted store changed the file content")
	}
}

func TestCorruptedFileIsReseeded(t *testing.T) {
	s, dir := testStore(t, nil)
	path := filepath.Join(dir, "database.json")

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s.Invalidate()

	users, err := s.Select(Query{From: "users"})
	if err != nil {
		t.Fatalf("Read after corruption failed: %v", err)
	}
	if len(users) != 5 {
		t.Errorf("Expected reseeded users, got %d records", len(users))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Error("Store file not rewritten with valid JSON after reseed")
	}
}

func TestEmptyUsersTriggersReseed(t *testing.T) {
	s, dir := testStore(t, nil)
	path := filepath.Join(dir, "database.json")

	db := newDatabase()
	data, err := json.Marshal(db)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	s.Invalidate()

	users, err := s.Select(Query{From: "users"})
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 5 {
		t.Errorf("Expected baseline users after reseed, got %d", len(users))
	}
}

func TestEmptyCustomSeedKeepsData(t *testing.T) {
	s, _ := testStore(t, &Options{Seed: emptySeed})

	if _, err := s.Insert("log_aktivitas", []string{"aksi"}, "login"); err != nil {
		t.Fatal(err)
	}
	s.Invalidate()

	rows, err := s.Select(Query{From: "log_aktivitas"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("Store with a user-less seed was reseeded on reload: %d records", len(rows))
	}
}

func TestCacheTTLBoundary(t *testing.T) {
	s, dir := testStore(t, &Options{TTL: 200 * time.Millisecond})
	path := filepath.Join(dir, "database.json")

	// Simulate an out-of-process modification.
	db := newDatabase()
	db.Users = []Record{{"id": 1, "username": "external"}}
	data, err := json.Marshal(db)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	users, err := s.Select(Query{From: "users"})
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 5 {
		t.Errorf("External write observed before TTL elapsed: got %d users", len(users))
	}

	time.Sleep(250 * time.Millisecond)

	users, err = s.Select(Query{From: "users"})
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].String("username") != "external" {
		t.Errorf("External write not observed after TTL elapsed: %v", users)
	}
}

func TestReadAfterWrite(t *testing.T) {
	s, _ := testStore(t, &Options{Seed: emptySeed})

	id, err := s.Insert("notifikasi", []string{"user_id", "judul", "pesan"}, 3, "Jadwal baru", "Ada jadwal baru")
	if err != nil {
		t.Fatal(err)
	}

	recs, err := s.Select(Query{From: "notifikasi", Where: []Clause{Eq("user_id")}}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("Write not visible to immediate read: got %d records", len(recs))
	}
	if got, _ := recs[0].Int("id"); got != id {
		t.Errorf("Expected id %d, got %d", id, got)
	}
}

func TestNextID(t *testing.T) {
	s, _ := testStore(t, &Options{Seed: emptySeed})

	id, err := s.NextID("jadwal_konseling")
	if err != nil {
		t.Fatal(err)
	}
	if id != 1 {
		t.Errorf("Expected next id 1 on empty collection, got %d", id)
	}

	if _, err := s.Insert("jadwal_konseling", []string{"siswa_id"}, 3); err != nil {
		t.Fatal(err)
	}
	id, err = s.NextID("jadwal_konseling")
	if err != nil {
		t.Fatal(err)
	}
	if id != 2 {
		t.Errorf("Expected next id 2, got %d", id)
	}

	id, err = s.NextID("no_such_collection")
	if err != nil {
		t.Fatal(err)
	}
	if id != 1 {
		t.Errorf("Expected 1 for unknown collection, got %d", id)
	}
}
