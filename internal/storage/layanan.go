package storage

import "github.com/konselin/konselin/internal/jsondb"

// LayananService reads the counseling service catalog.
type LayananService struct {
	store *jsondb.Store
}

// ListActive returns the active services ordered by name.
func (s *LayananService) ListActive() ([]jsondb.Record, error) {
	return s.store.Select(jsondb.Query{
		From:    "layanan_bk",
		Where:   []jsondb.Clause{jsondb.EqVal("is_active", true)},
		OrderBy: "nama_layanan",
	})
}
