package jsondb

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// seed.yaml holds the baseline reference data written when the store file is
// created (or reseeded after corruption): default admin accounts, sample
// students, the service catalog, counselor profiles and system settings.
//
//go:embed seed.yaml
var seedFixture []byte

type seedFile struct {
	Users            []Record `yaml:"users"`
	GuruBK           []Record `yaml:"guru_bk"`
	LayananBK        []Record `yaml:"layanan_bk"`
	GuruLayanan      []Record `yaml:"guru_layanan"`
	PengaturanSistem []Record `yaml:"pengaturan_sistem"`
}

// seedDatabase builds the baseline database, stamping created_at/updated_at
// with the given timestamp. The guru_layanan link rows carry no timestamps,
// matching the original data set.
func seedDatabase(stamp string) (*database, error) {
	var f seedFile
	if err := yaml.Unmarshal(seedFixture, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed fixture: %w", err)
	}

	db := newDatabase()
	db.Users = stampAll(f.Users, stamp)
	db.GuruBK = stampAll(f.GuruBK, stamp)
	db.LayananBK = stampAll(f.LayananBK, stamp)
	db.GuruLayanan = f.GuruLayanan
	db.PengaturanSistem = stampAll(f.PengaturanSistem, stamp)
	return db, nil
}

func stampAll(recs []Record, stamp string) []Record {
	for _, r := range recs {
		r["created_at"] = stamp
		r["updated_at"] = stamp
	}
	if recs == nil {
		return []Record{}
	}
	return recs
}
