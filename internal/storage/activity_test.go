package storage

import (
	"context"
	"testing"
)

func TestActivityLogAndRecent(t *testing.T) {
	svc := testServices(t)
	ctx := context.Background()

	svc.Activity.Log(ctx, 3, "login", "Login ke sistem", "10.0.0.1")
	svc.Activity.Log(ctx, 0, "login_gagal", "Percobaan login gagal", "10.0.0.2")
	svc.Activity.Log(ctx, 1, "update_pengaturan_sistem", "maintenance_mode", "")

	rows, err := svc.Activity.Recent(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 audit records, got %d", len(rows))
	}
	// Anonymous action stores a null user id.
	for _, rec := range rows {
		if rec.String("aksi") == "login_gagal" {
			if _, ok := rec.Int("user_id"); ok {
				t.Error("Anonymous action should not carry a user id")
			}
		}
	}

	limited, err := svc.Activity.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("Limit not applied: %d records", len(limited))
	}
}
