package storage

import (
	"errors"
	"testing"
)

func createPeriode(t *testing.T, svc *Services, nama string, active bool) int {
	t.Helper()
	id, err := svc.Periode.Create(CreatePeriodeInput{
		NamaPeriode:    nama,
		TanggalMulai:   "2026-09-01",
		TanggalSelesai: "2026-09-30",
		WaktuMulai:     "07:00",
		WaktuSelesai:   "15:00",
		IsActive:       active,
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func activePeriodeIDs(t *testing.T, svc *Services) []int {
	t.Helper()
	active := true
	recs, err := svc.Periode.List(&active)
	if err != nil {
		t.Fatal(err)
	}
	ids := make([]int, 0, len(recs))
	for _, r := range recs {
		id, _ := r.Int("id")
		ids = append(ids, id)
	}
	return ids
}

func TestPeriodeCreateKeepsSingleActive(t *testing.T) {
	svc := testServices(t)

	first := createPeriode(t, svc, "Semester Ganjil", true)
	if got := activePeriodeIDs(t, svc); len(got) != 1 || got[0] != first {
		t.Fatalf("Expected only period %d active, got %v", first, got)
	}

	second := createPeriode(t, svc, "Semester Genap", true)
	if got := activePeriodeIDs(t, svc); len(got) != 1 || got[0] != second {
		t.Errorf("Creating an active period must deactivate the rest, active: %v", got)
	}

	// An inactive creation leaves the active one alone.
	createPeriode(t, svc, "Cadangan", false)
	if got := activePeriodeIDs(t, svc); len(got) != 1 || got[0] != second {
		t.Errorf("Inactive creation changed the active period: %v", got)
	}
}

func TestPeriodeUpdateActivation(t *testing.T) {
	svc := testServices(t)

	first := createPeriode(t, svc, "Periode A", true)
	second := createPeriode(t, svc, "Periode B", false)

	if err := svc.Periode.Update(second, map[string]any{"is_active": true}); err != nil {
		t.Fatal(err)
	}
	if got := activePeriodeIDs(t, svc); len(got) != 1 || got[0] != second {
		t.Errorf("Activation must move the flag from %d to %d, active: %v", first, second, got)
	}

	if err := svc.Periode.Update(first, map[string]any{"keterangan": "arsip"}); err != nil {
		t.Fatal(err)
	}
	if got := activePeriodeIDs(t, svc); len(got) != 1 || got[0] != second {
		t.Errorf("Non-activating update changed the active period: %v", got)
	}

	if err := svc.Periode.Update(999, map[string]any{"keterangan": "x"}); !errors.Is(err, ErrPeriodeNotFound) {
		t.Errorf("Expected ErrPeriodeNotFound, got %v", err)
	}
}
