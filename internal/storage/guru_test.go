package storage

import (
	"errors"
	"reflect"
	"testing"
)

func TestGuruListResolvesLayanan(t *testing.T) {
	svc := testServices(t)

	gurus, err := svc.Guru.List(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(gurus) != 6 {
		t.Fatalf("Expected 6 seeded counselors, got %d", len(gurus))
	}
	if gurus[0].String("nama_lengkap") != "Bapak Ahmad Fauzi, M.Pd" {
		t.Errorf("Expected name-ascending order, first is %q", gurus[0].String("nama_lengkap"))
	}

	for _, g := range gurus {
		if id, _ := g.Int("id"); id == 1 {
			want := []string{"Konseling Akademik", "Bimbingan Karir"}
			if got, ok := g["layanan"].([]string); !ok || !reflect.DeepEqual(got, want) {
				t.Errorf("Unexpected layanan for guru 1: %v", g["layanan"])
			}
		}
	}
}

func TestGuruSetActiveFiltersList(t *testing.T) {
	svc := testServices(t)

	updated, err := svc.Guru.SetActive(3, false)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Bool("is_active") {
		t.Error("SetActive(false) not reflected in returned record")
	}

	active := true
	gurus, err := svc.Guru.List(&active)
	if err != nil {
		t.Fatal(err)
	}
	if len(gurus) != 5 {
		t.Errorf("Expected 5 active counselors, got %d", len(gurus))
	}

	if _, err := svc.Guru.SetActive(999, true); !errors.Is(err, ErrGuruNotFound) {
		t.Errorf("Expected ErrGuruNotFound, got %v", err)
	}
}

func TestWorkingHoursSlotGrid(t *testing.T) {
	slots := DefaultWorkingHours().slots()
	if len(slots) != 25 {
		t.Fatalf("Expected 25 half-hour slots between 06:30 and 19:00, got %d", len(slots))
	}
	if slots[0].Start != "06:30" || slots[0].End != "07:00" {
		t.Errorf("Unexpected first slot %v", slots[0])
	}
	last := slots[len(slots)-1]
	if last.Start != "18:30" || last.End != "19:00" {
		t.Errorf("Unexpected last slot %v", last)
	}
}

func TestAvailableSlotsExcludesOpenBookings(t *testing.T) {
	svc := testServices(t)

	// One hour booked, one cancelled booking that must not block.
	if _, err := svc.Jadwal.Create(CreateJadwalInput{
		SiswaID: 3, GuruID: 1, LayananID: 1,
		Tanggal: "2026-09-02", WaktuMulai: "08:00", WaktuSelesai: "09:00",
		AlasanKonseling: "Konsultasi nilai",
	}); err != nil {
		t.Fatal(err)
	}
	id, err := svc.Jadwal.Create(CreateJadwalInput{
		SiswaID: 4, GuruID: 1, LayananID: 1,
		Tanggal: "2026-09-02", WaktuMulai: "10:00", WaktuSelesai: "10:30",
		AlasanKonseling: "Batal",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Jadwal.UpdateStatus(id, "dibatalkan"); err != nil {
		t.Fatal(err)
	}

	av, err := svc.Guru.AvailableSlots(1, "2026-09-02")
	if err != nil {
		t.Fatal(err)
	}
	if len(av.BookedSlots) != 1 {
		t.Fatalf("Expected 1 blocking booking, got %d", len(av.BookedSlots))
	}
	if len(av.AvailableSlots) != 23 {
		t.Errorf("Expected 23 free slots, got %d", len(av.AvailableSlots))
	}
	for _, s := range av.AvailableSlots {
		if s.Start == "08:00" || s.Start == "08:30" {
			t.Errorf("Slot %v overlaps the booking", s)
		}
		if s.Start == "10:00" {
			return // cancelled slot is free again
		}
	}
	t.Error("Cancelled booking still blocks its slot")
}

func TestAvailableSlotsOtherGuruUnaffected(t *testing.T) {
	svc := testServices(t)

	if _, err := svc.Jadwal.Create(CreateJadwalInput{
		SiswaID: 3, GuruID: 1, LayananID: 1,
		Tanggal: "2026-09-02", WaktuMulai: "08:00", WaktuSelesai: "08:30",
		AlasanKonseling: "Konsultasi",
	}); err != nil {
		t.Fatal(err)
	}

	av, err := svc.Guru.AvailableSlots(2, "2026-09-02")
	if err != nil {
		t.Fatal(err)
	}
	if len(av.AvailableSlots) != 25 {
		t.Errorf("Another counselor's booking leaked: %d free slots", len(av.AvailableSlots))
	}
}
