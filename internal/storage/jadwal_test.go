package storage

import (
	"errors"
	"testing"
)

func TestJadwalCreateAndList(t *testing.T) {
	svc := testServices(t)

	id, err := svc.Jadwal.Create(CreateJadwalInput{
		SiswaID: 3, GuruID: 1, LayananID: 1,
		Tanggal: "2026-09-02", WaktuMulai: "08:00", WaktuSelesai: "08:30",
		AlasanKonseling: "Kesulitan matematika",
	})
	if err != nil {
		t.Fatal(err)
	}
	if id != 1 {
		t.Errorf("Expected first jadwal id 1, got %d", id)
	}
	if _, err := svc.Jadwal.Create(CreateJadwalInput{
		SiswaID: 4, GuruID: 2, LayananID: 3,
		Tanggal: "2026-09-03", WaktuMulai: "09:00", WaktuSelesai: "09:30",
		AlasanKonseling: "Masalah pertemanan",
	}); err != nil {
		t.Fatal(err)
	}

	all, err := svc.Jadwal.List(0, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 appointments, got %d", len(all))
	}
	// Newest date first.
	if all[0].String("tanggal") != "2026-09-03" {
		t.Errorf("Expected descending date order, first is %s", all[0].String("tanggal"))
	}
	if all[0].String("nama_siswa") != "Siti Nurhaliza" {
		t.Errorf("Join missing nama_siswa: %q", all[0].String("nama_siswa"))
	}
	if all[0].String("nama_layanan") != "Bimbingan Pribadi" {
		t.Errorf("Join missing nama_layanan: %q", all[0].String("nama_layanan"))
	}
	if all[0].String("status") != "menunggu" {
		t.Errorf("New appointment should wait for confirmation, got %q", all[0].String("status"))
	}

	mine, err := svc.Jadwal.List(3, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 {
		t.Errorf("Student filter failed: %d records", len(mine))
	}
}

func TestJadwalListByGuru(t *testing.T) {
	svc := testServices(t)

	mk := func(guruID int, tanggal, mulai string) {
		t.Helper()
		if _, err := svc.Jadwal.Create(CreateJadwalInput{
			SiswaID: 3, GuruID: guruID, LayananID: 1,
			Tanggal: tanggal, WaktuMulai: mulai, WaktuSelesai: "23:59",
			AlasanKonseling: "Sesi rutin",
		}); err != nil {
			t.Fatal(err)
		}
	}
	mk(1, "2026-09-02", "10:00")
	mk(1, "2026-09-02", "08:00")
	mk(1, "2026-09-03", "09:00")
	mk(2, "2026-09-02", "08:00")

	rows, err := svc.Jadwal.ListByGuru(1, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 appointments for guru 1, got %d", len(rows))
	}
	// Ascending by date then start time.
	if rows[0].String("waktu_mulai") != "08:00" || rows[2].String("tanggal") != "2026-09-03" {
		t.Errorf("Unexpected order: %s %s / %s", rows[0].String("tanggal"),
			rows[0].String("waktu_mulai"), rows[2].String("tanggal"))
	}

	day, err := svc.Jadwal.ListByGuru(1, "2026-09-02", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(day) != 2 {
		t.Errorf("Date filter failed: %d records", len(day))
	}
}

func TestJadwalStatusTransitions(t *testing.T) {
	svc := testServices(t)

	id, err := svc.Jadwal.Create(CreateJadwalInput{
		SiswaID: 3, GuruID: 1, LayananID: 1,
		Tanggal: "2026-09-02", WaktuMulai: "08:00", WaktuSelesai: "08:30",
		AlasanKonseling: "Konsultasi",
	})
	if err != nil {
		t.Fatal(err)
	}

	rec, err := svc.Jadwal.UpdateStatus(id, "dijadwalkan")
	if err != nil {
		t.Fatal(err)
	}
	if rec.String("status") != "dijadwalkan" {
		t.Errorf("Status not applied: %q", rec.String("status"))
	}

	if _, err := svc.Jadwal.UpdateStatus(id, "ditunda"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.Jadwal.UpdateStatus(999, "selesai"); !errors.Is(err, ErrJadwalNotFound) {
		t.Errorf("Expected ErrJadwalNotFound, got %v", err)
	}
}

func TestJadwalDelete(t *testing.T) {
	svc := testServices(t)

	id, err := svc.Jadwal.Create(CreateJadwalInput{
		SiswaID: 3, GuruID: 1, LayananID: 1,
		Tanggal: "2026-09-02", WaktuMulai: "08:00", WaktuSelesai: "08:30",
		AlasanKonseling: "Konsultasi",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Jadwal.Delete(id); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Jadwal.Get(id); !errors.Is(err, ErrJadwalNotFound) {
		t.Errorf("Deleted appointment still readable, got %v", err)
	}
	if err := svc.Jadwal.Delete(id); !errors.Is(err, ErrJadwalNotFound) {
		t.Errorf("Second delete should be ErrJadwalNotFound, got %v", err)
	}
}

func TestHistoryListAndAdd(t *testing.T) {
	svc := testServices(t)

	for i, tanggal := range []string{"2026-08-01", "2026-08-15", "2026-08-20"} {
		if _, err := svc.History.Add(AddHistoryInput{
			JadwalID: i + 1, SiswaID: 3, GuruID: 1, LayananID: 1,
			TanggalKonseling: tanggal, WaktuMulai: "08:00", WaktuSelesai: "08:30",
			Ringkasan: "Sesi berjalan baik",
		}); err != nil {
			t.Fatal(err)
		}
	}

	hist, err := svc.History.List(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 2 {
		t.Fatalf("Limit not applied: got %d records", len(hist))
	}
	if hist[0].String("tanggal_konseling") != "2026-08-20" {
		t.Errorf("Expected newest first, got %s", hist[0].String("tanggal_konseling"))
	}
	if hist[0].String("nama_guru") == "" {
		t.Error("History join missing nama_guru")
	}

	other, err := svc.History.List(4, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("Student filter failed: %d records", len(other))
	}
}
