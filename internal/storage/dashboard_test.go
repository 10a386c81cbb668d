package storage

import "testing"

// seedDashboardJadwal books a spread of appointments around testNow
// (2026-09-01) for guru 1 and siswa 3.
func seedDashboardJadwal(t *testing.T, svc *Services) {
	t.Helper()
	rows := []struct {
		siswa, guru int
		tanggal     string
		status      string
	}{
		{3, 1, "2026-09-01", "berlangsung"},
		{3, 1, "2026-09-02", "dijadwalkan"},
		{3, 1, "2026-08-20", "selesai"},
		{4, 1, "2026-08-31", "dijadwalkan"}, // past, not upcoming
		{4, 2, "2026-09-01", "menunggu"},
	}
	for _, r := range rows {
		id, err := svc.Jadwal.Create(CreateJadwalInput{
			SiswaID: r.siswa, GuruID: r.guru, LayananID: 1,
			Tanggal: r.tanggal, WaktuMulai: "08:00", WaktuSelesai: "08:30",
			AlasanKonseling: "Konsultasi",
		})
		if err != nil {
			t.Fatal(err)
		}
		if r.status != "menunggu" {
			if _, err := svc.Jadwal.UpdateStatus(id, r.status); err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestDashboardSiswa(t *testing.T) {
	svc := testServices(t)
	seedDashboardJadwal(t, svc)

	stats, err := svc.Dashboard.Siswa(3)
	if err != nil {
		t.Fatal(err)
	}
	if stats.NamaSiswa != "Ahmad Rizki" {
		t.Errorf("Unexpected nama_siswa %q", stats.NamaSiswa)
	}
	if stats.TotalKonseling != 3 {
		t.Errorf("total_konseling = %d, want 3", stats.TotalKonseling)
	}
	if stats.KonselingSelesai != 1 {
		t.Errorf("konseling_selesai = %d, want 1", stats.KonselingSelesai)
	}
	if stats.JadwalMendatang != 1 {
		t.Errorf("jadwal_mendatang = %d, want 1", stats.JadwalMendatang)
	}
	if stats.KonselingBerlangsung != 1 {
		t.Errorf("konseling_berlangsung = %d, want 1", stats.KonselingBerlangsung)
	}
}

func TestDashboardSiswaEmpty(t *testing.T) {
	svc := testServices(t)

	stats, err := svc.Dashboard.Siswa(5)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalKonseling != 0 || stats.NamaSiswa != "Budi Santoso" {
		t.Errorf("Unexpected stats for student without appointments: %+v", stats)
	}
}

func TestDashboardAdmin(t *testing.T) {
	svc := testServices(t)
	seedDashboardJadwal(t, svc)

	stats, err := svc.Dashboard.Admin()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSiswa != 3 {
		t.Errorf("total_siswa = %d, want 3", stats.TotalSiswa)
	}
	if stats.TotalGuruAktif != 6 {
		t.Errorf("total_guru_aktif = %d, want 6", stats.TotalGuruAktif)
	}
	if stats.JadwalMendatang != 1 {
		t.Errorf("jadwal_mendatang = %d, want 1", stats.JadwalMendatang)
	}
	if stats.KonselingHariIni != 2 {
		t.Errorf("konseling_hari_ini = %d, want 2", stats.KonselingHariIni)
	}
	if stats.KonselingBulanIni != 3 {
		t.Errorf("konseling_bulan_ini = %d, want 3", stats.KonselingBulanIni)
	}
}

func TestDashboardGuru(t *testing.T) {
	svc := testServices(t)
	seedDashboardJadwal(t, svc)

	stats, err := svc.Dashboard.Guru(1)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalJadwal != 4 {
		t.Errorf("total_jadwal = %d, want 4", stats.TotalJadwal)
	}
	if stats.JadwalHariIni != 1 {
		t.Errorf("jadwal_hari_ini = %d, want 1", stats.JadwalHariIni)
	}
	if stats.JadwalMendatang != 1 {
		t.Errorf("jadwal_mendatang = %d, want 1", stats.JadwalMendatang)
	}
	if stats.JadwalSelesai != 1 {
		t.Errorf("jadwal_selesai = %d, want 1", stats.JadwalSelesai)
	}
	if stats.JadwalBerlangsung != 1 {
		t.Errorf("jadwal_berlangsung = %d, want 1", stats.JadwalBerlangsung)
	}
}

func TestNotifikasiLifecycle(t *testing.T) {
	svc := testServices(t)

	id, err := svc.Notifikasi.Create(3, "Jadwal dikonfirmasi", "Jadwal Anda dijadwalkan", "", "/jadwal/1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Notifikasi.Create(3, "Pengingat", "Sesi besok pagi", "warning", ""); err != nil {
		t.Fatal(err)
	}

	all, err := svc.Notifikasi.List(3, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(all))
	}
	for _, n := range all {
		if nid, _ := n.Int("id"); nid == id && n.String("tipe") != "info" {
			t.Errorf("Empty tipe should default to info, got %q", n.String("tipe"))
		}
	}

	if err := svc.Notifikasi.MarkRead(id, true); err != nil {
		t.Fatal(err)
	}
	unread := false
	remaining, err := svc.Notifikasi.List(3, &unread, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 {
		t.Errorf("Expected 1 unread notification, got %d", len(remaining))
	}

	read := true
	readOnes, err := svc.Notifikasi.List(3, &read, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(readOnes) != 1 || readOnes[0].String("read_at") == "" {
		t.Errorf("read_at should be stamped when marked read: %v", readOnes)
	}

	if err := svc.Notifikasi.MarkRead(id, false); err != nil {
		t.Fatal(err)
	}
	unreadAgain, err := svc.Notifikasi.List(3, &unread, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(unreadAgain) != 2 {
		t.Errorf("Unmarking failed: %d unread", len(unreadAgain))
	}
}
