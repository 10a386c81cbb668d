package storage

import (
	"errors"
	"testing"
)

func registerTestSiswa(t *testing.T, svc *Services) int {
	t.Helper()
	id, err := svc.User.Register(RegisterInput{
		Username:    "siswa099",
		Password:    "rahasia123",
		Email:       "siswa099@student.smktarunabhakti.sch.id",
		NISN:        "9999999999",
		NamaLengkap: "Tono Prasetyo",
		Kelas:       "X",
		Jurusan:     "Teknik Informatika",
		TahunMasuk:  2025,
	})
	if err != nil {
		t.Fatalf("Failed to register: %v", err)
	}
	return id
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := testServices(t)
	registerTestSiswa(t, svc)

	for _, ident := range []string{"siswa099", "siswa099@student.smktarunabhakti.sch.id", "9999999999"} {
		user, err := svc.User.Authenticate(ident, "rahasia123")
		if err != nil {
			t.Fatalf("Authenticate(%q) failed: %v", ident, err)
		}
		if user.String("username") != "siswa099" {
			t.Errorf("Identifier %q resolved to %q", ident, user.String("username"))
		}
		if user.String("role") != "siswa" {
			t.Errorf("New registration should be siswa, got %q", user.String("role"))
		}
	}
}

func TestAuthenticateRejectsWrongPassword(t *testing.T) {
	svc := testServices(t)
	registerTestSiswa(t, svc)

	if _, err := svc.User.Authenticate("siswa099", "salah"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.User.Authenticate("tidakada", "rahasia123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAuthenticateStampsLastLogin(t *testing.T) {
	svc := testServices(t)
	id := registerTestSiswa(t, svc)

	if _, err := svc.User.Authenticate("siswa099", "rahasia123"); err != nil {
		t.Fatal(err)
	}
	user, err := svc.User.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if user.String("last_login") == "" {
		t.Error("last_login not stamped after authentication")
	}
}

func TestRegisterUniqueness(t *testing.T) {
	svc := testServices(t)
	registerTestSiswa(t, svc)

	_, err := svc.User.Register(RegisterInput{Username: "siswa099", Password: "x", NamaLengkap: "Dup"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("Expected ErrUsernameTaken, got %v", err)
	}

	_, err = svc.User.Register(RegisterInput{
		Username: "lain", Password: "x", NamaLengkap: "Dup",
		Email: "siswa099@student.smktarunabhakti.sch.id",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Expected ErrEmailTaken, got %v", err)
	}

	_, err = svc.User.Register(RegisterInput{
		Username: "lain", Password: "x", NamaLengkap: "Dup", NISN: "9999999999",
	})
	if !errors.Is(err, ErrNISNTaken) {
		t.Errorf("Expected ErrNISNTaken, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := testServices(t)
	id := registerTestSiswa(t, svc)

	user, err := svc.User.UpdateProfile(id, map[string]any{
		"alamat": "Jl. Baru No. 1",
		"kelas":  "XI",
		"role":   "admin", // not a profile field, must be ignored
	})
	if err != nil {
		t.Fatal(err)
	}
	if user.String("alamat") != "Jl. Baru No. 1" || user.String("kelas") != "XI" {
		t.Errorf("Profile fields not applied: %v", user)
	}
	if user.String("role") != "siswa" {
		t.Error("Non-profile field leaked into the update")
	}

	if _, err := svc.User.UpdateProfile(4242, map[string]any{"alamat": "x"}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestSetPasswordAndVerify(t *testing.T) {
	svc := testServices(t)
	id := registerTestSiswa(t, svc)

	if err := svc.User.VerifyPassword(id, "rahasia123"); err != nil {
		t.Fatalf("Original password should verify: %v", err)
	}
	if err := svc.User.SetPassword(id, "barubanget"); err != nil {
		t.Fatal(err)
	}
	if err := svc.User.VerifyPassword(id, "rahasia123"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Old password should fail after change, got %v", err)
	}
	if err := svc.User.VerifyPassword(id, "barubanget"); err != nil {
		t.Errorf("New password should verify: %v", err)
	}
}

func TestDeleteHidesAccount(t *testing.T) {
	svc := testServices(t)
	id := registerTestSiswa(t, svc)

	if err := svc.User.Delete(id); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.User.Get(id); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Deleted account still readable, got %v", err)
	}
	if _, err := svc.User.Authenticate("siswa099", "rahasia123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Deleted account can still log in, got %v", err)
	}
	if err := svc.User.Delete(id); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Second delete should be ErrUserNotFound, got %v", err)
	}
}

func TestListSiswa(t *testing.T) {
	svc := testServices(t)

	all, err := svc.User.ListSiswa("", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 seeded students, got %d", len(all))
	}
	if all[0].String("nama_lengkap") != "Ahmad Rizki" {
		t.Errorf("Expected name-ascending order, first is %q", all[0].String("nama_lengkap"))
	}

	xii, err := svc.User.ListSiswa("XII", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(xii) != 2 {
		t.Errorf("Expected 2 students in kelas XII, got %d", len(xii))
	}

	ti, err := svc.User.ListSiswa("XII", "Akuntansi", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(ti) != 1 || ti[0].String("username") != "siswa002" {
		t.Errorf("Combined kelas+jurusan filter failed: %v", ti)
	}

	found, err := svc.User.ListSiswa("", "", "nurhaliza")
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].String("username") != "siswa002" {
		t.Errorf("Search failed: %v", found)
	}
}

func TestSanitizeStripsPasswordHash(t *testing.T) {
	svc := testServices(t)
	id := registerTestSiswa(t, svc)

	user, err := svc.User.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if user.String("password_hash") == "" {
		t.Fatal("Expected hash on the raw record")
	}
	if _, ok := Sanitize(user)["password_hash"]; ok {
		t.Error("Sanitize left password_hash in place")
	}
}
