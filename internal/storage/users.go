// Handles account lookup, registration and credential management.

package storage

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/konselin/konselin/internal/jsondb"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrEmailTaken         = errors.New("email already in use")
	ErrNISNTaken          = errors.New("nisn already in use")
	ErrWrongPassword      = errors.New("wrong password")
)

// UserService manages the users collection.
type UserService struct {
	store *jsondb.Store
}

// RegisterInput carries the self-registration form. Username, Password and
// NamaLengkap are required; everything else is optional.
type RegisterInput struct {
	Username     string
	Password     string
	Email        string
	NISN         string
	NamaLengkap  string
	JenisKelamin string
	TanggalLahir string
	Alamat       string
	NoTelepon    string
	Kelas        string
	Jurusan      string
	TahunMasuk   int
}

// Authenticate resolves the identifier against username, email or nisn of
// active accounts, verifies the password and stamps last_login. The returned
// record still carries password_hash; callers strip it before responding.
func (s *UserService) Authenticate(identifier, password string) (jsondb.Record, error) {
	user, err := s.store.SelectOne(jsondb.Query{
		From: "users",
		Where: []jsondb.Clause{
			jsondb.AnyEq("username", "email", "nisn"),
			jsondb.EqVal("is_active", true),
		},
	}, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	hash := user.String("password_hash")
	if hash == "" {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	id, _ := user.Int("id")
	if _, err := s.store.Update("users",
		[]jsondb.Assignment{jsondb.SetNow("last_login")},
		[]jsondb.Clause{jsondb.Eq("id")},
		id); err != nil {
		return nil, fmt.Errorf("failed to stamp last login: %w", err)
	}
	return user, nil
}

// Register creates a new siswa account after checking username, email and
// nisn uniqueness. Returns the new user id.
func (s *UserService) Register(in RegisterInput) (int, error) {
	if taken, err := s.fieldTaken("username", in.Username); err != nil {
		return 0, err
	} else if taken {
		return 0, ErrUsernameTaken
	}
	if in.Email != "" {
		if taken, err := s.fieldTaken("email", in.Email); err != nil {
			return 0, err
		} else if taken {
			return 0, ErrEmailTaken
		}
	}
	if in.NISN != "" {
		if taken, err := s.fieldTaken("nisn", in.NISN); err != nil {
			return 0, err
		} else if taken {
			return 0, ErrNISNTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.store.Insert("users",
		[]string{"username", "password_hash", "email", "role", "nisn", "nama_lengkap",
			"jenis_kelamin", "tanggal_lahir", "alamat", "no_telepon", "kelas",
			"jurusan", "tahun_masuk", "is_active"},
		in.Username, string(hash), orNil(in.Email), "siswa", orNil(in.NISN),
		in.NamaLengkap, orNil(in.JenisKelamin), orNil(in.TanggalLahir),
		orNil(in.Alamat), orNil(in.NoTelepon), orNil(in.Kelas), orNil(in.Jurusan),
		zeroNil(in.TahunMasuk), true)
}

// Get returns the user by id or ErrUserNotFound.
func (s *UserService) Get(id int) (jsondb.Record, error) {
	user, err := s.store.SelectOne(jsondb.Query{
		From:  "users",
		Where: []jsondb.Clause{jsondb.Eq("id")},
	}, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ListSiswa returns student accounts. A non-empty search term matches as a
// substring across username, full name, email and nisn (capped at 50 rows);
// otherwise kelas and jurusan filter exactly. Ordered by full name.
func (s *UserService) ListSiswa(kelas, jurusan, search string) ([]jsondb.Record, error) {
	if search != "" {
		return s.store.Select(jsondb.Query{
			From: "users",
			Where: []jsondb.Clause{
				jsondb.AnyContains("username", "nama_lengkap", "email", "nisn"),
				jsondb.EqVal("role", "siswa"),
			},
			OrderBy: "nama_lengkap",
			Limit:   50,
		}, search)
	}

	where := []jsondb.Clause{jsondb.EqVal("role", "siswa")}
	params := []any{}
	if kelas != "" {
		where = append(where, jsondb.Eq("kelas"))
		params = append(params, kelas)
	}
	if jurusan != "" {
		where = append(where, jsondb.Eq("jurusan"))
		params = append(params, jurusan)
	}
	return s.store.Select(jsondb.Query{
		From:    "users",
		Where:   where,
		OrderBy: "nama_lengkap",
	}, params...)
}

// profileFields are the columns a profile update may touch.
var profileFields = []string{"email", "foto_profil", "nama_lengkap", "alamat", "no_telepon", "kelas", "jurusan"}

// UpdateProfile applies the provided profile fields and returns the updated
// record. Unknown fields are ignored; an empty update or a missing user is
// ErrUserNotFound.
func (s *UserService) UpdateProfile(id int, updates map[string]any) (jsondb.Record, error) {
	var set []jsondb.Assignment
	for _, f := range profileFields {
		if v, ok := updates[f]; ok {
			set = append(set, jsondb.SetVal(f, v))
		}
	}
	if len(set) == 0 {
		return nil, ErrUserNotFound
	}

	n, err := s.store.Update("users", set,
		[]jsondb.Clause{jsondb.Eq("id"), jsondb.IsNull("deleted_at")},
		id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrUserNotFound
	}
	return s.Get(id)
}

// VerifyPassword checks a password against the stored hash.
func (s *UserService) VerifyPassword(id int, password string) error {
	user, err := s.Get(id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.String("password_hash")), []byte(password)) != nil {
		return ErrWrongPassword
	}
	return nil
}

// SetPassword rehashes and stores a new password.
func (s *UserService) SetPassword(id int, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	n, err := s.store.Update("users",
		[]jsondb.Assignment{jsondb.SetVal("password_hash", string(hash))},
		[]jsondb.Clause{jsondb.Eq("id"), jsondb.IsNull("deleted_at")},
		id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete soft-deletes the account.
func (s *UserService) Delete(id int) error {
	n, err := s.store.SoftDelete("users", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// fieldTaken reports whether any live account already uses the value.
func (s *UserService) fieldTaken(field, value string) (bool, error) {
	rec, err := s.store.SelectOne(jsondb.Query{
		From:  "users",
		Where: []jsondb.Clause{jsondb.Eq(field)},
	}, value)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

// Sanitize strips the password hash from a user record before it leaves the
// service layer.
func Sanitize(rec jsondb.Record) jsondb.Record {
	if rec == nil {
		return nil
	}
	delete(rec, "password_hash")
	return rec
}

func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func zeroNil(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
