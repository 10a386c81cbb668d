// Login and self-registration.

package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/konselin/konselin/internal/jsondb"
	"github.com/konselin/konselin/internal/models"
	"github.com/konselin/konselin/internal/server/reqctx"
	"github.com/konselin/konselin/internal/storage"
)

// tokenTTL is how long a session token stays valid.
const tokenTTL = 24 * time.Hour

// LoginRequest accepts a username, email or NISN as the identifier.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r.Username == "" {
		return models.MissingField("Username")
	}
	if r.Password == "" {
		return models.MissingField("Password")
	}
	return nil
}

// Login authenticates and returns a signed token with the sanitized account.
func (h *Handler) Login(ctx context.Context, req *LoginRequest) (*models.Envelope, error) {
	user, err := h.Svc.User.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCredentials) {
			return nil, models.Unauthorized("Username atau password salah")
		}
		return nil, models.InternalWithError("Gagal memproses login", err)
	}

	token, err := h.generateToken(user)
	if err != nil {
		return nil, models.InternalWithError("Gagal membuat token", err)
	}

	id, _ := user.Int("id")
	h.Svc.Activity.Log(ctx, id, "login", "Login ke sistem", reqctx.ClientIP(ctx))

	return models.OKMessage("Login berhasil", map[string]any{
		"token": token,
		"user":  storage.Sanitize(user),
	}), nil
}

// RegisterRequest carries the student self-registration form.
type RegisterRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Email        string `json:"email"`
	NISN         string `json:"nisn"`
	NamaLengkap  string `json:"nama_lengkap"`
	JenisKelamin string `json:"jenis_kelamin"`
	TanggalLahir string `json:"tanggal_lahir"`
	Alamat       string `json:"alamat"`
	NoTelepon    string `json:"no_telepon"`
	Kelas        string `json:"kelas"`
	Jurusan      string `json:"jurusan"`
	TahunMasuk   int    `json:"tahun_masuk"`
}

func (r *RegisterRequest) Validate() error {
	if r.Username == "" || r.Password == "" || r.NamaLengkap == "" {
		return models.BadRequest("Username, password, dan nama lengkap harus diisi")
	}
	if len(r.Password) < 6 {
		return models.BadRequest("Password minimal 6 karakter")
	}
	return nil
}

// Register creates a siswa account.
func (h *Handler) Register(ctx context.Context, req *RegisterRequest) (*models.Envelope, error) {
	id, err := h.Svc.User.Register(storage.RegisterInput{
		Username:     req.Username,
		Password:     req.Password,
		Email:        req.Email,
		NISN:         req.NISN,
		NamaLengkap:  req.NamaLengkap,
		JenisKelamin: req.JenisKelamin,
		TanggalLahir: req.TanggalLahir,
		Alamat:       req.Alamat,
		NoTelepon:    req.NoTelepon,
		Kelas:        req.Kelas,
		Jurusan:      req.Jurusan,
		TahunMasuk:   req.TahunMasuk,
	})
	switch {
	case errors.Is(err, storage.ErrUsernameTaken):
		return nil, models.Conflict("Username sudah digunakan")
	case errors.Is(err, storage.ErrEmailTaken):
		return nil, models.Conflict("Email sudah digunakan")
	case errors.Is(err, storage.ErrNISNTaken):
		return nil, models.Conflict("NISN sudah terdaftar")
	case err != nil:
		return nil, models.InternalWithError("Gagal memproses registrasi", err)
	}

	h.Svc.Activity.Log(ctx, id, "register", "Registrasi akun siswa", reqctx.ClientIP(ctx))

	return models.OKMessage("Registrasi berhasil. Silakan login.", map[string]any{"id": id}), nil
}

// generateToken signs an HS256 token carrying the account identity.
func (h *Handler) generateToken(user jsondb.Record) (string, error) {
	id, _ := user.Int("id")
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      id,
		"username": user.String("username"),
		"role":     user.String("role"),
		"iat":      now.Unix(),
		"exp":      now.Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.JWTSecret)
}
