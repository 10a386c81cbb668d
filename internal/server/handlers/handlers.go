// Package handlers implements the API endpoints of the counseling portal.
package handlers

import (
	"github.com/konselin/konselin/internal/email"
	"github.com/konselin/konselin/internal/models"
	"github.com/konselin/konselin/internal/storage"
)

// Handler holds the dependencies shared by every endpoint.
type Handler struct {
	Svc       *storage.Services
	JWTSecret []byte
	Mailer    *email.Service // nil when SMTP is not configured
	VAPID     storage.VAPIDConfig
}

// New creates the handler set.
func New(svc *storage.Services, jwtSecret []byte, mailer *email.Service, vapid storage.VAPIDConfig) *Handler {
	return &Handler{Svc: svc, JWTSecret: jwtSecret, Mailer: mailer, VAPID: vapid}
}

// EmptyRequest is the input type for endpoints that take no parameters.
type EmptyRequest struct{}

// Validate implements models.Validatable.
func (r *EmptyRequest) Validate() error { return nil }

var _ models.Validatable = (*EmptyRequest)(nil)
