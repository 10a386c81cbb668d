// Provides middleware for standardizing HTTP handlers.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/konselin/konselin/internal/models"
	"github.com/konselin/konselin/internal/server/ratelimit"
	"github.com/konselin/konselin/internal/server/reqctx"
)

// maxRequestBodyBytes caps request payloads. Profile updates with a base64
// photo are the largest legitimate payload.
const maxRequestBodyBytes = 1 << 20

// readAndDecodeBody reads the request body with size limit and decodes JSON into input.
// Returns false if an error occurred and was written to the response.
func readAndDecodeBody[In any](ctx context.Context, w http.ResponseWriter, r *http.Request, input *In) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	body, err := io.ReadAll(r.Body)
	if err2 := r.Body.Close(); err == nil {
		err = err2
	}
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeEnvelopeError(ctx, w, models.BadRequest("Ukuran permintaan terlalu besar"))
			return false
		}
		slog.ErrorContext(ctx, "Failed to read request body", "err", err)
		writeEnvelopeError(ctx, w, models.BadRequest("Gagal membaca permintaan"))
		return false
	}

	if len(body) > 0 {
		d := json.NewDecoder(bytes.NewReader(body))
		d.DisallowUnknownFields()
		if err := d.Decode(input); err != nil {
			slog.ErrorContext(ctx, "Failed to decode request body", "err", err)
			writeEnvelopeError(ctx, w, models.BadRequest("Format permintaan tidak valid"))
			return false
		}
	}
	return true
}

// writeEnvelope writes the handler result, converting errors into the same
// envelope shape the success path uses.
func writeEnvelope(ctx context.Context, w http.ResponseWriter, env *models.Envelope, err error) {
	if err != nil {
		writeEnvelopeError(ctx, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.ErrorContext(ctx, "Failed to encode response", "err", err)
	}
}

// writeEnvelopeError writes a failure envelope. Unknown errors become 500s
// with a generic message so internals never leak to the client.
func writeEnvelopeError(ctx context.Context, w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	code := models.ErrorCodeInternal
	message := "Terjadi kesalahan pada server"

	var ewsErr models.ErrorWithStatus
	if errors.As(err, &ewsErr) {
		statusCode = ewsErr.StatusCode()
		code = ewsErr.Code()
		message = err.Error()
	}
	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		// Drop the wrapped cause from the client-facing message.
		message = apiErr.Message()
	}

	if statusCode >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "Handler error", "err", err, "statusCode", statusCode)
	} else {
		slog.WarnContext(ctx, "Request rejected", "err", err, "statusCode", statusCode)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp := models.Envelope{Success: false, Message: message, Error: string(code)}
	if err := json.NewEncoder(w).Encode(&resp); err != nil {
		slog.Error("Failed to encode error response", "err", err)
	}
}

// Wrap wraps a handler function to work as an http.Handler.
// The function must have signature: func(context.Context, *In) (*models.Envelope, error)
// where In can be unmarshalled from JSON.
// Path parameters can be extracted by tagging struct fields with `path:"name"`,
// query parameters with `query:"name"`.
// *In must implement models.Validatable.
//
// A non-nil limiter throttles by client IP before any work happens.
func Wrap[In any, PtrIn interface {
	*In
	models.Validatable
}](fn func(context.Context, PtrIn) (*models.Envelope, error), limiter *ratelimit.Limiter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := reqctx.GetClientIP(r)
		ctx := reqctx.WithClientIP(r.Context(), ip)

		if !limiter.Allow(ip) {
			writeEnvelopeError(ctx, w, models.RateLimited())
			return
		}

		input := new(In)
		if !readAndDecodeBody(ctx, w, r, input) {
			return
		}

		populatePathParams(r, input)
		populateQueryParams(r, input)

		if err := PtrIn(input).Validate(); err != nil {
			writeEnvelopeError(ctx, w, err)
			return
		}

		env, err := fn(ctx, PtrIn(input))
		writeEnvelope(ctx, w, env, err)
	})
}

// WrapAuth wraps a handler that requires a valid session token.
// The function must have signature:
// func(context.Context, *reqctx.AuthUser, *In) (*models.Envelope, error).
// requiredRole of "" accepts any authenticated user.
func WrapAuth[In any, PtrIn interface {
	*In
	models.Validatable
}](fn func(context.Context, *reqctx.AuthUser, PtrIn) (*models.Envelope, error), jwtSecret []byte, requiredRole string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := reqctx.GetClientIP(r)
		ctx := reqctx.WithClientIP(r.Context(), ip)

		user, err := validateJWT(r, jwtSecret)
		if err != nil {
			writeEnvelopeError(ctx, w, models.Unauthorized("Sesi tidak valid, silakan login ulang").Wrap(err))
			return
		}
		if requiredRole != "" && user.Role != requiredRole {
			writeEnvelopeError(ctx, w, models.Forbidden("Anda tidak memiliki akses"))
			return
		}
		ctx = reqctx.WithUser(ctx, user)

		input := new(In)
		if !readAndDecodeBody(ctx, w, r, input) {
			return
		}

		populatePathParams(r, input)
		populateQueryParams(r, input)

		if err := PtrIn(input).Validate(); err != nil {
			writeEnvelopeError(ctx, w, err)
			return
		}

		env, err := fn(ctx, user, PtrIn(input))
		writeEnvelope(ctx, w, env, err)
	})
}

var (
	errUnauthorized   = errors.New("unauthorized")
	errInvalidAuthHdr = errors.New("invalid authorization header")
	errInvalidToken   = errors.New("invalid token")
	errInvalidClaims  = errors.New("invalid claims")
)

// validateJWT extracts and validates the bearer token from the request.
func validateJWT(r *http.Request, jwtSecret []byte) (*reqctx.AuthUser, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errUnauthorized
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errInvalidAuthHdr
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidClaims
	}

	// Numeric JSON claims decode as float64.
	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, errInvalidClaims
	}
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if role == "" {
		return nil, errInvalidClaims
	}

	return &reqctx.AuthUser{ID: int(sub), Username: username, Role: role}, nil
}

// populatePathParams extracts path parameters from the request and populates
// struct fields tagged with `path:"paramName"`.
func populatePathParams(r *http.Request, input any) {
	val := reflect.ValueOf(input)
	if val.Kind() != reflect.Pointer {
		return
	}

	elem := val.Elem()
	if elem.Kind() != reflect.Struct {
		return
	}

	typ := elem.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		tag := field.Tag.Get("path")
		if tag == "" {
			continue
		}

		paramValue := r.PathValue(tag)
		if paramValue == "" {
			continue
		}

		setParamField(elem.Field(i), field.Type.Kind(), paramValue)
	}
}

// populateQueryParams extracts query parameters from the request and populates
// struct fields tagged with `query:"paramName"`.
func populateQueryParams(r *http.Request, input any) {
	val := reflect.ValueOf(input)
	if val.Kind() != reflect.Pointer {
		return
	}

	elem := val.Elem()
	if elem.Kind() != reflect.Struct {
		return
	}

	query := r.URL.Query()
	typ := elem.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		tag := field.Tag.Get("query")
		if tag == "" {
			continue
		}

		paramValue := query.Get(tag)
		if paramValue == "" {
			continue
		}

		setParamField(elem.Field(i), field.Type.Kind(), paramValue)
	}
}

// setParamField sets a string or int struct field from a raw parameter value.
// Unparseable ints are left at zero; validation happens in Validate.
func setParamField(fieldVal reflect.Value, kind reflect.Kind, raw string) {
	switch kind {
	case reflect.String:
		fieldVal.SetString(raw)
	case reflect.Int:
		if intVal, err := strconv.Atoi(raw); err == nil {
			fieldVal.SetInt(int64(intVal))
		}
	}
}
