package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quotation-labs/quotation-system/internal/infrastructure/logger"
)

// Auth verifies the bearer token and places the authenticated owner id in
// the request context. Token issuance lives outside this service; only
// HMAC-signed tokens whose subject is the numeric owner id are accepted.
func Auth(secret string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				unauthorized(w, requestID, "missing bearer token")
				return
			}

			token, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				log.Warn("token rejected", map[string]interface{}{
					"request_id": requestID,
					"error":      errString(err),
				})
				unauthorized(w, requestID, "invalid token")
				return
			}

			sub, err := token.Claims.GetSubject()
			if err != nil {
				unauthorized(w, requestID, "invalid token")
				return
			}
			ownerID, err := strconv.ParseInt(sub, 10, 64)
			if err != nil {
				unauthorized(w, requestID, "invalid token subject")
				return
			}

			ctx := context.WithValue(r.Context(), ownerIDKey, ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetOwnerID retrieves the authenticated owner id from context. The second
// return is false for unauthenticated requests.
func GetOwnerID(ctx context.Context) (int64, bool) {
	ownerID, ok := ctx.Value(ownerIDKey).(int64)
	return ownerID, ok
}

// WithOwnerID returns a context carrying the owner id; used by tests and
// non-HTTP callers.
func WithOwnerID(ctx context.Context, ownerID int64) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

func unauthorized(w http.ResponseWriter, requestID, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":      message,
		"status":     http.StatusUnauthorized,
		"request_id": requestID,
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
