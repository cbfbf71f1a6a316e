package middleware

import (
	"net/http"
	"strings"

	"cardmind-backend/pkg/common"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// OptionalAuth resolves the caller identity from a bearer token when one
// is presented. Requests without a token proceed anonymously; a token
// that is present but invalid is rejected. With no secret configured the
// middleware is a pass-through.
func OptionalAuth(secret, issuer string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw := strings.TrimPrefix(header, "Bearer ")
			if raw == header {
				common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.BadRequest, "malformed authorization header")
				return
			}

			claims := jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			}, jwt.WithIssuer(issuer))
			if err != nil || !token.Valid {
				logger.Debug("Rejected bearer token", zap.Error(err))
				common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.BadRequest, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(common.WithUserID(r.Context(), claims.Subject)))
		})
	}
}
