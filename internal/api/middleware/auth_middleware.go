package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lokatani/marketplace-api/internal/errors"
	"github.com/lokatani/marketplace-api/internal/models"
	"github.com/lokatani/marketplace-api/internal/utils/response"
)

type contextKey string

const UserContextKey = contextKey("user")

// IdentityResolver loads the user a token subject names.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, username string) (*models.User, error)
}

type AuthMiddleware struct {
	jwtKey   []byte
	resolver IdentityResolver
}

func NewAuthMiddleware(jwtKey []byte, resolver IdentityResolver) *AuthMiddleware {

	return &AuthMiddleware{jwtKey: jwtKey, resolver: resolver}

}

// Authenticate resolves the bearer token to a user and stores it under UserContextKey. Every
// failure is a 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authorization header is required"))
			return
		}

		// Token is of format : "Bearer <token>"
		scheme, tokenString, found := strings.Cut(authHeader, " ")

		if !found || !strings.EqualFold(scheme, "Bearer") {
			logger.Warn("Invalid authorization header format")
			response.Error(w, errors.UnauthorizedError("Invalid authorization format"))
			return
		}

		claims := &models.Claims{}

		token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), claims, func(t *jwt.Token) (any, error) {
			return m.jwtKey, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

		if err != nil || !token.Valid {
			logger.Warn("JWT validation failed", slog.Any("error", err))
			response.Error(w, errors.UnauthorizedError("Invalid or expired token"))
			return
		}

		if claims.Subject == "" {
			logger.Warn("Token without subject")
			response.Error(w, errors.UnauthorizedError("Invalid token"))
			return
		}

		user, err := m.resolver.ResolveIdentity(r.Context(), claims.Subject)
		if err != nil {
			logger.Warn("Identity resolution failed", slog.String("subject", claims.Subject), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)

		requestScopedLogger := logger.With(slog.String("userId", user.ID.String()), slog.String("role", string(user.Role)))
		ctx = context.WithValue(ctx, LoggerKey, requestScopedLogger)

		requestScopedLogger.Debug("User authenticated")

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// UserFromContext returns the identity stored by Authenticate.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok && user != nil
}
