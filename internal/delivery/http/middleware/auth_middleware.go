package middleware

import (
	"context"
	"net/http"
	"strings"

	"clinical-registry/internal/domain/entity"
	"clinical-registry/pkg/jwt"
	"clinical-registry/pkg/response"
)

type contextKey string

const (
	ActorKey     contextKey = "actor"
	TokenIDKey   contextKey = "token_id"
	RequestIDKey contextKey = "request_id"
)

type AuthMiddleware struct {
	jwtService *jwt.JWTService
}

// NewAuthMiddleware returns a middleware that requires a bearer token. With a
// nil jwtService every request passes through as anonymous.
func NewAuthMiddleware(jwtService *jwt.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	if m.jwtService == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ActorKey, claims.Subject)
		ctx = context.WithValue(ctx, TokenIDKey, claims.ID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActorFromContext returns the authenticated subject, or the anonymous
// actor when the request was not authenticated.
func GetActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(ActorKey).(string); ok && actor != "" {
		return actor
	}
	return entity.ActorAnonymous
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

// GetRequestIDFromContext extracts the request ID set by RequestLogger
func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	return requestID, ok
}
