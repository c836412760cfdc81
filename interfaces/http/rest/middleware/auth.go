package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"medscore-backend/pkg/auth"
	"medscore-backend/pkg/common"
)

// Authenticate validates bearer tokens and attaches the user context. A nil
// validator enables the development fallback: identity comes from the
// X-User-ID header, defaulting to "dev-user" with full roles. Never run
// production without a validator; config enforces JWT_SECRET there.
func Authenticate(validator *auth.JWTValidator, logger *zap.Logger) func(next http.Handler) http.Handler {
	ipLimiter := auth.NewIPRateLimiter(100)     // per minute per IP
	userLimiter := auth.NewUserRateLimiter(200) // per minute per user

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)
			if allowed, _ := ipLimiter.Allow(r.Context(), clientIP); !allowed {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Rate limit exceeded")
				return
			}

			var user *auth.UserContext
			if validator == nil {
				user = developmentUser(r)
			} else {
				token := extractToken(r)
				if token == "" {
					common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing authentication token")
					return
				}

				claims, err := validator.ValidateToken(token)
				if err != nil {
					logger.Warn("Invalid token",
						zap.Error(err),
						zap.String("ip", clientIP),
						zap.String("path", r.URL.Path),
					)
					switch err {
					case auth.ErrExpiredToken:
						common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Token has expired")
					case auth.ErrInvalidSignature:
						common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token signature")
					default:
						common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
					}
					return
				}

				user = &auth.UserContext{
					UserID: claims.UserID,
					Email:  claims.Email,
					Roles:  claims.Roles,
				}
			}

			if allowed, _ := userLimiter.Allow(r.Context(), user.UserID); !allowed {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "User rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin rejects requests whose user lacks the admin role
func RequireAdmin() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.GetUserFromContext(r.Context())
			if err != nil {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
				return
			}
			if !user.IsAdmin() {
				common.RespondError(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func developmentUser(r *http.Request) *auth.UserContext {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		userID = "dev-user"
	}
	roles := []string{"authenticated", "admin"}
	if header := r.Header.Get("X-User-Roles"); header != "" {
		roles = strings.Split(header, ",")
	}
	return &auth.UserContext{
		UserID: userID,
		Email:  r.Header.Get("X-User-Email"),
		Roles:  roles,
	}
}

// extractToken pulls the bearer token from the Authorization header or the
// auth_token cookie.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
		return authHeader
	}

	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}
	return ""
}

// getClientIP extracts the client IP address
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
