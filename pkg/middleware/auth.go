package middleware

import (
	"net/http"
	"strings"

	"parking-booking/internal/data/entity"
	"parking-booking/internal/data/repository"
	"parking-booking/pkg/utils"

	"go.uber.org/zap"
)

// TokenCookie is the http-only cookie set at login.
const TokenCookie = "token"

// bearerToken reads the JWT from the token cookie, falling back to an
// "Authorization: Bearer <jwt>" header.
func bearerToken(r *http.Request) (string, bool) {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value, true
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// Auth validates the JWT and the session it names (the jti claim). A token
// whose session was revoked at logout is rejected even if not yet expired.
func Auth(tokens *utils.TokenService, sessionRepo repository.SessionRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			claims, sessionID, err := tokens.ValidateToken(raw)
			if err != nil {
				logger.Debug("Rejected token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			session, err := sessionRepo.FindValidSession(r.Context(), sessionID)
			if err != nil {
				logger.Error("Failed to validate session",
					zap.String("session", sessionID.String()),
					zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if session == nil || session.UserID != claims.UserID {
				logger.Warn("Invalid or expired session", zap.String("session", sessionID.String()))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Role)
			ctx = utils.SetTokenContext(ctx, sessionID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin re-reads the user so a demoted admin loses access before the token expires.
func Admin(userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				logger.Error("Admin check: failed to get user",
					zap.Error(err), zap.String("user_id", userID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if user == nil || user.Role != entity.RoleAdmin {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", userID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
