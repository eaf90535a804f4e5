package middleware

import (
	"net/http"

	"freshharvest-be/internal/auth"
	"freshharvest-be/internal/logger"
	"freshharvest-be/internal/utils"

	"go.uber.org/zap"
)

// AuthMiddleware resolves the caller identity from the access token.
// Requests without a token pass through anonymously; routes that need a
// user reject them later. A token that fails verification is a 401.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, tokenStr)
			if err != nil {
				logger.FromCtx(r.Context()).Debug("rejected access token", zap.Error(err))
				utils.WriteJSONError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := utils.SetUserContext(r.Context(), claims.UserID)
			ctx = logger.WithFields(ctx,
				zap.Uint("user_id", claims.UserID),
				zap.String("role", claims.Role),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
