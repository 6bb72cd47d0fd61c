package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/velmarket/storefront-backend/pkg/config"
	"github.com/velmarket/storefront-backend/pkg/logger"
	redisclient "github.com/velmarket/storefront-backend/pkg/redis"
)

// AnonymousSession ensures that unauthenticated requests carry a browsing
// session cookie, minting one on first contact. The key is refreshed in
// redis on every request so an active guest cart never expires mid-visit.
// Requests already authenticated via bearer token skip the cookie entirely.
func AnonymousSession(cfg config.SessionConfig, store *redisclient.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if UserIDFromContext(ctx) != "" {
				next.ServeHTTP(w, r)
				return
			}

			sessionKey := ""
			if cookie, err := r.Cookie(cfg.CookieName); err == nil {
				sessionKey = cookie.Value
			}
			if _, err := uuid.Parse(sessionKey); err != nil {
				sessionKey = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    sessionKey,
					Path:     "/",
					MaxAge:   int(cfg.AnonymousTTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.CookieSecure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			if store != nil {
				if err := store.TouchAnonymousSession(ctx, sessionKey, cfg.AnonymousTTL); err != nil && logg != nil {
					logg.Error(ctx, "session.touch_failed", err)
				}
			}

			ctx = WithSessionKey(ctx, sessionKey)
			if logg != nil {
				ctx = logg.WithSessionKey(ctx, sessionKey)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
