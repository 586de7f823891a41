package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	sessionCookie = "shop_session"
	sessionMaxAge = 7 * 24 * 60 * 60
	contextKey    = "session_id"
)

// Session binds every storefront request to a browser session. A missing
// cookie gets a fresh uuid; the id keys the cart store.
func Session() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sessionID string
			if cookie, err := c.Cookie(sessionCookie); err == nil && cookie.Value != "" {
				sessionID = cookie.Value
			} else {
				sessionID = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     sessionCookie,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   sessionMaxAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(contextKey, sessionID)
			return next(c)
		}
	}
}

func SessionID(c echo.Context) string {
	if id, ok := c.Get(contextKey).(string); ok {
		return id
	}
	return ""
}
