package apimiddleware

import (
	"net/http"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/materials-commons/tagsearch/pkg/session"
)

const SessionKey = "Session"

// Sessions loads the caller's session, creating one when the cookie is missing
// or stale, and saves it after the handler has run.
func Sessions(store *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if cookie, err := c.Cookie(session.CookieName); err == nil {
				id = cookie.Value
			}

			sess, err := store.GetOrCreate(id)
			if err != nil {
				return err
			}

			if sess.ID != id {
				c.SetCookie(&http.Cookie{
					Name:     session.CookieName,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(SessionKey, sess)
			err = next(c)

			if saveErr := store.Save(sess); saveErr != nil {
				log.Warnf("Unable to save session %s: %s", sess.ID, saveErr)
			}

			return err
		}
	}
}

// SessionFrom returns the session stored by Sessions.
func SessionFrom(c echo.Context) (*session.Session, bool) {
	sess, ok := c.Get(SessionKey).(*session.Session)
	return sess, ok && sess != nil
}
