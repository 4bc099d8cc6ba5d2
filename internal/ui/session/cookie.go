package session

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// CookieName is the name of the session cookie.
const CookieName = "launchdash"

const idKey = "id"

// NewCookieStore creates the cookie store holding session ids.
func NewCookieStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(86400) // 1 day
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

// ID returns the session id carried by r, issuing a new one when absent.
// A new id is written to w, so call ID before anything else writes the response.
func ID(store sessions.Store, w http.ResponseWriter, r *http.Request) (string, error) {
	sess, err := store.Get(r, CookieName)
	if err != nil && sess == nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	if id, ok := sess.Values[idKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	sess.Values[idKey] = id
	if err := sess.Save(r, w); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return id, nil
}
