package sessions

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "storefront-session"

	sessionIDKey = "sessionID"
	userIDKey    = "userID"
)

// SessionStore binds a browser to its storefront session: the session ID
// keys the side-details view-model registry and the recent-searches store,
// the user ID is set after OTP login.
type SessionStore interface {
	GetSessionID(w http.ResponseWriter, r *http.Request) string

	GetUserID(r *http.Request) string
	SetUserID(w http.ResponseWriter, r *http.Request, userID string) error
	ClearUserID(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		log.Printf("Error getting session: %v", err)
	}
	return session
}

// GetSessionID returns the stable ID for this browser session, minting and
// saving one on first use.
func (c *CookieSessionStore) GetSessionID(w http.ResponseWriter, r *http.Request) string {
	session := c.getSession(r)
	if id, ok := session.Values[sessionIDKey].(string); ok && id != "" {
		return id
	}

	id := uuid.New().String()
	session.Values[sessionIDKey] = id
	if err := session.Save(r, w); err != nil {
		log.Printf("Error saving session ID: %v", err)
	}
	return id
}

func (c *CookieSessionStore) GetUserID(r *http.Request) string {
	session := c.getSession(r)
	if id, ok := session.Values[userIDKey].(string); ok {
		return id
	}
	return ""
}

func (c *CookieSessionStore) SetUserID(w http.ResponseWriter, r *http.Request, userID string) error {
	session := c.getSession(r)
	session.Values[userIDKey] = userID
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearUserID(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	delete(session.Values, userIDKey)
	return session.Save(r, w)
}
