package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "focusos_session"
	userIDKey   = "user_id"
	stateKey    = "oauth_state"
)

// UserIDContextKey is where the auth middleware stores the signed-in user's id.
const UserIDContextKey = "user_id"

var errNoState = errors.New("no oauth state in session")

// SessionStore keeps the signed-in user and the pending OAuth state in a signed cookie.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore creates a new cookie store for sessions
func NewSessionStore(secret []byte, secure bool) *SessionStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30, // 30 days
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store}
}

// UserID returns the signed-in user's id, if any.
func (s *SessionStore) UserID(r *http.Request) (string, bool) {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		return "", false
	}
	userID, ok := session.Values[userIDKey].(string)
	return userID, ok && userID != ""
}

func (s *SessionStore) SetUserID(w http.ResponseWriter, r *http.Request, userID string) error {
	session, _ := s.store.Get(r, sessionName)
	session.Values[userIDKey] = userID
	return session.Save(r, w)
}

func (s *SessionStore) SetState(w http.ResponseWriter, r *http.Request, state string) error {
	session, _ := s.store.Get(r, sessionName)
	session.Values[stateKey] = state
	return session.Save(r, w)
}

// TakeState returns the pending OAuth state and removes it, so each state is usable once.
func (s *SessionStore) TakeState(w http.ResponseWriter, r *http.Request) (string, error) {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		return "", err
	}
	state, ok := session.Values[stateKey].(string)
	if !ok || state == "" {
		return "", errNoState
	}
	delete(session.Values, stateKey)
	return state, session.Save(r, w)
}

// Clear expires the session cookie.
func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, sessionName)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
