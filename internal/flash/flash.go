// Package flash implements one-shot messages shown on the page rendered
// after a mutation. Messages live server-side keyed by a random cookie
// token; reading a message removes it, so each is rendered at most once.
package flash

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
)

const cookieName = "flash_token"

// Store holds pending flash messages keyed by cookie token.
type Store struct {
	mu       sync.Mutex
	messages map[string]string
}

// NewStore creates an empty flash store.
func NewStore() *Store {
	return &Store{messages: make(map[string]string)}
}

// Put stores a message for the client and points its flash cookie at it.
func (s *Store) Put(w http.ResponseWriter, message string) {
	token := uuid.NewString()

	s.mu.Lock()
	s.messages[token] = message
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the client's pending message, if any, and clears it. The
// cookie is expired so the message cannot be read again.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}

	s.mu.Lock()
	message, ok := s.messages[cookie.Value]
	delete(s.messages, cookie.Value)
	s.mu.Unlock()

	if !ok {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return message
}
