package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	cookieName = "gitboard_session"
	maxAge     = 24 * 60 * 60

	signedInPrefix = "in"
	erroredPrefix  = "err"
)

type Kind int

const (
	Anonymous Kind = iota
	SignedIn
	Errored
)

// State is the per-browser session: signed in with an owner ID, carrying a
// pending error message, or anonymous. The three cases are exclusive by
// construction; signing in replaces any pending error.
type State struct {
	Kind    Kind
	OwnerID string
	Message string
}

// Manager reads and writes the session as one HMAC-signed cookie. A missing,
// malformed, or tampered cookie reads as Anonymous.
type Manager struct {
	key []byte
}

func NewManager(key []byte) *Manager {
	return &Manager{key: key}
}

func (m *Manager) Get(c echo.Context) State {
	cookie, err := c.Cookie(cookieName)
	if err != nil {
		return State{Kind: Anonymous}
	}

	payload, err := m.verify(cookie.Value)
	if err != nil {
		return State{Kind: Anonymous}
	}

	parts := strings.SplitN(payload, "|", 2)
	if len(parts) != 2 {
		return State{Kind: Anonymous}
	}

	switch parts[0] {
	case signedInPrefix:
		return State{Kind: SignedIn, OwnerID: parts[1]}
	case erroredPrefix:
		return State{Kind: Errored, Message: parts[1]}
	default:
		return State{Kind: Anonymous}
	}
}

// SignIn marks the session as authenticated for ownerID, discarding any
// pending error.
func (m *Manager) SignIn(c echo.Context, ownerID string) {
	m.set(c, m.sign(signedInPrefix+"|"+ownerID))
}

// Fail stores a pending error message to show on the next login view render.
func (m *Manager) Fail(c echo.Context, message string) {
	m.set(c, m.sign(erroredPrefix+"|"+message))
}

func (m *Manager) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GenerateOAuthState returns a signed random state for the authorize URL.
func (m *Manager) GenerateOAuthState() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return m.sign(base64.URLEncoding.EncodeToString(b))
}

// VerifyOAuthState checks the state returned by the provider carries our
// signature.
func (m *Manager) VerifyOAuthState(state string) bool {
	_, err := m.verify(state)
	return err == nil
}

func (m *Manager) set(c echo.Context, value string) {
	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) sign(value string) string {
	mac := hmac.New(sha256.New, m.key)
	mac.Write([]byte(value))
	sig := base64.URLEncoding.EncodeToString(mac.Sum(nil))
	return base64.URLEncoding.EncodeToString([]byte(value)) + "." + sig
}

func (m *Manager) verify(signed string) (string, error) {
	parts := strings.SplitN(signed, ".", 2)
	if len(parts) != 2 {
		return "", errors.New("invalid signature format")
	}

	payload, err := base64.URLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, m.key)
	mac.Write(payload)
	expected := base64.URLEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(parts[1]), []byte(expected)) {
		return "", errors.New("invalid signature")
	}

	return string(payload), nil
}
