package admin

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// Session is the payload embedded in a signed token. Expires is epoch
// milliseconds; the session is stateless and never stored server-side.
type Session struct {
	Email   string `json:"email"`
	Expires int64  `json:"expires"`
}

// ExpiresAt returns the expiry as a time.Time.
func (s Session) ExpiresAt() time.Time {
	return time.UnixMilli(s.Expires)
}

// tokenManager signs and verifies bearer tokens of the form
// base64url(json(payload)) + "." + base64url(hmac-sha256(secret, encoded)).
type tokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newTokenManager(secret string, ttl time.Duration) *tokenManager {
	return &tokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *tokenManager) Issue(email string) string {
	payload := Session{
		Email:   email,
		Expires: m.now().Add(m.ttl).UnixMilli(),
	}
	raw, _ := json.Marshal(payload)
	encoded := base64.RawURLEncoding.EncodeToString(raw)
	return encoded + "." + m.sign(encoded)
}

// Verify recomputes the signature with a constant-time comparison and
// rejects malformed or expired tokens.
func (m *tokenManager) Verify(token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}
	encoded, signature, found := strings.Cut(token, ".")
	if !found || encoded == "" || signature == "" {
		return Session{}, false
	}
	expected := m.sign(encoded)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return Session{}, false
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Session{}, false
	}
	var payload Session
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Session{}, false
	}
	if payload.Expires == 0 || payload.ExpiresAt().Before(m.now()) {
		return Session{}, false
	}
	return payload, true
}

func (m *tokenManager) sign(encoded string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
