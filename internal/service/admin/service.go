package admin

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log"
	"strings"
	"time"

	"featherlite/internal/domain"
	"featherlite/internal/ratelimit"
	"golang.org/x/crypto/bcrypt"
)

// SessionCookie is the name of the HTTP-only cookie carrying the token.
const SessionCookie = "featherlite.admin"

const sessionTTL = 7 * 24 * time.Hour

// Service authenticates the single configured moderator and manages the
// stateless signed session.
type Service struct {
	email        string
	passwordHash string
	tokens       *tokenManager
	limiter      ratelimit.Limiter
	logger       *log.Logger
	configured   bool
}

// New builds a Service. email/passwordHash/secret come from configuration;
// an incompletely configured service rejects every login with an upstream
// error rather than panicking at startup.
func New(email, passwordHash, secret string, limiter ratelimit.Limiter, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		email:        strings.TrimSpace(email),
		passwordHash: passwordHash,
		tokens:       newTokenManager(secret, sessionTTL),
		limiter:      limiter,
		logger:       logger,
		configured:   email != "" && passwordHash != "" && len(secret) >= 32,
	}
}

// Login checks the rolling rate limit for identifier, then the credentials.
// It returns a signed session token and its payload on success.
func (s *Service) Login(ctx context.Context, identifier, email, password string) (string, Session, error) {
	allowed, err := s.limiter.Allow(ctx, identifier)
	if err != nil {
		s.logger.Printf("admin: rate limiter error identifier=%s error=%v", identifier, err)
		return "", Session{}, err
	}
	if !allowed {
		return "", Session{}, domain.ErrRateLimited
	}

	if !s.configured {
		return "", Session{}, domain.Upstream("administrative credentials are not fully configured", nil)
	}

	if !safeCompare(strings.ToLower(s.email), strings.ToLower(strings.TrimSpace(email))) {
		return "", Session{}, domain.ErrUnauthorized
	}
	if !s.verifyPassword(password) {
		return "", Session{}, domain.ErrUnauthorized
	}

	token := s.tokens.Issue(s.email)
	session, ok := s.tokens.Verify(token)
	if !ok {
		return "", Session{}, domain.Upstream("failed to issue session token", nil)
	}
	return token, session, nil
}

// Verify validates a bearer token from a cookie.
func (s *Service) Verify(token string) (Session, bool) {
	if !s.configured {
		return Session{}, false
	}
	return s.tokens.Verify(token)
}

// verifyPassword supports three hash schemes, all compared in constant
// time:
//
//	sha256:<hex>          unsalted digest of the password
//	sha256:<salt>:<hex>   digest of salt+password
//	bcrypt:<hash>         bcrypt hash
//	plain:<password>      deprecated plain-text comparison
func (s *Service) verifyPassword(password string) bool {
	hash := s.passwordHash
	switch {
	case strings.HasPrefix(hash, "sha256:"):
		rest := strings.TrimPrefix(hash, "sha256:")
		if rest == "" {
			return false
		}
		salt := ""
		digest := rest
		if i := strings.IndexByte(rest, ':'); i >= 0 {
			salt, digest = rest[:i], rest[i+1:]
		}
		if digest == "" {
			return false
		}
		sum := sha256.Sum256([]byte(salt + password))
		return safeCompare(hex.EncodeToString(sum[:]), digest)
	case strings.HasPrefix(hash, "bcrypt:"):
		err := bcrypt.CompareHashAndPassword([]byte(strings.TrimPrefix(hash, "bcrypt:")), []byte(password))
		return err == nil
	case strings.HasPrefix(hash, "plain:"):
		return safeCompare(password, strings.TrimPrefix(hash, "plain:"))
	default:
		s.logger.Printf("admin: unsupported password hash format")
		return false
	}
}

func safeCompare(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return hmac.Equal([]byte(a), []byte(b))
}
