package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/util"
)

// Revoker remembers logged-out session IDs.
type Revoker interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

type Options struct {
	Secret     string
	Lifetime   time.Duration
	CookieName string
	Secure     bool
}

// Manager reads and writes the signed session cookie.
type Manager struct {
	opts    Options
	revoker Revoker
}

// NewManager builds a manager. revoker may be nil.
func NewManager(opts Options, revoker Revoker) *Manager {
	if opts.Lifetime <= 0 {
		opts.Lifetime = time.Hour
	}
	if opts.CookieName == "" {
		opts.CookieName = "storefront_session"
	}
	return &Manager{opts: opts, revoker: revoker}
}

func (m *Manager) CookieName() string {
	return m.opts.CookieName
}

// Load returns the session carried by r, or a fresh one when the cookie is
// missing, tampered with, expired or revoked.
func (m *Manager) Load(r *http.Request) *State {
	cookie, err := r.Cookie(m.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return New()
	}

	claims, err := util.ValidateSessionToken(cookie.Value, m.opts.Secret)
	if err != nil {
		if !errors.Is(err, util.ErrExpiredSessionToken) {
			logger.Warn("Discarding invalid session cookie", map[string]interface{}{
				"error": err.Error(),
			})
		}
		state := New()
		state.dirty = true
		return state
	}

	if m.revoker != nil {
		revoked, err := m.revoker.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			logger.Warn("Session revocation check failed, accepting session", map[string]interface{}{
				"error": err.Error(),
			})
		} else if revoked {
			state := New()
			state.dirty = true
			return state
		}
	}

	return fromClaims(claims)
}

// Save writes the session cookie into header when state changed and revokes
// the session retired by a logout.
func (m *Manager) Save(ctx context.Context, header http.Header, state *State) error {
	if id := state.takeRevoked(); id != "" && m.revoker != nil {
		if err := m.revoker.Revoke(ctx, id, m.opts.Lifetime); err != nil {
			logger.Error("Failed to revoke session", err)
		}
	}

	if !state.dirty {
		return nil
	}

	cookie := &http.Cookie{
		Name:     m.opts.CookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	if state.Empty() {
		cookie.MaxAge = -1
		header.Add("Set-Cookie", cookie.String())
		state.dirty = false
		return nil
	}

	token, expiresAt, err := util.GenerateSessionToken(state.id, state.data, m.opts.Secret, m.opts.Lifetime)
	if err != nil {
		return err
	}
	cookie.Value = token
	if state.data.Permanent {
		cookie.Expires = expiresAt
		cookie.MaxAge = int(m.opts.Lifetime.Seconds())
	}

	header.Add("Set-Cookie", cookie.String())
	state.dirty = false
	return nil
}
