// Package session holds the per-request browser session: who is logged in,
// which anonymous cart the browser owns and the pending flash messages.
package session

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/util"
)

const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"

	// MaxFlashes bounds the flashes carried in the cookie; older ones drop first.
	MaxFlashes = 5
)

type Flash = util.Flash

// State is the session as seen by one request. Mutations mark it dirty so the
// cookie is re-issued before the response is written.
type State struct {
	id      string
	data    util.SessionData
	dirty   bool
	revoked string
}

// New returns an empty session with a fresh ID.
func New() *State {
	return &State{id: util.NewSessionID()}
}

func fromClaims(claims *util.SessionClaims) *State {
	return &State{id: claims.ID, data: claims.SessionData}
}

func (s *State) ID() string {
	return s.id
}

func (s *State) Dirty() bool {
	return s.dirty
}

func (s *State) Permanent() bool {
	return s.data.Permanent
}

// Empty reports whether the session carries nothing worth a cookie.
func (s *State) Empty() bool {
	return s.data.CustomerID == 0 && s.data.CartToken == "" && len(s.data.Flashes) == 0
}

func (s *State) IsAuthenticated() bool {
	return s.data.CustomerID != 0
}

func (s *State) CustomerID() (uint, bool) {
	return s.data.CustomerID, s.data.CustomerID != 0
}

func (s *State) CustomerName() string {
	return s.data.Name
}

func (s *State) CustomerEmail() string {
	return s.data.Email
}

// CartToken returns the anonymous cart token, or "" if none was issued yet.
func (s *State) CartToken() string {
	return s.data.CartToken
}

// EnsureCartToken issues an anonymous cart token on first use.
func (s *State) EnsureCartToken() string {
	if s.data.CartToken == "" {
		s.data.CartToken = util.NewSessionID()
		s.dirty = true
	}
	return s.data.CartToken
}

// Owner is the cart owner for this request: the account when logged in,
// otherwise the anonymous token. It is the zero owner before any cart exists.
func (s *State) Owner() model.CartOwner {
	if id, ok := s.CustomerID(); ok {
		return model.AccountOwner(id)
	}
	return model.AnonymousOwner(s.data.CartToken)
}

// Login binds the session to a customer. The session ID is rotated and the
// anonymous cart token dropped; the caller merges that cart first.
func (s *State) Login(customerID uint, name, email string) {
	s.id = util.NewSessionID()
	s.data.CustomerID = customerID
	s.data.Name = name
	s.data.Email = email
	s.data.CartToken = ""
	s.data.Permanent = true
	s.dirty = true
}

// Logout clears everything except pending flashes and schedules the old
// session ID for revocation.
func (s *State) Logout() {
	s.revoked = s.id
	s.id = util.NewSessionID()
	s.data = util.SessionData{Flashes: s.data.Flashes}
	s.dirty = true
}

// RenameCustomer keeps the cached display name in step with the profile.
func (s *State) RenameCustomer(name string) {
	if s.IsAuthenticated() && s.data.Name != name {
		s.data.Name = name
		s.dirty = true
	}
}

func (s *State) AddFlash(category, message string) {
	s.data.Flashes = append(s.data.Flashes, Flash{Category: category, Message: message})
	if n := len(s.data.Flashes); n > MaxFlashes {
		s.data.Flashes = append([]Flash(nil), s.data.Flashes[n-MaxFlashes:]...)
	}
	s.dirty = true
}

// PopFlashes returns pending flashes and removes them from the session.
func (s *State) PopFlashes() []Flash {
	flashes := s.data.Flashes
	if len(flashes) > 0 {
		s.data.Flashes = nil
		s.dirty = true
	}
	return flashes
}

// takeRevoked returns the ID retired by Logout, once.
func (s *State) takeRevoked() string {
	id := s.revoked
	s.revoked = ""
	return id
}
