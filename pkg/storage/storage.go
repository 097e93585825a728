package storage

import (
	"fmt"
	"math/big"
	"time"

	"github.com/lukau2357/ecc-go/pkg/crypto/curve"
	"github.com/lukau2357/ecc-go/pkg/crypto/dualec"
)

// DRBGSession is one live Dual_EC_DRBG demonstration: a generator, the
// parameters it runs on, and every block it has published so far. The
// backdoor scalar is kept server-side so the attack endpoint can
// demonstrate recovery without the client ever seeing e.
type DRBGSession struct {
	ID string `json:"id"`

	// Curve is the preset name the session runs on.
	Curve string `json:"curve"`

	// TruncateBits is the generator's truncation width.
	TruncateBits uint `json:"truncate_bits"`

	// P and Q are the generator's public points, with Q = Backdoor * P.
	P *curve.Point `json:"p"`
	Q *curve.Point `json:"q"`

	// Backdoor is the secret scalar relating Q to P. Never serialized.
	Backdoor *big.Int `json:"-"`

	// Generator is the live generator. Not safe for concurrent use;
	// access it through SessionStore.WithSession.
	Generator *dualec.Generator `json:"-"`

	// Blocks is every output block published so far, in order.
	Blocks []*dualec.Block `json:"blocks"`

	// Recovered is the internal state reconstructed by the attack
	// endpoint, once it has run. Never serialized.
	Recovered *big.Int `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
}

// SessionStore defines the interface for DRBG session storage
type SessionStore interface {
	// CreateSession stores a new session
	CreateSession(session *DRBGSession) error

	// GetSession retrieves a session snapshot by ID
	GetSession(sessionID string) (*DRBGSession, error)

	// WithSession runs fn with exclusive access to the live session,
	// serializing generator use across requests
	WithSession(sessionID string, fn func(*DRBGSession) error) error

	// DeleteSession removes a session
	DeleteSession(sessionID string) error

	// ListSessions returns all session IDs
	ListSessions() ([]string, error)

	// CleanupExpiredSessions removes sessions idle longer than maxAge
	CleanupExpiredSessions(maxAge time.Duration) error
}

// Store combines session storage with lifecycle management
type Store interface {
	SessionStore

	// Close releases the storage and stops background work
	Close() error

	// Ping checks if the storage is healthy
	Ping() error
}

var (
	// ErrSessionNotFound indicates a session was not found
	ErrSessionNotFound = fmt.Errorf("session not found")

	// ErrSessionExists indicates a session ID collision
	ErrSessionExists = fmt.Errorf("session already exists")

	// ErrSessionExpired indicates a session has been idle too long
	ErrSessionExpired = fmt.Errorf("session expired")
)
