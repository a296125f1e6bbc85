// Package session remembers the previous longevity result of each browser
// session so the dashboard can show how much the latest change moved it.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/iwvelando/capital-longevity/pkg/constants"
	"github.com/iwvelando/capital-longevity/pkg/longevity"
)

// Store keeps one memo per session identifier.
type Store interface {
	// Get returns the memo for id; the boolean is false when none is stored.
	Get(ctx context.Context, id string) (longevity.Result, bool, error)
	Set(ctx context.Context, id string, memo longevity.Result) error
	Close() error
}

// Options selects and configures a Store backend.
type Options struct {
	Backend       string
	RedisAddress  string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// NewStore builds the backend named by opts.Backend.
func NewStore(opts Options) (Store, error) {
	switch opts.Backend {
	case "", constants.DefaultSessionBackend:
		return NewMemoryStore(opts.TTL), nil
	case constants.RedisSessionBackend:
		if opts.RedisAddress == "" {
			return nil, fmt.Errorf("redis session backend requires an address")
		}
		return NewRedisStore(opts.RedisAddress, opts.RedisPassword, opts.RedisDB, opts.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported session backend %q", opts.Backend)
	}
}

// NewID returns a random 128-bit session identifier in hex.
func NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ValidID reports whether id looks like an identifier produced by NewID.
func ValidID(id string) bool {
	if len(id) != 32 {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}
