package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const maxExternalIDLength = 128

// Generator creates opaque IDs used to correlate a request across logs and traces.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct {
	prefix string
}

// NewRandomGenerator returns 128-bit hex IDs, prefixed when prefix is non-empty.
func NewRandomGenerator(prefix string) *RandomGenerator {
	return &RandomGenerator{prefix: strings.TrimSpace(prefix)}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return g.prefix + hex.EncodeToString(buf), nil
}

// ValidExternal reports whether a caller-supplied ID is safe to echo back and log.
func ValidExternal(v string) bool {
	if v == "" || len(v) > maxExternalIDLength {
		return false
	}
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == ':':
		default:
			return false
		}
	}
	return true
}
