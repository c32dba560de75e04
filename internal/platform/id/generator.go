package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const (
	DefaultSize = 16
	// TokenSize is the entropy used for opaque credentials.
	TokenSize = 32
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator returns hex encoded crypto/rand bytes.
type RandomGenerator struct {
	size int
}

func NewRandomGenerator() *RandomGenerator {
	return NewSizedGenerator(DefaultSize)
}

// NewSizedGenerator produces IDs from size random bytes.
func NewSizedGenerator(size int) *RandomGenerator {
	if size <= 0 {
		size = DefaultSize
	}
	return &RandomGenerator{size: size}
}

func (g *RandomGenerator) NewID() (string, error) {
	size := g.size
	if size <= 0 {
		size = DefaultSize
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
