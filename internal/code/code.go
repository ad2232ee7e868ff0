// Package code generates the short human-facing codes used to link partners
// and the random identifiers used for every stored record.
package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/dukerupert/nosso/internal/model"
	"github.com/google/uuid"
)

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	length   = 6

	// MaxAttempts bounds Unique. After that many collisions the last
	// candidate is returned anyway.
	MaxAttempts = 100
)

var alphabetSize = big.NewInt(int64(len(alphabet)))

// Short returns a 6-character code drawn uniformly from [A-Z0-9].
func Short() (string, error) {
	var b strings.Builder
	b.Grow(length)
	for range length {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String(), nil
}

// Unique calls Short until taken reports false or MaxAttempts is reached.
// Uniqueness is only checked against what taken can see; it is not
// guaranteed against concurrent writers.
func Unique(taken func(string) bool) (string, error) {
	var c string
	for range MaxAttempts {
		var err error
		c, err = Short()
		if err != nil {
			return "", err
		}
		if !taken(c) {
			return c, nil
		}
	}
	return c, nil
}

// UniqueUserCode returns a code not used by any of users.
func UniqueUserCode(users []model.User) (string, error) {
	codes := make(map[string]struct{}, len(users))
	for _, u := range users {
		codes[u.UserCode] = struct{}{}
	}
	return Unique(func(c string) bool {
		_, ok := codes[c]
		return ok
	})
}

// UniqueInviteCode returns a code not used by any couple that still has an
// open slot. Full couples no longer accept their code, so reuse is harmless.
func UniqueInviteCode(couples []model.Couple) (string, error) {
	codes := make(map[string]struct{}, len(couples))
	for _, c := range couples {
		if !c.Full() {
			codes[c.InviteCode] = struct{}{}
		}
	}
	return Unique(func(c string) bool {
		_, ok := codes[c]
		return ok
	})
}

// Normalize prepares user input for comparison against stored codes.
func Normalize(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}

// NewID returns a random 128-bit identifier.
func NewID() string {
	return uuid.NewString()
}
