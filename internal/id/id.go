// Package id generates opaque identifiers for entities and share tokens.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// shareAlphabet is the alphabet for public share tokens: 62 symbols,
// alphanumeric only so tokens survive copy-paste into any URL untouched.
const shareAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// ShareTokenLength is the canonical length of a public share token.
// 62^10 possible values make blind guessing and accidental collision
// equally negligible at this scale.
const ShareTokenLength = 10

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "content-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	// Use default NanoID (21 characters, URL-safe alphabet)
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when you're certain the system entropy is available,
// or when failure should crash the program (e.g., during initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// ShareToken produces a token of exactly length characters drawn
// independently and uniformly from the alphanumeric alphabet.
//
// The token is NOT guaranteed unique by construction. Callers must treat
// it as untrusted until the store confirms no other owner holds it.
func ShareToken(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("share token length must be positive, got %d", length)
	}
	token, err := gonanoid.Generate(shareAlphabet, length)
	if err != nil {
		return "", fmt.Errorf("generate share token: %w", err)
	}
	return token, nil
}
