// Package auth holds the password credential codec and session token
// primitives for the storefront.
package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for new password hashes.
const bcryptCost = 12

// CredentialKind distinguishes how a stored credential was encoded.
type CredentialKind int

const (
	// KindHashed is a bcrypt hash written by this system.
	KindHashed CredentialKind = iota

	// KindLegacy is a plaintext password imported from the previous store
	// platform. Legacy credentials are upgraded to bcrypt on first
	// successful login.
	KindLegacy
)

// Credential is a stored password credential in either encoding.
type Credential struct {
	kind  CredentialKind
	value string
}

// ParseCredential classifies a stored credential string. Strings with a
// recognized bcrypt prefix are hashed; anything else is treated as a legacy
// plaintext import.
func ParseCredential(stored string) Credential {
	if strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$") {
		return Credential{kind: KindHashed, value: stored}
	}
	return Credential{kind: KindLegacy, value: stored}
}

// Kind returns the credential's encoding.
func (c Credential) Kind() CredentialKind { return c.kind }

// IsLegacy reports whether the credential still holds an imported plaintext
// password and should be upgraded after a successful login.
func (c Credential) IsLegacy() bool { return c.kind == KindLegacy }

// Verify checks the candidate password against the credential. Legacy
// credentials compare in constant time.
func (c Credential) Verify(password string) bool {
	switch c.kind {
	case KindHashed:
		return bcrypt.CompareHashAndPassword([]byte(c.value), []byte(password)) == nil
	case KindLegacy:
		return subtle.ConstantTimeCompare([]byte(c.value), []byte(password)) == 1
	}
	return false
}

// HashPassword produces a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
