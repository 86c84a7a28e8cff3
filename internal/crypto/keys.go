// Package crypto derives signing and encryption keys from account passphrases
// and implements the sidechain's address formats.
package crypto

import (
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"strings"
)

const (
	// AddressLength is the byte length of an on-chain account address.
	AddressLength = 20
)

// KeyPair holds the ed25519 keys derived from a passphrase.
type KeyPair struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// KeyPairFromPassphrase derives the account key pair from a passphrase.
// The derivation is one-way and deterministic: the same passphrase always
// yields the same keys. The passphrase is never persisted.
func KeyPairFromPassphrase(passphrase string) (*KeyPair, error) {
	trimmed := strings.TrimSpace(passphrase)
	if trimmed == "" {
		return nil, errors.New("passphrase cannot be empty")
	}

	seed := sha256.Sum256([]byte(trimmed))
	priv := ed25519.NewKeyFromSeed(seed[:])

	return &KeyPair{
		PublicKey:  priv.Public().(ed25519.PublicKey),
		PrivateKey: priv,
	}, nil
}

// Address returns the 20-byte account address of the key pair.
func (kp *KeyPair) Address() []byte {
	return AddressFromPublicKey(kp.PublicKey)
}

// AddressFromPublicKey derives the 20-byte account address from a public key:
// the first 20 bytes of its SHA-256 digest.
func AddressFromPublicKey(pub ed25519.PublicKey) []byte {
	sum := sha256.Sum256(pub)
	return sum[:AddressLength]
}
