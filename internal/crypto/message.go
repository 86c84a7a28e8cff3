package crypto

import (
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/nacl/box"
)

const messageNonceLength = 24

// EncryptedMessage is a box-encrypted payload: hex ciphertext plus the hex
// nonce it was sealed with.
type EncryptedMessage struct {
	Cipher string
	Nonce  string
}

func deriveNonce(message []byte, senderPub, recipientPub ed25519.PublicKey) [messageNonceLength]byte {
	h, _ := blake2b.New(messageNonceLength, nil)
	h.Write(message)
	h.Write(senderPub)
	h.Write(recipientPub)
	var nonce [messageNonceLength]byte
	copy(nonce[:], h.Sum(nil))
	return nonce
}

// boxPrivateKey converts an ed25519 private key to its curve25519 form for
// use with nacl box (same construction as libsodium's sk_to_curve25519).
func boxPrivateKey(priv ed25519.PrivateKey) *[32]byte {
	h := sha512.Sum512(priv.Seed())
	var k [32]byte
	copy(k[:], h[:32])
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
	return &k
}

// boxPublicKey converts an ed25519 public key to its curve25519 form.
func boxPublicKey(pub ed25519.PublicKey) (*[32]byte, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid public key length %d", len(pub))
	}
	p, err := new(edwards25519.Point).SetBytes(pub)
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}
	var out [32]byte
	copy(out[:], p.BytesMontgomery())
	return &out, nil
}

// EncryptMessage seals a message with the sender's passphrase and the
// recipient's public key. Only the recipient's passphrase (together with the
// sender's public key) can open it.
func EncryptMessage(message, passphrase string, recipientPublicKey ed25519.PublicKey) (*EncryptedMessage, error) {
	if message == "" {
		return nil, errors.New("message cannot be empty")
	}

	kp, err := KeyPairFromPassphrase(passphrase)
	if err != nil {
		return nil, err
	}
	peerKey, err := boxPublicKey(recipientPublicKey)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient key: %w", err)
	}

	// The nonce is derived from the message and both keys rather than drawn
	// at random: identical inputs must seal to identical bytes so that
	// rebuilding a transaction yields bit-identical signed output. A (key
	// pair, message) combination never reuses a nonce for a different
	// plaintext, which is the property box requires.
	nonce := deriveNonce([]byte(message), kp.PublicKey, recipientPublicKey)

	sealed := box.Seal(nil, []byte(message), &nonce, peerKey, boxPrivateKey(kp.PrivateKey))

	return &EncryptedMessage{
		Cipher: hex.EncodeToString(sealed),
		Nonce:  hex.EncodeToString(nonce[:]),
	}, nil
}

// DecryptMessage opens a message sealed with EncryptMessage, using the
// recipient's passphrase and the sender's public key.
func DecryptMessage(cipherHex, nonceHex, passphrase string, senderPublicKey ed25519.PublicKey) (string, error) {
	sealed, err := hex.DecodeString(cipherHex)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}
	rawNonce, err := hex.DecodeString(nonceHex)
	if err != nil {
		return "", fmt.Errorf("failed to decode nonce: %w", err)
	}
	if len(rawNonce) != messageNonceLength {
		return "", fmt.Errorf("nonce must be %d bytes, got %d", messageNonceLength, len(rawNonce))
	}

	kp, err := KeyPairFromPassphrase(passphrase)
	if err != nil {
		return "", err
	}
	peerKey, err := boxPublicKey(senderPublicKey)
	if err != nil {
		return "", fmt.Errorf("invalid sender key: %w", err)
	}

	var nonce [messageNonceLength]byte
	copy(nonce[:], rawNonce)

	plain, ok := box.Open(nil, sealed, &nonce, peerKey, boxPrivateKey(kp.PrivateKey))
	if !ok {
		return "", errors.New("failed to decrypt message")
	}
	return string(plain), nil
}
