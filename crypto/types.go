package crypto

import (
	"crypto"
	"errors"
)

// KeyType represents the type of cryptographic key
type KeyType string

const (
	KeyTypeEd25519   KeyType = "Ed25519"
	KeyTypeSecp256k1 KeyType = "Secp256k1"
	KeyTypeX25519    KeyType = "X25519"
	KeyTypeRSA       KeyType = "RSA"
)

// KeyPair represents a cryptographic key pair. Its Algorithm/Sign/Verify
// methods match httpsig.Signer/httpsig.Verifier, so any KeyPair satisfies
// both without an adapter.
type KeyPair interface {
	// Algorithm returns the RFC 9421 §2.3 algorithm identifier
	Algorithm() string

	// PublicKey returns the public key
	PublicKey() crypto.PublicKey

	// PrivateKey returns the private key
	PrivateKey() crypto.PrivateKey

	// Type returns the key type
	Type() KeyType

	// Sign signs the given message
	Sign(message []byte) ([]byte, error)

	// Verify verifies the signature
	Verify(message, signature []byte) error

	// ID returns a unique identifier for this key pair
	ID() string
}

// Common errors
var (
	ErrInvalidKeyType        = errors.New("invalid key type")
	ErrInvalidSignature      = errors.New("invalid signature")
	ErrAlgorithmNotSupported = errors.New("algorithm not supported")
)
