package joseref

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdDSASignVerify(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	signer := NewEdDSA(priv, pub)
	verifier := NewEdDSA(nil, pub)
	assert.Equal(t, "ed25519", signer.Algorithm())

	base := []byte("\"@method\": GET\n\"@signature-params\": (\"@method\")")
	sig, err := signer.Sign(base)
	require.NoError(t, err)
	require.NoError(t, verifier.Verify(base, sig))

	tampered := append([]byte(nil), base...)
	tampered[0] ^= 0x01
	assert.Error(t, verifier.Verify(tampered, sig))
}

func TestRS256SignVerify(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	signer := NewRS256(priv, &priv.PublicKey)
	verifier := NewRS256(nil, &priv.PublicKey)

	base := []byte("\"@authority\": example.com")
	sig, err := signer.Sign(base)
	require.NoError(t, err)
	require.NoError(t, verifier.Verify(base, sig))
	assert.Error(t, verifier.Verify([]byte("different"), sig))
}

func TestES256SignVerify(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	signer := NewES256(priv, &priv.PublicKey)
	verifier := NewES256(nil, &priv.PublicKey)

	base := []byte("\"@path\": /foo")
	sig, err := signer.Sign(base)
	require.NoError(t, err)
	require.NoError(t, verifier.Verify(base, sig))
}

func TestHMACSignVerify(t *testing.T) {
	secret := []byte("shared-secret-value")
	kp := NewHMAC(secret)

	base := []byte("\"@method\": POST")
	sig, err := kp.Sign(base)
	require.NoError(t, err)
	require.NoError(t, kp.Verify(base, sig))

	wrong := NewHMAC([]byte("different-secret"))
	assert.Error(t, wrong.Verify(base, sig))
}

func TestES256KSignVerify(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	pub := priv.PubKey()

	signer := NewES256K(priv, pub)
	verifier := NewES256K(nil, pub)
	assert.Equal(t, "es256k", signer.Algorithm())

	base := []byte("\"@scheme\": https")
	sig, err := signer.Sign(base)
	require.NoError(t, err)
	require.Len(t, sig, 64)
	require.NoError(t, verifier.Verify(base, sig))

	flipped := append([]byte(nil), sig...)
	flipped[0] ^= 0xFF
	assert.Error(t, verifier.Verify(base, flipped))
}
