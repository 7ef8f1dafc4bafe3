// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package joseref

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// es256k wraps a secp256k1 key pair. golang-jwt/jwt/v5 has no secp256k1
// signing method, so this talks to decred/dcrd/dcrec/secp256k1 directly
// rather than through jwt.SigningMethod, following the same
// hash-then-ecdsa-sign shape as crypto/keys/secp256k1.go.
type es256k struct {
	priv *secp256k1.PrivateKey
	pub  *secp256k1.PublicKey
}

// NewES256K wraps a secp256k1 key pair (an RFC 9421 extension algorithm
// identifier, "es256k", following the registration in crypto/keys).
// Either key may be nil to build a sign-only or verify-only instance.
func NewES256K(priv *secp256k1.PrivateKey, pub *secp256k1.PublicKey) *es256k {
	return &es256k{priv: priv, pub: pub}
}

// Algorithm returns "es256k".
func (k *es256k) Algorithm() string { return "es256k" }

// Sign hashes base with SHA-256 and signs it with ECDSA over secp256k1,
// returning a fixed 64-byte r||s encoding.
func (k *es256k) Sign(base []byte) ([]byte, error) {
	if k.priv == nil {
		return nil, fmt.Errorf("joseref: es256k: no private key configured for signing")
	}
	hash := sha256.Sum256(base)
	r, s, err := ecdsa.Sign(rand.Reader, k.priv.ToECDSA(), hash[:])
	if err != nil {
		return nil, err
	}
	return serializeRS(r, s), nil
}

// Verify checks a 64-byte r||s signature against base.
func (k *es256k) Verify(base, signature []byte) error {
	if k.pub == nil {
		return fmt.Errorf("joseref: es256k: no public key configured for verification")
	}
	r, s, err := deserializeRS(signature)
	if err != nil {
		return err
	}
	hash := sha256.Sum256(base)
	if !ecdsa.Verify(k.pub.ToECDSA(), hash[:], r, s) {
		return fmt.Errorf("joseref: es256k: signature verification failed")
	}
	return nil
}

func serializeRS(r, s *big.Int) []byte {
	rBytes := r.Bytes()
	sBytes := s.Bytes()
	out := make([]byte, 64)
	copy(out[32-len(rBytes):32], rBytes)
	copy(out[64-len(sBytes):64], sBytes)
	return out
}

func deserializeRS(data []byte) (*big.Int, *big.Int, error) {
	if len(data) != 64 {
		return nil, nil, fmt.Errorf("joseref: es256k: signature must be 64 bytes, got %d", len(data))
	}
	r := new(big.Int).SetBytes(data[:32])
	s := new(big.Int).SetBytes(data[32:])
	return r, s, nil
}
