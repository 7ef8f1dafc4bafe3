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

// Package joseref is a reference Signer/Verifier backend for
// core/httpsig, built on golang-jwt/jwt/v5's JOSE signing methods plus a
// hand-rolled wrapper for secp256k1, which jwt/v5 doesn't cover. Each
// type here implements httpsig.Signer and/or httpsig.Verifier by
// structural typing; core/httpsig is imported only for the compile-time
// interface assertions below.
package joseref

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sage-x-project/httpsig/core/httpsig"
)

var (
	_ httpsig.Signer   = (*joseKeyPair)(nil)
	_ httpsig.Verifier = (*joseKeyPair)(nil)
	_ httpsig.Signer   = (*es256k)(nil)
	_ httpsig.Verifier = (*es256k)(nil)
)

// joseKeyPair adapts one golang-jwt SigningMethod plus a key pair into
// the Signer/Verifier boundary: Sign/Verify operate on a precomputed
// signing-string (the httpsig signature base), not a JWT compact form.
type joseKeyPair struct {
	alg       string
	method    jwt.SigningMethod
	signKey   interface{}
	verifyKey interface{}
}

// Algorithm returns the RFC 9421 §2.3 algorithm identifier.
func (k *joseKeyPair) Algorithm() string { return k.alg }

// Sign signs base using the wrapped JOSE signing method.
func (k *joseKeyPair) Sign(base []byte) ([]byte, error) {
	if k.signKey == nil {
		return nil, fmt.Errorf("joseref: %s: no private key configured for signing", k.alg)
	}
	return k.method.Sign(string(base), k.signKey)
}

// Verify checks signature against base using the wrapped JOSE signing method.
func (k *joseKeyPair) Verify(base, signature []byte) error {
	if k.verifyKey == nil {
		return fmt.Errorf("joseref: %s: no public key configured for verification", k.alg)
	}
	return k.method.Verify(string(base), signature, k.verifyKey)
}

// NewRS256 wraps an RSA key pair for RSASSA-PKCS1-v1_5 with SHA-256
// (RFC 9421 §2.3's "rsa-v1_5-sha256"). Either key may be nil to build a
// sign-only or verify-only instance.
func NewRS256(priv *rsa.PrivateKey, pub *rsa.PublicKey) *joseKeyPair {
	return &joseKeyPair{alg: "rsa-v1_5-sha256", method: jwt.SigningMethodRS256, signKey: rsaSignKey(priv), verifyKey: rsaVerifyKey(pub)}
}

// NewPS256 wraps an RSA key pair for RSASSA-PSS with SHA-256 (RFC 9421
// §2.3's "rsa-pss-sha256").
func NewPS256(priv *rsa.PrivateKey, pub *rsa.PublicKey) *joseKeyPair {
	return &joseKeyPair{alg: "rsa-pss-sha256", method: jwt.SigningMethodPS256, signKey: rsaSignKey(priv), verifyKey: rsaVerifyKey(pub)}
}

// NewES256 wraps a P-256 ECDSA key pair (RFC 9421 §2.3's "ecdsa-p256-sha256").
func NewES256(priv *ecdsa.PrivateKey, pub *ecdsa.PublicKey) *joseKeyPair {
	return &joseKeyPair{alg: "ecdsa-p256-sha256", method: jwt.SigningMethodES256, signKey: ecdsaSignKey(priv), verifyKey: ecdsaVerifyKey(pub)}
}

// NewEdDSA wraps an Ed25519 key pair (RFC 9421 §2.3's "ed25519").
func NewEdDSA(priv ed25519.PrivateKey, pub ed25519.PublicKey) *joseKeyPair {
	return &joseKeyPair{alg: "ed25519", method: jwt.SigningMethodEdDSA, signKey: ed25519SignKey(priv), verifyKey: ed25519VerifyKey(pub)}
}

// NewHMAC wraps a shared secret for HMAC-SHA256 (RFC 9421 §2.3's "hmac-sha256").
func NewHMAC(secret []byte) *joseKeyPair {
	return &joseKeyPair{alg: "hmac-sha256", method: jwt.SigningMethodHS256, signKey: secret, verifyKey: secret}
}

func rsaSignKey(k *rsa.PrivateKey) interface{} {
	if k == nil {
		return nil
	}
	return k
}

func rsaVerifyKey(k *rsa.PublicKey) interface{} {
	if k == nil {
		return nil
	}
	return k
}

func ecdsaSignKey(k *ecdsa.PrivateKey) interface{} {
	if k == nil {
		return nil
	}
	return k
}

func ecdsaVerifyKey(k *ecdsa.PublicKey) interface{} {
	if k == nil {
		return nil
	}
	return k
}

func ed25519SignKey(k ed25519.PrivateKey) interface{} {
	if k == nil {
		return nil
	}
	return k
}

func ed25519VerifyKey(k ed25519.PublicKey) interface{} {
	if k == nil {
		return nil
	}
	return k
}
