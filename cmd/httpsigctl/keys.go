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

package main

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/sage-x-project/httpsig/crypto/keys"
	"github.com/sage-x-project/httpsig/core/httpsig"
	"github.com/sage-x-project/httpsig/joseref"
)

// loadSigner reads key material from path and wraps it as an
// httpsig.Signer for alg. ed25519/es256k use crypto/keys directly (they
// already satisfy httpsig.Signer by structural typing); the remaining
// JOSE algorithms go through joseref.
func loadSigner(alg, path string) (httpsig.Signer, error) {
	switch alg {
	case "ed25519":
		priv, err := readHexPrivateKey(path, ed25519.PrivateKeySize)
		if err != nil {
			return nil, err
		}
		return keys.NewEd25519KeyPair(ed25519.PrivateKey(priv), "")
	case "es256k":
		priv, err := readHexSecp256k1Private(path)
		if err != nil {
			return nil, err
		}
		return keys.NewSecp256k1KeyPair(priv, "")
	case "rsa-v1_5-sha256", "rsa-pss-sha256":
		priv, err := readPEMRSAPrivateKey(path)
		if err != nil {
			return nil, err
		}
		if alg == "rsa-pss-sha256" {
			return joseref.NewPS256(priv, &priv.PublicKey), nil
		}
		return joseref.NewRS256(priv, &priv.PublicKey), nil
	case "ecdsa-p256-sha256":
		priv, err := readPEMECPrivateKey(path)
		if err != nil {
			return nil, err
		}
		return joseref.NewES256(priv, &priv.PublicKey), nil
	case "hmac-sha256":
		secret, err := readHexSecret(path)
		if err != nil {
			return nil, err
		}
		return joseref.NewHMAC(secret), nil
	default:
		return nil, fmt.Errorf("unsupported algorithm: %s", alg)
	}
}

// loadVerifier mirrors loadSigner for the public-key side.
func loadVerifier(alg, path string) (httpsig.Verifier, error) {
	switch alg {
	case "ed25519":
		pub, err := readHexPublicKey(path, ed25519.PublicKeySize)
		if err != nil {
			return nil, err
		}
		return keys.NewEd25519PublicKeyPair(ed25519.PublicKey(pub), ""), nil
	case "es256k":
		pub, err := readHexSecp256k1Public(path)
		if err != nil {
			return nil, err
		}
		return keys.NewSecp256k1PublicKeyPair(pub, ""), nil
	case "rsa-v1_5-sha256", "rsa-pss-sha256":
		pub, err := readPEMRSAPublicKey(path)
		if err != nil {
			return nil, err
		}
		if alg == "rsa-pss-sha256" {
			return joseref.NewPS256(nil, pub), nil
		}
		return joseref.NewRS256(nil, pub), nil
	case "ecdsa-p256-sha256":
		pub, err := readPEMECPublicKey(path)
		if err != nil {
			return nil, err
		}
		return joseref.NewES256(nil, pub), nil
	case "hmac-sha256":
		secret, err := readHexSecret(path)
		if err != nil {
			return nil, err
		}
		return joseref.NewHMAC(secret), nil
	default:
		return nil, fmt.Errorf("unsupported algorithm: %s", alg)
	}
}

func readHexSecret(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key file %s: %w", path, err)
	}
	secret, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("decoding hex key in %s: %w", path, err)
	}
	return secret, nil
}

func readHexPrivateKey(path string, wantLen int) ([]byte, error) {
	data, err := readHexSecret(path)
	if err != nil {
		return nil, err
	}
	if len(data) != wantLen {
		return nil, fmt.Errorf("key in %s: expected %d bytes, got %d", path, wantLen, len(data))
	}
	return data, nil
}

func readHexPublicKey(path string, wantLen int) ([]byte, error) {
	return readHexPrivateKey(path, wantLen)
}

func readHexSecp256k1Private(path string) (*secp256k1.PrivateKey, error) {
	data, err := readHexPrivateKey(path, 32)
	if err != nil {
		return nil, err
	}
	return secp256k1.PrivKeyFromBytes(data), nil
}

func readHexSecp256k1Public(path string) (*secp256k1.PublicKey, error) {
	data, err := readHexSecret(path)
	if err != nil {
		return nil, err
	}
	pub, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("parsing secp256k1 public key in %s: %w", path, err)
	}
	return pub, nil
}

func readPEMRSAPrivateKey(path string) (*rsa.PrivateKey, error) {
	block, err := readPEMBlock(path)
	if err != nil {
		return nil, err
	}
	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		keyAny, err2 := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err2 != nil {
			return nil, fmt.Errorf("parsing RSA private key in %s: %w", path, err)
		}
		var ok bool
		key, ok = keyAny.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("key in %s is not an RSA private key", path)
		}
	}
	return key, nil
}

func readPEMRSAPublicKey(path string) (*rsa.PublicKey, error) {
	block, err := readPEMBlock(path)
	if err != nil {
		return nil, err
	}
	keyAny, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing RSA public key in %s: %w", path, err)
	}
	pub, ok := keyAny.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("key in %s is not an RSA public key", path)
	}
	return pub, nil
}

func readPEMECPrivateKey(path string) (*ecdsa.PrivateKey, error) {
	block, err := readPEMBlock(path)
	if err != nil {
		return nil, err
	}
	key, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing ECDSA private key in %s: %w", path, err)
	}
	return key, nil
}

func readPEMECPublicKey(path string) (*ecdsa.PublicKey, error) {
	block, err := readPEMBlock(path)
	if err != nil {
		return nil, err
	}
	keyAny, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing ECDSA public key in %s: %w", path, err)
	}
	pub, ok := keyAny.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("key in %s is not an ECDSA public key", path)
	}
	return pub, nil
}

func readPEMBlock(path string) (*pem.Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key file %s: %w", path, err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in %s", path)
	}
	return block, nil
}
