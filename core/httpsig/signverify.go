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

package httpsig

// Signer is the capability boundary a key pair exposes to sign a
// computed signature base. Implementations live outside core/httpsig —
// see the joseref package for a JOSE-algorithm-backed one.
type Signer interface {
	// Algorithm returns the RFC 9421 §2.3 algorithm identifier this
	// signer produces, e.g. "ed25519" or "rsa-pss-sha512".
	Algorithm() string
	// Sign returns the raw signature bytes over base.
	Sign(base []byte) ([]byte, error)
}

// Verifier is the capability boundary a key pair exposes to verify a
// signature against a recomputed signature base.
type Verifier interface {
	// Algorithm returns the RFC 9421 §2.3 algorithm identifier this
	// verifier checks against.
	Algorithm() string
	// Verify returns a non-nil error if signature doesn't match base.
	Verify(base, signature []byte) error
}

// Sign builds the signature base for ctx and meta, signs it with signer,
// and returns the Signature-Input/Signature field pair under label. If
// meta has no "alg" set, signer.Algorithm() is filled in; if it's already
// set it must match signer.Algorithm() (spec.md §4.8).
func Sign(ctx *MessageContext, label string, meta *SignatureMetadata, signer Signer) (*SignatureInput, *Signature, error) {
	if alg, ok := meta.Algorithm(); ok {
		if alg != signer.Algorithm() {
			return nil, nil, &CryptoError{Op: "sign", Err: &ArgumentError{Field: "alg", Reason: "metadata alg " + alg + " does not match signer algorithm " + signer.Algorithm()}}
		}
	} else {
		meta.SetAlgorithm(signer.Algorithm())
	}

	base, err := BuildSignatureBase(ctx, meta)
	if err != nil {
		return nil, nil, err
	}

	sig, err := signer.Sign([]byte(base))
	if err != nil {
		return nil, nil, &CryptoError{Op: "sign", Err: err}
	}

	si := NewSignatureInput()
	si.Set(label, meta)
	sf := NewSignature()
	sf.Set(label, sig)
	return si, sf, nil
}

// Verify rebuilds the signature base for ctx from the metadata stored
// under label in si, then checks the corresponding signature bytes in sf
// against it using verifier. Returns an error identifying the labeled
// signature if it's missing, if its alg doesn't match verifier, or if the
// cryptographic check fails (spec.md §4.8).
func Verify(ctx *MessageContext, label string, si *SignatureInput, sf *Signature, verifier Verifier) error {
	meta, ok := si.Get(label)
	if !ok {
		return &ValidationError{Detail: "no Signature-Input entry for label " + label}
	}
	sigBytes, ok := sf.Get(label)
	if !ok {
		return &ValidationError{Detail: "no Signature entry for label " + label}
	}
	if alg, ok := meta.Algorithm(); ok && alg != verifier.Algorithm() {
		return &CryptoError{Op: "verify", Err: &ArgumentError{Field: "alg", Reason: "metadata alg " + alg + " does not match verifier algorithm " + verifier.Algorithm()}}
	}

	base, err := BuildSignatureBase(ctx, meta)
	if err != nil {
		return err
	}
	if err := verifier.Verify([]byte(base), sigBytes); err != nil {
		return &CryptoError{Op: "verify", Err: err}
	}
	return nil
}
