// The MIT License (MIT)
//
// # Copyright (c) 2025 arachsys
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package std

import (
	"io"

	"github.com/arachsys/pocketcrypt/duplex"
	"github.com/arachsys/pocketcrypt/x25519"
	"github.com/pkg/errors"
)

// SignatureSize is an ephemeral point followed by a scalar response.
const SignatureSize = 2 * x25519.Size

// ErrVerify reports a signature that does not match the message.
var ErrVerify = errors.New("verification failed")

// Sign produces a deterministic Schnorr signature over the streamed
// message. The transcript absorbs the message and the signer's public
// identity; the ephemeral scalar is squeezed from a fork of that
// transcript keyed with the secret, so no fresh entropy is consumed
// and a repeated message yields a repeated signature. If identity is
// nil it is derived from the secret.
func Sign(perm duplex.Permutation, message io.Reader, secret, identity *[x25519.Size]byte) ([SignatureSize]byte, error) {
	var signature [SignatureSize]byte

	state := duplex.New(perm)
	if err := AbsorbStream(state, message); err != nil {
		return signature, err
	}
	state.Pad()

	var id [x25519.Size]byte
	if identity != nil {
		id = *identity
	} else {
		x25519.X25519(&id, secret, &x25519.Base)
	}
	state.Absorb(id[:])

	seed := state.Clone()
	defer seed.Wipe()
	seed.Absorb(secret[:])

	var scalar, point, challenge, response [x25519.Size]byte
	defer duplex.Wipe(scalar[:])
	seed.Squeeze(scalar[:])
	x25519.X25519(&point, &scalar, &x25519.Base)

	state.Absorb(point[:])
	state.Squeeze(challenge[:])
	x25519.Sign(&response, &challenge, &scalar, secret)

	copy(signature[:x25519.Size], point[:])
	copy(signature[x25519.Size:], response[:])
	return signature, nil
}

// Verify recomputes the challenge from the streamed message, the
// identity and the signature's ephemeral point, then checks the
// response. It returns ErrVerify on mismatch.
func Verify(perm duplex.Permutation, message io.Reader, identity *[x25519.Size]byte, signature *[SignatureSize]byte) error {
	state := duplex.New(perm)
	if err := AbsorbStream(state, message); err != nil {
		return err
	}
	state.Pad()

	state.Absorb(identity[:])
	state.Absorb(signature[:x25519.Size])

	var point, challenge, response [x25519.Size]byte
	copy(point[:], signature[:x25519.Size])
	copy(response[:], signature[x25519.Size:])
	state.Squeeze(challenge[:])

	if x25519.Verify(&response, &challenge, &point, identity) != 0 {
		return ErrVerify
	}
	return nil
}
