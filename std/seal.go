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

// Package std carries the stream plumbing shared by the pocketcrypt
// tools: chunked authenticated stream framing over a prepared duplex,
// the signing transcript, password stretching and optional compression.
package std

import (
	"io"

	"github.com/arachsys/pocketcrypt/duplex"
	"github.com/pkg/errors"
)

// ChunkSize is the plaintext span covered by each 16-byte tag.
const ChunkSize = 65536

var (
	// ErrAuth reports a chunk whose tag failed to verify.
	ErrAuth = errors.New("authentication failed")
	// ErrTruncated reports a ciphertext too short to hold its tags.
	ErrTruncated = errors.New("input is truncated")
)

// Seal encrypts r to w under the prepared duplex: each 64 KiB chunk of
// plaintext is encrypted in place, the state padded, and a 16-byte tag
// squeezed and appended. The final chunk is shorter, or empty when the
// input length is an exact multiple, so the stream always ends with a
// tagged terminator and its length authenticates implicitly.
func Seal(state *duplex.Duplex, w io.Writer, r io.Reader) error {
	buf := make([]byte, ChunkSize+duplex.Rate)
	defer duplex.Wipe(buf)

	for {
		length, err := io.ReadFull(r, buf[:ChunkSize])
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return errors.WithStack(err)
		}

		state.Encrypt(buf[:length])
		state.Pad()
		state.Squeeze(buf[length : length+duplex.Rate])
		if _, err := w.Write(buf[:length+duplex.Rate]); err != nil {
			return errors.WithStack(err)
		}

		if length < ChunkSize {
			return nil
		}
	}
}

// Open reverses Seal, writing recovered plaintext to w. Each chunk is
// decrypted and padded, then the trailing tag is decrypted: a valid
// tag cancels to zero bytes, checked in constant time. The first
// failing chunk aborts with ErrAuth before any of its plaintext is
// released.
func Open(state *duplex.Duplex, w io.Writer, r io.Reader) error {
	buf := make([]byte, ChunkSize+duplex.Rate)
	defer duplex.Wipe(buf)

	for {
		length, err := io.ReadFull(r, buf)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return errors.WithStack(err)
		}
		if length < duplex.Rate {
			return ErrTruncated
		}

		body := buf[:length-duplex.Rate]
		state.Decrypt(body)
		state.Pad()

		tag := buf[length-duplex.Rate : length]
		state.Decrypt(tag)
		if duplex.Compare(tag, nil, duplex.Rate) != 0 {
			return ErrAuth
		}

		if _, err := w.Write(body); err != nil {
			return errors.WithStack(err)
		}

		if length < ChunkSize+duplex.Rate {
			return nil
		}
	}
}

// AbsorbStream feeds the whole of r into the duplex in chunk-sized
// pieces without padding, so callers control the message framing.
func AbsorbStream(state *duplex.Duplex, r io.Reader) error {
	buf := make([]byte, ChunkSize)
	defer duplex.Wipe(buf)

	for {
		length, err := io.ReadFull(r, buf)
		state.Absorb(buf[:length])
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil
		}
		if err != nil {
			return errors.WithStack(err)
		}
	}
}
