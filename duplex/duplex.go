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

// Package duplex implements a 384-bit duplex sponge over the Gimli and
// Xoodoo permutations, with a 16-byte rate and a running byte counter.
// The state is kept as an explicit little-endian byte array, so absorb,
// squeeze, encrypt and decrypt address the rate directly on any host;
// the permutations load and store 32-bit words across it.
package duplex

import "runtime"

// Permutation selects the 384-bit transform applied at rate boundaries.
type Permutation int

const (
	Gimli Permutation = iota
	Xoodoo
)

const (
	// Rate is the number of state bytes exposed per permutation call.
	Rate = 16
	// Size is the full width of the sponge state in bytes.
	Size = 48
)

// A Duplex is a sponge state plus the monotonic byte counter threaded
// through every operation. The in-block offset is always counter mod 16.
// The zero counter and all-zero state form the initial object, so a
// fresh Duplex is ready to absorb with no keying step.
type Duplex struct {
	state   [Size]byte
	counter uint64
	perm    Permutation
}

// New returns a zeroed duplex driven by the chosen permutation.
func New(perm Permutation) *Duplex {
	return &Duplex{perm: perm}
}

// Clone returns an independent copy of the duplex, state and counter
// included. Protocols use this to fork a transcript, for example to
// derive a deterministic nonce without disturbing the main state.
func (d *Duplex) Clone() *Duplex {
	fork := *d
	return &fork
}

// Counter reports the total bytes consumed or produced so far, padding
// included.
func (d *Duplex) Counter() uint64 {
	return d.counter
}

func (d *Duplex) permute() {
	switch d.perm {
	case Xoodoo:
		xoodoo(&d.state)
	default:
		gimli(&d.state)
	}
}

// Absorb mixes data into the rate and returns the updated counter.
func (d *Duplex) Absorb(data []byte) uint64 {
	offset := int(d.counter & 15)
	d.counter += uint64(len(data))

	if len(data)+offset < Rate {
		for i, b := range data {
			d.state[offset+i] ^= b
		}
		return d.counter
	}

	if offset > 0 {
		for i := 0; i < Rate-offset; i++ {
			d.state[offset+i] ^= data[i]
		}
		data = data[Rate-offset:]
		d.permute()
	}

	for len(data) >= Rate {
		for i := 0; i < Rate; i++ {
			d.state[i] ^= data[i]
		}
		data = data[Rate:]
		d.permute()
	}

	for i, b := range data {
		d.state[i] ^= b
	}
	return d.counter
}

// Squeeze copies rate bytes into out without disturbing the state words
// it reads, and returns the updated counter.
func (d *Duplex) Squeeze(out []byte) uint64 {
	offset := int(d.counter & 15)
	d.counter += uint64(len(out))

	if len(out)+offset < Rate {
		copy(out, d.state[offset:])
		return d.counter
	}

	if offset > 0 {
		copy(out, d.state[offset:Rate])
		out = out[Rate-offset:]
		d.permute()
	}

	for len(out) >= Rate {
		copy(out, d.state[:Rate])
		out = out[Rate:]
		d.permute()
	}

	copy(out, d.state[:])
	return d.counter
}

// Encrypt xors buf into the rate in place, replacing buf with the
// resulting ciphertext, and returns the updated counter.
func (d *Duplex) Encrypt(buf []byte) uint64 {
	offset := int(d.counter & 15)
	d.counter += uint64(len(buf))

	if len(buf)+offset < Rate {
		for i := range buf {
			d.state[offset+i] ^= buf[i]
			buf[i] = d.state[offset+i]
		}
		return d.counter
	}

	if offset > 0 {
		for i := 0; i < Rate-offset; i++ {
			d.state[offset+i] ^= buf[i]
			buf[i] = d.state[offset+i]
		}
		buf = buf[Rate-offset:]
		d.permute()
	}

	for len(buf) >= Rate {
		for i := 0; i < Rate; i++ {
			d.state[i] ^= buf[i]
			buf[i] = d.state[i]
		}
		buf = buf[Rate:]
		d.permute()
	}

	for i := range buf {
		d.state[i] ^= buf[i]
		buf[i] = d.state[i]
	}
	return d.counter
}

// Decrypt reverses Encrypt: buf is replaced with the plaintext and the
// rate absorbs it, so both ends converge on the same state. Returns the
// updated counter.
func (d *Duplex) Decrypt(buf []byte) uint64 {
	offset := int(d.counter & 15)
	d.counter += uint64(len(buf))

	if len(buf)+offset < Rate {
		for i := range buf {
			buf[i] ^= d.state[offset+i]
			d.state[offset+i] ^= buf[i]
		}
		return d.counter
	}

	if offset > 0 {
		for i := 0; i < Rate-offset; i++ {
			buf[i] ^= d.state[offset+i]
			d.state[offset+i] ^= buf[i]
		}
		buf = buf[Rate-offset:]
		d.permute()
	}

	for len(buf) >= Rate {
		for i := 0; i < Rate; i++ {
			buf[i] ^= d.state[i]
			d.state[i] ^= buf[i]
		}
		buf = buf[Rate:]
		d.permute()
	}

	for i := range buf {
		buf[i] ^= d.state[i]
		d.state[i] ^= buf[i]
	}
	return d.counter
}

// Pad marks the end of a logical message with the 01..01 domain
// separator, permutes, and rounds the counter up to the block boundary.
// The number of permutation calls does not depend on the message length
// modulo the rate.
func (d *Duplex) Pad() uint64 {
	d.state[d.counter&15] ^= 1
	d.state[Size-1] ^= 1
	d.permute()
	d.counter = (d.counter | 15) + 1
	return d.counter
}

// Ratchet irreversibly forgets past inputs by zeroing the rate around a
// permutation call. It always advances the counter by a full block.
func (d *Duplex) Ratchet() uint64 {
	for i := d.counter & 15; i < Rate; i++ {
		d.state[i] = 0
	}
	d.permute()
	for i := uint64(0); i < d.counter&15; i++ {
		d.state[i] = 0
	}
	d.counter += Rate
	return d.counter
}

// Compare checks two buffers of the given length for equality in time
// dependent only on length, returning 0 when equal and -1 otherwise.
// A nil buffer compares as all-zero bytes.
func Compare(a, b []byte, length int) int {
	var result byte
	for i := 0; i < length; i++ {
		var x, y byte
		if a != nil {
			x = a[i]
		}
		if b != nil {
			y = b[i]
		}
		result |= x ^ y
	}
	if result != 0 {
		return -1
	}
	return 0
}

// Wipe clears buf in a way the compiler cannot elide.
func Wipe(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(&buf)
}

// Wipe zeroes the sponge state and counter before the object is
// discarded.
func (d *Duplex) Wipe() {
	Wipe(d.state[:])
	d.counter = 0
	runtime.KeepAlive(d)
}
