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

// Package shamir implements threshold secret sharing over GF(2^8),
// bit-sliced across 32 lanes: a 32-byte secret is transposed into
// eight 32-bit words so every field operation acts on all bytes at
// once with plain word logic, keeping split and combine constant time.
package shamir

import "encoding/binary"

const (
	// SecretSize is the byte length of a shared secret.
	SecretSize = 32
	// ShareSize is a share: a one-byte index followed by 32 bytes of y.
	ShareSize = 33
)

// A sliced value holds 32 parallel GF(2^8) elements: bit i of word j
// is bit j of byte i.
type sliced [8]uint32

// one is the multiplicative identity in every lane.
var one = sliced{^uint32(0)}

func add(r, x, y *sliced) {
	for i := range r {
		r[i] = x[i] ^ y[i]
	}
}

// mla computes r = x*y + z over the 32 lanes: an 8x8 carryless product
// network followed by reduction modulo x^8 + x^4 + x^3 + x + 1.
func mla(r, x, y, z *sliced) {
	var t [16]uint32

	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			t[i+j] ^= x[i] & y[j]
		}
	}

	for i := 6; i >= 0; i-- {
		t[i+4] ^= t[i+8]
		t[i+3] ^= t[i+8]
		t[i+1] ^= t[i+8]
		t[i] ^= t[i+8]
	}

	for i := range r {
		var acc uint32
		if z != nil {
			acc = z[i]
		}
		r[i] = acc ^ t[i]
	}
}

func mul(r, x, y *sliced) {
	mla(r, x, y, nil)
}

// sqr interleaves zeros between the coefficient words and reduces; the
// skipped indices correspond to the always-zero odd positions.
func sqr(r, x *sliced) {
	var t [16]uint32
	for i := 0; i < 8; i++ {
		t[2*i] = x[i]
	}

	for i := 6; i >= 0; i-- {
		if i == 5 || i == 3 {
			continue
		}
		t[i+4] ^= t[i+8]
		t[i+3] ^= t[i+8]
		t[i+1] ^= t[i+8]
		t[i] ^= t[i+8]
	}

	copy(r[:], t[:8])
}

// div computes r = x / y via y^254, a seven-square four-multiply
// inversion chain.
func div(r, x, y *sliced) {
	var t, u, v sliced

	sqr(&t, y)
	sqr(&t, &t)
	sqr(&u, &t)
	mul(&v, &u, y)
	sqr(&u, &u)
	mul(&u, &u, &v)
	sqr(&u, &u)
	sqr(&v, &u)
	sqr(&v, &v)
	mul(&u, &u, &t)
	mul(&u, &u, &v)
	mul(r, &u, x)
}

// dice transposes a sliced value back into 32 bytes.
func dice(r []byte, x *sliced) {
	for i := 0; i < 8; i++ {
		for j := 0; j < 32; j++ {
			var acc byte
			if i > 0 {
				acc = r[j]
			}
			r[j] = acc ^ byte(x[i]>>j&1)<<i
		}
	}
}

// fill broadcasts one byte into all 32 lanes.
func fill(r *sliced, x uint8) {
	for i := range r {
		r[i] = -uint32(x >> i & 1)
	}
}

// slice transposes 32 bytes into lane form.
func slice(r *sliced, x []byte) {
	for i := 0; i < 32; i++ {
		for j := 0; j < 8; j++ {
			var acc uint32
			if i > 0 {
				acc = r[j]
			}
			r[j] = acc ^ uint32(x[i]>>j&1)<<i
		}
	}
}

// Split evaluates the degree threshold-1 polynomial with constant term
// secret and the given coefficient entropy at the share's x-coordinate,
// writing index' || y into share. Indices are displaced by one so that
// 255 maps to 0 and x is never zero for indices 0 to 254. Entropy is
// consumed directly in lane form: uniform random coefficients are
// uniform in either representation.
func Split(share *[ShareSize]byte, index, threshold uint8, secret *[SecretSize]byte, entropy [][SecretSize]byte) {
	var x, y, z, coeff sliced

	if index != 255 {
		index++
	}
	fill(&x, index)
	slice(&y, secret[:])
	z = one

	for i := 0; i < int(threshold)-1; i++ {
		mul(&z, &z, &x)
		for j := range coeff {
			coeff[j] = binary.LittleEndian.Uint32(entropy[i][4*j:])
		}
		mla(&y, &z, &coeff, &y)
	}

	share[0] = index
	dice(share[1:], &y)
}

// Combine interpolates the shares' polynomial at x = 0 and writes the
// constant term to secret. With at least the split threshold of intact
// shares this is the shared secret; with fewer, or with any corrupted
// share, it is some other 32-byte value indistinguishable from random.
func Combine(secret *[SecretSize]byte, shares [][ShareSize]byte) {
	var x, y [255]sliced
	var z sliced

	count := len(shares)
	if count > len(x) {
		count = len(x)
	}
	for i := 0; i < count; i++ {
		fill(&x[i], shares[i][0])
		slice(&y[i], shares[i][1:])
	}

	for i := 0; i < count; i++ {
		s, t := one, one
		var u sliced
		for j := 0; j < count; j++ {
			if i != j {
				mul(&s, &s, &x[j])
				add(&u, &x[i], &x[j])
				mul(&t, &t, &u)
			}
		}
		div(&s, &s, &t)
		mla(&z, &s, &y[i], &z)
	}

	dice(secret[:], &z)
}
