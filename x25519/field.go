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

package x25519

import (
	"encoding/binary"
	"math/bits"
)

// An element is an integer modulo 2^255 - 19 (or, in scalar.go, modulo
// the group order) in four 64-bit little-endian limbs. Elements are not
// kept fully reduced between operations; a limb may carry a few bits of
// overflow; for field elements propagate folds it back via the 19
// identity, while scalars are reduced inside montmla.
// None of these routines branch or index on limb values.
type element [4]uint64

// umaal is a multiply-accumulate-accumulate step: it returns the low
// word of mand*mier + acc + carry and the new carry.
func umaal(carry, acc, mand, mier uint64) (uint64, uint64) {
	hi, lo := bits.Mul64(mand, mier)
	var c uint64
	lo, c = bits.Add64(lo, acc, 0)
	hi += c
	lo, c = bits.Add64(lo, carry, 0)
	hi += c
	return lo, hi
}

// propagate folds the overflow above bit 255 back into the bottom limb
// via 2^255 = 19 mod p.
func propagate(x *element, over uint64) {
	over = x[3]>>63 | over<<1
	x[3] &= 1<<63 - 1

	carry := over * 19
	for i := range x {
		x[i], carry = bits.Add64(x[i], carry, 0)
	}
}

func add(out, a, b *element) {
	var carry uint64
	for i := range out {
		out[i], carry = bits.Add64(a[i], b[i], carry)
	}
	propagate(out, carry)
}

// sub seeds the borrow chain with -38 = -2*19 so the running value
// stays non-negative for any operands in range, then repairs the
// constant offset in propagate.
func sub(out, a, b *element) {
	carry := int64(-38)
	for i := range out {
		lo, borrow := bits.Sub64(a[i], b[i], 0)
		neg := uint64(carry) >> 63
		lo, c := bits.Add64(lo, uint64(carry), 0)
		out[i] = lo
		carry = int64(c) - int64(borrow) - int64(neg)
	}
	propagate(out, uint64(1+carry))
}

func swapin(out *element, in *[32]byte) {
	for i := range out {
		out[i] = binary.LittleEndian.Uint64(in[8*i:])
	}
}

func swapout(out *[32]byte, in *element) {
	for i := range in {
		binary.LittleEndian.PutUint64(out[8*i:], in[i])
	}
}

// mul computes the 2n-limb schoolbook product of a and b, then folds
// the high half down by 38 = 2*19. b may be shorter than a full element
// for multiplication by small public constants, and out may alias
// either operand.
func mul(out, a *element, b []uint64) {
	var accum [8]uint64
	for i, mand := range b {
		var carry uint64
		for j := 0; j < 4; j++ {
			accum[i+j], carry = umaal(carry, accum[i+j], mand, a[j])
		}
		accum[i+4] = carry
	}

	var carry uint64
	for j := 0; j < 4; j++ {
		out[j], carry = umaal(carry, accum[j], 38, accum[j+4])
	}
	propagate(out, carry)
}

func sqr(out, a *element) {
	mul(out, a, a[:])
}

// mul1 multiplies out by a in place.
func mul1(out, a *element) {
	mul(out, a, out[:])
}

func sqr1(a *element) {
	mul1(a, a)
}

// condswap exchanges the (x2, z2) and (x3, z3) ladder pairs under an
// all-ones or all-zero mask without branching.
func condswap(xs *[5]element, mask uint64) {
	for i := 0; i < 4; i++ {
		x := (xs[0][i] ^ xs[2][i]) & mask
		xs[0][i] ^= x
		xs[2][i] ^= x
		z := (xs[1][i] ^ xs[3][i]) & mask
		xs[1][i] ^= z
		xs[3][i] ^= z
	}
}

// canon reduces x to its canonical residue and returns an all-ones
// mask when that residue is zero, else zero.
func canon(x *element) uint64 {
	carry := uint64(19)
	for i := range x {
		x[i], carry = bits.Add64(x[i], carry, 0)
	}
	propagate(x, carry)

	scarry := int64(-19)
	var result uint64
	for i := range x {
		neg := uint64(scarry) >> 63
		lo, c := bits.Add64(x[i], uint64(scarry), 0)
		x[i] = lo
		result |= lo
		scarry = int64(c) - int64(neg)
	}
	_, borrow := bits.Sub64(result, 1, 0)
	return -borrow
}

// eq returns an all-ones mask when a and b are the same residue.
func eq(a, b *element) uint64 {
	t := *a
	sub(&t, &t, b)
	return canon(&t)
}
