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

// The Elligator2-style map sends a uniform 254-bit field element r to
// the x-coordinate of a curve point: x = -A/(1 + 2r^2) when that slot
// has a point on the curve, and its quadratic twin -2Ar^2/(1 + 2r^2)
// otherwise. One inverse square root decides between the two preimages
// and normalises the shared denominator; the choice is applied by mask
// selection.

var (
	feZero element
	feOne  = element{1}
)

var feMinusOne = element{
	0xffffffffffffffec, 0xffffffffffffffff,
	0xffffffffffffffff, 0x7fffffffffffffff,
}

// sqrtMinus1 is 2^((p-1)/4), the canonical square root of -1.
var sqrtMinus1 = element{
	0xc4ee1b274a0ea0b0, 0x2f431806ad2fe478,
	0x2b4d00993dfbd7a7, 0x2b8324804fc1df0b,
}

var minusSqrtMinus1 = element{
	0x3b11e4d8b5f15f3d, 0xd0bce7f952d01b87,
	0xd4b2ff66c2042858, 0x547cdb7fb03e20f4,
}

// curveA is the Montgomery curve coefficient and curveA2 its square.
var (
	curveA  = []uint64{486662}
	curveA2 = []uint64{0x3724c21c24}
)

// invsqrt writes 1/sqrt(x) to out and returns an all-ones mask when x
// is a square (or zero). When x is not a square the result is
// normalised so that out^2 * x is the canonical sqrt(-1); the quartic
// residue x^((p-1)/4) distinguishes the four cases without a second
// exponentiation. out may alias x.
func invsqrt(out, x *element) uint64 {
	var t, q element
	powp58(&t, x)
	sqr(&q, &t)
	mul1(&q, x)

	plusOne := eq(&q, &feOne)
	minusOne := eq(&q, &feMinusOne)
	minusSqrt := eq(&q, &minusSqrtMinus1)
	zero := canon(&q)

	var ts element
	mul(&ts, &t, sqrtMinus1[:])
	rotate := minusOne | minusSqrt
	for i := range t {
		t[i] ^= (t[i] ^ ts[i]) & rotate
	}

	*out = t
	return plusOne | minusOne | zero
}

// powp58 computes z^((p-5)/8) = z^(2^252 - 3) with the classical
// 2^k - 1 addition chain.
func powp58(out, z *element) {
	var t0, t1, t2 element

	sqr(&t0, z)
	sqr(&t1, &t0)
	sqr(&t1, &t1)
	mul(&t1, &t1, z[:])
	mul(&t0, &t0, t1[:])
	sqr(&t0, &t0)
	mul(&t0, &t0, t1[:])

	sqr(&t1, &t0)
	for i := 1; i < 5; i++ {
		sqr(&t1, &t1)
	}
	mul(&t0, &t1, t0[:])

	sqr(&t1, &t0)
	for i := 1; i < 10; i++ {
		sqr(&t1, &t1)
	}
	mul(&t1, &t1, t0[:])

	sqr(&t2, &t1)
	for i := 1; i < 20; i++ {
		sqr(&t2, &t2)
	}
	mul(&t1, &t2, t1[:])

	for i := 0; i < 10; i++ {
		sqr(&t1, &t1)
	}
	mul(&t0, &t1, t0[:])

	sqr(&t1, &t0)
	for i := 1; i < 50; i++ {
		sqr(&t1, &t1)
	}
	mul(&t1, &t1, t0[:])

	sqr(&t2, &t1)
	for i := 1; i < 100; i++ {
		sqr(&t2, &t2)
	}
	mul(&t1, &t2, t1[:])

	for i := 0; i < 50; i++ {
		sqr(&t1, &t1)
	}
	mul(&t0, &t1, t0[:])

	sqr(&t0, &t0)
	sqr(&t0, &t0)
	mul(out, &t0, z[:])
}

// Point maps an arbitrary 32-byte string to the x-coordinate of a
// curve point. The top two bits of the representative are discarded so
// any uniform string maps to a near-uniform point.
func Point(out, representative *[Size]byte) {
	rep := *representative
	rep[Size-1] &= 0x3f

	var r, u, t1, t2, t3 element
	swapin(&r, &rep)
	sqr(&t1, &r)
	add(&t1, &t1, &t1)
	add(&u, &t1, &feOne)
	sqr(&t2, &u)
	mul(&t3, &t1, curveA2)
	sub(&t3, &t3, &t2)
	mul(&t3, &t3, curveA)
	mul(&t1, &t2, u[:])
	mul(&t1, &t1, t3[:])
	mask := invsqrt(&t1, &t1)

	var m element
	sqr(&m, &r)
	add(&m, &m, &m)
	mul(&m, &m, sqrtMinus1[:])
	sub(&m, &feZero, &m)
	for i := range m {
		m[i] ^= (m[i] ^ feOne[i]) & mask
	}

	sqr(&t1, &t1)
	mul(&m, &m, curveA)
	mul(&m, &m, t3[:])
	mul(&m, &m, t2[:])
	mul(&m, &m, t1[:])
	sub(&m, &feZero, &m)

	canon(&m)
	swapout(out, &m)
}
