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

import "math/bits"

// Scalars modulo the group order
//
//	l = 2^252 + 27742317777372353535851937790883648493
//
// share the element limb layout and are multiplied in Montgomery form
// with R = 2^256.

// order is l in limbs.
var order = element{
	0x5812631a5cf5d3ed, 0x14def9dea2f79cd6,
	0x0000000000000000, 0x1000000000000000,
}

// r2 is R^2 mod l, used to enter and leave the Montgomery domain.
var r2 = element{
	0xa40611e3449c0f01, 0xd00e1ba768859347,
	0xceec73d217f5be65, 0x0399411b7c309a3d,
}

// orderMinus2 is l - 2 in bytes, the Fermat exponent for inversion.
var orderMinus2 = [Size]byte{
	0xeb, 0xd3, 0xf5, 0x5c, 0x1a, 0x63, 0x12, 0x58,
	0xd6, 0x9c, 0xf7, 0xa2, 0xde, 0xf9, 0xde, 0x14,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10,
}

// eighth is the inverse of 8 mod l, i.e. (3l + 1)/8.
var eighth = element{
	0x6106e529e2dc2f79, 0x07d39db37d1cdad0,
	0x0000000000000000, 0x0600000000000000,
}

// montmla computes out = (out + a*b) / R mod l with an interleaved
// Montgomery reduction; 0xd2b51da312547e1b is the 64-bit inverse of -l.
// out must not alias a or b.
func montmla(out, a, b *element) {
	const montgomery = 0xd2b51da312547e1b

	var highcarry uint64
	for i := 0; i < 4; i++ {
		var carry1, carry2 uint64
		mand1 := a[i]
		mand2 := uint64(montgomery)
		for j := 0; j < 4; j++ {
			acc := out[j]
			acc, carry1 = umaal(carry1, acc, mand1, b[j])
			if j == 0 {
				mand2 *= acc
			}
			acc, carry2 = umaal(carry2, acc, mand2, order[j])
			if j > 0 {
				out[j-1] = acc
			}
		}
		lo, c1 := bits.Add64(carry1, carry2, 0)
		lo, c2 := bits.Add64(lo, highcarry, 0)
		out[3] = lo
		highcarry = c1 + c2
	}

	scarry := int64(0)
	for i := range out {
		lo, borrow := bits.Sub64(out[i], order[i], 0)
		neg := uint64(scarry) >> 63
		lo, c := bits.Add64(lo, uint64(scarry), 0)
		out[i] = lo
		scarry = int64(c) - int64(borrow) - int64(neg)
	}

	carry2 := -(uint64(scarry) + highcarry)
	var carry1 uint64
	for i := range out {
		out[i], carry1 = umaal(carry1, out[i], carry2, order[i])
	}
}

// montmul is montmla with a cleared accumulator.
func montmul(out, a, b *element) {
	*out = element{}
	montmla(out, a, b)
}

// Sign computes response = challenge*identity + ephemeral mod l. The
// sum accumulates through a single Montgomery multiply-add seeded with
// the ephemeral scalar, then a multiply by R^2 leaves the Montgomery
// domain.
func Sign(response, challenge, ephemeral, identity *[Size]byte) {
	var scalar1, scalar2, scalar3 element
	swapin(&scalar1, ephemeral)
	swapin(&scalar2, identity)
	swapin(&scalar3, challenge)

	montmla(&scalar1, &scalar2, &scalar3)
	montmul(&scalar2, &scalar1, &r2)
	swapout(response, &scalar2)
}

// Invert writes the inverse of scalar mod l: a fixed-window Fermat
// exponentiation by l - 2 over a table of the first sixteen odd powers.
// The exponent is public, so the window scan may branch on it.
func Invert(out, scalar *[Size]byte) {
	bit := func(i int) int {
		return int(orderMinus2[i>>3] >> (uint(i) & 7) & 1)
	}

	var x, m element
	swapin(&x, scalar)
	montmul(&m, &x, &r2)

	var table [16]element
	table[0] = m
	var sq element
	montmul(&sq, &m, &m)
	for i := 1; i < 16; i++ {
		montmul(&table[i], &table[i-1], &sq)
	}

	var acc, t element
	first := true
	for i := 252; i >= 0; {
		if bit(i) == 0 {
			montmul(&t, &acc, &acc)
			acc = t
			i--
			continue
		}

		low := i - 4
		if low < 0 {
			low = 0
		}
		for bit(low) == 0 {
			low++
		}
		window := 0
		for j := i; j >= low; j-- {
			window = window<<1 | bit(j)
		}

		if first {
			acc = table[window>>1]
			first = false
		} else {
			for j := low; j <= i; j++ {
				montmul(&t, &acc, &acc)
				acc = t
			}
			montmul(&t, &acc, &table[window>>1])
			acc = t
		}
		i = low - 1
	}

	one := element{1}
	montmul(&t, &acc, &one)
	swapout(out, &t)
}

// Scalar maps an arbitrary 32-byte string to an equivalent torsion-safe
// scalar: multiply by the inverse of 8 mod l, then shift the canonical
// encoding left by 3 bits. The result selects the same multiple of the
// base point and its bottom three bits are always clear, so it cannot
// leak through the cofactor.
func Scalar(out, scalar *[Size]byte) {
	var s, t, u element
	swapin(&s, scalar)
	montmul(&t, &s, &eighth)
	montmul(&u, &t, &r2)

	var buf [Size]byte
	swapout(&buf, &u)
	var carry byte
	for i := range buf {
		buf[i], carry = buf[i]<<3|carry, buf[i]>>5
	}
	*out = buf
}
