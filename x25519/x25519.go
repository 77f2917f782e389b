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

// Package x25519 implements Diffie-Hellman key agreement and a Schnorr
// signature primitive over Curve25519, following Mike Hamburg's STROBE
// formulation: a uniform Montgomery ladder, projective signature
// verification without point decompression, and mask-valued results on
// the secret-dependent paths.
package x25519

// Size is the byte length of scalars, field elements and points.
const Size = 32

// Base is the generator, x = 9.
var Base = [Size]byte{9}

// Clamp applies the RFC 7748 scalar clamping in place: clear the low
// cofactor bits, clear the top bit, set bit 254.
func Clamp(scalar *[Size]byte) {
	scalar[0] &= 0xf8
	scalar[Size-1] &= 0x7f
	scalar[Size-1] |= 0x40
}

func ladder1(xs *[5]element) {
	a24 := []uint64{121665}
	x2, z2, x3, z3, t1 := &xs[0], &xs[1], &xs[2], &xs[3], &xs[4]

	add(t1, x2, z2)
	sub(z2, x2, z2)
	add(x2, x3, z3)
	sub(z3, x3, z3)
	mul1(z3, t1)
	mul1(x2, z2)
	add(x3, z3, x2)
	sub(z3, z3, x2)
	sqr1(t1)
	sqr1(z2)
	sub(x2, t1, z2)
	mul(z2, x2, a24)
	add(z2, z2, t1)
}

func ladder2(xs *[5]element, x1 *element) {
	x2, z2, x3, z3, t1 := &xs[0], &xs[1], &xs[2], &xs[3], &xs[4]

	sqr1(z3)
	mul1(z3, x1)
	sqr1(x3)
	mul1(z2, x2)
	sub(x2, t1, x2)
	mul1(x2, t1)
}

// core runs the 256-bit Montgomery ladder, leaving (x2, z2) and
// (x3, z3) in xs. The conditional swaps are driven by mask arithmetic
// on the scalar bits, never by branches.
func core(xs *[5]element, scalar, point *[Size]byte) {
	var x1 element
	swapin(&x1, point)

	var swap uint64
	*xs = [5]element{}
	xs[0][0] = 1
	xs[3][0] = 1
	xs[2] = x1

	for i := 255; i >= 0; i-- {
		doswap := -uint64(scalar[i>>3] >> (uint(i) & 7) & 1)
		condswap(xs, swap^doswap)
		swap = doswap

		ladder1(xs)
		ladder2(xs, &x1)
	}
	condswap(xs, swap)
}

// X25519 multiplies point by scalar and writes the canonical encoding
// of the result to out. The caller clamps the scalar for key exchange.
// The return value is nonzero when the result is the zero point, which
// key agreement must treat as an invalid (low-order) public identity.
func X25519(out, scalar, point *[Size]byte) int {
	// Fermat inversion chain for z2^(p-2): steps[i] squares xs[a] from
	// the running power n times then multiplies in xs[c].
	steps := [13]struct{ a, c, n uint8 }{
		{2, 1, 1},
		{2, 1, 1},
		{4, 2, 3},
		{2, 4, 6},
		{3, 1, 1},
		{3, 2, 12},
		{4, 3, 25},
		{2, 3, 25},
		{2, 4, 50},
		{3, 2, 125},
		{3, 1, 2},
		{3, 1, 2},
		{3, 1, 1},
	}

	var xs [5]element
	core(&xs, scalar, point)
	x2, z3 := &xs[0], &xs[3]

	p := &xs[1]
	for i := range steps {
		a := &xs[steps[i].a]
		for j := steps[i].n; j > 0; j-- {
			sqr(a, p)
			p = a
		}
		mul1(a, &xs[steps[i].c])
	}
	mul1(x2, z3)

	result := canon(x2)
	swapout(out, x2)
	return int(result & 1)
}

// verifyCore applies one combined ladder step to check that the two
// ladder outputs and the ephemeral point satisfy the Schnorr relation
// projectively.
func verifyCore(xs *[5]element, other1 *[2]element, other2 *[Size]byte) uint64 {
	z2, x3, z3 := &xs[1], &xs[2], &xs[3]
	var xo2 element
	swapin(&xo2, other2)

	xs[2] = other1[0]
	xs[3] = other1[1]
	ladder1(xs)

	mul1(z2, &other1[0])
	mul1(z2, &other1[1])
	mul1(z2, &xo2)

	sixteen := []uint64{16}
	mul(z2, z2, sixteen)

	mul1(z3, &xo2)
	sub(z3, z3, x3)
	sqr1(z3)

	sub(z3, z3, z2)
	return canon(z2) | ^canon(z3)
}

// Verify checks a signature produced by Sign against the challenge and
// the public ephemeral and identity points. It returns 0 when the
// relation holds and nonzero otherwise. The ladders are uniform; only
// the final comparison on public values is variable time.
func Verify(response, challenge, ephemeral, identity *[Size]byte) int {
	var xs1, xs2 [5]element
	core(&xs1, challenge, identity)
	core(&xs2, response, &Base)

	other1 := [2]element{xs1[0], xs1[1]}
	return int(verifyCore(&xs2, &other1, ephemeral) & 1)
}
