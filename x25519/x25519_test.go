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
	"bytes"
	"testing"

	"golang.org/x/crypto/curve25519"
)

// Based on test_x25519.c from Mike Hamburg's STROBE test suite

var seed uint32 = 0x12345678

func bitflip(key *[Size]byte) {
	seed += seed*seed | 5
	key[seed>>27] ^= 1 << (seed >> 24 & 7)
}

func generate(key *[Size]byte) {
	for i := range key {
		seed += seed*seed | 5
		key[i] = byte(seed >> 24)
	}
}

func TestKeyExchange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		var shared1, shared2, public1, public2, secret1, secret2 [Size]byte

		generate(&secret1)
		generate(&secret2)

		X25519(&public1, &secret1, &Base)
		X25519(&public2, &secret2, &Base)

		X25519(&shared1, &secret1, &public2)
		X25519(&shared2, &secret2, &public1)
		if shared1 != shared2 {
			t.Fatalf("valid key exchange failed")
		}

		bitflip(&secret2)
		X25519(&shared2, &secret2, &public1)
		if shared1 == shared2 {
			t.Fatalf("invalid key exchange succeeded")
		}
	}
}

func TestSignatures(t *testing.T) {
	for i := 0; i < 1000; i++ {
		var challenge, ephemeral, identity, response [Size]byte

		generate(&identity)
		generate(&ephemeral)
		generate(&challenge)
		Sign(&response, &challenge, &ephemeral, &identity)

		X25519(&ephemeral, &ephemeral, &Base)
		X25519(&identity, &identity, &Base)
		if Verify(&response, &challenge, &ephemeral, &identity) != 0 {
			t.Fatalf("valid signature failed to verify")
		}

		bitflip(&challenge)
		if Verify(&response, &challenge, &ephemeral, &identity) == 0 {
			t.Fatalf("invalid signature successfully verified")
		}
	}
}

func TestScalarInversion(t *testing.T) {
	for i := 0; i < 1000; i++ {
		var scalar1, scalar2, inverse, point1, point2, point3 [Size]byte

		generate(&scalar1)
		generate(&scalar2)
		X25519(&point1, &scalar1, &Base)
		X25519(&point2, &scalar2, &Base)
		X25519(&point2, &scalar1, &point2)

		Invert(&inverse, &scalar2)
		X25519(&point3, &inverse, &point2)
		if point1 != point3 {
			t.Fatalf("valid scalar inversion failed")
		}

		bitflip(&scalar2)
		Invert(&inverse, &scalar2)
		X25519(&point3, &inverse, &point2)
		if point1 == point3 {
			t.Fatalf("invalid scalar inversion succeeded")
		}
	}
}

func TestScalarMap(t *testing.T) {
	for i := 0; i < 1000; i++ {
		var scalar1, scalar2, point1, point2 [Size]byte

		generate(&scalar1)
		Scalar(&scalar2, &scalar1)
		if scalar2[0]&7 != 0 {
			t.Fatalf("scalar representative is not torsion-free")
		}

		X25519(&point1, &scalar1, &Base)
		X25519(&point2, &scalar2, &Base)
		if point1 != point2 {
			t.Fatalf("scalar representative is not equivalent")
		}
	}
}

// TestLadderOracle cross-checks the ladder against the x/crypto
// implementation for clamped scalars on the base point and on derived
// points.
func TestLadderOracle(t *testing.T) {
	for i := 0; i < 100; i++ {
		var scalar, public [Size]byte
		generate(&scalar)
		Clamp(&scalar)

		X25519(&public, &scalar, &Base)
		want, err := curve25519.X25519(scalar[:], curve25519.Basepoint)
		if err != nil {
			t.Fatalf("oracle rejected scalar: %v", err)
		}
		if !bytes.Equal(public[:], want) {
			t.Fatalf("ladder disagrees with oracle on base point")
		}

		var peer, shared [Size]byte
		generate(&peer)
		Clamp(&peer)
		var point [Size]byte
		X25519(&point, &peer, &Base)

		X25519(&shared, &scalar, &point)
		want, err = curve25519.X25519(scalar[:], point[:])
		if err != nil {
			t.Fatalf("oracle rejected point: %v", err)
		}
		if !bytes.Equal(shared[:], want) {
			t.Fatalf("ladder disagrees with oracle on derived point")
		}
	}
}

// TestLadderIdentity multiplies the base point by the scalar encoding
// of one, which must return the base point unchanged.
func TestLadderIdentity(t *testing.T) {
	one := [Size]byte{1}
	var out [Size]byte
	X25519(&out, &one, &Base)
	if out != Base {
		t.Fatalf("1 * base = %x, want %x", out, Base)
	}
}

// TestLowOrder feeds the ladder the zero point, whose result is the
// zero point for any scalar: the return value must flag it.
func TestLowOrder(t *testing.T) {
	var zero, out, scalar [Size]byte
	generate(&scalar)
	Clamp(&scalar)
	if X25519(&out, &scalar, &zero) == 0 {
		t.Fatalf("zero point not reported as low order")
	}
	if out != zero {
		t.Fatalf("zero point mapped to %x", out)
	}
}

func TestPointMap(t *testing.T) {
	for i := 0; i < 100; i++ {
		var representative, point1, point2 [Size]byte
		generate(&representative)

		Point(&point1, &representative)
		Point(&point2, &representative)
		if point1 != point2 {
			t.Fatalf("point map is not deterministic")
		}

		// The top two representative bits are outside the field view.
		masked := representative
		masked[Size-1] ^= 0xc0
		Point(&point2, &masked)
		if point1 != point2 {
			t.Fatalf("point map depends on discarded bits")
		}

		// The mapped x-coordinate must behave as a point under the
		// ladder: scalar multiplication from it must commute.
		var a, b, pa, pb, sa, sb [Size]byte
		generate(&a)
		generate(&b)
		Clamp(&a)
		Clamp(&b)
		X25519(&pa, &a, &point1)
		X25519(&pb, &b, &point1)
		X25519(&sa, &b, &pa)
		X25519(&sb, &a, &pb)
		if sa != sb {
			t.Fatalf("mapped point does not commute under the ladder")
		}
	}
}
