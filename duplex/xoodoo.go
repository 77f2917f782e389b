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

package duplex

import (
	"encoding/binary"
	"math/bits"
)

var xoodooRounds = [12]uint32{
	0x058, 0x038, 0x3c0, 0x0d0, 0x120, 0x014,
	0x060, 0x02c, 0x380, 0x0f0, 0x1a0, 0x012,
}

// xoodoo applies the 12-round Xoodoo permutation to the state. The
// westward plane shifts are lane rotations of the middle row and an
// 11-bit rotate of the bottom row; the eastward shift rotates the
// bottom row's lanes by two positions and each lane by 8 bits, which is
// the word form of the reference byte shuffle.
func xoodoo(state *[Size]byte) {
	var s [12]uint32
	for i := range s {
		s[i] = binary.LittleEndian.Uint32(state[4*i:])
	}

	for round := 0; round < 12; round++ {
		var p, e [4]uint32
		for lane := 0; lane < 4; lane++ {
			p[lane] = s[lane] ^ s[lane+4] ^ s[lane+8]
		}
		p[0], p[1], p[2], p[3] = p[3], p[0], p[1], p[2]
		for lane := 0; lane < 4; lane++ {
			e[lane] = bits.RotateLeft32(p[lane], 5) ^ bits.RotateLeft32(p[lane], 14)
		}
		for i := range s {
			s[i] ^= e[i&3]
		}

		s[0] ^= xoodooRounds[round]
		s[4], s[5], s[6], s[7] = s[7], s[4], s[5], s[6]
		for lane := 8; lane < 12; lane++ {
			s[lane] = bits.RotateLeft32(s[lane], 11)
		}

		for lane := 0; lane < 4; lane++ {
			s[lane] ^= ^s[lane+4] & s[lane+8]
			s[lane+4] ^= ^s[lane+8] & s[lane]
			s[lane+8] ^= ^s[lane] & s[lane+4]
		}

		for lane := 4; lane < 8; lane++ {
			s[lane] = bits.RotateLeft32(s[lane], 1)
		}
		s[8], s[9], s[10], s[11] = bits.RotateLeft32(s[10], 8),
			bits.RotateLeft32(s[11], 8), bits.RotateLeft32(s[8], 8),
			bits.RotateLeft32(s[9], 8)
	}

	for i := range s {
		binary.LittleEndian.PutUint32(state[4*i:], s[i])
	}
}
