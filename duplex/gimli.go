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

// gimli applies the 24-round Gimli permutation to the state. The three
// rows live in s[0:4], s[4:8] and s[8:12]; the byte-wise rotate by 24
// within each rate lane and the small/big lane swaps follow the
// reference round schedule, counting rounds from 24 down to 1.
func gimli(state *[Size]byte) {
	var s [12]uint32
	for i := range s {
		s[i] = binary.LittleEndian.Uint32(state[4*i:])
	}

	for round := uint32(24); round > 0; round-- {
		for lane := 0; lane < 4; lane++ {
			x := bits.RotateLeft32(s[lane], 24)
			y := bits.RotateLeft32(s[lane+4], 9)
			z := s[lane+8]

			s[lane+8] = x ^ z<<1 ^ (y&z)<<2
			s[lane+4] = y ^ x ^ (x|z)<<1
			s[lane] = z ^ y ^ (x&y)<<3
		}

		switch round & 3 {
		case 0:
			s[0], s[1], s[2], s[3] = s[1], s[0], s[3], s[2]
			s[0] ^= 0x9e377900 | round
		case 2:
			s[0], s[1], s[2], s[3] = s[2], s[3], s[0], s[1]
		}
	}

	for i := range s {
		binary.LittleEndian.PutUint32(state[4*i:], s[i])
	}
}
