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
	"testing"
)

var millionGimli = [12]uint32{
	0xcd014b11, 0x3600b721, 0xe5a6b267, 0x7e31ef72,
	0x6acf6a77, 0xc39228cb, 0x030bd9fc, 0xf7e0e5f3,
	0x44b677bb, 0x2fb0f7e1, 0x62caa406, 0x45a04dda,
}

var millionXoodoo = [12]uint32{
	0x132741d3, 0x195c5141, 0xc98fd290, 0x692ece17,
	0x520bf69c, 0x59532f0c, 0xfcc454f5, 0xe30cd8d4,
	0x644a4f3b, 0xf1f7fd4a, 0xea2607d5, 0x832f8421,
}

func encodeWords(words *[12]uint32) [Size]byte {
	var state [Size]byte
	for i, word := range words {
		binary.LittleEndian.PutUint32(state[4*i:], word)
	}
	return state
}

func TestIteratedPermutations(t *testing.T) {
	t.Run("gimli", func(t *testing.T) {
		d := New(Gimli)
		d.Spin(1000000)
		if d.state != encodeWords(&millionGimli) {
			t.Fatalf("iterated Gimli failure: %x", d.state)
		}
	})

	t.Run("xoodoo", func(t *testing.T) {
		d := New(Xoodoo)
		d.Spin(1000000)
		if d.state != encodeWords(&millionXoodoo) {
			t.Fatalf("iterated Xoodoo failure: %x", d.state)
		}
	})
}
