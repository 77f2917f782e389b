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

import "encoding/binary"

// Spin applies the permutation the given number of times without
// touching the counter.
func (d *Duplex) Spin(rounds uint64) {
	for ; rounds > 0; rounds-- {
		d.permute()
	}
}

// Swirl drives an Argon2-like memory-hard graph over the caller's
// buffer, which is treated as 1 KiB pages of 64 rate-sized cells. The
// first independent rounds draw their back-reference keys from the seed
// duplex, resisting garbage-collection attacks; the remaining dependent
// rounds draw them from the evolving state, foiling time-memory
// trade-offs. Requests beyond the 2^42-byte cap are clamped to 2^32
// pages. Both duplex counters are advanced to match the permutation
// work performed.
func Swirl(state, seed *Duplex, buffer []byte, independent, dependent int) {
	pages := uint64(len(buffer)) >> 10
	if uint64(len(buffer))>>42 != 0 {
		pages = 1 << 32
	}
	rounds := independent + dependent

	for round := 0; round < rounds; round++ {
		for page := uint64(0); page < pages; page++ {
			var key uint64
			if round < independent {
				key = uint64(binary.LittleEndian.Uint32(seed.state[4*(page&3):]))
			} else {
				key = uint64(binary.LittleEndian.Uint32(state.state[:]))
			}
			offset := 2 + (key*key>>32)*(page-1)>>32

			for slot := uint64(0); slot < 64; slot++ {
				cell := (page<<6 + slot) << 4
				if round > 0 {
					for i := 0; i < Rate; i++ {
						state.state[i] ^= buffer[cell+uint64(i)]
					}
				}
				if page > 0 {
					prev := cell - 1<<10
					for i := 0; i < Rate; i++ {
						state.state[i] ^= buffer[prev+uint64(i)]
					}
				}
				if page > 1 {
					back := cell - offset<<10
					for i := 0; i < Rate; i++ {
						state.state[i] ^= buffer[back+uint64(i)]
					}
				}
				state.permute()
				copy(buffer[cell:cell+Rate], state.state[:Rate])
			}

			if round < independent && page&3 == 3 {
				seed.permute()
			}
		}
		if round < independent && pages&3 != 0 {
			seed.permute()
		}
	}

	seed.counter += uint64(independent) * ((pages + 3) >> 2 << 4)
	state.counter += uint64(rounds) * pages << 10
}
