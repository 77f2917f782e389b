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

package std

import "github.com/arachsys/pocketcrypt/duplex"

// Stretch builds the cloak/reveal cipher state from a password. The
// salt seeds both the main duplex and the data-independent swirl seed;
// only the main duplex then absorbs the password before the swirl
// fills and remixes size MiB of scratch. The first swirl round is
// data-independent, the remainder data-dependent, matching the
// classical rounds parameter of the tools. The scratch buffer is wiped
// before return.
func Stretch(perm duplex.Permutation, password, salt []byte, size, rounds int) *duplex.Duplex {
	state := duplex.New(perm)
	state.Absorb(salt)

	seed := state.Clone()
	defer seed.Wipe()

	state.Absorb(password)
	state.Pad()

	buffer := make([]byte, size<<20)
	duplex.Swirl(state, seed, buffer, 1, rounds-1)
	duplex.Wipe(buffer)

	return state
}
