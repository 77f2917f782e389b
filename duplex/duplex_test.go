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
	"bytes"
	"testing"
)

// fillSeed drives the quadratic-congruential generator shared by the
// sanity tests, so chunked and bulk runs see identical pseudo-random
// state and data.
var fillSeed uint32 = 0x12345678

func fillPair(out1, out2 []byte) {
	for i := range out1 {
		fillSeed += fillSeed*fillSeed | 5
		out1[i] = byte(fillSeed >> 24)
		out2[i] = byte(fillSeed >> 24)
	}
}

func chunkAbsorb(d *Duplex, buf []byte, chunk int) {
	for chunk <= len(buf) {
		d.Absorb(buf[:chunk])
		buf = buf[chunk:]
	}
	d.Absorb(buf)
	d.Pad()
}

func chunkEncrypt(d *Duplex, buf []byte, chunk int) {
	for chunk <= len(buf) {
		d.Encrypt(buf[:chunk])
		buf = buf[chunk:]
	}
	d.Encrypt(buf)
	d.Pad()
}

func chunkDecrypt(d *Duplex, buf []byte, chunk int) {
	for chunk <= len(buf) {
		d.Decrypt(buf[:chunk])
		buf = buf[chunk:]
	}
	d.Decrypt(buf)
	d.Pad()
}

func chunkSqueeze(d *Duplex, buf []byte, chunk int) {
	for chunk <= len(buf) {
		d.Squeeze(buf[:chunk])
		buf = buf[chunk:]
	}
	d.Squeeze(buf)
}

// TestStreaming checks that any byte-aligned split of an operation
// produces the same state, counter and output as a single bulk call,
// over the full matrix of tail lengths against the 16-byte rate.
func TestStreaming(t *testing.T) {
	const min, max, size = 16, 48, 4096

	for name, perm := range map[string]Permutation{"gimli": Gimli, "xoodoo": Xoodoo} {
		t.Run(name+"/absorb", func(t *testing.T) {
			for length := size - 15; length <= size; length++ {
				for chunk := min; chunk <= max; chunk++ {
					buffer1 := make([]byte, length)
					buffer2 := make([]byte, length)
					d1, d2 := New(perm), New(perm)
					fillPair(buffer1, buffer2)
					fillPair(d1.state[:], d2.state[:])

					d1.Absorb(buffer1)
					d1.Pad()
					chunkAbsorb(d2, buffer2, chunk)
					if d1.state != d2.state || d1.counter != d2.counter {
						t.Fatalf("streaming absorb failure at length %d chunk %d", length, chunk)
					}
				}
			}
		})

		t.Run(name+"/encrypt", func(t *testing.T) {
			for length := size - 15; length <= size; length++ {
				for chunk := min; chunk <= max; chunk++ {
					buffer1 := make([]byte, length)
					buffer2 := make([]byte, length)
					d1, d2 := New(perm), New(perm)
					fillPair(buffer1, buffer2)
					fillPair(d1.state[:], d2.state[:])

					d1.Encrypt(buffer1)
					d1.Pad()
					chunkEncrypt(d2, buffer2, chunk)
					if !bytes.Equal(buffer1, buffer2) {
						t.Fatalf("streaming encrypt output differs at length %d chunk %d", length, chunk)
					}
					if d1.state != d2.state || d1.counter != d2.counter {
						t.Fatalf("streaming encrypt state differs at length %d chunk %d", length, chunk)
					}
				}
			}
		})

		t.Run(name+"/decrypt", func(t *testing.T) {
			for length := size - 15; length <= size; length++ {
				for chunk := min; chunk <= max; chunk++ {
					buffer1 := make([]byte, length)
					buffer2 := make([]byte, length)
					d1, d2 := New(perm), New(perm)
					fillPair(buffer1, buffer2)
					fillPair(d1.state[:], d2.state[:])

					d1.Decrypt(buffer1)
					d1.Pad()
					chunkDecrypt(d2, buffer2, chunk)
					if !bytes.Equal(buffer1, buffer2) {
						t.Fatalf("streaming decrypt output differs at length %d chunk %d", length, chunk)
					}
					if d1.state != d2.state || d1.counter != d2.counter {
						t.Fatalf("streaming decrypt state differs at length %d chunk %d", length, chunk)
					}
				}
			}
		})

		t.Run(name+"/squeeze", func(t *testing.T) {
			for chunk := min; chunk <= max; chunk++ {
				buffer1 := make([]byte, size)
				buffer2 := make([]byte, size)
				d1, d2 := New(perm), New(perm)
				fillPair(d1.state[:], d2.state[:])

				d1.Squeeze(buffer1)
				chunkSqueeze(d2, buffer2, chunk)
				if !bytes.Equal(buffer1, buffer2) {
					t.Fatalf("streaming squeeze output differs at chunk %d", chunk)
				}
				if d1.state != d2.state || d1.counter != d2.counter {
					t.Fatalf("streaming squeeze state differs at chunk %d", chunk)
				}
			}
		})
	}
}

// TestAbsorbSplit squeezes the same digest from "abc" absorbed whole
// and absorbed a byte at a time.
func TestAbsorbSplit(t *testing.T) {
	whole := New(Xoodoo)
	whole.Absorb([]byte("abc"))
	digest1 := make([]byte, Rate)
	whole.Squeeze(digest1)

	split := New(Xoodoo)
	for _, piece := range []string{"a", "b", "c"} {
		split.Absorb([]byte(piece))
	}
	digest2 := make([]byte, Rate)
	split.Squeeze(digest2)

	if !bytes.Equal(digest1, digest2) {
		t.Fatalf("split absorb digest mismatch: %x != %x", digest1, digest2)
	}
}

// TestRoundTrip encrypts and tags a message on one duplex and decrypts
// it on an identically initialised peer: the plaintext must survive
// and the peer's decryption of the tag must cancel to zero. Any single
// bit flip in ciphertext or tag must break the cancellation.
func TestRoundTrip(t *testing.T) {
	for _, perm := range []Permutation{Gimli, Xoodoo} {
		message := []byte("the quick brown fox jumps over the lazy dog")

		for flip := -1; flip < 8*(len(message)+Rate); flip++ {
			ciphertext := append([]byte(nil), message...)
			sender := New(perm)
			sender.Absorb([]byte("shared key"))
			sender.Encrypt(ciphertext)
			sender.Pad()
			tag := make([]byte, Rate)
			sender.Squeeze(tag)

			if flip >= 0 {
				if flip < 8*len(message) {
					ciphertext[flip>>3] ^= 1 << (flip & 7)
				} else {
					bit := flip - 8*len(message)
					tag[bit>>3] ^= 1 << (bit & 7)
				}
			}

			receiver := New(perm)
			receiver.Absorb([]byte("shared key"))
			receiver.Decrypt(ciphertext)
			receiver.Pad()
			receiver.Decrypt(tag)

			if flip < 0 {
				if !bytes.Equal(ciphertext, message) {
					t.Fatalf("round trip corrupted plaintext")
				}
				if Compare(tag, nil, Rate) != 0 {
					t.Fatalf("round trip tag did not cancel")
				}
			} else if Compare(tag, nil, Rate) == 0 {
				t.Fatalf("forged bit %d authenticated", flip)
			}
		}
	}
}

func TestCompare(t *testing.T) {
	if Compare([]byte{1, 2, 3}, []byte{1, 2, 3}, 3) != 0 {
		t.Fatalf("equal buffers compared unequal")
	}
	if Compare([]byte{1, 2, 3}, []byte{1, 2, 4}, 3) != -1 {
		t.Fatalf("unequal buffers compared equal")
	}
	if Compare(nil, []byte{0, 0, 0}, 3) != 0 {
		t.Fatalf("nil did not compare as zeros")
	}
	if Compare(nil, []byte{0, 1, 0}, 3) != -1 {
		t.Fatalf("nil compared equal to nonzero buffer")
	}
	if Compare(make([]byte, 16), nil, 16) != 0 {
		t.Fatalf("zero buffer did not match nil")
	}
}

// TestRatchet checks the counter always advances a whole block, from a
// mid-block and an aligned offset, and that a ratchet changes the
// squeezed stream.
func TestRatchet(t *testing.T) {
	d := New(Gimli)
	d.Absorb([]byte("abcde"))
	if counter := d.Ratchet(); counter != 21 {
		t.Fatalf("mid-block ratchet counter %d, want 21", counter)
	}

	aligned := New(Gimli)
	aligned.Absorb(make([]byte, 16))
	if counter := aligned.Ratchet(); counter != 32 {
		t.Fatalf("aligned ratchet counter %d, want 32", counter)
	}

	// A ratchet must change the squeezed stream.
	d1, d2 := New(Xoodoo), New(Xoodoo)
	d1.Absorb([]byte("secret"))
	d2.Absorb([]byte("secret"))
	d1.Pad()
	d2.Pad()
	d1.Ratchet()
	out1 := make([]byte, Rate)
	out2 := make([]byte, Rate)
	d1.Squeeze(out1)
	d2.Squeeze(out2)
	if bytes.Equal(out1, out2) {
		t.Fatalf("ratchet left squeeze output unchanged")
	}
}

func TestClone(t *testing.T) {
	d := New(Xoodoo)
	d.Absorb([]byte("fork point"))

	fork := d.Clone()
	fork.Absorb([]byte("divergence"))

	if d.counter != 10 {
		t.Fatalf("clone disturbed parent counter: %d", d.counter)
	}
	if fork.state == d.state {
		t.Fatalf("fork state did not diverge")
	}
}
