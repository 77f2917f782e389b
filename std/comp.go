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

import (
	"io"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// Compress returns a reader yielding the snappy-framed compression of
// src, for squeezing redundancy out of plaintext before it reaches the
// cipher. Errors from src surface through the returned reader.
func Compress(src io.Reader) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		w := snappy.NewBufferedWriter(pw)
		if _, err := Copy(w, src); err != nil {
			pw.CloseWithError(errors.WithStack(err))
			return
		}
		if err := w.Close(); err != nil {
			pw.CloseWithError(errors.WithStack(err))
			return
		}
		pw.Close()
	}()
	return pr
}

// Decompress returns a writer that snappy-expands everything written
// to it into dst. The caller must Close the writer and then receive
// from the error channel, which reports when the final frame has been
// flushed through to dst.
func Decompress(dst io.Writer) (io.WriteCloser, <-chan error) {
	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		_, err := Copy(dst, snappy.NewReader(pr))
		if err != nil {
			err = errors.WithStack(err)
		}
		pr.CloseWithError(err)
		done <- err
	}()
	return pw, done
}
