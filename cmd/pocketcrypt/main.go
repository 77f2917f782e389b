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

package main

import (
	"crypto/rand"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"golang.org/x/term"

	"github.com/arachsys/pocketcrypt/duplex"
	"github.com/arachsys/pocketcrypt/shamir"
	"github.com/arachsys/pocketcrypt/std"
	"github.com/arachsys/pocketcrypt/x25519"
)

// VERSION is injected by buildflags
var VERSION = "SELFBUILD"

// permutations maps the spelling of the --permutation flag to the
// duplex transform it selects.
var permutations = map[string]duplex.Permutation{
	"gimli":  duplex.Gimli,
	"xoodoo": duplex.Xoodoo,
}

// permutation translates the flag into a concrete permutation, logging
// and falling back to gimli for unknown names.
func permutation(c *cli.Context) duplex.Permutation {
	name := c.GlobalString("permutation")
	if perm, ok := permutations[name]; ok {
		return perm
	}
	log.Printf("unknown permutation %q, falling back to gimli", name)
	return duplex.Gimli
}

func randomise(buf []byte) error {
	if _, err := rand.Read(buf); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// load fills data from the named file, or from stdin when file is
// empty, failing if the source is too short.
func load(file string, data []byte) error {
	source := io.Reader(os.Stdin)
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return errors.WithStack(err)
		}
		defer f.Close()
		source = f
	}
	if _, err := io.ReadFull(source, data); err != nil {
		if file == "" {
			file = "input"
		}
		return errors.Errorf("%s is truncated", file)
	}
	return nil
}

func save(file string, data []byte) error {
	return errors.WithStack(os.WriteFile(file, data, 0600))
}

// password prompts on the controlling terminal, leaving stdin free to
// carry the data stream.
func password() ([]byte, error) {
	tty, err := os.Open("/dev/tty")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read password")
	}
	defer tty.Close()

	fmt.Fprint(os.Stderr, "Password: ")
	pass, err := term.ReadPassword(int(tty.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read password")
	}
	return pass, nil
}

func sealStream(state *duplex.Duplex, compress bool) error {
	input := io.Reader(os.Stdin)
	if compress {
		compressed := std.Compress(os.Stdin)
		defer compressed.Close()
		input = compressed
	}
	return std.Seal(state, os.Stdout, input)
}

func openStream(state *duplex.Duplex, compress bool) error {
	if !compress {
		return std.Open(state, os.Stdout, os.Stdin)
	}
	expander, done := std.Decompress(os.Stdout)
	err := std.Open(state, expander, os.Stdin)
	expander.Close()
	if flush := <-done; err == nil {
		err = flush
	}
	return err
}

var compressFlag = cli.BoolFlag{
	Name:  "compress, z",
	Usage: "snappy-compress plaintext before encryption",
}

func encrypt(c *cli.Context) error {
	var point, scalar, shared [x25519.Size]byte
	defer duplex.Wipe(scalar[:])
	defer duplex.Wipe(shared[:])

	state := duplex.New(permutation(c))
	switch c.NArg() {
	case 1:
		// Anonymous mode: a fresh ephemeral keypair stands in for the
		// sender and its public half doubles as the nonce.
		if err := randomise(scalar[:]); err != nil {
			return err
		}
		x25519.Clamp(&scalar)
		x25519.X25519(&point, &scalar, &x25519.Base)
		if _, err := os.Stdout.Write(point[:]); err != nil {
			return errors.WithStack(err)
		}
		if err := load(c.Args().Get(0), point[:]); err != nil {
			return err
		}
	case 2:
		if err := load(c.Args().Get(0), scalar[:]); err != nil {
			return err
		}
		if err := load(c.Args().Get(1), point[:]); err != nil {
			return err
		}
	default:
		return cli.NewExitError("Usage: pocketcrypt encrypt [SK] PK", 64)
	}

	if x25519.X25519(&shared, &scalar, &point) != 0 {
		return cli.NewExitError("Invalid public identity", 1)
	}
	state.Absorb(shared[:])

	if c.NArg() == 2 {
		var nonce [duplex.Rate]byte
		if err := randomise(nonce[:]); err != nil {
			return err
		}
		if _, err := os.Stdout.Write(nonce[:]); err != nil {
			return errors.WithStack(err)
		}
		state.Absorb(nonce[:])
	}

	return sealStream(state, c.Bool("compress"))
}

func decrypt(c *cli.Context) error {
	var point, scalar, shared [x25519.Size]byte
	defer duplex.Wipe(scalar[:])
	defer duplex.Wipe(shared[:])

	state := duplex.New(permutation(c))
	switch c.NArg() {
	case 1:
		if err := load(c.Args().Get(0), scalar[:]); err != nil {
			return err
		}
		if err := load("", point[:]); err != nil {
			return err
		}
	case 2:
		if err := load(c.Args().Get(0), scalar[:]); err != nil {
			return err
		}
		if err := load(c.Args().Get(1), point[:]); err != nil {
			return err
		}
	default:
		return cli.NewExitError("Usage: pocketcrypt decrypt SK [PK]", 64)
	}

	if x25519.X25519(&shared, &scalar, &point) != 0 {
		return cli.NewExitError("Invalid public identity", 1)
	}
	state.Absorb(shared[:])

	if c.NArg() == 2 {
		var nonce [duplex.Rate]byte
		if err := load("", nonce[:]); err != nil {
			return err
		}
		state.Absorb(nonce[:])
	}

	return openStream(state, c.Bool("compress"))
}

func keypair(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.NewExitError("Usage: pocketcrypt keypair SK PK", 64)
	}

	var point, scalar [x25519.Size]byte
	defer duplex.Wipe(scalar[:])

	if err := randomise(scalar[:]); err != nil {
		return err
	}
	x25519.Clamp(&scalar)
	x25519.X25519(&point, &scalar, &x25519.Base)

	if err := save(c.Args().Get(0), scalar[:]); err != nil {
		return err
	}
	return save(c.Args().Get(1), point[:])
}

func sign(c *cli.Context) error {
	if c.NArg() != 1 && c.NArg() != 2 {
		return cli.NewExitError("Usage: pocketcrypt sign SK [PK]", 64)
	}

	var secret, identity [x25519.Size]byte
	defer duplex.Wipe(secret[:])

	if err := load(c.Args().Get(0), secret[:]); err != nil {
		return err
	}
	id := (*[x25519.Size]byte)(nil)
	if c.NArg() == 2 {
		if err := load(c.Args().Get(1), identity[:]); err != nil {
			return err
		}
		id = &identity
	}

	signature, err := std.Sign(permutation(c), os.Stdin, &secret, id)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(signature[:])
	return errors.WithStack(err)
}

func verify(c *cli.Context) error {
	if c.NArg() != 1 && c.NArg() != 2 {
		return cli.NewExitError("Usage: pocketcrypt verify PK [SIG]", 64)
	}

	var identity [x25519.Size]byte
	var signature [std.SignatureSize]byte
	if err := load(c.Args().Get(0), identity[:]); err != nil {
		return err
	}
	if err := load(c.Args().Get(1), signature[:]); err != nil {
		return err
	}

	if err := std.Verify(permutation(c), os.Stdin, &identity, &signature); err != nil {
		if errors.Is(err, std.ErrVerify) {
			return cli.NewExitError("Verification failed", 1)
		}
		return err
	}
	return nil
}

func keysplit(c *cli.Context) error {
	threshold, err := strconv.Atoi(c.Args().Get(0))
	if err != nil || threshold < 1 || threshold > 255 || c.NArg() < 3 {
		return cli.NewExitError("Usage: pocketcrypt keysplit THRESHOLD SECRET SHARE...", 64)
	}

	var secret [shamir.SecretSize]byte
	defer duplex.Wipe(secret[:])
	if err := load(c.Args().Get(1), secret[:]); err != nil {
		return err
	}

	entropy := make([][shamir.SecretSize]byte, threshold-1)
	for i := range entropy {
		if err := randomise(entropy[i][:]); err != nil {
			return err
		}
		defer duplex.Wipe(entropy[i][:])
	}

	for i, file := range c.Args()[2:] {
		var share [shamir.ShareSize]byte
		shamir.Split(&share, uint8(i), uint8(threshold), &secret, entropy)
		if err := save(file, share[:]); err != nil {
			return err
		}
	}
	return nil
}

func keymerge(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.NewExitError("Usage: pocketcrypt keymerge SECRET SHARE...", 64)
	}

	shares := make([][shamir.ShareSize]byte, c.NArg()-1)
	for i, file := range c.Args()[1:] {
		if err := load(file, shares[i][:]); err != nil {
			return err
		}
	}

	var secret [shamir.SecretSize]byte
	defer duplex.Wipe(secret[:])
	shamir.Combine(&secret, shares)
	return save(c.Args().Get(0), secret[:])
}

// swirlArgs parses the optional SIZE (MiB of scratch) and ROUNDS
// parameters shared by cloak and reveal.
func swirlArgs(c *cli.Context) (int, int, error) {
	size, rounds := 64, 2
	var err error
	if c.NArg() >= 1 {
		size, err = strconv.Atoi(c.Args().Get(0))
	}
	if err == nil && c.NArg() >= 2 {
		rounds, err = strconv.Atoi(c.Args().Get(1))
	}
	if err != nil || c.NArg() > 2 || size < 1 || rounds < 1 {
		return 0, 0, errors.New("bad size or rounds")
	}
	return size, rounds, nil
}

func cloak(c *cli.Context) error {
	size, rounds, err := swirlArgs(c)
	if err != nil {
		return cli.NewExitError("Usage: pocketcrypt cloak [SIZE [ROUNDS]]", 64)
	}

	pass, err := password()
	if err != nil {
		return err
	}
	defer duplex.Wipe(pass)

	var salt [duplex.Rate]byte
	if err := randomise(salt[:]); err != nil {
		return err
	}
	if _, err := os.Stdout.Write(salt[:]); err != nil {
		return errors.WithStack(err)
	}

	state := std.Stretch(permutation(c), pass, salt[:], size, rounds)
	defer state.Wipe()
	return sealStream(state, c.Bool("compress"))
}

func reveal(c *cli.Context) error {
	size, rounds, err := swirlArgs(c)
	if err != nil {
		return cli.NewExitError("Usage: pocketcrypt reveal [SIZE [ROUNDS]]", 64)
	}

	pass, err := password()
	if err != nil {
		return err
	}
	defer duplex.Wipe(pass)

	var salt [duplex.Rate]byte
	if err := load("", salt[:]); err != nil {
		return err
	}

	state := std.Stretch(permutation(c), pass, salt[:], size, rounds)
	defer state.Wipe()

	if err := openStream(state, c.Bool("compress")); err != nil {
		if errors.Is(err, std.ErrAuth) {
			return cli.NewExitError("Authentication failed", 1)
		}
		return err
	}
	return nil
}

func main() {
	if VERSION == "SELFBUILD" {
		// add more log flags for debugging
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "pocketcrypt"
	myApp.Usage = "duplex-sponge encryption, signatures and secret sharing"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "permutation, p",
			Value:  "gimli",
			Usage:  "duplex permutation: gimli, xoodoo",
			EnvVar: "POCKETCRYPT_PERMUTATION",
		},
	}
	myApp.Commands = []cli.Command{
		{
			Name:      "encrypt",
			Usage:     "encrypt stdin to stdout for PK, anonymously or from SK",
			ArgsUsage: "[SK] PK",
			Flags:     []cli.Flag{compressFlag},
			Action:    encrypt,
		},
		{
			Name:      "decrypt",
			Usage:     "decrypt stdin to stdout with SK, checking authenticity",
			ArgsUsage: "SK [PK]",
			Flags:     []cli.Flag{compressFlag},
			Action:    decrypt,
		},
		{
			Name:      "keypair",
			Usage:     "generate a fresh secret and public key file pair",
			ArgsUsage: "SK PK",
			Action:    keypair,
		},
		{
			Name:      "sign",
			Usage:     "sign the message on stdin with SK",
			ArgsUsage: "SK [PK]",
			Action:    sign,
		},
		{
			Name:      "verify",
			Usage:     "verify a signature over the message on stdin",
			ArgsUsage: "PK [SIG]",
			Action:    verify,
		},
		{
			Name:      "keysplit",
			Usage:     "split a 32-byte secret into threshold shares",
			ArgsUsage: "THRESHOLD SECRET SHARE...",
			Action:    keysplit,
		},
		{
			Name:      "keymerge",
			Usage:     "reconstruct a secret from shares",
			ArgsUsage: "SECRET SHARE...",
			Action:    keymerge,
		},
		{
			Name:      "cloak",
			Usage:     "password-encrypt stdin with a memory-hard stretch",
			ArgsUsage: "[SIZE [ROUNDS]]",
			Flags:     []cli.Flag{compressFlag},
			Action:    cloak,
		},
		{
			Name:      "reveal",
			Usage:     "decrypt the output of cloak",
			ArgsUsage: "[SIZE [ROUNDS]]",
			Flags:     []cli.Flag{compressFlag},
			Action:    reveal,
		},
	}

	if err := myApp.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}
