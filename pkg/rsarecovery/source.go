package rsarecovery

import (
	"crypto/rand"
	"crypto/sha512"
	"io"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"
)

// RandomSource produces uniformly distributed random integers.
//
// Sources are handed to key generation and to the factor search explicitly so that
// tests can substitute deterministic sequences.
type RandomSource interface {
	// Int returns a uniformly random integer in [0, 2^bitLen).
	Int(bitLen int) (*big.Int, error)
}

// readerSource draws integers from a byte stream.
type readerSource struct {
	r io.Reader
}

// NewReaderSource returns a RandomSource reading from r.
func NewReaderSource(r io.Reader) RandomSource {
	return &readerSource{r: r}
}

// NewCryptoSource returns a RandomSource backed by crypto/rand. It is safe for concurrent use.
func NewCryptoSource() RandomSource {
	return &readerSource{r: rand.Reader}
}

// Int implements RandomSource.
func (s *readerSource) Int(bitLen int) (*big.Int, error) {
	if bitLen < 0 {
		return nil, errors.Errorf("negative bit length %d", bitLen)
	}
	if bitLen == 0 {
		return new(big.Int), nil
	}

	buf := make([]byte, (bitLen+7)/8)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		return nil, errors.Wrap(err, "failed to read random bytes")
	}

	// Clear the bits above bitLen in the leading byte
	if excess := uint(len(buf)*8 - bitLen); excess > 0 {
		buf[0] &= byte(0xff >> excess)
	}

	return new(big.Int).SetBytes(buf), nil
}

const seededSourceInfo = "rsa-recovery/seeded-source"

// NewSeededSource returns a deterministic RandomSource. Two sources created from the
// same seed produce the same sequence of integers.
//
// The seed is expanded with HKDF-SHA512 into a ChaCha20 key and the source reads the
// resulting keystream.
func NewSeededSource(seed []byte) RandomSource {
	kdf := hkdf.New(sha512.New, seed, nil, []byte(seededSourceInfo))

	key := make([]byte, chacha20.KeySize)
	if _, err := io.ReadFull(kdf, key); err != nil {
		panic(err)
	}

	cipher, err := chacha20.NewUnauthenticatedCipher(key, make([]byte, chacha20.NonceSize))
	if err != nil {
		panic(err)
	}

	return &readerSource{r: &keystream{cipher: cipher}}
}

// NewPassphraseSource derives a seed from a passphrase and salt with Argon2id and
// returns the matching seeded source.
func NewPassphraseSource(passphrase, salt string) RandomSource {
	// Argon2id parameters
	time := uint32(1)
	memory := uint32(64 * 1024)
	threads := uint8(4)
	keyLen := uint32(32)

	seed := argon2.IDKey([]byte(passphrase), []byte(salt), time, memory, threads, keyLen)
	return NewSeededSource(seed)
}

// keystream is an endless io.Reader over a ChaCha20 keystream.
type keystream struct {
	cipher *chacha20.Cipher
}

func (k *keystream) Read(p []byte) (int, error) {
	clear(p)
	k.cipher.XORKeyStream(p, p)
	return len(p), nil
}
