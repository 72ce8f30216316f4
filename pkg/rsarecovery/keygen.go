package rsarecovery

import (
	"math/big"

	"github.com/pkg/errors"
)

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
)

// KeyGenerator builds textbook RSA keys from two caller-supplied primes.
type KeyGenerator struct {
	oracle Oracle
	source RandomSource

	// MaxSampleAttempts caps the draws made while looking for a public exponent
	// coprime to the totient. Zero means no limit.
	MaxSampleAttempts int
}

// NewKeyGenerator creates a key generator with a Miller-Rabin oracle and a crypto/rand source.
func NewKeyGenerator() *KeyGenerator {
	return &KeyGenerator{
		oracle: NewMillerRabinOracle(DefaultPrimalityRounds),
		source: NewCryptoSource(),
	}
}

// WithOracle sets the primality oracle used to validate p and q.
func (g *KeyGenerator) WithOracle(oracle Oracle) *KeyGenerator {
	g.oracle = oracle
	return g
}

// WithSource sets the random source the public exponent is drawn from.
func (g *KeyGenerator) WithSource(source RandomSource) *KeyGenerator {
	g.source = source
	return g
}

// WithMaxSampleAttempts sets the coprime sampling cap (0 = unbounded).
func (g *KeyGenerator) WithMaxSampleAttempts(n int) *KeyGenerator {
	g.MaxSampleAttempts = n
	return g
}

// GenerateKeys generates (n, e, d) from p and q with the default generator.
func GenerateKeys(p, q *big.Int) (*KeyMaterial, error) {
	return NewKeyGenerator().Generate(p, q)
}

// Generate derives key material from the primes p and q.
//
// The totient is Euler's product form φ = (p-1)(q-1). The public exponent is drawn
// uniformly from [0, 2^bitlen(φ)) until it is coprime to φ, and d = e⁻¹ mod φ.
// p == q is accepted; n is then a perfect square.
func (g *KeyGenerator) Generate(p, q *big.Int) (*KeyMaterial, error) {
	if p == nil || q == nil {
		return nil, errors.Wrap(ErrNotPrime, "p and q are required")
	}
	if !g.oracle.ProbablyPrime(p) {
		return nil, errors.Wrapf(ErrNotPrime, "p = %s", p)
	}
	if !g.oracle.ProbablyPrime(q) {
		return nil, errors.Wrapf(ErrNotPrime, "q = %s", q)
	}

	// n = p * q
	n := new(big.Int).Mul(p, q)

	// φ(n) = (p-1)(q-1)
	phi := new(big.Int).Mul(new(big.Int).Sub(p, bigOne), new(big.Int).Sub(q, bigOne))

	e, err := SampleCoprime(g.source, phi, g.MaxSampleAttempts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sample public exponent")
	}

	d := new(big.Int).ModInverse(e, phi)
	if d == nil {
		return nil, errors.Wrapf(ErrNonCoprimeExponent, "e = %s", e)
	}

	return &KeyMaterial{N: n, E: e, D: d}, nil
}

// SampleCoprime draws integers of modulus' bit length from src until one is coprime
// to modulus, and returns it. The result lies in [0, 2^bitlen(modulus)).
//
// maxAttempts bounds the number of draws; zero means no limit, in which case a
// degenerate modulus such as 0 never terminates.
func SampleCoprime(src RandomSource, modulus *big.Int, maxAttempts int) (*big.Int, error) {
	bits := modulus.BitLen()
	gcd := new(big.Int)

	for attempt := 0; maxAttempts <= 0 || attempt < maxAttempts; attempt++ {
		candidate, err := src.Int(bits)
		if err != nil {
			return nil, errors.Wrap(err, "failed to draw candidate")
		}

		if gcd.GCD(nil, nil, candidate, modulus).Cmp(bigOne) == 0 {
			return candidate, nil
		}
	}

	return nil, errors.Wrapf(ErrRetryLimit, "no value coprime to %s after %d attempts", modulus, maxAttempts)
}
