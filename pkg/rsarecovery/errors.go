package rsarecovery

import "github.com/pkg/errors"

var (
	// ErrNotPrime is returned when a key generation input fails the primality oracle.
	ErrNotPrime = errors.New("p and q must be prime")

	// ErrNonCoprimeExponent is returned when the public exponent has no inverse
	// modulo the totient. Sampled exponents are coprime, so this indicates a bug.
	ErrNonCoprimeExponent = errors.New("e and phi must be coprime")

	// ErrRetryLimit is returned when coprime sampling hits its attempt cap.
	ErrRetryLimit = errors.New("retry limit reached")

	// ErrNoWitness is returned when the base search hits its trial cap.
	ErrNoWitness = errors.New("no witness found")

	// ErrInvalidModulus is returned for a modulus that cannot be a product of two primes.
	ErrInvalidModulus = errors.New("invalid modulus")

	// ErrInvalidExponents is returned when e*d - 1 cannot be a multiple of φ(n).
	ErrInvalidExponents = errors.New("invalid exponent pair")
)
