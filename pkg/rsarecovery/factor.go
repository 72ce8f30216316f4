package rsarecovery

import (
	"context"
	"math/big"

	"github.com/pkg/errors"
)

var bigFour = big.NewInt(4)

// RecoverFactors recovers p and q from the modulus n and a matching exponent pair
// (e*d ≡ 1 mod φ(n)), using the sequential witness search with no trial cap.
//
// The search does not terminate for inputs without a witness, such as n = p*p.
// Use a SequentialWitnessStrategy with MaxBases or a cancellable context to bound it.
func RecoverFactors(n, e, d *big.Int) (*big.Int, *big.Int, error) {
	result, err := NewSequentialWitnessStrategy().Search(context.Background(), &KeyMaterial{N: n, E: e, D: d})
	if err != nil {
		return nil, nil, err
	}
	return result.Factors.P, result.Factors.Q, nil
}

// witnessSearch holds λ = e*d - 1 = t * 2^s (t odd) for a modulus n.
// It is read-only once built and may be shared between goroutines.
type witnessSearch struct {
	n         *big.Int
	nMinusOne *big.Int
	t         *big.Int
	s         uint
}

// newWitnessSearch validates the key and splits e*d - 1 into its odd part and power of two.
func newWitnessSearch(key *KeyMaterial) (*witnessSearch, error) {
	if key == nil || key.N == nil {
		return nil, errors.Wrap(ErrInvalidModulus, "modulus is required")
	}
	if key.E == nil || key.D == nil {
		return nil, errors.Wrap(ErrInvalidExponents, "e and d are required")
	}
	if key.N.Cmp(bigFour) < 0 {
		return nil, errors.Wrapf(ErrInvalidModulus, "n = %s is not a product of two primes", key.N)
	}

	lambda := new(big.Int).Mul(key.E, key.D)
	lambda.Sub(lambda, bigOne)
	if lambda.Sign() <= 0 {
		return nil, errors.Wrapf(ErrInvalidExponents, "e*d - 1 = %s", lambda)
	}

	// An odd λ leaves no squaring step, so no square root of unity can show up
	s := lambda.TrailingZeroBits()
	if s == 0 {
		return nil, errors.Wrap(ErrInvalidExponents, "e*d - 1 is odd")
	}

	n := new(big.Int).Set(key.N)
	return &witnessSearch{
		n:         n,
		nMinusOne: new(big.Int).Sub(n, bigOne),
		t:         new(big.Int).Rsh(lambda, s),
		s:         s,
	}, nil
}

// tryBase tests base a. It returns nil if a exposes no factor.
//
// The residues a^t, a^2t, a^4t, ... (mod n) are walked by repeated squaring while the
// exponent stays below λ. A residue x with x ≠ ±1 and x² ≡ 1 gives the factor gcd(n, x-1).
func (w *witnessSearch) tryBase(a *big.Int) (*FactorPair, *Witness) {
	n := w.n

	// A base sharing a factor with n gives it away directly
	g := new(big.Int).GCD(nil, nil, a, n)
	if g.Cmp(bigOne) != 0 && g.Cmp(n) != 0 {
		return &FactorPair{P: g, Q: new(big.Int).Quo(n, g)}, &Witness{Base: new(big.Int).Set(a)}
	}

	k := new(big.Int).Set(w.t)
	x := new(big.Int).Exp(a, w.t, n)
	sq := new(big.Int)

	for i := uint(0); i < w.s; i++ {
		// Past 1 or n-1 every residue is 1
		if x.Cmp(bigOne) == 0 || x.Cmp(w.nMinusOne) == 0 {
			return nil, nil
		}

		sq.Mul(x, x)
		sq.Mod(sq, n)
		if sq.Cmp(bigOne) == 0 {
			r := new(big.Int).Sub(x, bigOne)
			r.GCD(nil, nil, n, r)
			return &FactorPair{P: r, Q: new(big.Int).Quo(n, r)}, &Witness{
				Base:     new(big.Int).Set(a),
				Exponent: k,
				Root:     x,
			}
		}

		x, sq = sq, x
		k.Lsh(k, 1)
	}

	return nil, nil
}

// baseGenerator yields the bases to test, in order.
type baseGenerator interface {
	next() (*big.Int, error)
}

func newBaseGenerator(selection BaseSelection, source RandomSource, n *big.Int) baseGenerator {
	if selection == RandomBases {
		return &randomBases{source: source, n: n, upper: new(big.Int).Sub(n, bigTwo)}
	}
	return &sequentialBases{}
}

// sequentialBases yields 2, then the odd bases 3, 5, 7, ...
type sequentialBases struct {
	current *big.Int
}

func (b *sequentialBases) next() (*big.Int, error) {
	switch {
	case b.current == nil:
		b.current = big.NewInt(2)
	case b.current.Cmp(bigTwo) == 0:
		b.current = big.NewInt(3)
	default:
		b.current = new(big.Int).Add(b.current, bigTwo)
	}
	return b.current, nil
}

// randomBases yields bases drawn uniformly from [2, n-2].
type randomBases struct {
	source RandomSource
	n      *big.Int
	upper  *big.Int
}

func (b *randomBases) next() (*big.Int, error) {
	if b.source == nil {
		return nil, errors.New("random base selection requires a random source")
	}
	for {
		a, err := b.source.Int(b.n.BitLen())
		if err != nil {
			return nil, errors.Wrap(err, "failed to draw base")
		}
		if a.Cmp(bigTwo) >= 0 && a.Cmp(b.upper) <= 0 {
			return a, nil
		}
	}
}
