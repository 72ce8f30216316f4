package rsarecovery

import "math/big"

// KeyMaterial is an RSA modulus together with its public and private exponents.
// This is the core type used throughout the package.
type KeyMaterial struct {
	N *big.Int // Modulus, n = p*q
	E *big.Int // Public exponent
	D *big.Int // Private exponent, e*d ≡ 1 (mod φ(n))
}

// Copy returns a deep copy of the key material.
func (k *KeyMaterial) Copy() *KeyMaterial {
	return &KeyMaterial{
		N: copyInt(k.N),
		E: copyInt(k.E),
		D: copyInt(k.D),
	}
}

// FactorPair holds the two factors of a modulus. P*Q = N, in no particular order.
type FactorPair struct {
	P *big.Int
	Q *big.Int
}

// Contains reports whether the pair equals {a, b} as an unordered pair.
func (f *FactorPair) Contains(a, b *big.Int) bool {
	if f == nil || f.P == nil || f.Q == nil {
		return false
	}
	return (f.P.Cmp(a) == 0 && f.Q.Cmp(b) == 0) || (f.P.Cmp(b) == 0 && f.Q.Cmp(a) == 0)
}

// Witness records the base and exponent whose residue exposed a factor.
type Witness struct {
	Base     *big.Int // a
	Exponent *big.Int // k, with Root = a^k mod n
	Root     *big.Int // Non-trivial square root of unity

	// Exponent and Root are nil when the base itself shares a factor with n.
}

// RecoveryResult contains the result of a factor recovery operation.
type RecoveryResult struct {
	Factors    FactorPair // Recovered factors
	Witness    *Witness   // Base that exposed the factors
	BasesTried int        // Number of bases tested, the successful one included
	Strategy   string     // Name of the strategy that produced the result
	Verified   bool       // Whether the factors were verified against the key
}

func copyInt(x *big.Int) *big.Int {
	if x == nil {
		return nil
	}
	return new(big.Int).Set(x)
}
