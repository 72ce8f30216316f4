package rsarecovery

import (
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/pkg/errors"
)

// VerifyFactors verifies that a recovered pair factors the key's modulus and that
// decryption with those factors inverts encryption under (e, d).
//
// The decryption goes through the Chinese remainder theorem, so a pair that merely
// multiplies to n but does not match d is rejected.
//
// Returns:
//   - True if the factors match the key, false otherwise
func VerifyFactors(key *KeyMaterial, factors *FactorPair) (bool, error) {
	if key == nil || key.N == nil || key.E == nil || key.D == nil {
		return false, errors.New("key material is incomplete")
	}
	if factors == nil || factors.P == nil || factors.Q == nil {
		return false, errors.New("factor pair is incomplete")
	}

	p, q := factors.P, factors.Q
	if p.Cmp(bigOne) <= 0 || q.Cmp(bigOne) <= 0 {
		return false, nil
	}
	if new(big.Int).Mul(p, q).Cmp(key.N) != 0 {
		return false, nil
	}

	// Round-trip m = 2 (n >= 4 here, so m < n)
	m := big.NewInt(2)
	c := new(big.Int).Exp(m, key.E, key.N)

	var decrypted *big.Int
	if p.Cmp(q) == 0 || p.Bit(0) == 0 || q.Bit(0) == 0 {
		decrypted = new(big.Int).Exp(c, key.D, key.N)
	} else {
		decrypted = decryptCRT(c, key.D, p, q)
	}

	return decrypted.Cmp(m) == 0, nil
}

// decryptCRT computes c^d mod pq from the two half-size exponentiations.
// p and q must be distinct odd primes.
func decryptCRT(c, d, p, q *big.Int) *big.Int {
	size := p.BitLen() + q.BitLen()

	pMod := saferith.ModulusFromNat(new(saferith.Nat).SetBig(p, p.BitLen()))
	qMod := saferith.ModulusFromNat(new(saferith.Nat).SetBig(q, q.BitLen()))

	// dP = d mod (p-1), dQ = d mod (q-1)
	dP := new(big.Int).Mod(d, new(big.Int).Sub(p, bigOne))
	dQ := new(big.Int).Mod(d, new(big.Int).Sub(q, bigOne))

	cNat := new(saferith.Nat).SetBig(c, size)

	// m₁ = c^dP (mod p), m₂ = c^dQ (mod q)
	mp := new(saferith.Nat).Exp(new(saferith.Nat).Mod(cNat, pMod), new(saferith.Nat).SetBig(dP, p.BitLen()), pMod)
	mq := new(saferith.Nat).Exp(new(saferith.Nat).Mod(cNat, qMod), new(saferith.Nat).SetBig(dQ, q.BitLen()), qMod)

	// h = q⁻¹ ⋅ (m₁ - m₂) (mod p)
	qInv := new(saferith.Nat).ModInverse(new(saferith.Nat).Mod(new(saferith.Nat).SetBig(q, q.BitLen()), pMod), pMod)
	diff := new(saferith.Nat).ModSub(mp, new(saferith.Nat).Mod(mq, pMod), pMod)
	h := new(saferith.Nat).ModMul(diff, qInv, pMod)

	// m = m₂ + h⋅q
	hq := new(saferith.Nat).Mul(h, new(saferith.Nat).SetBig(q, q.BitLen()), size)
	return new(saferith.Nat).Add(mq, hq, size).Big()
}
