package rsarecovery

import (
	"math/big"

	"github.com/cznic/mathutil"
)

// DefaultPrimalityRounds is the number of Miller-Rabin rounds used when none is configured.
const DefaultPrimalityRounds = 20

// Oracle answers whether an integer is (probably) prime.
type Oracle interface {
	ProbablyPrime(x *big.Int) bool
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(x *big.Int) bool

// ProbablyPrime implements Oracle.
func (f OracleFunc) ProbablyPrime(x *big.Int) bool {
	return f(x)
}

// MillerRabinOracle is the default Oracle. Values that fit in 64 bits get a
// deterministic answer; larger values run Rounds Miller-Rabin rounds plus a
// Baillie-PSW test.
type MillerRabinOracle struct {
	Rounds int
}

// NewMillerRabinOracle creates an oracle with the given number of rounds.
// A non-positive count selects DefaultPrimalityRounds.
func NewMillerRabinOracle(rounds int) *MillerRabinOracle {
	if rounds <= 0 {
		rounds = DefaultPrimalityRounds
	}
	return &MillerRabinOracle{Rounds: rounds}
}

// ProbablyPrime implements Oracle.
func (o *MillerRabinOracle) ProbablyPrime(x *big.Int) bool {
	if x == nil || x.Cmp(bigTwo) < 0 {
		return false
	}
	if x.IsUint64() {
		return mathutil.IsPrimeUint64(x.Uint64())
	}

	rounds := o.Rounds
	if rounds <= 0 {
		rounds = DefaultPrimalityRounds
	}
	return x.ProbablyPrime(rounds)
}
