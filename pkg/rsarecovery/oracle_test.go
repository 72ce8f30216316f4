package rsarecovery

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMillerRabinOracle(t *testing.T) {
	oracle := NewMillerRabinOracle(0)
	assert.Equal(t, DefaultPrimalityRounds, oracle.Rounds)

	primes := []string{
		"2", "3", "61", "1000003",
		"18446744073709551557", // largest prime below 2^64
		"18446744073709551629", // 2^64 + 13
		"335262858811474628330358589790501326867",
	}
	for _, s := range primes {
		x, _ := new(big.Int).SetString(s, 10)
		assert.True(t, oracle.ProbablyPrime(x), "%s should be prime", s)
	}

	composites := []string{
		"0", "1", "4", "3233",
		"561",                  // Carmichael number
		"18446744073709551615", // 2^64 - 1
		"9701240167441694881",  // 3114681391²
	}
	for _, s := range composites {
		x, _ := new(big.Int).SetString(s, 10)
		assert.False(t, oracle.ProbablyPrime(x), "%s should be composite", s)
	}

	assert.False(t, oracle.ProbablyPrime(nil))
	assert.False(t, oracle.ProbablyPrime(big.NewInt(-7)))
}

func TestOracleFunc(t *testing.T) {
	var oracle Oracle = OracleFunc(func(x *big.Int) bool { return x.Bit(0) == 1 })

	assert.True(t, oracle.ProbablyPrime(big.NewInt(9)))
	assert.False(t, oracle.ProbablyPrime(big.NewInt(10)))
}
