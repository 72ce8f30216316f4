package rsarecovery

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyFactors(t *testing.T) {
	keys := loadTestKeys(t)
	factors := loadTestFactors(t)

	for i, key := range keys {
		verified, err := VerifyFactors(key, &factors[i])
		require.NoError(t, err)
		assert.True(t, verified, "key %d should verify", i)

		// Order does not matter
		swapped := &FactorPair{P: factors[i].Q, Q: factors[i].P}
		verified, err = VerifyFactors(key, swapped)
		require.NoError(t, err)
		assert.True(t, verified, "key %d should verify with swapped factors", i)
	}
}

func TestVerifyFactors_GeneratedKey(t *testing.T) {
	p, q := randomPrimePair(t, 256)

	key, err := GenerateKeys(p, q)
	require.NoError(t, err)

	verified, err := VerifyFactors(key, &FactorPair{P: p, Q: q})
	require.NoError(t, err)
	assert.True(t, verified)
}

func TestVerifyFactors_WrongFactors(t *testing.T) {
	key := &KeyMaterial{N: big.NewInt(3233), E: big.NewInt(17), D: big.NewInt(2753)}

	tests := []struct {
		name string
		p, q int64
	}{
		{"wrong product", 61, 59},
		{"trivial split", 1, 3233},
		{"zero", 0, 3233},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verified, err := VerifyFactors(key, &FactorPair{P: big.NewInt(tt.p), Q: big.NewInt(tt.q)})
			require.NoError(t, err)
			assert.False(t, verified)
		})
	}
}

func TestVerifyFactors_WrongExponent(t *testing.T) {
	// Correct factors, but d does not invert e
	key := &KeyMaterial{N: big.NewInt(3233), E: big.NewInt(17), D: big.NewInt(2751)}

	verified, err := VerifyFactors(key, &FactorPair{P: big.NewInt(61), Q: big.NewInt(53)})
	require.NoError(t, err)
	assert.False(t, verified)
}

func TestVerifyFactors_EvenFactor(t *testing.T) {
	key := &KeyMaterial{N: big.NewInt(14), E: big.NewInt(5), D: big.NewInt(5)}

	verified, err := VerifyFactors(key, &FactorPair{P: big.NewInt(2), Q: big.NewInt(7)})
	require.NoError(t, err)
	assert.True(t, verified)
}

func TestVerifyFactors_Incomplete(t *testing.T) {
	_, err := VerifyFactors(&KeyMaterial{N: big.NewInt(3233)}, &FactorPair{P: big.NewInt(61), Q: big.NewInt(53)})
	assert.Error(t, err)

	key := &KeyMaterial{N: big.NewInt(3233), E: big.NewInt(17), D: big.NewInt(2753)}
	_, err = VerifyFactors(key, &FactorPair{P: big.NewInt(61)})
	assert.Error(t, err)
}

func TestDecryptCRT(t *testing.T) {
	p, q := big.NewInt(61), big.NewInt(53)
	n := big.NewInt(3233)

	for _, m := range []int64{0, 1, 2, 65, 1000, 3232} {
		c := new(big.Int).Exp(big.NewInt(m), big.NewInt(17), n)
		assert.Equal(t, m, decryptCRT(c, big.NewInt(2753), p, q).Int64(), "m = %d", m)
	}
}
