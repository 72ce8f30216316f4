package rsarecovery

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RecoverFactors(t *testing.T) {
	factors := loadTestFactors(t)

	client := NewClient().WithStrategy(
		NewSequentialWitnessStrategy().
			WithConfig(SearchConfig{MaxBases: 100}).
			WithLogger(quietLogger()),
	)

	results, err := client.RecoverFactors(context.Background(), filepath.Join(fixturesDir(), "test_keys.json"))
	require.NoError(t, err)
	require.Len(t, results, len(factors))

	for i, result := range results {
		assert.True(t, result.Verified, "key %d should be verified", i)
		assert.True(t, result.Factors.Contains(factors[i].P, factors[i].Q), "key %d: factor mismatch", i)
	}

	t.Logf("Successfully recovered %d factor pairs", len(results))
}

func TestClient_RecoverFactors_CSV(t *testing.T) {
	client := NewClient().
		WithParser(&CSVParser{}).
		WithStrategy(NewParallelWitnessStrategy().
			WithConfig(SearchConfig{MaxBases: 100, NumWorkers: 2}).
			WithLogger(quietLogger()))

	results, err := client.RecoverFactors(context.Background(), filepath.Join(fixturesDir(), "test_keys.csv"))
	require.NoError(t, err)

	for i, result := range results {
		assert.True(t, result.Verified, "key %d should be verified", i)
	}
}

func TestClient_RecoverFactors_MissingFile(t *testing.T) {
	_, err := NewClient().RecoverFactors(context.Background(), filepath.Join(fixturesDir(), "nonexistent.json"))
	assert.Error(t, err)
}

func TestClient_RecoverFactors_EmptyFile(t *testing.T) {
	path := writeTempFile(t, "keys.json", `[]`)

	_, err := NewClient().RecoverFactors(context.Background(), path)
	assert.Error(t, err)
}

func TestClient_RecoverFactorsFromKey_GeneratedKey(t *testing.T) {
	p, q := randomPrimePair(t, 256)

	key, err := GenerateKeys(p, q)
	require.NoError(t, err)

	client := NewClient().WithStrategy(NewSequentialWitnessStrategy().
		WithConfig(SearchConfig{MaxBases: 100}).
		WithLogger(quietLogger()))

	result, err := client.RecoverFactorsFromKey(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.True(t, result.Factors.Contains(p, q))
}

func TestClient_RecoverFactorsFromKey_NoWitness(t *testing.T) {
	p, _ := new(big.Int).SetString("3114681391", 10)
	key := &KeyMaterial{N: new(big.Int).Mul(p, p)}
	key.E, _ = new(big.Int).SetString("10246094053999226551", 10)
	key.D, _ = new(big.Int).SetString("7734703564210945951", 10)

	client := NewClient().WithStrategy(NewSequentialWitnessStrategy().
		WithConfig(SearchConfig{MaxBases: 20}).
		WithLogger(quietLogger()))

	_, err := client.RecoverFactorsFromKey(context.Background(), key)
	assert.True(t, errors.Is(err, ErrNoWitness), "expected ErrNoWitness, got %v", err)
}
