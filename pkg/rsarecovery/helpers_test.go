package rsarecovery

import (
	"crypto/rand"
	"encoding/json"
	"io"
	"log"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixturesDir returns the repository fixtures directory relative to this package.
func fixturesDir() string {
	return filepath.Join("..", "..", "fixtures")
}

// quietLogger discards witness diagnostics during tests.
func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// loadTestKeys loads the key material fixture.
func loadTestKeys(t *testing.T) []*KeyMaterial {
	t.Helper()
	parser := &JSONParser{}
	keys, err := parser.ParseKeys(filepath.Join(fixturesDir(), "test_keys.json"))
	require.NoError(t, err, "Failed to load test keys")
	return keys
}

// loadTestFactors loads the factors matching test_keys.json, in the same order.
func loadTestFactors(t *testing.T) []FactorPair {
	t.Helper()
	file, err := os.Open(filepath.Join(fixturesDir(), "test_key_factors.json"))
	require.NoError(t, err)
	defer file.Close()

	var raw []struct {
		P string `json:"p"`
		Q string `json:"q"`
	}
	require.NoError(t, json.NewDecoder(file).Decode(&raw))

	pairs := make([]FactorPair, len(raw))
	for i, r := range raw {
		p, ok := new(big.Int).SetString(r.P, 10)
		require.True(t, ok, "invalid p in fixture %d", i)
		q, ok := new(big.Int).SetString(r.Q, 10)
		require.True(t, ok, "invalid q in fixture %d", i)
		pairs[i] = FactorPair{P: p, Q: q}
	}
	return pairs
}

// randomPrimePair returns two distinct random primes of the given size.
func randomPrimePair(t *testing.T, bits int) (*big.Int, *big.Int) {
	t.Helper()
	p, err := rand.Prime(rand.Reader, bits)
	require.NoError(t, err)
	for {
		q, err := rand.Prime(rand.Reader, bits)
		require.NoError(t, err)
		if p.Cmp(q) != 0 {
			return p, q
		}
	}
}

// totient returns (p-1)(q-1).
func totient(p, q *big.Int) *big.Int {
	return new(big.Int).Mul(new(big.Int).Sub(p, bigOne), new(big.Int).Sub(q, bigOne))
}
