// Package rsarecovery generates textbook RSA keys and recovers the prime factors of a
// modulus from a matching public/private exponent pair.
//
// Given n, e and d with e*d ≡ 1 (mod φ(n)), λ = e*d - 1 is a multiple of φ(n), so
// a^λ ≡ 1 (mod n) for every base a coprime to n. Writing λ = t·2^s with t odd, the
// residues a^t, a^2t, a^4t, ... (mod n) end in 1. The residue just before the first 1,
// when it is not n-1, is a non-trivial square root of unity x, and gcd(n, x-1) is a
// factor of n.
//
// # Quick Start
//
//	import "github.com/mahdiidarabi/rsa-recovery/pkg/rsarecovery"
//
//	key, err := rsarecovery.GenerateKeys(p, q)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p2, q2, err := rsarecovery.RecoverFactors(key.N, key.E, key.D)
//
// # Customization
//
// The default search tests bases 2, 3, 5, 7, ... with no limit. Cap it, or draw the
// bases from a seeded source for reproducible runs:
//
//	strategy := rsarecovery.NewSequentialWitnessStrategy().
//	    WithConfig(rsarecovery.SearchConfig{
//	        MaxBases: 64,
//	        Bases:    rsarecovery.RandomBases,
//	    }).
//	    WithSource(rsarecovery.NewSeededSource([]byte("seed")))
//
//	client := rsarecovery.NewClient().WithStrategy(strategy)
//	results, err := client.RecoverFactors(ctx, "keys.json")
//
// # Custom Strategies
//
// Implement the WitnessStrategy interface to plug in a different search:
//
//	type MyStrategy struct{}
//
//	func (s *MyStrategy) Search(ctx context.Context, key *KeyMaterial) (*RecoveryResult, error) {
//	    // Your custom search logic
//	}
//
//	func (s *MyStrategy) Name() string {
//	    return "MyCustomStrategy"
//	}
package rsarecovery
