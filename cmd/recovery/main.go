package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/mahdiidarabi/rsa-recovery/pkg/rsarecovery"
)

func main() {
	var (
		generate    = flag.Bool("generate", false, "Generate (n, e, d) from two primes")
		pFlag       = flag.String("p", "", "First prime for -generate (decimal or 0x hex)")
		qFlag       = flag.String("q", "", "Second prime for -generate (decimal or 0x hex)")
		bits        = flag.Int("bits", 0, "Generate fresh primes of this size instead of -p/-q")
		keysFile    = flag.String("keys", "", "Path to key file (JSON or CSV) with n, e, d")
		format      = flag.String("format", "json", "Key file format (json or csv)")
		maxBases    = flag.Int("max-bases", 0, "Maximum bases to test per key (0 = unlimited)")
		numWorkers  = flag.Int("workers", 1, "Number of parallel workers (1 = sequential, 0 = auto-detect based on CPU cores)")
		randomBases = flag.Bool("random-bases", false, "Draw bases at random instead of 2, 3, 5, 7, ...")
		seed        = flag.String("seed", "", "Passphrase for a deterministic random source")
		salt        = flag.String("salt", "rsa-recovery", "Salt used with -seed")
		timeout     = flag.Duration("timeout", 0, "Give up after this long (0 = no timeout)")
	)
	flag.Parse()

	source := rsarecovery.NewCryptoSource()
	if *seed != "" {
		source = rsarecovery.NewPassphraseSource(*seed, *salt)
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	if *generate {
		if err := runGenerate(*pFlag, *qFlag, *bits, source); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *keysFile == "" {
		fmt.Fprintf(os.Stderr, "Error: Must specify -generate or -keys\n")
		flag.Usage()
		os.Exit(1)
	}

	parser, err := rsarecovery.ParserForFormat(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	config := rsarecovery.SearchConfig{
		MaxBases:   *maxBases,
		Bases:      rsarecovery.SequentialBases,
		NumWorkers: *numWorkers,
	}
	if *randomBases {
		config.Bases = rsarecovery.RandomBases
	}

	var strategy rsarecovery.WitnessStrategy
	if *numWorkers == 1 {
		strategy = rsarecovery.NewSequentialWitnessStrategy().WithConfig(config).WithSource(source)
	} else {
		strategy = rsarecovery.NewParallelWitnessStrategy().WithConfig(config).WithSource(source)
	}

	client := rsarecovery.NewClient().WithParser(parser).WithStrategy(strategy)

	fmt.Printf("Loading keys from %s...\n", *keysFile)
	fmt.Printf("Using %s search with %s bases\n", strategy.Name(), config.Bases)

	results, err := client.RecoverFactors(ctx, *keysFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for i, result := range results {
		fmt.Printf("\n[+] Recovered factors of key %d:\n", i)
		fmt.Printf("    p: %s\n", result.Factors.P.String())
		fmt.Printf("    q: %s\n", result.Factors.Q.String())
		fmt.Printf("    Bases tried: %d\n", result.BasesTried)
		if result.Witness != nil && result.Witness.Root != nil {
			fmt.Printf("    Witness: a=%s, k=%s, x=%s\n", result.Witness.Base, result.Witness.Exponent, result.Witness.Root)
		}
		if result.Verified {
			fmt.Println("    ✓ Verified against key!")
		}
	}
}

func runGenerate(pStr, qStr string, bits int, source rsarecovery.RandomSource) error {
	var p, q *big.Int
	if bits > 0 {
		start := time.Now()
		var err error
		if p, err = rand.Prime(rand.Reader, bits); err != nil {
			return err
		}
		if q, err = rand.Prime(rand.Reader, bits); err != nil {
			return err
		}
		fmt.Printf("Generated two %d-bit primes in %s\n", bits, time.Since(start).Round(time.Millisecond))
	} else {
		var err error
		if p, err = parseInt(pStr); err != nil {
			return fmt.Errorf("invalid -p: %w", err)
		}
		if q, err = parseInt(qStr); err != nil {
			return fmt.Errorf("invalid -q: %w", err)
		}
	}

	key, err := rsarecovery.NewKeyGenerator().WithSource(source).Generate(p, q)
	if err != nil {
		return err
	}

	fmt.Printf("\n[+] Generated key:\n")
	fmt.Printf("    p: %s\n", p.String())
	fmt.Printf("    q: %s\n", q.String())
	fmt.Printf("    n: %s\n", key.N.String())
	fmt.Printf("    e: %s\n", key.E.String())
	fmt.Printf("    d: %s\n", key.D.String())
	return nil
}

func parseInt(s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("value is required")
	}
	z, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("invalid number format: %s", s)
	}
	return z, nil
}
