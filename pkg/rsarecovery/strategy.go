package rsarecovery

import (
	"context"
	"log"
	"os"
)

// WitnessStrategy defines the interface for factor search strategies.
// Implement this interface to create custom search strategies.
type WitnessStrategy interface {
	// Search attempts to find the factors of key.N.
	// The context can be used for cancellation.
	Search(ctx context.Context, key *KeyMaterial) (*RecoveryResult, error)

	// Name returns a human-readable name for this strategy.
	Name() string
}

// BaseSelection controls the order in which bases are tested.
type BaseSelection int

const (
	// SequentialBases tests 2, then the odd bases 3, 5, 7, ...
	SequentialBases BaseSelection = iota

	// RandomBases draws each base uniformly from [2, n-2] using the strategy's source.
	RandomBases
)

// String returns the name of the base selection.
func (b BaseSelection) String() string {
	switch b {
	case SequentialBases:
		return "sequential"
	case RandomBases:
		return "random"
	default:
		return "unknown"
	}
}

// SearchConfig configures the witness search.
type SearchConfig struct {
	// MaxBases limits the number of bases tested (0 = unlimited)
	MaxBases int

	// Bases selects how bases are chosen
	Bases BaseSelection

	// NumWorkers controls parallelization (0 = auto-detect)
	NumWorkers int
}

// DefaultSearchConfig returns the reference configuration: sequential bases, no cap.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		MaxBases:   0,
		Bases:      SequentialBases,
		NumWorkers: 0, // Auto-detect
	}
}

// defaultLogger receives witness diagnostics unless a strategy is given its own logger.
var defaultLogger = log.New(os.Stderr, "rsarecovery: ", log.LstdFlags)

func logWitness(logger *log.Logger, w *Witness) {
	if logger == nil || w == nil {
		return
	}
	if w.Root == nil {
		logger.Printf("base %s shares a factor with n", w.Base)
		return
	}
	logger.Printf("a: %s, k: %s, x: %s", w.Base, w.Exponent, w.Root)
}
