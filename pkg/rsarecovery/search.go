package rsarecovery

import (
	"context"
	"log"
	"math/big"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// SequentialWitnessStrategy tests one base at a time in a single goroutine.
// With a deterministic source its results are reproducible.
type SequentialWitnessStrategy struct {
	Config SearchConfig
	Source RandomSource
	Logger *log.Logger
}

// NewSequentialWitnessStrategy creates a sequential strategy with default settings.
func NewSequentialWitnessStrategy() *SequentialWitnessStrategy {
	return &SequentialWitnessStrategy{
		Config: DefaultSearchConfig(),
		Source: NewCryptoSource(),
		Logger: defaultLogger,
	}
}

// WithConfig sets the search configuration for the strategy.
func (s *SequentialWitnessStrategy) WithConfig(config SearchConfig) *SequentialWitnessStrategy {
	s.Config = config
	return s
}

// WithSource sets the source used for random base selection.
func (s *SequentialWitnessStrategy) WithSource(source RandomSource) *SequentialWitnessStrategy {
	s.Source = source
	return s
}

// WithLogger sets the logger that receives witness diagnostics. nil disables them.
func (s *SequentialWitnessStrategy) WithLogger(logger *log.Logger) *SequentialWitnessStrategy {
	s.Logger = logger
	return s
}

// Name returns the name of this strategy.
func (s *SequentialWitnessStrategy) Name() string {
	return "SequentialWitness"
}

// Search implements the WitnessStrategy interface.
func (s *SequentialWitnessStrategy) Search(ctx context.Context, key *KeyMaterial) (*RecoveryResult, error) {
	search, err := newWitnessSearch(key)
	if err != nil {
		return nil, err
	}

	bases := newBaseGenerator(s.Config.Bases, s.Source, search.n)

	for tried := 1; s.Config.MaxBases <= 0 || tried <= s.Config.MaxBases; tried++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		a, err := bases.next()
		if err != nil {
			return nil, err
		}

		if factors, witness := search.tryBase(a); factors != nil {
			logWitness(s.Logger, witness)
			return &RecoveryResult{
				Factors:    *factors,
				Witness:    witness,
				BasesTried: tried,
				Strategy:   s.Name(),
			}, nil
		}
	}

	return nil, errors.Wrapf(ErrNoWitness, "tested %d %s bases", s.Config.MaxBases, s.Config.Bases)
}

// ParallelWitnessStrategy tests bases on a pool of workers. The first witness found
// wins; which one that is depends on scheduling.
type ParallelWitnessStrategy struct {
	Config SearchConfig
	Source RandomSource
	Logger *log.Logger
}

// NewParallelWitnessStrategy creates a parallel strategy with default settings.
func NewParallelWitnessStrategy() *ParallelWitnessStrategy {
	return &ParallelWitnessStrategy{
		Config: DefaultSearchConfig(),
		Source: NewCryptoSource(),
		Logger: defaultLogger,
	}
}

// WithConfig sets the search configuration for the strategy.
func (s *ParallelWitnessStrategy) WithConfig(config SearchConfig) *ParallelWitnessStrategy {
	s.Config = config
	return s
}

// WithSource sets the source used for random base selection.
func (s *ParallelWitnessStrategy) WithSource(source RandomSource) *ParallelWitnessStrategy {
	s.Source = source
	return s
}

// WithLogger sets the logger that receives witness diagnostics. nil disables them.
func (s *ParallelWitnessStrategy) WithLogger(logger *log.Logger) *ParallelWitnessStrategy {
	s.Logger = logger
	return s
}

// Name returns the name of this strategy.
func (s *ParallelWitnessStrategy) Name() string {
	return "ParallelWitness"
}

// Search implements the WitnessStrategy interface.
func (s *ParallelWitnessStrategy) Search(ctx context.Context, key *KeyMaterial) (*RecoveryResult, error) {
	search, err := newWitnessSearch(key)
	if err != nil {
		return nil, err
	}

	numWorkers := s.Config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	testedBases := int64(0)
	resultChan := make(chan *RecoveryResult, 1)
	errChan := make(chan error, 1)
	workChan := make(chan *big.Int, numWorkers*4)

	// Generate work. The source is only touched from this goroutine.
	go func() {
		defer close(workChan)
		bases := newBaseGenerator(s.Config.Bases, s.Source, search.n)
		for produced := 0; s.Config.MaxBases <= 0 || produced < s.Config.MaxBases; produced++ {
			a, err := bases.next()
			if err != nil {
				errChan <- err
				return
			}
			select {
			case <-ctx.Done():
				return
			case workChan <- a:
			}
		}
	}()

	// Start workers
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case a, ok := <-workChan:
					if !ok {
						return
					}
					tried := atomic.AddInt64(&testedBases, 1)

					factors, witness := search.tryBase(a)
					if factors == nil {
						continue
					}

					select {
					case resultChan <- &RecoveryResult{
						Factors:    *factors,
						Witness:    witness,
						BasesTried: int(tried),
						Strategy:   s.Name(),
					}:
					default:
					}
					return
				}
			}
		}()
	}

	// Wait for result or completion
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case result := <-resultChan:
		logWitness(s.Logger, result.Witness)
		return result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
		select {
		case result := <-resultChan:
			logWitness(s.Logger, result.Witness)
			return result, nil
		case err := <-errChan:
			return nil, err
		default:
		}
		// Workers also stop on cancellation
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, errors.Wrapf(ErrNoWitness, "tested %d %s bases", atomic.LoadInt64(&testedBases), s.Config.Bases)
	}
}
