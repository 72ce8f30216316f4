package rsarecovery

import (
	"context"

	"github.com/pkg/errors"
)

// Client provides a high-level API for factor recovery operations.
type Client struct {
	strategy WitnessStrategy
	parser   KeyParser
}

// NewClient creates a new client with default settings.
func NewClient() *Client {
	return &Client{
		strategy: NewSequentialWitnessStrategy(),
		parser:   &JSONParser{},
	}
}

// WithStrategy sets a custom witness search strategy.
func (c *Client) WithStrategy(strategy WitnessStrategy) *Client {
	c.strategy = strategy
	return c
}

// WithParser sets a custom key parser.
func (c *Client) WithParser(parser KeyParser) *Client {
	c.parser = parser
	return c
}

// RecoverFactors recovers the factors of every key in a file.
//
// Args:
//   - ctx: Context for cancellation.
//   - source: Path to key file (JSON or CSV).
//
// Returns:
//   - One RecoveryResult per key, in file order, or the first error.
func (c *Client) RecoverFactors(ctx context.Context, source string) ([]*RecoveryResult, error) {
	keys, err := c.parser.ParseKeys(source)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse keys")
	}
	if len(keys) == 0 {
		return nil, errors.Errorf("no keys in %s", source)
	}

	results := make([]*RecoveryResult, 0, len(keys))
	for i, key := range keys {
		result, err := c.RecoverFactorsFromKey(ctx, key)
		if err != nil {
			return nil, errors.Wrapf(err, "key %d", i)
		}
		results = append(results, result)
	}
	return results, nil
}

// RecoverFactorsFromKey recovers the factors of in-memory key material and verifies them.
func (c *Client) RecoverFactorsFromKey(ctx context.Context, key *KeyMaterial) (*RecoveryResult, error) {
	result, err := c.strategy.Search(ctx, key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to recover factors")
	}

	verified, err := VerifyFactors(key, &result.Factors)
	if err != nil {
		return nil, errors.Wrap(err, "failed to verify factors")
	}
	result.Verified = verified

	return result, nil
}
