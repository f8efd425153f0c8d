package core

import "context"

// Outcome tags the result of a single strategy attempt.
type Outcome int

const (
	// OutcomeSuccess means the strategy produced a usable result.
	OutcomeSuccess Outcome = iota
	// OutcomeRetryable means the strategy failed but the next one may work.
	OutcomeRetryable
	// OutcomeFatal means the whole chain should stop immediately.
	OutcomeFatal
)

// Strategy is one entry in an ordered fallback chain.
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, Outcome, error)
}

// RunChain tries each strategy in order until one succeeds or the chain is
// exhausted. It returns the winning result and strategy name, or the errors
// collected along the way. A fatal outcome stops the chain early.
func RunChain[T any](ctx context.Context, strategies []Strategy[T]) (T, string, []error) {
	var zero T
	var failures []error
	for _, s := range strategies {
		result, outcome, err := s.Run(ctx)
		switch outcome {
		case OutcomeSuccess:
			return result, s.Name, nil
		case OutcomeFatal:
			if err != nil {
				failures = append(failures, err)
			}
			return zero, "", failures
		default:
			if err != nil {
				failures = append(failures, err)
			}
		}
	}
	return zero, "", failures
}
