// Package cascade resolves an ordered list of candidates, stopping at the
// first one that produces at least one match.
//
// The same resolver drives selector lookups against a DOM scope and the
// URL fallback list of a site: callers provide the query primitive.
package cascade

import (
	"context"
	"errors"
	"fmt"
)

// Outcome tells a caller whether a cascade found something, ran out of
// candidates cleanly, or ran out of candidates with at least one of them
// failing to evaluate.
type Outcome int

const (
	NotFound Outcome = iota
	Found
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case NotFound:
		return "not found"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ErrExhausted is wrapped by Result.Err when no candidate matched.
var ErrExhausted = errors.New("no candidate matched")

// Attempt records what happened to one evaluated candidate.
type Attempt[C any] struct {
	Candidate C
	Matched   int
	Err       error
}

// Result is the output of Resolve.
type Result[C, T any] struct {
	Outcome   Outcome
	Candidate C   // winning candidate, zero value unless Found
	Index     int // index of the winning candidate, -1 unless Found
	Matches   []T
	Attempts  []Attempt[C]
}

// Found reports whether a candidate matched.
func (r Result[C, T]) Found() bool {
	return r.Outcome == Found
}

// Err returns nil when a candidate matched. Otherwise it wraps ErrExhausted
// and, for Failed, joins every evaluation error in candidate order.
func (r Result[C, T]) Err() error {
	if r.Outcome == Found {
		return nil
	}
	var errs []error
	for _, a := range r.Attempts {
		if a.Err != nil {
			errs = append(errs, fmt.Errorf("%v: %w", a.Candidate, a.Err))
		}
	}
	if len(errs) == 0 {
		return fmt.Errorf("%w (%d tried)", ErrExhausted, len(r.Attempts))
	}
	return fmt.Errorf("%w (%d tried): %w", ErrExhausted, len(r.Attempts), errors.Join(errs...))
}

// QueryFunc evaluates one candidate. An error means the candidate could not
// be evaluated; it is not fatal to the cascade.
type QueryFunc[C, T any] func(ctx context.Context, candidate C) ([]T, error)

// Resolve tries candidates strictly in order and returns the matches of the
// first one yielding at least one match. Candidates after the winner are
// never evaluated. A cancelled context stops the cascade with Failed.
func Resolve[C, T any](ctx context.Context, candidates []C, query QueryFunc[C, T]) Result[C, T] {
	res := Result[C, T]{Outcome: NotFound, Index: -1}

	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			res.Attempts = append(res.Attempts, Attempt[C]{Candidate: c, Err: err})
			res.Outcome = Failed
			return res
		}

		matches, err := evaluate(ctx, c, query)
		res.Attempts = append(res.Attempts, Attempt[C]{Candidate: c, Matched: len(matches), Err: err})
		if err != nil {
			res.Outcome = Failed
			continue
		}
		if len(matches) > 0 {
			res.Outcome = Found
			res.Candidate = c
			res.Index = i
			res.Matches = matches
			return res
		}
	}

	return res
}

// evaluate shields the cascade from a panicking query primitive; a panic is
// reported as that candidate's error.
func evaluate[C, T any](ctx context.Context, c C, query QueryFunc[C, T]) (matches []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			matches = nil
			err = fmt.Errorf("query panicked: %v", r)
		}
	}()
	return query(ctx, c)
}
