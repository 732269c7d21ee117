// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug

import (
	"context"
	"errors"
	"fmt"
)

// ErrTaken is returned by a write when the scope's unique key already holds
// the slug, and by [Claim] once its retries are exhausted.
var ErrTaken = errors.New("slug: taken in scope")

// Claimer resolves a slug against a scope and persists it.
type Claimer struct {
	// Existing lists the slugs currently used in the scope.
	Existing func(ctx context.Context) ([]string, error)

	// Write persists the entity with the candidate slug. It must return an
	// error wrapping [ErrTaken] when the unique key rejects the slug.
	Write func(ctx context.Context, candidate string) error

	// Retries is how many times a rejected write is retried after re-reading
	// the scope. Zero surfaces the first conflict.
	Retries int

	// OnRetry is called before each retry.
	OnRetry func(attempt int, candidate string)
}

// Claim writes base (or its first free suffixed form) into the scope and
// returns the slug that was stored.
//
// Between reading the scope and writing, a concurrent writer can take the
// same candidate; the unique key rejects the second write and the loop
// re-reads the scope.
func (claimer Claimer) Claim(ctx context.Context, base string) (string, error) {
	for attempt := 0; ; attempt++ {
		existing, err := claimer.Existing(ctx)
		if err != nil {
			return "", err
		}

		candidate := Unique(base, existing)

		err = claimer.Write(ctx, candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, ErrTaken) {
			return "", err
		}
		if attempt >= claimer.Retries {
			return "", fmt.Errorf("%w: %q after %d attempts", ErrTaken, candidate, attempt+1)
		}

		if claimer.OnRetry != nil {
			claimer.OnRetry(attempt+1, candidate)
		}
	}
}
