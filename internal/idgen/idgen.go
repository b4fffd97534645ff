// Package idgen produces human-readable sequential codes of the form
// PREFIX + zero-padded 8-digit number.
package idgen

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	Width              = 8
	DefaultMaxAttempts = 10
)

// ErrExhausted means every candidate in the retry budget was taken.
var ErrExhausted = errors.New("idgen: no free code within retry budget")

// Family describes one code space.
type Family struct {
	Prefix string
	// Next returns the next sequence number to try.
	Next func(ctx context.Context) (int64, error)
	// Exists reports whether a code is already taken.
	Exists func(ctx context.Context, code string) (bool, error)
}

func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, Width, n)
}

// ParseSuffix extracts the numeric part of code. It fails when code does not
// carry prefix or the remainder is not a positive number.
func ParseSuffix(prefix, code string) (int64, bool) {
	rest, ok := strings.CutPrefix(code, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NextAfter returns the sequence number following latest, or 1 when latest
// has no parseable suffix.
func NextAfter(prefix, latest string) int64 {
	if n, ok := ParseSuffix(prefix, latest); ok {
		return n + 1
	}
	return 1
}

// Generate finds a free code. Each collision bumps the number by one; after
// maxAttempts collisions the sequence is consulted once more before giving up.
func Generate(ctx context.Context, f Family, maxAttempts int) (string, error) {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}

	n, err := f.Next(ctx)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		code := Format(f.Prefix, n)
		taken, err := f.Exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
		n++
	}

	n, err = f.Next(ctx)
	if err != nil {
		return "", err
	}
	code := Format(f.Prefix, n)
	taken, err := f.Exists(ctx, code)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrExhausted
	}
	return code, nil
}
