package service

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrActionNotConfirmed = errors.New("action not confirmed")
	ErrNoBlocksProvided   = errors.New("no blocks provided")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUpstreamTimeout    = errors.New("upstream request timed out")
)

// upstream tags deadline failures so the HTTP layer can tell a timeout from any other failure.
func upstream(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
