// Package ident generates the synthetic identifiers attached to
// class-bearing elements.
package ident

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultPrefix is prepended to every generated identifier.
const DefaultPrefix = "auto-gen-"

// randomWidth is the length of a base-36 encoded uint64.
const randomWidth = 13

// ErrUnknownStrategy is returned by New for an unsupported strategy name.
var ErrUnknownStrategy = errors.New("unknown id strategy")

// Generator hands out identifiers. Implementations are not safe for
// concurrent use; extraction uses one generator per file.
type Generator interface {
	Next() (string, error)
}

// Strategy selects a Generator implementation.
type Strategy string

const (
	StrategyRandom     Strategy = "random"
	StrategySequential Strategy = "sequential"
)

// Strategies lists the accepted strategy names.
var Strategies = []Strategy{StrategyRandom, StrategySequential}

// ParseStrategy validates a strategy name. The empty string selects random.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyRandom:
		return StrategyRandom, nil
	case StrategySequential:
		return StrategySequential, nil
	}
	return "", fmt.Errorf("%w: %q (want random or sequential)", ErrUnknownStrategy, s)
}

// New builds a generator for one file. taken holds identifiers already
// present in the file; the sequential generator never returns one of them.
func New(strategy Strategy, prefix string, taken []string) (Generator, error) {
	switch strategy {
	case "", StrategyRandom:
		return &Random{Prefix: prefix}, nil
	case StrategySequential:
		return NewSequential(prefix, taken), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
}

// Random draws 64 bits per identifier and encodes them in base 36.
type Random struct {
	Prefix string
	Source io.Reader // defaults to crypto/rand.Reader
}

// Next returns Prefix followed by 13 base-36 digits.
func (r *Random) Next() (string, error) {
	src := r.Source
	if src == nil {
		src = rand.Reader
	}
	var b [8]byte
	if _, err := io.ReadFull(src, b[:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	enc := strconv.FormatUint(binary.BigEndian.Uint64(b[:]), 36)
	return r.Prefix + strings.Repeat("0", randomWidth-len(enc)) + enc, nil
}

// Sequential numbers identifiers 1, 2, 3... in base 36, skipping values
// already in use. Output depends only on the document, so re-running on the
// same input yields the same identifiers.
type Sequential struct {
	prefix string
	next   uint64
	taken  map[string]bool
}

// NewSequential returns a counter starting at 1.
func NewSequential(prefix string, taken []string) *Sequential {
	s := &Sequential{prefix: prefix, next: 1, taken: make(map[string]bool, len(taken))}
	for _, id := range taken {
		s.taken[id] = true
	}
	return s
}

// Next returns the next free identifier.
func (s *Sequential) Next() (string, error) {
	for {
		id := s.prefix + strconv.FormatUint(s.next, 36)
		s.next++
		if !s.taken[id] {
			s.taken[id] = true
			return id, nil
		}
	}
}
