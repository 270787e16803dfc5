// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gokalman

import (
	"errors"
	"fmt"
	"strings"
)

// Kind of failure reported by loading, alignment and estimation
type ErrKind int

const (
	UnknownErr        ErrKind = iota // Not one of the errors below
	SourceUnavailable                // Input cannot be opened or read
	Parse                            // A required field is not a valid number
	Alignment                        // Channel lengths disagree
	DegenerateUpdate                 // Predicted and measurement variance are both zero
	OutOfRange                       // Positional access outside of the sequence
	Config                           // Invalid options
)

func (k ErrKind) String() string {
	switch k {
	case SourceUnavailable:
		return "SourceUnavailable"
	case Parse:
		return "ParseError"
	case Alignment:
		return "AlignmentError"
	case DegenerateUpdate:
		return "DegenerateUpdate"
	case OutOfRange:
		return "OutOfRange"
	case Config:
		return "ConfigError"
	default:
		return "Unknown"
	}
}

// Every error type of this package implements kinded
type kinded interface {
	error
	Kind() ErrKind
}

// KindOf returns the kind of the first error of this package found in the chain of err
func KindOf(err error) ErrKind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return UnknownErr
}

// SourceError is returned when a source cannot be opened or read
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s unavailable: %s", e.Source, e.Err.Error())
}

func (e *SourceError) Unwrap() error { return e.Err }

func (e *SourceError) Kind() ErrKind { return SourceUnavailable }

// ParseError identifies the row (0-based, counting data rows only) and field that failed
type ParseError struct {
	Source string
	Row    int
	Field  string
	Text   string // Raw text of the field ("" when the field is missing)
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: row %d, field %s: invalid value %q: %s", e.Source, e.Row, e.Field, e.Text, e.Err.Error())
	}
	return fmt.Sprintf("%s: row %d, field %s: invalid value %q", e.Source, e.Row, e.Field, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Kind() ErrKind { return Parse }

// Number of samples observed for one channel
type ChannelCount struct {
	Name  string
	Count int
}

// AlignmentError carries the length of every channel, in the order they were given
type AlignmentError struct {
	Counts    []ChannelCount
	Duplicate string // Name given twice, if that was the cause
}

func (e *AlignmentError) Error() string {
	if len(e.Duplicate) > 0 {
		return fmt.Sprintf("alignment failed: channel %s given more than once", e.Duplicate)
	}
	a := make([]string, 0, len(e.Counts))
	for _, c := range e.Counts {
		a = append(a, fmt.Sprintf("%s=%d", c.Name, c.Count))
	}
	return "alignment failed: mismatched channel lengths (" + strings.Join(a, ", ") + ")"
}

func (e *AlignmentError) Kind() ErrKind { return Alignment }

// Count returns the observed length of channel name, or -1 if it is not listed
func (e *AlignmentError) Count(name string) int {
	for _, c := range e.Counts {
		if c.Name == name {
			return c.Count
		}
	}
	return -1
}

// DegenerateUpdateError is returned when the gain denominator is exactly zero
type DegenerateUpdateError struct {
	Channel string
	Step    int
	Time    float64
}

func (e *DegenerateUpdateError) Error() string {
	return fmt.Sprintf("degenerate update on channel %s at step %d (t=%g): predicted and measurement variance are both zero", e.Channel, e.Step, e.Time)
}

func (e *DegenerateUpdateError) Kind() ErrKind { return DegenerateUpdate }

// OutOfRangeError is returned by the positional accessors
type OutOfRangeError struct {
	What  string
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.What, e.Index, e.Len)
}

func (e *OutOfRangeError) Kind() ErrKind { return OutOfRange }

// ConfigError reports invalid options
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "invalid configuration: " + e.Msg }

func (e *ConfigError) Kind() ErrKind { return Config }

func configErrorf(format string, a ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, a...)}
}
