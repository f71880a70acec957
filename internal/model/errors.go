package model

import (
	"errors"
	"fmt"
)

// InvalidSetScoreError reports a set result that breaks the scoring rules.
type InvalidSetScoreError struct {
	Set    int
	Reason string
}

func (e *InvalidSetScoreError) Error() string {
	return fmt.Sprintf("invalid score in set %d: %s", e.Set, e.Reason)
}

// UnknownPlayerNumberError reports a jersey number missing from the name lookup.
type UnknownPlayerNumberError struct {
	Number int
}

func (e *UnknownPlayerNumberError) Error() string {
	return fmt.Sprintf("unknown player number %d", e.Number)
}

// NonMonotonicScoreError reports an interval whose end lies before its start.
type NonMonotonicScoreError struct {
	Start Score
	End   Score
}

func (e *NonMonotonicScoreError) Error() string {
	return fmt.Sprintf("score goes backwards: %s -> %s", e.Start, e.End)
}

// OverlappingIntervalError reports a player on court twice over the same points.
type OverlappingIntervalError struct {
	Number int
	First  PlayerInterval
	Second PlayerInterval
}

func (e *OverlappingIntervalError) Error() string {
	return fmt.Sprintf("player %d on court twice: %s overlaps %s", e.Number, e.Second, e.First)
}

// DivisionByZeroPointsError reports a rate requested over zero points played.
type DivisionByZeroPointsError struct {
	Name string
}

func (e *DivisionByZeroPointsError) Error() string {
	if e.Name == "" {
		return "no points played"
	}
	return fmt.Sprintf("no points played by %s", e.Name)
}

// MalformedNameFileError reports a name lookup file with the wrong shape.
type MalformedNameFileError struct {
	Path    string
	Line    int
	Columns int
}

func (e *MalformedNameFileError) Error() string {
	return fmt.Sprintf("malformed name file %s: line %d has %d columns, want 2", e.Path, e.Line, e.Columns)
}

// AsInvalidSetScore unwraps err into an InvalidSetScoreError.
func AsInvalidSetScore(err error) (*InvalidSetScoreError, bool) {
	var target *InvalidSetScoreError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// AsUnknownPlayerNumber unwraps err into an UnknownPlayerNumberError.
func AsUnknownPlayerNumber(err error) (*UnknownPlayerNumberError, bool) {
	var target *UnknownPlayerNumberError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// AsNonMonotonicScore unwraps err into a NonMonotonicScoreError.
func AsNonMonotonicScore(err error) (*NonMonotonicScoreError, bool) {
	var target *NonMonotonicScoreError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// AsOverlappingInterval unwraps err into an OverlappingIntervalError.
func AsOverlappingInterval(err error) (*OverlappingIntervalError, bool) {
	var target *OverlappingIntervalError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// AsDivisionByZeroPoints unwraps err into a DivisionByZeroPointsError.
func AsDivisionByZeroPoints(err error) (*DivisionByZeroPointsError, bool) {
	var target *DivisionByZeroPointsError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// AsMalformedNameFile unwraps err into a MalformedNameFileError.
func AsMalformedNameFile(err error) (*MalformedNameFileError, bool) {
	var target *MalformedNameFileError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
