// Package response normalises raw Likert answers into frequency buckets.
package response

import (
	"errors"
	"fmt"
	"strings"
)

// Bucket is one of the five Likert frequency levels.
type Bucket int

const (
	Never Bucket = iota + 1
	Rarely
	Sometimes
	Often
	Always
)

// Buckets lists every bucket from lowest to highest.
var Buckets = []Bucket{Never, Rarely, Sometimes, Often, Always}

var (
	// ErrEmpty is returned for blank answers; callers skip them silently.
	ErrEmpty = errors.New("empty response")
	// ErrInvalid is wrapped by InvalidValueError.
	ErrInvalid = errors.New("unrecognized response value")
)

type InvalidValueError struct {
	Value string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalid.Error(), e.Value)
}

func (e *InvalidValueError) Unwrap() error { return ErrInvalid }

var lookup = map[string]Bucket{
	"1": Never, "never": Never,
	"2": Rarely, "rarely": Rarely,
	"3": Sometimes, "sometimes": Sometimes,
	"4": Often, "often": Often,
	"5": Always, "always": Always,
}

// Parse maps "1".."5" and "never".."always" (case-insensitive) to a bucket.
func Parse(raw string) (Bucket, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return 0, ErrEmpty
	}
	if b, ok := lookup[v]; ok {
		return b, nil
	}
	return 0, &InvalidValueError{Value: raw}
}

// Value is the bucket's weight on the 1-5 scale.
func (b Bucket) Value() int { return int(b) }

func (b Bucket) String() string {
	switch b {
	case Never:
		return "never"
	case Rarely:
		return "rarely"
	case Sometimes:
		return "sometimes"
	case Often:
		return "often"
	case Always:
		return "always"
	}
	return fmt.Sprintf("bucket(%d)", int(b))
}
