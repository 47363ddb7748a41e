// internal/classify/types.go
//
// Core type definitions for guess classification.
// Defines:
//   - LetterState: per-letter outcome of a guess (absent/present/correct).
//   - Response:    the ordered per-letter outcome of one guess against one candidate.
//   - Scoring:     which classifier variant a caller wants.

package classify

import (
	"fmt"
	"strings"
)

// LetterState represents the evaluation result for a single letter in a guess.
// Values are declared in precedence order, so a larger value always wins:
//   - Unknown: transient initial value, never present in a finished response.
//   - Absent:  letter does not occur in the candidate.
//   - Present: letter occurs in the candidate at another position.
//   - Correct: letter matches the candidate at the same position.
type LetterState uint8

const (
	Unknown LetterState = iota
	Absent
	Present
	Correct
)

var stateNames = [...]string{
	Unknown: "unknown",
	Absent:  "absent",
	Present: "present",
	Correct: "correct",
}

var stateSymbols = [...]byte{
	Unknown: '?',
	Absent:  'A',
	Present: 'P',
	Correct: 'C',
}

func (s LetterState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("LetterState(%d)", uint8(s))
}

// Symbol returns the one-letter glyph used in response strings.
func (s LetterState) Symbol() byte {
	if int(s) < len(stateSymbols) {
		return stateSymbols[s]
	}
	return '?'
}

// MarshalText encodes the state by name.
func (s LetterState) MarshalText() ([]byte, error) {
	if int(s) >= len(stateNames) {
		return nil, fmt.Errorf("classify: invalid letter state %d", uint8(s))
	}
	return []byte(stateNames[s]), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (s *LetterState) UnmarshalText(b []byte) error {
	name := strings.ToLower(string(b))
	for i, n := range stateNames {
		if n == name {
			*s = LetterState(i)
			return nil
		}
	}
	return fmt.Errorf("classify: unknown letter state %q", b)
}

func stateFromSymbol(c byte) (LetterState, bool) {
	for i, sym := range stateSymbols {
		if sym == c {
			return LetterState(i), true
		}
	}
	return Unknown, false
}

// MaxWordLen bounds the length of words a Response can describe.
const MaxWordLen = 16

// Response is the ordered sequence of letter states for one guess.
// It is a comparable value, so it can key a map directly: two responses
// are equal iff they have the same length and agree at every position.
type Response struct {
	states [MaxWordLen]LetterState
	n      uint8
}

// NewResponse builds a response from explicit states.
// It panics if more than MaxWordLen states are given.
func NewResponse(states ...LetterState) Response {
	if len(states) > MaxWordLen {
		panic(fmt.Sprintf("classify: response length %d exceeds %d", len(states), MaxWordLen))
	}
	var r Response
	copy(r.states[:], states)
	r.n = uint8(len(states))
	return r
}

// Len reports the number of positions.
func (r Response) Len() int { return int(r.n) }

// At returns the state at position i.
func (r Response) At(i int) LetterState {
	if i < 0 || i >= int(r.n) {
		panic(fmt.Sprintf("classify: position %d out of range [0,%d)", i, r.n))
	}
	return r.states[i]
}

// States returns a copy of the per-position states.
func (r Response) States() []LetterState {
	out := make([]LetterState, r.n)
	copy(out, r.states[:r.n])
	return out
}

// Solved reports whether every position is Correct.
func (r Response) Solved() bool {
	if r.n == 0 {
		return false
	}
	for _, s := range r.states[:r.n] {
		if s != Correct {
			return false
		}
	}
	return true
}

// Finished reports whether no position is still Unknown.
func (r Response) Finished() bool {
	for _, s := range r.states[:r.n] {
		if s == Unknown {
			return false
		}
	}
	return true
}

// String renders the response as glyphs, e.g. "CAPPA".
func (r Response) String() string {
	b := make([]byte, r.n)
	for i, s := range r.states[:r.n] {
		b[i] = s.Symbol()
	}
	return string(b)
}

// MarshalText lets a Response key a JSON object.
func (r Response) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses the glyph form produced by MarshalText.
func (r *Response) UnmarshalText(b []byte) error {
	parsed, err := ParseResponse(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseResponse parses a glyph string such as "CAPPA" (case-insensitive).
func ParseResponse(s string) (Response, error) {
	if len(s) > MaxWordLen {
		return Response{}, fmt.Errorf("classify: response %q longer than %d", s, MaxWordLen)
	}
	var r Response
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		st, ok := stateFromSymbol(c)
		if !ok {
			return Response{}, fmt.Errorf("classify: bad symbol %q in response %q", s[i], s)
		}
		r.states[i] = st
	}
	r.n = uint8(len(s))
	return r, nil
}

// AllResponses enumerates every finished response of length n, in product
// order with Absent < Present < Correct and position 0 most significant.
// There are 3^n of them.
func AllResponses(n int) []Response {
	if n < 0 || n > MaxWordLen {
		panic(fmt.Sprintf("classify: response length %d out of range", n))
	}
	total := 1
	for i := 0; i < n; i++ {
		total *= 3
	}
	out := make([]Response, 0, total)
	cur := make([]LetterState, n)
	for i := range cur {
		cur[i] = Absent
	}
	for {
		out = append(out, NewResponse(cur...))
		// odometer increment from the last position
		i := n - 1
		for ; i >= 0; i-- {
			if cur[i] < Correct {
				cur[i]++
				break
			}
			cur[i] = Absent
		}
		if i < 0 {
			return out
		}
	}
}

// Scoring selects a classifier variant.
type Scoring uint8

const (
	// Faithful is the contains-based classifier; the default.
	Faithful Scoring = iota
	// Strict is the duplicate-aware two-pass Wordle scorer.
	Strict
)

func (s Scoring) String() string {
	if s == Strict {
		return "strict"
	}
	return "faithful"
}

// ParseScoring maps a config value to a Scoring. Empty means Faithful.
func ParseScoring(v string) (Scoring, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "faithful":
		return Faithful, nil
	case "strict":
		return Strict, nil
	}
	return Faithful, fmt.Errorf("classify: unknown scoring %q", v)
}

// Func classifies a guess against a candidate.
type Func func(guess, candidate string) Response

// Func returns the classifier implementing s.
func (s Scoring) Func() Func {
	if s == Strict {
		return ClassifyStrict
	}
	return Classify
}
