// internal/classify/classify.go
//
// Guess classification.
// Responsibilities:
//   - Classify: the contains-based classifier every ranking is built on.
//   - ClassifyStrict: the duplicate-aware two-pass Wordle scorer, kept as a
//     separate, explicitly selected variant.
//
// Notes:
//   - Words are compared byte-wise; callers pass lowercase ASCII.
//   - Neither function validates lengths. A candidate shorter than the guess,
//     or a guess longer than MaxWordLen, panics.

package classify

import "strings"

// Classify returns the response for guess against candidate.
//
// Per position i, independently:
//   - candidate[i] == guess[i]              → Correct
//   - guess[i] occurs anywhere in candidate → Present
//   - otherwise                             → Absent
//
// Membership is a plain contains check, not a letter count. A repeated guess
// letter whose only candidate occurrence is already matched elsewhere is
// still reported Present ("speed" vs "abide" gives AAPPP, not AAPAP).
// Rankings depend on this; use ClassifyStrict for real game feedback.
func Classify(guess, candidate string) Response {
	var r Response
	r.n = uint8(len(guess))
	for i := 0; i < len(guess); i++ {
		switch {
		case candidate[i] == guess[i]:
			r.states[i] = Correct
		case strings.IndexByte(candidate, guess[i]) >= 0:
			r.states[i] = Present
		default:
			r.states[i] = Absent
		}
	}
	return r
}

// ClassifyStrict implements the standard Wordle two-pass scoring.
//
// Pass 1:
//   - Mark exact matches Correct.
//   - Count remaining (unmatched) candidate letters.
//
// Pass 2:
//   - For each unmatched guess letter: if a count remains, mark Present and
//     decrement it; otherwise mark Absent.
func ClassifyStrict(guess, candidate string) Response {
	var r Response
	r.n = uint8(len(guess))

	var counts [256]uint8
	for i := 0; i < len(guess); i++ {
		if guess[i] == candidate[i] {
			r.states[i] = Correct
		} else {
			counts[candidate[i]]++
		}
	}

	for i := 0; i < len(guess); i++ {
		if r.states[i] == Correct {
			continue
		}
		if c := guess[i]; counts[c] > 0 {
			r.states[i] = Present
			counts[c]--
		} else {
			r.states[i] = Absent
		}
	}
	return r
}
