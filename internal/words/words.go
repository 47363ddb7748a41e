// internal/words/words.go
//
// Provides the answer corpus and allowed-guess list the ranker works over.
//
// Responsibilities:
//   - Load answer and allowed guess lists from configured files or fall back to embedded defaults.
//   - Normalize, filter and deduplicate both lists while keeping file order.
//   - Guarantee every answer is also an allowed guess.
//
// Word Lists:
//   - "answers": the candidate answer corpus partitions are measured on.
//   - "allowed": every guess worth scoring (answers first, then the extras).
//
// Load behavior:
//   1. If AnswersFile and AllowedFile are both set,
//      load answers from the first and allowed guesses from the second.
//   2. If only AllowedFile is set,
//      load that file and use it for both answers and allowed guesses.
//   3. If neither is set,
//      fall back to the embedded lists in the assets package.
//
// Constraints:
//   • Words must be Length alphabetic letters (a–z); others are skipped.
//   • Lists are normalized to lowercase.
//   • A Corpus is immutable after Load; share it freely between goroutines.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/robalobadob/wordle/apps/ranker/assets"
)

// Length is the word length of the game.
const Length = 5

// ErrEmptyAnswers is returned when no valid answer survives loading.
var ErrEmptyAnswers = errors.New("words: answers list is empty")

// Source says where word lists come from. Empty paths select embedded defaults.
type Source struct {
	AnswersFile string
	AllowedFile string
}

// Corpus is the pair of read-only word lists.
type Corpus struct {
	Answers []string // candidate answers, file order
	Allowed []string // answers ∪ extra guesses, answers first
	Origin  string   // "files", "allowed-file" or "embedded"

	answerSet map[string]struct{}
	index     *Index
}

// Load reads both lists according to src.
func Load(src Source) (*Corpus, error) {
	var ansList, allowList []string
	var origin string

	switch {
	// Case 1: both lists provided
	case src.AnswersFile != "" && src.AllowedFile != "":
		var err error
		if ansList, err = readWordFile(src.AnswersFile); err != nil {
			return nil, err
		}
		if allowList, err = readWordFile(src.AllowedFile); err != nil {
			return nil, err
		}
		origin = "files"

	// Case 2: only allowed file provided → use for both
	case src.AllowedFile != "":
		var err error
		if allowList, err = readWordFile(src.AllowedFile); err != nil {
			return nil, err
		}
		ansList = allowList
		origin = "allowed-file"

	case src.AnswersFile != "":
		return nil, errors.New("words: answers file given without allowed file")

	// Case 3: fallback to embedded defaults
	default:
		ans, err := assets.AnswersList()
		if err != nil {
			return nil, fmt.Errorf("words: embedded answers: %w", err)
		}
		extra, err := assets.AllowedList()
		if err != nil {
			return nil, fmt.Errorf("words: embedded allowed: %w", err)
		}
		ansList, allowList = normalize(ans), normalize(extra)
		origin = "embedded"
	}

	return New(ansList, allowList, origin)
}

// New builds a Corpus from already-read lists. Invalid words are dropped,
// duplicates collapse onto their first occurrence, and answers are prepended
// to the allowed list.
func New(answers, allowed []string, origin string) (*Corpus, error) {
	ans := dedupe(normalize(answers))
	if len(ans) == 0 {
		return nil, ErrEmptyAnswers
	}
	all := dedupe(append(append([]string{}, ans...), normalize(allowed)...))

	c := &Corpus{
		Answers:   ans,
		Allowed:   all,
		Origin:    origin,
		answerSet: toSet(ans),
		index:     NewIndex(all),
	}
	return c, nil
}

// readWordFile loads one word per line from a file,
// lowercases, trims, and keeps only valid words.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: %w", err)
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if w, ok := normalizeWord(sc.Text()); ok {
			out = append(out, w)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("words: read %s: %w", path, err)
	}
	return out, nil
}

// normalize lowercases and filters a list.
func normalize(list []string) []string {
	out := make([]string, 0, len(list))
	for _, line := range list {
		if w, ok := normalizeWord(line); ok {
			out = append(out, w)
		}
	}
	return out
}

func normalizeWord(s string) (string, bool) {
	w := strings.TrimSpace(strings.ToLower(s))
	if len(w) != Length || !IsAlpha(w) {
		return "", false
	}
	return w, true
}

// dedupe keeps the first occurrence of each word.
func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := list[:0:0]
	for _, w := range list {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// IsAlpha reports whether s is all lowercase ASCII letters.
func IsAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Valid reports whether w is a well-formed game word.
func Valid(w string) bool {
	return len(w) == Length && IsAlpha(w)
}

// IsAllowed reports whether w is a valid guess (answers ∪ guesses).
func (c *Corpus) IsAllowed(w string) bool {
	return c.index.Contains(strings.ToLower(w))
}

// IsAnswer reports whether w is an answer word.
func (c *Corpus) IsAnswer(w string) bool {
	_, ok := c.answerSet[strings.ToLower(w)]
	return ok
}

// WithPrefix returns the allowed guesses starting with prefix, in allowed-list order.
func (c *Corpus) WithPrefix(prefix string) []string {
	return c.index.WithPrefix(strings.ToLower(prefix))
}

// Stats returns counts of loaded words: (answers, allowed).
func (c *Corpus) Stats() (answersCount int, allowedCount int) {
	return len(c.Answers), len(c.Allowed)
}
