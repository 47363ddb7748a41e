// assets/embed.go
//
// Embedded default word lists and SQL migrations.
//   - answers.txt: default answer corpus.
//   - allowed.txt: extra allowed guesses (answers are always allowed too).
//   - sql/*.sql:   run-store migrations, applied in lexical order.

package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed allowed.txt answers.txt
var FS embed.FS

//go:embed sql/*.sql
var migrations embed.FS

// Migrations exposes the embedded migration files rooted at "sql".
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "sql")
	if err != nil {
		// "sql" is embedded above; Sub only fails on an invalid path
		panic(err)
	}
	return sub
}

// readLines returns the non-blank, non-comment lines of an embedded file, lowercased.
func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// AnswersList returns the embedded answer corpus.
func AnswersList() ([]string, error) {
	return readLines("answers.txt")
}

// AllowedList returns the embedded extra allowed guesses.
func AllowedList() ([]string, error) {
	return readLines("allowed.txt")
}
