// assets/embed.go
//
// Embedded game assets: the default answer and allowed-guess word lists and
// the rules text shown by the rules view.
//
// Word files hold one word per line; blank lines and lines starting with "#"
// are ignored and every word is lowercased.

package assets

import (
	"bufio"
	"embed"
	"io"
	"strings"
)

//go:embed allowed.txt answers.txt rules.txt
var FS embed.FS

// ReadWords scans r line by line and returns the lowercased, trimmed entries.
func ReadWords(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadWords(f)
}

// AnswersList returns the embedded answer words.
func AnswersList() ([]string, error) {
	return readLines("answers.txt")
}

// AllowedList returns the embedded extra guess words (answers not included).
func AllowedList() ([]string, error) {
	return readLines("allowed.txt")
}

// Rules returns the rules text.
func Rules() string {
	b, err := FS.ReadFile("rules.txt")
	if err != nil {
		return ""
	}
	return string(b)
}
