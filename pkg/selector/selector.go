// Package selector resolves substring tokens to a single python-VM log file
// under the NSO run directory.
package selector

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// logGlob matches the python-VM log files inside <runDir>/logs.
const logGlob = "ncs-python-vm-*"

// Selection errors. Both are fatal: they are reported before any parsing
// begins.
var (
	ErrNoLogFiles = errors.New("no python-vm log files found")
	ErrNoMatch    = errors.New("no log file matches the given tokens")
)

// AmbiguousError reports that more than one log file matched the tokens.
type AmbiguousError struct {
	Tokens     []string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "tokens %q match %d log files:\n", strings.Join(e.Tokens, " "), len(e.Candidates))
	for _, c := range e.Candidates {
		fmt.Fprintf(&sb, "  %s\n", filepath.Base(c))
	}
	sb.WriteString("add more tokens to narrow the selection")
	return sb.String()
}

// Candidates returns the python-VM log files under runDir whose base name
// contains every token, sorted by name length then lexicographically.
func Candidates(runDir string, tokens []string) ([]string, error) {
	pattern := filepath.Join(runDir, "logs", logGlob)
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoLogFiles, filepath.Join(runDir, "logs"))
	}

	var out []string
	for _, m := range matches {
		if containsAll(filepath.Base(m), tokens) {
			out = append(out, m)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := filepath.Base(out[i]), filepath.Base(out[j])
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})
	return out, nil
}

// Resolve resolves the tokens to exactly one log file. Zero matches and
// multiple matches are both errors; use Candidates to list the options.
func Resolve(runDir string, tokens []string) (string, error) {
	candidates, err := Candidates(runDir, tokens)
	if err != nil {
		return "", err
	}
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNoMatch, strings.Join(tokens, " "))
	case 1:
		return candidates[0], nil
	default:
		return "", &AmbiguousError{Tokens: tokens, Candidates: candidates}
	}
}

func containsAll(name string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(name, tok) {
			return false
		}
	}
	return true
}
