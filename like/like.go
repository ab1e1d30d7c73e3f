// Package like implements the wildcard comparison used by LIKE filters:
// '%' matches zero or more characters, '_' exactly one, everything else
// is literal. There is no escape character, so a literal '%' or '_' in
// the data cannot be matched on its own.
package like

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

var ErrPatternTooLong = errors.New("pattern too long")

// Options configures a Matcher.
type Options struct {
	// MaxPatternLen bounds the patterns Check accepts, in characters.
	// Recursion nests once per '%', so callers with small stacks should
	// set it. Zero means unlimited.
	MaxPatternLen int
	// Logger, when set, receives a debug record for every comparison step.
	Logger *slog.Logger
}

// Matcher evaluates LIKE patterns. The zero value is ready to use.
type Matcher struct {
	maxLen int
	logger *slog.Logger
}

func New(opts Options) *Matcher {
	return &Matcher{maxLen: opts.MaxPatternLen, logger: opts.Logger}
}

// Like reports whether subject matches pattern, case-sensitively.
func Like(subject, pattern string) bool {
	var m Matcher
	return m.Like(subject, pattern)
}

// ILike reports whether subject matches pattern after Unicode case
// folding both.
func ILike(subject, pattern string) bool {
	var m Matcher
	return m.ILike(subject, pattern)
}

// Fold applies full Unicode case folding.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Check validates a pattern against the configured length limit.
func (m *Matcher) Check(pattern string) error {
	if m.maxLen > 0 {
		if n := utf8.RuneCountInString(pattern); n > m.maxLen {
			return fmt.Errorf("%w: %d characters, limit %d", ErrPatternTooLong, n, m.maxLen)
		}
	}
	return nil
}

func (m *Matcher) Like(subject, pattern string) bool {
	return m.match(subject, pattern)
}

func (m *Matcher) ILike(subject, pattern string) bool {
	return m.match(Fold(subject), Fold(pattern))
}

func (m *Matcher) match(s, p string) bool {
	if m.logger != nil {
		m.logger.Debug("like compare", "subject", s, "pattern", p)
	}
	if p == "" {
		return s == ""
	}
	switch p[0] {
	case '_':
		if s == "" {
			return false
		}
		_, size := utf8.DecodeRuneInString(s)
		return m.match(s[size:], p[1:])
	case '%':
		rest := p[1:]
		for i := 0; ; {
			if m.match(s[i:], rest) {
				return true
			}
			if i >= len(s) {
				return false
			}
			_, size := utf8.DecodeRuneInString(s[i:])
			i += size
		}
	default:
		n := strings.IndexAny(p, "_%")
		if n < 0 {
			n = len(p)
		}
		if !strings.HasPrefix(s, p[:n]) {
			return false
		}
		ok := m.match(s[n:], p[n:])
		if m.logger != nil {
			m.logger.Debug("like literal", "matched", ok, "subject", s[n:], "pattern", p[n:])
		}
		return ok
	}
}
