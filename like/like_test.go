package like

import (
	"bytes"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"testing"
)

func TestLike(t *testing.T) {
	tests := []struct {
		subject, pattern string
		want             bool
	}{
		{"abc", "a_c", true},
		{"abc", "a%c", true},
		{"ac", "a_c", false},
		{"", "%", true},
		{"X", "", false},
		{"", "", true},
		{"", "_", false},
		{"abc", "abc", true},
		{"abc", "ab", false},
		{"abc", "abcd", false},
		{"abc", "%", true},
		{"abc", "%%", true},
		{"abc", "___", true},
		{"abc", "____", false},
		{"abc", "%b%", true},
		{"abc", "%d%", false},
		{"abcbc", "%bc", true},
		{"abcbd", "a%bc", false},
		{"mississippi", "m%iss%ppi", true},
		{"mississippi", "%s_s%", true},
		{"ABC", "abc", false},
		{"a%c", "a%c", true},
		{"héllo", "h_llo", true},
		{"日本語", "_本_", true},
		{"日本語", "%語", true},
	}
	for _, tt := range tests {
		if got := Like(tt.subject, tt.pattern); got != tt.want {
			t.Errorf("Like(%q, %q)=%v want %v", tt.subject, tt.pattern, got, tt.want)
		}
	}
}

func TestILike(t *testing.T) {
	tests := []struct {
		subject, pattern string
		want             bool
	}{
		{"ÀBC", "àbc", true},
		{"Hello World", "hello%", true},
		{"ǅemal", "ǆ%", true},
		{"ΣΊΣΥΦΟΣ", "σίσυφος", true},
		{"abc", "A_C", true},
		{"Straße", "STRASSE", true},
		{"abc", "x%", false},
	}
	for _, tt := range tests {
		if got := ILike(tt.subject, tt.pattern); got != tt.want {
			t.Errorf("ILike(%q, %q)=%v want %v", tt.subject, tt.pattern, got, tt.want)
		}
	}
}

// toRegexp translates a pattern into an anchored regexp with the same
// meaning, for cross-checking.
func toRegexp(p string) *regexp.Regexp {
	var sb strings.Builder
	sb.WriteString(`(?s)^`)
	for _, r := range p {
		switch r {
		case '%':
			sb.WriteString(`.*`)
		case '_':
			sb.WriteString(`.`)
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString(`$`)
	return regexp.MustCompile(sb.String())
}

func TestLikeAgreesWithRegexp(t *testing.T) {
	subjects := []string{"", "a", "ab", "aab", "abab", "baba", "abcabc", "aaaa", "a_b", "a%b"}
	patterns := []string{"", "%", "_", "a%", "%a", "%a%", "a_b", "_%_", "%ab%ab", "a%a%a", "%b_", "__%", "a%b"}
	for _, s := range subjects {
		for _, p := range patterns {
			want := toRegexp(p).MatchString(s)
			if got := Like(s, p); got != want {
				t.Errorf("Like(%q, %q)=%v regexp says %v", s, p, got, want)
			}
		}
	}
}

func TestMatcherCheck(t *testing.T) {
	m := New(Options{MaxPatternLen: 4})
	if err := m.Check("ab%_"); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if err := m.Check("日本語日"); err != nil {
		t.Fatalf("Check counts characters, not bytes: %v", err)
	}
	if err := m.Check("abcde"); !errors.Is(err, ErrPatternTooLong) {
		t.Fatalf("err=%v want ErrPatternTooLong", err)
	}
	var unlimited Matcher
	if err := unlimited.Check(strings.Repeat("%", 10000)); err != nil {
		t.Fatalf("zero Matcher limited: %v", err)
	}
}

func TestMatcherTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := New(Options{Logger: logger})
	if !m.Like("abc", "a%") {
		t.Fatalf("Like failed")
	}
	if !strings.Contains(buf.String(), "like compare") {
		t.Fatalf("no trace output: %q", buf.String())
	}
	if !m.ILike("ABC", "a%") {
		t.Fatalf("ILike failed")
	}
}
