package sarg

import (
	"errors"
	"strings"
	"testing"

	"github.com/wilhasse/go-mdb/like"
)

type mapRow map[string]string

func (r mapRow) Text(col string) (string, bool) {
	v, ok := r[strings.ToLower(col)]
	return v, ok
}

func TestFilterMatch(t *testing.T) {
	row := mapRow{"name": "Smith & Sons", "city": "Lisboa", "id": "7"}
	cases := []struct {
		where string
		want  bool
	}{
		{"name like 'Smith%'", true},
		{"name like 'smith%'", false},
		{"name not like '%Jones%'", true},
		{"city = 'Lisboa'", true},
		{"city <> 'Lisboa'", false},
		{"city != 'Porto'", true},
		{"id = 7", true},
		{"id in ('1', '7')", true},
		{"id not in (1, 2)", true},
		{"name like 'S%' and city = 'Porto'", false},
		{"name like 'S%' or city = 'Porto'", true},
		{"not (city = 'Porto')", true},
		{"(city = 'Porto' or city = 'Lisboa') and id = '7'", true},
		{"zip is null", true},
		{"zip is not null", false},
		{"city is not null", true},
		{"NAME LIKE '_mith%'", true},
	}
	for _, tc := range cases {
		f, err := Compile(tc.where, Options{})
		if err != nil {
			t.Fatalf("Compile(%q): %v", tc.where, err)
		}
		if got := f.Match(row); got != tc.want {
			t.Errorf("Match(%q)=%v, want %v", tc.where, got, tc.want)
		}
	}
}

func TestFilterNullLogic(t *testing.T) {
	row := mapRow{"city": "Porto"}
	cases := []struct {
		where string
		want  bool
	}{
		{"zip = 'x'", false},
		{"not zip = 'x'", false},
		{"zip like '%'", false},
		{"zip = 'x' or city = 'Porto'", true},
		{"not (zip = 'x' and city = 'Lisboa')", true},
		{"zip not in ('a')", false},
	}
	for _, tc := range cases {
		f, err := Compile(tc.where, Options{})
		if err != nil {
			t.Fatalf("Compile(%q): %v", tc.where, err)
		}
		if got := f.Match(row); got != tc.want {
			t.Errorf("Match(%q)=%v, want %v", tc.where, got, tc.want)
		}
	}
}

func TestIgnoreCase(t *testing.T) {
	f, err := Compile("name like 'smith%'", Options{IgnoreCase: true})
	if err != nil {
		t.Fatal(err)
	}
	if !f.Match(mapRow{"name": "SMITH"}) {
		t.Fatalf("IgnoreCase did not fold")
	}
}

func TestCompileErrors(t *testing.T) {
	for _, where := range []string{
		"",
		"name >",
		"a = b",
		"1 = name",
		"name > 'a'",
		"name like 'a' escape '!'",
		"length(name) = 1",
		"name = 'a' order by name",
	} {
		if _, err := Compile(where, Options{}); err == nil {
			t.Errorf("Compile(%q) succeeded", where)
		}
	}
	if _, err := Compile("a > 1", Options{}); !errors.Is(err, ErrUnsupportedExpr) {
		t.Fatalf("a > 1 err=%v", err)
	}
}

func TestPatternLimit(t *testing.T) {
	m := like.New(like.Options{MaxPatternLen: 3})
	if _, err := Compile("name like 'abcd'", Options{Matcher: m}); !errors.Is(err, like.ErrPatternTooLong) {
		t.Fatalf("err=%v", err)
	}
	if _, err := Compile("name = 'abcdef'", Options{Matcher: m}); err != nil {
		t.Fatalf("equality should not be limited: %v", err)
	}
}

func TestColumns(t *testing.T) {
	f, err := Compile("a = '1' and (B like 'x%' or a is null) and c in ('z')", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(f.Columns(), ","); got != "a,B,c" {
		t.Fatalf("Columns=%s", got)
	}
	if f.String() == "" {
		t.Fatalf("String empty")
	}
}
