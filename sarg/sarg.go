// Package sarg compiles WHERE clauses into row predicates.
//
// The clause is parsed with the MySQL grammar of sqlparser, so quoting
// and operator precedence follow MySQL. Supported forms are AND, OR,
// NOT, parentheses, LIKE, NOT LIKE, =, != and <>, IN, NOT IN, IS NULL
// and IS NOT NULL, each comparing a column with a literal. NULL follows
// three-valued logic: a comparison against a NULL column is unknown and
// the row does not match.
package sarg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xwb1989/sqlparser"

	"github.com/wilhasse/go-mdb/like"
)

var ErrUnsupportedExpr = errors.New("unsupported expression")

// Row is the view of a decoded row a filter needs. ok is false for NULL.
type Row interface {
	Text(column string) (value string, ok bool)
}

type Options struct {
	IgnoreCase bool          // LIKE compares case-insensitively
	Matcher    *like.Matcher // pattern checks and matching; nil uses defaults
}

// Filter is a compiled WHERE clause.
type Filter struct {
	where   string
	root    node
	columns []string
}

// Compile parses where, the text after the WHERE keyword.
func Compile(where string, opts Options) (*Filter, error) {
	if strings.TrimSpace(where) == "" {
		return nil, fmt.Errorf("empty filter")
	}
	stmt, err := sqlparser.Parse("select * from t where " + where)
	if err != nil {
		return nil, fmt.Errorf("parse filter: %w", err)
	}
	sel, ok := stmt.(*sqlparser.Select)
	if !ok || sel.Where == nil || sel.GroupBy != nil || sel.OrderBy != nil || sel.Limit != nil {
		return nil, fmt.Errorf("filter %q: %w", where, ErrUnsupportedExpr)
	}

	m := opts.Matcher
	if m == nil {
		m = like.New(like.Options{})
	}
	c := &compiler{matcher: m, ignoreCase: opts.IgnoreCase, seen: map[string]bool{}}
	root, err := c.compile(sel.Where.Expr)
	if err != nil {
		return nil, err
	}
	return &Filter{where: where, root: root, columns: c.columns}, nil
}

// Match reports whether row satisfies the filter.
func (f *Filter) Match(row Row) bool {
	return f.root.eval(row) == truthTrue
}

// Columns lists the referenced columns in order of first use.
func (f *Filter) Columns() []string { return f.columns }

func (f *Filter) String() string { return f.where }

type compiler struct {
	matcher    *like.Matcher
	ignoreCase bool
	columns    []string
	seen       map[string]bool
}

func (c *compiler) compile(expr sqlparser.Expr) (node, error) {
	switch e := expr.(type) {
	case *sqlparser.AndExpr:
		l, r, err := c.pair(e.Left, e.Right)
		if err != nil {
			return nil, err
		}
		return andNode{l, r}, nil
	case *sqlparser.OrExpr:
		l, r, err := c.pair(e.Left, e.Right)
		if err != nil {
			return nil, err
		}
		return orNode{l, r}, nil
	case *sqlparser.NotExpr:
		inner, err := c.compile(e.Expr)
		if err != nil {
			return nil, err
		}
		return notNode{inner}, nil
	case *sqlparser.ParenExpr:
		return c.compile(e.Expr)
	case *sqlparser.ComparisonExpr:
		return c.comparison(e)
	case *sqlparser.IsExpr:
		col, err := c.column(e.Expr)
		if err != nil {
			return nil, err
		}
		switch e.Operator {
		case sqlparser.IsNullStr:
			return nullNode{col: col, want: true}, nil
		case sqlparser.IsNotNullStr:
			return nullNode{col: col, want: false}, nil
		}
		return nil, fmt.Errorf("%q: %w", e.Operator, ErrUnsupportedExpr)
	default:
		return nil, fmt.Errorf("%s: %w", sqlparser.String(expr), ErrUnsupportedExpr)
	}
}

func (c *compiler) pair(a, b sqlparser.Expr) (node, node, error) {
	l, err := c.compile(a)
	if err != nil {
		return nil, nil, err
	}
	r, err := c.compile(b)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func (c *compiler) comparison(e *sqlparser.ComparisonExpr) (node, error) {
	if e.Escape != nil {
		return nil, fmt.Errorf("ESCAPE: %w", ErrUnsupportedExpr)
	}
	col, err := c.column(e.Left)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case sqlparser.InStr, sqlparser.NotInStr:
		tuple, ok := e.Right.(sqlparser.ValTuple)
		if !ok {
			return nil, fmt.Errorf("IN needs a value list: %w", ErrUnsupportedExpr)
		}
		set := make(map[string]bool, len(tuple))
		for _, v := range tuple {
			s, err := literal(v)
			if err != nil {
				return nil, err
			}
			set[s] = true
		}
		return inNode{col: col, set: set, negate: e.Operator == sqlparser.NotInStr}, nil
	}

	val, err := literal(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case sqlparser.EqualStr:
		return equalNode{col: col, val: val}, nil
	case sqlparser.NotEqualStr:
		return notNode{equalNode{col: col, val: val}}, nil
	case sqlparser.LikeStr, sqlparser.NotLikeStr:
		if err := c.matcher.Check(val); err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		var n node = likeNode{col: col, pattern: val, fold: c.ignoreCase, m: c.matcher}
		if e.Operator == sqlparser.NotLikeStr {
			n = notNode{n}
		}
		return n, nil
	default:
		return nil, fmt.Errorf("operator %q: %w", e.Operator, ErrUnsupportedExpr)
	}
}

func (c *compiler) column(expr sqlparser.Expr) (string, error) {
	col, ok := expr.(*sqlparser.ColName)
	if !ok {
		return "", fmt.Errorf("%s is not a column: %w", sqlparser.String(expr), ErrUnsupportedExpr)
	}
	name := col.Name.String()
	if key := strings.ToLower(name); !c.seen[key] {
		c.seen[key] = true
		c.columns = append(c.columns, name)
	}
	return name, nil
}

func literal(expr sqlparser.Expr) (string, error) {
	v, ok := expr.(*sqlparser.SQLVal)
	if !ok {
		return "", fmt.Errorf("%s is not a literal: %w", sqlparser.String(expr), ErrUnsupportedExpr)
	}
	switch v.Type {
	case sqlparser.StrVal, sqlparser.IntVal, sqlparser.FloatVal:
		return string(v.Val), nil
	default:
		return "", fmt.Errorf("literal %s: %w", sqlparser.String(v), ErrUnsupportedExpr)
	}
}
