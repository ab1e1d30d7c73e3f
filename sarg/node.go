package sarg

import "github.com/wilhasse/go-mdb/like"

type truth int8

const (
	truthFalse truth = iota
	truthTrue
	truthUnknown
)

func truthOf(b bool) truth {
	if b {
		return truthTrue
	}
	return truthFalse
}

type node interface {
	eval(Row) truth
}

type andNode struct{ l, r node }

func (n andNode) eval(row Row) truth {
	l := n.l.eval(row)
	if l == truthFalse {
		return truthFalse
	}
	r := n.r.eval(row)
	if r == truthFalse {
		return truthFalse
	}
	if l == truthUnknown || r == truthUnknown {
		return truthUnknown
	}
	return truthTrue
}

type orNode struct{ l, r node }

func (n orNode) eval(row Row) truth {
	l := n.l.eval(row)
	if l == truthTrue {
		return truthTrue
	}
	r := n.r.eval(row)
	if r == truthTrue {
		return truthTrue
	}
	if l == truthUnknown || r == truthUnknown {
		return truthUnknown
	}
	return truthFalse
}

type notNode struct{ inner node }

func (n notNode) eval(row Row) truth {
	switch n.inner.eval(row) {
	case truthTrue:
		return truthFalse
	case truthFalse:
		return truthTrue
	}
	return truthUnknown
}

type equalNode struct{ col, val string }

func (n equalNode) eval(row Row) truth {
	s, ok := row.Text(n.col)
	if !ok {
		return truthUnknown
	}
	return truthOf(s == n.val)
}

type inNode struct {
	col    string
	set    map[string]bool
	negate bool
}

func (n inNode) eval(row Row) truth {
	s, ok := row.Text(n.col)
	if !ok {
		return truthUnknown
	}
	return truthOf(n.set[s] != n.negate)
}

type likeNode struct {
	col, pattern string
	fold         bool
	m            *like.Matcher
}

func (n likeNode) eval(row Row) truth {
	s, ok := row.Text(n.col)
	if !ok {
		return truthUnknown
	}
	if n.fold {
		return truthOf(n.m.ILike(s, n.pattern))
	}
	return truthOf(n.m.Like(s, n.pattern))
}

type nullNode struct {
	col  string
	want bool
}

func (n nullNode) eval(row Row) truth {
	_, ok := row.Text(n.col)
	return truthOf(!ok == n.want)
}
