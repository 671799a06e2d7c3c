package query

import (
	"strings"
)

const OpExists = "exists"

// characters that force a value to be quoted.
const luceneSpecial = `+!(){}[]^"~:\/`

// Lucene renders n in the Lucene query string syntax.
func (n Node) Lucene() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n Node) write(b *strings.Builder) {
	switch n.Logic {
	case LogicAnd, LogicOr:
		sep := " AND "
		if n.Logic == LogicOr {
			sep = " OR "
		}
		for i, c := range n.Children {
			if i > 0 {
				b.WriteString(sep)
			}
			c.writeNested(b, n.Logic)
		}
	case LogicNot:
		b.WriteString("NOT ")
		n.Children[0].writeNested(b, LogicNot)
	default:
		n.writeCondition(b)
	}
}

// writeNested wraps groups of another kind in parentheses.
func (n Node) writeNested(b *strings.Builder, parent Logic) {
	if (n.Logic == LogicAnd || n.Logic == LogicOr) && n.Logic != parent {
		b.WriteByte('(')
		n.write(b)
		b.WriteByte(')')
		return
	}
	n.write(b)
}

func (n Node) writeCondition(b *strings.Builder) {
	switch n.Op {
	case OpExists:
		b.WriteString("_exists_:" + n.Field)
	case "=", ":":
		b.WriteString(n.Field + ":" + term(n.Value, n.Quoted))
	case "!=":
		b.WriteString("NOT " + n.Field + ":" + term(n.Value, n.Quoted))
	case "~=":
		b.WriteString(n.Field + ":*" + escape(n.Value) + "*")
	case "!~=":
		b.WriteString("NOT " + n.Field + ":*" + escape(n.Value) + "*")
	case ">=":
		b.WriteString(n.Field + ":[" + rangeTerm(n.Value) + " TO *]")
	case ">":
		b.WriteString(n.Field + ":{" + rangeTerm(n.Value) + " TO *}")
	case "<=":
		b.WriteString(n.Field + ":[* TO " + rangeTerm(n.Value) + "]")
	case "<":
		b.WriteString(n.Field + ":{* TO " + rangeTerm(n.Value) + "}")
	}
}

func needsQuotes(v string) bool {
	switch v {
	case "", "AND", "OR", "NOT", "TO":
		return true
	}
	return strings.HasPrefix(v, "-") ||
		strings.ContainsAny(v, luceneSpecial) ||
		strings.IndexFunc(v, func(r rune) bool { return r == ' ' || r == '\t' }) >= 0
}

func quote(v string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(v) + `"`
}

// term leaves plain values bare so that * and ? stay wildcards.
func term(v string, quoted bool) string {
	if quoted || needsQuotes(v) {
		return quote(v)
	}
	return v
}

func rangeTerm(v string) string {
	if v == "*" {
		return v
	}
	if needsQuotes(v) {
		return quote(v)
	}
	return v
}

func escape(v string) string {
	var b strings.Builder
	for _, r := range v {
		if strings.ContainsRune(luceneSpecial+" *?&|-", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Translate parses where and renders it as a Lucene query.
func Translate(where string) (string, error) {
	n, err := Parse(where)
	if err != nil || n == nil {
		return "", err
	}
	return n.Lucene(), nil
}

// Combine joins a Lucene query with the translation of a where expression.
func Combine(q, where string) (string, error) {
	w, err := Translate(where)
	if err != nil {
		return "", err
	}
	q = strings.TrimSpace(q)
	switch {
	case w == "":
		return q, nil
	case q == "":
		return w, nil
	}
	return "(" + q + ") AND (" + w + ")", nil
}
