// Package rules compiles and evaluates the small boolean expression
// language used for prune and filter rules.
//
// A rule is evaluated against a device's attribute mapping. Identifiers
// resolve to attribute values; two helper predicates are available inside
// expressions: contains(haystack, needle) for substring matching and
// matches(value, pattern) for regular expression search. The grammar:
//
//	expr := and { ("or" | "||") and }
//	and  := not { ("and" | "&&") not }
//	not  := ("not" | "!") not | cmp
//	cmp  := term [ ("==" | "!=") term ]
//	term := ident | string | true | false | null | "(" expr ")"
//	      | ident "(" expr { "," expr } ")"
//
// Evaluation is deliberately fail-open: a rule whose evaluation errors
// (missing attribute, bad regexp) is treated as non-matching so one bad
// user-supplied rule cannot abort the whole listing.
package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Rule is a compiled rule expression.
type Rule struct {
	src  string
	root node
}

// Source returns the original expression text.
func (r Rule) Source() string { return r.src }

// Compile parses a rule expression. A syntax error is returned to the
// caller so misconfigured rules are diagnosed at startup rather than
// silently never matching.
func Compile(src string) (Rule, error) {
	p := &parser{lex: lexer{input: src}}
	p.next()
	root, err := p.parseExpr()
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: %w", src, err)
	}
	if p.tok.kind != tokEOF {
		return Rule{}, fmt.Errorf("rule %q: unexpected %q", src, p.tok.text)
	}
	return Rule{src: src, root: root}, nil
}

// CompileAll compiles every expression in order.
func CompileAll(srcs []string) ([]Rule, error) {
	out := make([]Rule, 0, len(srcs))
	for _, s := range srcs {
		r, err := Compile(s)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Eval evaluates the rule against an attribute mapping.
func (r Rule) Eval(attrs map[string]any) (bool, error) {
	v, err := r.root.eval(attrs)
	if err != nil {
		return false, err
	}
	return truthy(v), nil
}

// Matches reports whether any rule matches the attribute mapping. Rules
// are tried in order and the first match wins; a rule that fails to
// evaluate is skipped.
func Matches(attrs map[string]any, rs []Rule) bool {
	for _, r := range rs {
		ok, err := r.Eval(attrs)
		if err != nil {
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

// truthy follows the attribute value conventions: null is false, strings
// are true when non-empty, numbers when non-zero.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return false
	}
}

// display normalizes a value for loose comparison: rm == "1" and
// rm == true both match a removable device.
func display(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		if t {
			return "true"
		}
		return "false"
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

func equal(a, b any) bool {
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			return ab == bb
		}
		// "1"/"0" string forms of booleans
		if bs, ok := b.(string); ok && (bs == "1" || bs == "0") {
			return ab == (bs == "1")
		}
	}
	if _, ok := b.(bool); ok {
		return equal(b, a)
	}
	return display(a) == display(b)
}

// --- AST ---

type node interface {
	eval(attrs map[string]any) (any, error)
}

type literal struct{ val any }

func (n literal) eval(map[string]any) (any, error) { return n.val, nil }

type ident struct{ name string }

func (n ident) eval(attrs map[string]any) (any, error) {
	v, ok := attrs[n.name]
	if !ok {
		return nil, fmt.Errorf("unknown attribute %q", n.name)
	}
	return v, nil
}

type notNode struct{ operand node }

func (n notNode) eval(attrs map[string]any) (any, error) {
	v, err := n.operand.eval(attrs)
	if err != nil {
		return nil, err
	}
	return !truthy(v), nil
}

type binNode struct {
	op          string
	left, right node
}

func (n binNode) eval(attrs map[string]any) (any, error) {
	l, err := n.left.eval(attrs)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case "and":
		if !truthy(l) {
			return false, nil
		}
		r, err := n.right.eval(attrs)
		if err != nil {
			return nil, err
		}
		return truthy(r), nil
	case "or":
		if truthy(l) {
			return true, nil
		}
		r, err := n.right.eval(attrs)
		if err != nil {
			return nil, err
		}
		return truthy(r), nil
	}
	r, err := n.right.eval(attrs)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case "==":
		return equal(l, r), nil
	case "!=":
		return !equal(l, r), nil
	}
	return nil, fmt.Errorf("unknown operator %q", n.op)
}

type callNode struct {
	name string
	args []node
}

func (n callNode) eval(attrs map[string]any) (any, error) {
	vals := make([]any, len(n.args))
	for i, a := range n.args {
		v, err := a.eval(attrs)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	switch n.name {
	case "contains":
		if len(vals) != 2 {
			return nil, fmt.Errorf("contains() takes 2 arguments, got %d", len(vals))
		}
		return strings.Contains(display(vals[0]), display(vals[1])), nil
	case "matches":
		if len(vals) != 2 {
			return nil, fmt.Errorf("matches() takes 2 arguments, got %d", len(vals))
		}
		re, err := regexp.Compile(display(vals[1]))
		if err != nil {
			return nil, fmt.Errorf("matches(): %w", err)
		}
		return re.MatchString(display(vals[0])), nil
	}
	return nil, fmt.Errorf("unknown function %q", n.name)
}

// --- Lexer ---

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokEq
	tokNe
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) lex() (token, error) {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return token{kind: tokEOF}, nil
	}

	c := l.input[l.pos]
	switch {
	case c == '(':
		l.pos++
		return token{kind: tokLParen, text: "("}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen, text: ")"}, nil
	case c == ',':
		l.pos++
		return token{kind: tokComma, text: ","}, nil
	case c == '=':
		if strings.HasPrefix(l.input[l.pos:], "==") {
			l.pos += 2
			return token{kind: tokEq, text: "=="}, nil
		}
		return token{}, fmt.Errorf("unexpected %q (did you mean ==?)", "=")
	case c == '!':
		if strings.HasPrefix(l.input[l.pos:], "!=") {
			l.pos += 2
			return token{kind: tokNe, text: "!="}, nil
		}
		l.pos++
		return token{kind: tokNot, text: "!"}, nil
	case c == '&':
		if strings.HasPrefix(l.input[l.pos:], "&&") {
			l.pos += 2
			return token{kind: tokAnd, text: "&&"}, nil
		}
		return token{}, fmt.Errorf("unexpected %q", "&")
	case c == '|':
		if strings.HasPrefix(l.input[l.pos:], "||") {
			l.pos += 2
			return token{kind: tokOr, text: "||"}, nil
		}
		return token{}, fmt.Errorf("unexpected %q", "|")
	case c == '"' || c == '\'':
		quote := c
		end := l.pos + 1
		for end < len(l.input) && l.input[end] != quote {
			end++
		}
		if end >= len(l.input) {
			return token{}, fmt.Errorf("unterminated string")
		}
		text := l.input[l.pos+1 : end]
		l.pos = end + 1
		return token{kind: tokString, text: text}, nil
	case isIdentStart(c):
		end := l.pos
		for end < len(l.input) && isIdentPart(l.input[end]) {
			end++
		}
		text := l.input[l.pos:end]
		l.pos = end
		switch text {
		case "and":
			return token{kind: tokAnd, text: text}, nil
		case "or":
			return token{kind: tokOr, text: text}, nil
		case "not":
			return token{kind: tokNot, text: text}, nil
		}
		return token{kind: tokIdent, text: text}, nil
	}
	return token{}, fmt.Errorf("unexpected character %q", string(c))
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '-' || c == ':'
}

// --- Parser ---

type parser struct {
	lex lexer
	tok token
	err error
}

func (p *parser) next() {
	if p.err != nil {
		return
	}
	p.tok, p.err = p.lex.lex()
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.err == nil && p.tok.kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = binNode{op: "or", left: left, right: right}
	}
	return left, p.err
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.err == nil && p.tok.kind == tokAnd {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = binNode{op: "and", left: left, right: right}
	}
	return left, p.err
}

func (p *parser) parseNot() (node, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.tok.kind == tokNot {
		p.next()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return notNode{operand: operand}, nil
	}
	return p.parseCmp()
}

func (p *parser) parseCmp() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if p.err == nil && (p.tok.kind == tokEq || p.tok.kind == tokNe) {
		op := "=="
		if p.tok.kind == tokNe {
			op = "!="
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return binNode{op: op, left: left, right: right}, nil
	}
	return left, p.err
}

func (p *parser) parseTerm() (node, error) {
	if p.err != nil {
		return nil, p.err
	}
	switch p.tok.kind {
	case tokString:
		n := literal{val: p.tok.text}
		p.next()
		return n, p.err
	case tokLParen:
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, fmt.Errorf("expected )")
		}
		p.next()
		return inner, p.err
	case tokIdent:
		name := p.tok.text
		p.next()
		if p.err != nil {
			return nil, p.err
		}
		switch name {
		case "true":
			return literal{val: true}, nil
		case "false":
			return literal{val: false}, nil
		case "null", "none":
			return literal{val: nil}, nil
		}
		if p.tok.kind == tokLParen {
			return p.parseCall(name)
		}
		return ident{name: name}, nil
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of expression")
	}
	return nil, fmt.Errorf("unexpected %q", p.tok.text)
}

func (p *parser) parseCall(name string) (node, error) {
	// consume "("
	p.next()
	call := callNode{name: name}
	if p.tok.kind == tokRParen {
		p.next()
		return call, p.err
	}
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call.args = append(call.args, arg)
		if p.tok.kind == tokComma {
			p.next()
			continue
		}
		break
	}
	if p.tok.kind != tokRParen {
		return nil, fmt.Errorf("expected ) after %s arguments", name)
	}
	p.next()
	return call, p.err
}
