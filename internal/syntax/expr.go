package syntax

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/buildlens/internal/position"
)

// Kind classifies an expression node.
type Kind int

const (
	KindOther Kind = iota
	KindString
	KindList
	KindCall
	KindIdentifier
	KindDict
	KindNumber
)

var kindNames = map[Kind]string{
	KindOther:      "other",
	KindString:     "string",
	KindList:       "list",
	KindCall:       "call",
	KindIdentifier: "identifier",
	KindDict:       "dict",
	KindNumber:     "number",
}

func (k Kind) String() string { return kindNames[k] }

var nodeKinds = map[string]Kind{
	"string":     KindString,
	"list":       KindList,
	"call":       KindCall,
	"identifier": KindIdentifier,
	"dictionary": KindDict,
	"integer":    KindNumber,
	"float":      KindNumber,
}

// Expr is a read-only view of an expression node.
type Expr struct {
	node *sitter.Node
	src  []byte
}

// IsZero reports whether e refers to no node.
func (e Expr) IsZero() bool { return e.node == nil }

// Node returns the underlying tree-sitter node.
func (e Expr) Node() *sitter.Node { return e.node }

// Kind returns the expression's kind. A zero Expr is KindOther.
func (e Expr) Kind() Kind {
	if e.IsZero() {
		return KindOther
	}
	return nodeKinds[e.node.Type()]
}

// Text returns the expression's source text.
func (e Expr) Text() string {
	if e.IsZero() {
		return ""
	}
	return string(e.src[e.node.StartByte():e.node.EndByte()])
}

// Start returns the zero-based position of the first byte of e.
func (e Expr) Start() position.Point {
	if e.IsZero() {
		return position.Point{}
	}
	return pointOf(e.node.StartPoint())
}

// End returns the zero-based position just past the last byte of e.
func (e Expr) End() position.Point {
	if e.IsZero() {
		return position.Point{}
	}
	return pointOf(e.node.EndPoint())
}

// FirstLineEnd returns End for a single-line expression, otherwise the end of
// the line e starts on.
func (e Expr) FirstLineEnd() position.Point {
	text := e.Text()
	i := strings.IndexByte(text, '\n')
	if i < 0 {
		return e.End()
	}
	text = strings.TrimSuffix(text[:i], "\r")
	start := e.Start()
	return position.Point{Row: start.Row, Col: start.Col + len(text)}
}

// AsString returns e as a string literal.
func (e Expr) AsString() (String, bool) {
	if e.IsZero() || e.Kind() != KindString {
		return String{}, false
	}
	prefix, quote, value, ok := splitQuoted(e.Text())
	if !ok {
		return String{}, false
	}
	return String{Expr: e, value: value, offset: prefix + quote}, true
}

// AsList returns the elements of a list literal, leaving out comments.
func (e Expr) AsList() ([]Expr, bool) {
	if e.IsZero() || e.Kind() != KindList {
		return nil, false
	}
	children := namedChildren(e.node)
	elems := make([]Expr, len(children))
	for i, c := range children {
		elems[i] = Expr{node: c, src: e.src}
	}
	return elems, true
}

// AsCall returns e as a call expression.
func (e Expr) AsCall() (Call, bool) {
	if e.IsZero() || e.Kind() != KindCall {
		return Call{}, false
	}
	return Call{Expr: e}, true
}

// String is a string literal. Value is the raw text between the quotes;
// escape sequences are not decoded.
type String struct {
	Expr
	value  string
	offset int
}

// Value returns the literal's contents without prefix or quotes.
func (s String) Value() string { return s.value }

// ValueStart returns the position of the first character of the value, just
// past the opening quote.
func (s String) ValueStart() position.Point {
	p := s.Start()
	p.Col += s.offset
	return p
}

// splitQuoted splits a python string token such as r"abc" or '''x''' into
// prefix length, quote length and contents.
func splitQuoted(text string) (prefix, quote int, value string, ok bool) {
	for prefix < len(text) && strings.IndexByte("rRbBuUfF", text[prefix]) >= 0 {
		prefix++
	}
	rest := text[prefix:]
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(rest) >= 2*len(q) && strings.HasPrefix(rest, q) && strings.HasSuffix(rest, q) {
			return prefix, len(q), rest[len(q) : len(rest)-len(q)], true
		}
	}
	return 0, 0, "", false
}

// Argument is one argument of a call. Name is empty for positional arguments.
type Argument struct {
	Name  string
	Value Expr
}

// Call is a call expression such as cc_library(name = "x").
type Call struct {
	Expr
}

// Callee returns the source text of the called expression, e.g. "cc_library"
// or "native.genrule".
func (c Call) Callee() string {
	fn := c.node.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	return string(c.src[fn.StartByte():fn.EndByte()])
}

// Arguments returns the call's arguments in source order. Splat arguments
// (*args, **kwargs) are returned as positional.
func (c Call) Arguments() []Argument {
	args := c.node.ChildByFieldName("arguments")
	if args == nil || args.Type() != "argument_list" {
		return nil
	}
	var out []Argument
	for _, n := range namedChildren(args) {
		if n.Type() != "keyword_argument" {
			out = append(out, Argument{Value: Expr{node: n, src: c.src}})
			continue
		}
		name := n.ChildByFieldName("name")
		value := n.ChildByFieldName("value")
		if name == nil || value == nil {
			continue
		}
		out = append(out, Argument{
			Name:  string(c.src[name.StartByte():name.EndByte()]),
			Value: Expr{node: value, src: c.src},
		})
	}
	return out
}

// Keywords maps each keyword argument name to its value. When a name repeats,
// the last occurrence wins.
func (c Call) Keywords() map[string]Expr {
	kw := make(map[string]Expr)
	for _, a := range c.Arguments() {
		if a.Name == "" {
			continue
		}
		kw[a.Name] = a.Value
	}
	return kw
}
