package grammar

import "github.com/alecthomas/participle/v2/lexer"

// Catalogue is a list of builtin signatures, one per declaration:
//
//	/// Iterates [0, stop)
//	fn range(stop: Int) -> Range const;
//	method DynArray.pop() -> Elem mutating;
type Catalogue struct {
	Pos        lexer.Position
	Signatures []*Signature `@@*`
}

type DocComment struct {
	Pos  lexer.Position
	Text string `@DocComment`
}

type Signature struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Doc    []*DocComment `@@*`
	Kind   string        `@("fn" | "method")`
	Path   []string      `@Ident { "." @Ident } "("`
	Params []*Param      `[ @@ { "," @@ } ] ")"`
	Return *TypeRef      `[ "->" @@ ]`
	Flags  []string      `{ @("mutating" | "const") } ";"`
}

type Param struct {
	Pos  lexer.Position
	Name string   `@Ident ":"`
	Type *TypeRef `@@`
}

type TypeRef struct {
	Pos  lexer.Position
	Name string `@Ident`
}

// IsMethod reports whether the signature is declared on a receiver type
func (s *Signature) IsMethod() bool {
	return s.Kind == "method"
}

// Name is the callable name without its receiver
func (s *Signature) Name() string {
	return s.Path[len(s.Path)-1]
}

// Receiver is the receiver type of a method, empty for functions
func (s *Signature) Receiver() string {
	if len(s.Path) < 2 {
		return ""
	}
	return s.Path[0]
}

// HasFlag reports whether the signature carries the given trailing flag
func (s *Signature) HasFlag(flag string) bool {
	for _, f := range s.Flags {
		if f == flag {
			return true
		}
	}
	return false
}
