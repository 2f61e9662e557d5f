package ast

// UnitKind distinguishes the main contract from importable modules.
type UnitKind int

const (
	ContractUnit UnitKind = iota
	ModuleUnit
)

func (k UnitKind) String() string {
	if k == ModuleUnit {
		return "module"
	}
	return "contract"
}

// Contract represents a compilation unit: a contract or an importable module (one per file)
// Example: "contract Main { use lib1; fn run() { ... } }", "module lib1 { ... }"
type Contract struct {
	Pos             Position
	EndPos          Position
	LeadingComments []ContractItem // Comments before the unit declaration
	Kind            UnitKind
	Name            Ident
	Items           []ContractItem // Items inside the unit block
	meta
}

// Position tracks location information for error reporting and tooling
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// Ident represents any identifier like variable names, type names, etc.
// Example: "Main", "queue", "popqueue"
type Ident struct {
	Pos    Position
	EndPos Position
	Value  string
	meta
}

// BadContractItem represents parse errors in unit-level items
type BadContractItem struct {
	Bad BadNode
}

// BadExpr represents parse errors in expressions
type BadExpr struct {
	Bad BadNode
}

// BadNode contains error information for failed parsing
type BadNode struct {
	Pos     Position
	EndPos  Position
	Message string
	meta
}

// DocComment represents documentation comments
// Example: "/// Pops every queued value"
type DocComment struct {
	Pos    Position
	EndPos Position
	Text   string
	meta
}

// Comment represents regular comments
// Example: "// This is a comment"
type Comment struct {
	Pos    Position
	EndPos Position
	Text   string
	meta
}

// Attribute represents attributes like #[storage]
type Attribute struct {
	Pos    Position
	EndPos Position
	Name   string
	meta
}

// Use imports another module by name
// Example: "use lib1;"
type Use struct {
	Pos    Position
	EndPos Position
	Module Ident
	meta
}

// ConstDecl declares a compile-time constant
// Example: "const TREE_FIDDY: U256 = 350;", "const FOO: U256[3] = [1, 2, 3];"
type ConstDecl struct {
	Pos    Position
	EndPos Position
	Name   Ident
	Type   *VariableType
	Value  Expr
	meta
}

// Struct represents struct declarations; #[storage] structs declare persistent state
// Example: "#[storage] struct State { queue: DynArray<U256, 5>, }"
type Struct struct {
	Pos        Position
	EndPos     Position
	Attribute  *Attribute
	DocComment *DocComment
	Name       Ident
	Fields     []*StructField
	meta
}

// IsStorage reports whether the struct declares persistent state.
func (s *Struct) IsStorage() bool {
	return s.Attribute != nil && s.Attribute.Name == "storage"
}

// StructField represents individual fields within a struct
// Example: "queue: DynArray<U256, 5>", "foo: U256[4]"
type StructField struct {
	Pos          Position
	EndPos       Position
	Name         Ident
	VariableType *VariableType
	meta
}

// VariableType represents type specifications.
// Array types set Elem and Len; numeric generic arguments set Size.
// Example: "U256", "lib1::Foo", "DynArray<U256, 5>", "String<100>", "U256[4]"
type VariableType struct {
	Pos      Position
	EndPos   Position
	Module   *Ident
	Name     Ident
	Generics []*VariableType
	Size     string
	Elem     *VariableType
	Len      string
	meta
}

// IsArray reports whether the type is a fixed-size array "T[N]".
func (t *VariableType) IsArray() bool {
	return t.Elem != nil
}

// Function represents function declarations
// Example: "ext fn total() -> U256 { ... }", "fn bump() { ... }"
type Function struct {
	Pos        Position
	EndPos     Position
	Attribute  *Attribute
	DocComment *DocComment
	External   bool
	Name       Ident
	Params     []*FunctionParam
	Return     *VariableType
	Body       *FunctionBlock
	meta
}

// FunctionParam represents function parameters
// Example: "owner: Address", "amount: U256"
type FunctionParam struct {
	Pos    Position
	EndPos Position
	Name   Ident
	Type   *VariableType
	meta
}

// FunctionBlock represents a braced block: a function body or the body of if/for
// Example: "{ let x: U256 = 1; State.counter += x; }"
type FunctionBlock struct {
	Pos      Position
	EndPos   Position
	Items    []FunctionBlockItem
	TailExpr *ExprStmt // optional final expr without semicolon
	meta
}

// ExprStmt represents expression statements
// Example: "State.queue.pop();", "bump();"
type ExprStmt struct {
	Pos       Position
	EndPos    Position
	Expr      Expr
	Semicolon bool // true if a `;` was present
	meta
}

// ReturnStmt represents return statements
// Example: "return total;", "return;"
type ReturnStmt struct {
	Pos    Position
	EndPos Position
	Value  Expr // nil if plain `return;`
	meta
}

// LetStmt represents variable declarations
// Example: "let total: U256 = 0;", "let mut xs: DynArray<U256, 3> = [];"
type LetStmt struct {
	Pos    Position
	EndPos Position
	Mut    bool // true for "let mut"
	Name   Ident
	Type   *VariableType // nil when inferred
	Expr   Expr
	meta
}

// AssignStmt represents assignment statements
// Example: "State.counter = 1;", "total += x;"
type AssignStmt struct {
	Pos      Position
	EndPos   Position
	Target   Expr
	Operator AssignType
	Value    Expr
	meta
}

// AssertStmt represents assert statements
// Example: "assert!(x > 0);"
type AssertStmt struct {
	Pos    Position
	EndPos Position
	Args   []Expr
	meta
}

// IfStmt represents conditional statements; Else is either nil, a block or another IfStmt
// Example: "if x > 5 { return x; } else { return 0; }"
type IfStmt struct {
	Pos    Position
	EndPos Position
	Cond   Expr
	Then   *FunctionBlock
	Else   FunctionBlockItem
	meta
}

// ForStmt represents a loop over an array, dynamic array, literal list or range
// Example: "for i: U256 in range(10) { total += i; }"
type ForStmt struct {
	Pos    Position
	EndPos Position
	Var    Ident
	Type   *VariableType
	Iter   Expr
	Body   *FunctionBlock
	meta
}

// BreakStmt represents "break;"
type BreakStmt struct {
	Pos    Position
	EndPos Position
	meta
}

// ContinueStmt represents "continue;"
type ContinueStmt struct {
	Pos    Position
	EndPos Position
	meta
}

// BinaryExpr represents binary operations
// Example: "amount + fee", "i > 5"
type BinaryExpr struct {
	Pos    Position
	EndPos Position
	Op     string
	Left   Expr
	Right  Expr
	meta
}

// UnaryExpr represents unary operations
// Example: "-amount", "!condition"
type UnaryExpr struct {
	Pos    Position
	EndPos Position
	Op     string
	Value  Expr
	meta
}

// CallExpr represents function and method calls
// Example: "bump()", "lib1::popqueue()", "State.queue.pop()", "range(1, 10)"
type CallExpr struct {
	Pos    Position
	EndPos Position
	Callee Expr
	Args   []Expr
	meta
}

// FieldAccessExpr represents field access
// Example: "State.queue", "s.foo"
type FieldAccessExpr struct {
	Pos    Position
	EndPos Position
	Target Expr
	Field  string
	meta
}

// IndexExpr represents array indexing
// Example: "State.xs[i]", "s.foo[2]"
type IndexExpr struct {
	Pos    Position
	EndPos Position
	Target Expr
	Index  Expr
	meta
}

// StructLiteralExpr represents struct literals
// Example: "Point { x: 1, y: 2 }"
type StructLiteralExpr struct {
	Pos    Position
	EndPos Position
	Name   string
	Type   *CalleePath
	Fields []StructLiteralField
	meta
}

// LiteralKind classifies literal tokens.
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	HexLiteral
	StringLiteral
	BytesLiteral
	BoolLiteral
)

// LiteralExpr represents literal values; Value holds the literal without quotes or b prefix
// Example: "100", "0x42", "\"hello\"", "b\"asdf\"", "true"
type LiteralExpr struct {
	Pos    Position
	EndPos Position
	Kind   LiteralKind
	Value  string
	meta
}

// IdentExpr represents simple identifiers
// Example: "amount", "State", "range"
type IdentExpr struct {
	Pos    Position
	EndPos Position
	Name   string
	meta
}

// CalleePath represents module-qualified names
// Example: "lib1::State", "lib1::popqueue"
type CalleePath struct {
	Pos    Position
	EndPos Position
	Parts  []Ident
	meta
}

// StructLiteralField represents fields in struct literals
// Example: "x: 1" in "Point { x: 1, y: 2 }"
type StructLiteralField struct {
	Pos    Position
	EndPos Position
	Name   Ident
	Value  Expr
	meta
}

// ParenExpr represents parenthesized expressions
// Example: "(amount + fee)"
type ParenExpr struct {
	Pos    Position
	EndPos Position
	Value  Expr
	meta
}

// TupleExpr represents tuple expressions
// Example: "(from, amount)"
type TupleExpr struct {
	Pos      Position
	EndPos   Position
	Elements []Expr
	meta
}

// ListExpr represents list literals
// Example: "[1, 2, 3]", "[f(), f(), f()]", "[[1, 2], [3, 4]]"
type ListExpr struct {
	Pos      Position
	EndPos   Position
	Elements []Expr
	meta
}

// IfExpr is the conditional expression form; exactly one branch is evaluated
// Example: "if flag { [1, 2, 3] } else { other() }"
type IfExpr struct {
	Pos    Position
	EndPos Position
	Cond   Expr
	Then   Expr
	Else   Expr
	meta
}
