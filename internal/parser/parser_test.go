package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loopsafe/internal/ast"
)

func parseOK(t *testing.T, source string) *ast.Contract {
	t.Helper()
	contract, parseErrors, scanErrors := ParseSource("test.ka", source)
	require.Empty(t, scanErrors, "unexpected scan errors")
	require.Empty(t, parseErrors, "unexpected parse errors")
	require.NotNil(t, contract)
	return contract
}

func firstFunction(t *testing.T, c *ast.Contract) *ast.Function {
	t.Helper()
	for _, item := range c.Items {
		if fn, ok := item.(*ast.Function); ok {
			return fn
		}
	}
	t.Fatal("no function in unit")
	return nil
}

func TestParseUnitItems(t *testing.T) {
	source := `// leading comment
contract Main {
    use lib1;

    const TREE_FIDDY: U256 = 350;
    const LIST: U256[3] = [1, 2, 3];

    struct Foo { foo: U256[4], bar: lib1::Bar }

    #[storage]
    struct State {
        queue: DynArray<U256, 5>,
        name: String<100>,
    }

    /// Runs the loop
    ext fn run(a: U256) -> U256 {
        return a;
    }
}`
	c := parseOK(t, source)

	assert.Equal(t, ast.ContractUnit, c.Kind)
	assert.Equal(t, "Main", c.Name.Value)
	require.Len(t, c.LeadingComments, 1)
	require.Len(t, c.Items, 6)

	use := c.Items[0].(*ast.Use)
	assert.Equal(t, "lib1", use.Module.Value)

	list := c.Items[2].(*ast.ConstDecl)
	assert.Equal(t, "U256[3]", list.Type.String())
	assert.IsType(t, &ast.ListExpr{}, list.Value)

	foo := c.Items[3].(*ast.Struct)
	assert.False(t, foo.IsStorage())
	require.Len(t, foo.Fields, 2)
	assert.Equal(t, "lib1::Bar", foo.Fields[1].VariableType.String())

	state := c.Items[4].(*ast.Struct)
	assert.True(t, state.IsStorage())
	assert.Equal(t, "DynArray<U256, 5>", state.Fields[0].VariableType.String())

	fn := c.Items[5].(*ast.Function)
	assert.True(t, fn.External)
	assert.Equal(t, "U256", fn.Return.String())
	require.NotNil(t, fn.DocComment)
}

func TestParseModuleUnit(t *testing.T) {
	c := parseOK(t, `module lib1 { fn popqueue() { State.queue.pop(); } }`)
	assert.Equal(t, ast.ModuleUnit, c.Kind)
	assert.Equal(t, "lib1", c.Name.Value)
}

func TestParseForStmt(t *testing.T) {
	c := parseOK(t, `contract C {
    fn f() {
        for i: U256 in range(1, 10) {
            if i > 5 { break; } else { continue; }
        }
    }
}`)
	fn := firstFunction(t, c)
	require.Len(t, fn.Body.Items, 1)

	loop, ok := fn.Body.Items[0].(*ast.ForStmt)
	require.True(t, ok)
	assert.Equal(t, "i", loop.Var.Value)
	assert.Equal(t, "U256", loop.Type.String())

	call := loop.Iter.(*ast.CallExpr)
	assert.Equal(t, "range", call.Callee.(*ast.IdentExpr).Name)
	assert.Len(t, call.Args, 2)

	ifStmt := loop.Body.Items[0].(*ast.IfStmt)
	assert.IsType(t, &ast.BreakStmt{}, ifStmt.Then.Items[0])
	assert.IsType(t, &ast.FunctionBlock{}, ifStmt.Else)
}

func TestParseForOverUppercaseConstantIsNotStructLiteral(t *testing.T) {
	c := parseOK(t, `contract C {
    fn f() {
        for x: U256 in FOO {
            bump();
        }
    }
}`)
	loop := firstFunction(t, c).Body.Items[0].(*ast.ForStmt)
	assert.Equal(t, "FOO", loop.Iter.(*ast.IdentExpr).Name)
	require.Len(t, loop.Body.Items, 1)
}

func TestParseForWithoutAnnotation(t *testing.T) {
	_, parseErrors, _ := ParseSource("test.ka", `contract C {
    fn f() {
        for i in [1, 2, 3] { }
    }
}`)
	require.NotEmpty(t, parseErrors)
	assert.Contains(t, parseErrors[0].Message, "requires an explicit type annotation")
}

func TestParseForWithGarbageType(t *testing.T) {
	_, parseErrors, scanErrors := ParseSource("test.ka", `contract C {
    fn f() {
        for i: $$$ in [1, 2, 3] { }
    }
}`)
	assert.NotEmpty(t, scanErrors)
	assert.NotEmpty(t, parseErrors)
}

func TestParseConditionalIterable(t *testing.T) {
	c := parseOK(t, `contract C {
    fn f() {
        for x: U256 in if flag { [f(), f(), f()] } else { other() } {
            State.x += x;
        }
    }
}`)
	loop := firstFunction(t, c).Body.Items[0].(*ast.ForStmt)
	cond, ok := loop.Iter.(*ast.IfExpr)
	require.True(t, ok)
	assert.Equal(t, "flag", cond.Cond.(*ast.IdentExpr).Name)
	assert.Len(t, cond.Then.(*ast.ListExpr).Elements, 3)
	assert.IsType(t, &ast.CallExpr{}, cond.Else)
}

func TestParseAccessPaths(t *testing.T) {
	c := parseOK(t, `contract C {
    fn f() {
        lib1::State.queue.pop();
        lib1::popqueue();
        State.arr.foo[i] = 1;
        s[count] += 1;
        let mut xs: DynArray<U256, 3> = [];
        xs.append(b"asdf");
    }
}`)
	items := firstFunction(t, c).Body.Items
	require.Len(t, items, 6)

	pop := items[0].(*ast.ExprStmt).Expr.(*ast.CallExpr)
	field := pop.Callee.(*ast.FieldAccessExpr)
	assert.Equal(t, "pop", field.Field)
	assert.Equal(t, "lib1::State.queue", field.Target.String())

	call := items[1].(*ast.ExprStmt).Expr.(*ast.CallExpr)
	assert.IsType(t, &ast.CalleePath{}, call.Callee)

	assign := items[2].(*ast.AssignStmt)
	assert.Equal(t, ast.ASSIGN, assign.Operator)
	assert.IsType(t, &ast.IndexExpr{}, assign.Target)

	assert.Equal(t, ast.PLUS_ASSIGN, items[3].(*ast.AssignStmt).Operator)

	let := items[4].(*ast.LetStmt)
	assert.True(t, let.Mut)
	assert.Equal(t, "DynArray<U256, 3>", let.Type.String())

	arg := items[5].(*ast.ExprStmt).Expr.(*ast.CallExpr).Args[0].(*ast.LiteralExpr)
	assert.Equal(t, ast.BytesLiteral, arg.Kind)
	assert.Equal(t, "asdf", arg.Value)
}

func TestParsePrecedence(t *testing.T) {
	c := parseOK(t, `contract C { const X: I128 = -1 + 2 * a.b % 3; }`)
	decl := c.Items[0].(*ast.ConstDecl)
	assert.Equal(t, "((-1) + ((2 * a.b) % 3))", decl.Value.String())
}

func TestParseStructLiteralInList(t *testing.T) {
	c := parseOK(t, `contract C {
    fn f() {
        for p: Point in [Point { x: 1, y: 2 }, Point { x: 3, y: 4 }] { }
    }
}`)
	loop := firstFunction(t, c).Body.Items[0].(*ast.ForStmt)
	list := loop.Iter.(*ast.ListExpr)
	require.Len(t, list.Elements, 2)
	lit := list.Elements[0].(*ast.StructLiteralExpr)
	assert.Equal(t, "Point", lit.Name)
	assert.Len(t, lit.Fields, 2)
}

func TestParseNestedArrayType(t *testing.T) {
	c := parseOK(t, `contract C { struct S { grid: U8[3][2], } }`)
	field := c.Items[0].(*ast.Struct).Fields[0]
	typ := field.VariableType
	require.True(t, typ.IsArray())
	assert.Equal(t, "2", typ.Len)
	assert.Equal(t, "3", typ.Elem.Len)
	assert.Equal(t, "U8", typ.Elem.Elem.Name.Value)
}

func TestParseRecoversFromBadItem(t *testing.T) {
	contract, parseErrors, _ := ParseSource("test.ka", `contract C {
    42
    fn ok() { }
}`)
	require.NotEmpty(t, parseErrors)
	require.NotNil(t, contract)

	var names []string
	for _, item := range contract.Items {
		if fn, ok := item.(*ast.Function); ok {
			names = append(names, fn.Name.Value)
		}
	}
	assert.Equal(t, []string{"ok"}, names)
}

func TestParseSourceWithMetadataFindsLoop(t *testing.T) {
	source := `contract C {
    fn f() {
        for i: U256 in range(3) { g(i); }
    }
}`
	result := ParseSourceWithMetadata("test.ka", source)
	require.False(t, result.HasErrors())

	offset := len("contract C {\n    fn f() {\n        for i: U256 in range(3) { g")
	loop := result.FindLoopAt(ast.Position{Offset: offset})
	require.NotNil(t, loop)
	assert.Equal(t, "i", loop.Var.Value)
}
