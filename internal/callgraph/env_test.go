package callgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loopsafe/internal/ast"
	"loopsafe/internal/storage"
)

func bodyExpr(t *testing.T, unit *ast.Contract, fn string, index int) ast.Expr {
	t.Helper()
	for _, item := range unit.Items {
		if f, ok := item.(*ast.Function); ok && f.Name.Value == fn {
			switch st := f.Body.Items[index].(type) {
			case *ast.ExprStmt:
				return st.Expr
			case *ast.LetStmt:
				return st.Expr
			case *ast.AssignStmt:
				return st.Target
			}
		}
	}
	t.Fatalf("no statement %d in %s", index, fn)
	return nil
}

func rootStrings(roots []storage.Root) []string {
	out := make([]string, len(roots))
	for i, r := range roots {
		out[i] = r.String()
	}
	return out
}

func TestEnvRoots(t *testing.T) {
	units := parseUnits(t, lib1, `contract Main {
    use lib1;
    const LIMIT: U256 = 3;

    #[storage]
    struct State { xs: DynArray<U256, 4>, arr: Foo }

    fn f(s: Foo) {
        State.xs;
        lib1::State.queue;
        State.arr.foo[2];
        s.foo[1];
        LIMIT;
        (State.xs);
        let v: U256 = if c { State.xs } else { lib1::State.queue };
        [1, 2];
        State.xs[0] = 1;
    }
}`)
	env := NewEnv("Main", "f", newUnitResolver(units...))
	main := units[1]

	cases := [][]string{
		{"Main::xs"},
		{"lib1::queue"},
		{"Main::arr.foo[*]"},
		{"Main::f::s.foo[*]"},
		{},
		{"Main::xs"},
		{"Main::xs", "lib1::queue"},
		{},
		{"Main::xs[*]"},
	}
	for i, want := range cases {
		assert.Equal(t, want, rootStrings(env.Roots(bodyExpr(t, main, "f", i))), "statement %d", i)
	}
}

func TestEnvLoopBindings(t *testing.T) {
	units := parseUnits(t, lib1)
	env := NewEnv("lib1", "f", newUnitResolver(units...))

	queue := storage.NewRoot(storage.PersistentSymbol("lib1", "queue"))
	x := &ast.IdentExpr{Name: "x"}

	assert.Equal(t, []string{"lib1::f::x"}, rootStrings(env.Roots(x)))

	env.PushLoop("x", []storage.Root{queue})
	assert.Equal(t, []string{"lib1::queue[*]"}, rootStrings(env.Roots(x)))

	env.PushLoop("x", nil)
	assert.Empty(t, env.Roots(x))

	env.PopLoop()
	env.PopLoop()
	assert.Equal(t, []string{"lib1::f::x"}, rootStrings(env.Roots(x)))
}

func TestCalleeAndReceiver(t *testing.T) {
	units := parseUnits(t, lib1, `contract Main {
    use lib1;
    fn g() { }
    fn f() {
        g();
        lib1::popqueue();
        len(x);
        lib1::State.queue.pop();
        lib1::missing();
    }
}`)
	env := NewEnv("Main", "f", newUnitResolver(units...))
	main := units[1]

	call := func(i int) *ast.CallExpr {
		return bodyExpr(t, main, "f", i).(*ast.CallExpr)
	}

	id, ok := env.Callee(call(0))
	require.True(t, ok)
	assert.Equal(t, ID("Main", "g"), id)

	id, ok = env.Callee(call(1))
	require.True(t, ok)
	assert.Equal(t, ID("lib1", "popqueue"), id)

	_, ok = env.Callee(call(2))
	assert.False(t, ok)
	_, ok = env.Callee(call(4))
	assert.False(t, ok)

	recv, method, ok := MutatedReceiver(call(3))
	require.True(t, ok)
	assert.Equal(t, "pop", method)
	assert.Equal(t, []string{"lib1::queue"}, rootStrings(env.Roots(recv)))

	_, _, ok = MutatedReceiver(call(0))
	assert.False(t, ok)
}
