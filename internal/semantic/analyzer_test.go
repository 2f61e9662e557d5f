package semantic

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loopsafe/internal/ast"
	"loopsafe/internal/errors"
	"loopsafe/internal/parser"
)

func analyze(t *testing.T, sources ...string) ([]*LoopAnnotation, []errors.CompilerError) {
	t.Helper()
	var units []*ast.Contract
	for _, src := range sources {
		unit, parseErrs, scanErrs := parser.ParseSource("test.ka", src)
		require.Empty(t, scanErrs)
		require.Empty(t, parseErrs)
		units = append(units, unit)
	}
	return Check(units...)
}

// fullText is the error line followed by its notes
func fullText(err errors.CompilerError) string {
	return strings.Join(append([]string{err.Error()}, err.Notes...), "\n")
}

func messages(errs []errors.CompilerError) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

const lib1 = `module lib1 {
    #[storage]
    struct State { queue: DynArray<U256, 5>, count: U256 }

    fn popqueue() {
        State.queue.pop();
    }

    fn indirect() {
        popqueue();
    }

    fn counter() -> U256 {
        State.count += 1;
        return State.count;
    }
}`

func TestValidLoops(t *testing.T) {
	loops, errs := analyze(t, `contract Main {
    const LIMIT: U256 = 10;
    const LIST: U256[3] = [1, 2, 3];

    #[storage]
    struct State { xs: DynArray<U256, 8>, grid: U8[4], counter: U256 }

    fn run() -> U256 {
        let mut total: U256 = 0;
        for i: U256 in range(LIMIT) { total += i; }
        for x: U256 in State.xs { total += x; }
        for g: U8 in State.grid { State.counter += 1; }
        for c: U256 in LIST { total += c; }
        for j: U8 in range(2, 7) { }
        return total;
    }
}`)
	require.Empty(t, errs, messages(errs))
	require.Len(t, loops, 5)

	assert.Equal(t, RangeSpace, loops[0].Space.Kind)
	assert.Equal(t, "U256", loops[0].Elem.String())
	assert.Equal(t, "10", loops[0].Space.Bound().String())
	assert.Empty(t, loops[0].Roots)
	assert.Nil(t, loops[0].Plan)

	assert.Equal(t, DynamicArraySpace, loops[1].Space.Kind)
	assert.Equal(t, 8, loops[1].Space.MaxLength)
	require.Len(t, loops[1].Roots, 1)
	assert.Equal(t, "Main::xs", loops[1].Roots[0].String())
	assert.False(t, loops[1].Materialize)

	assert.Equal(t, FixedArraySpace, loops[2].Space.Kind)
	assert.Equal(t, 4, loops[2].Space.Length)
	assert.Equal(t, "U8", loops[2].Elem.String())

	assert.Equal(t, FixedArraySpace, loops[3].Space.Kind)
	assert.Empty(t, loops[3].Roots, "constants are not storage")

	assert.Equal(t, "2", loops[4].Space.Start.String())
	assert.Equal(t, "5", loops[4].Space.Bound().String())

	meta := ast.LoopInfo(loops[1].Node)
	require.NotNil(t, meta)
	assert.Equal(t, "dynamic", meta.SpaceKind)
	assert.Equal(t, "U256", meta.ElementType)
	assert.Equal(t, "8", meta.Bound)
	assert.Equal(t, []string{"Main::xs"}, meta.Roots)
}

const loopTemplate = `contract Main {
    const TREE_FIDDY: U256 = 350;
    const EMPTY: DynArray<U256, 3> = [];

    struct Item { vals: U256[2], n: U256 }

    #[storage]
    struct State { xs: DynArray<U256, 8>, nums: U256[20], items: Item[3], counter: U256 }

    fn helper() -> U256[3] {
        return [1, 2, 3];
    }

    fn grow() {
        State.xs.append(1);
    }

    fn indirect() {
        grow();
    }

    fn tick() -> U256 {
        return 1;
    }

    fn f(n: U256) {
        %s
    }
}`

func TestLoopDiagnostics(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		kind    errors.Kind
		message string
	}{
		// ranges
		{"descending range", `for i: U256 in range(5, 3) { }`, errors.StructureException, "produces no values"},
		{"zero range", `for i: U256 in range(0) { }`, errors.StructureException, "produces no values"},
		{"range step", `for i: U256 in range(0, 1, 2) { }`, errors.ArgumentException, "expects 1 or 2 arguments, got 3"},
		{"range without arguments", `for i: U256 in range() { }`, errors.ArgumentException, "got 0"},
		{"runtime range bound", `for i: U256 in range(n) { }`, errors.StructureException, "range bound must be a constant"},
		{"overflowing range bound", `for i: I128 in range(max_value(I128), max_value(I128) + 2) { }`, errors.TypeMismatchKind, "does not fit in I128"},
		{"range past declared type", `for i: U8 in range(300) { }`, errors.TypeMismatchKind, ""},
		{"typed bound differs", `for i: U8 in range(TREE_FIDDY) { }`, errors.TypeMismatchKind, ""},
		{"range outside loop", `let r: U256 = range(3);`, errors.IteratorException, "range() can only be used"},

		// iterable forms
		{"narrower loop type", `for x: U248 in State.nums { }`, errors.TypeMismatchKind, "loop variable declared as U248 but elements are U256"},
		{"bare call", `for x: U256 in helper() { }`, errors.IteratorException, ""},
		{"method call", `for x: U256 in State.xs.pop() { }`, errors.IteratorException, ""},
		{"scalar literal", `for x: U256 in 5 { }`, errors.InvalidType, "not iterable"},
		{"bytes literal", `for x: U8 in b"abc" { }`, errors.InvalidType, "not iterable"},
		{"scalar storage", `for x: U256 in State.counter { }`, errors.InvalidType, "value of type U256 is not iterable"},
		{"empty list", `for x: U256 in [] { }`, errors.StructureException, "empty list"},
		{"empty list constant", `for x: U256 in EMPTY { }`, errors.StructureException, "cannot iterate over 'EMPTY'"},
		{"tuple", `for x: U256 in (1, 2) { }`, errors.InvalidType, "a tuple of 2 values is not iterable"},
		{"storage struct", `for x: U256 in State { }`, errors.InvalidType, "the storage struct 'State' is not iterable"},
		{"builtin type name", `for x: U256 in U256 { }`, errors.InvalidType, "the type name 'U256' is not iterable"},
		{"struct type name", `for x: Item in Item { }`, errors.InvalidType, "the type name 'Item' is not iterable"},
		{"list element overflow", `for x: U8 in [1, 2, 300] { }`, errors.TypeMismatchKind, ""},
		{"negative into unsigned", `for x: U8 in [-1] { }`, errors.TypeMismatchKind, ""},
		{"typed list element", `let a: U8 = 1; for x: U256 in [a, 2] { }`, errors.TypeMismatchKind, ""},
		{"conditional spaces differ", `for x: U256 in if n > 1 { [1, 2] } else { [1, 2, 3] } { }`, errors.InvalidType, "branches"},
		{"unknown loop type", `for x: Nope in [1] { }`, errors.UnknownType, ""},
		{"invalid integer width", `for x: U9 in range(3) { }`, errors.UnknownType, ""},

		// scope
		{"nested name reuse", `for x: U256 in range(3) { for x: U256 in range(2) { } }`, errors.NamespaceCollision, "an enclosing loop variable"},
		{"loop over parameter name", `for n: U256 in range(3) { }`, errors.NamespaceCollision, "a parameter"},
		{"loop over local name", `let y: U256 = 1; for y: U256 in range(3) { }`, errors.NamespaceCollision, "a local variable"},
		{"let shadows loop variable", `for i: U256 in range(3) { let i: U256 = 2; }`, errors.NamespaceCollision, "an enclosing loop variable"},
		{"loop over constant name", `for TREE_FIDDY: U256 in range(3) { }`, errors.NamespaceCollision, "a constant"},
		{"break outside loop", `break;`, errors.StructureException, "'break' outside of a loop"},
		{"continue outside loop", `continue;`, errors.StructureException, "'continue' outside of a loop"},
		{"loop variable as wider local", `let mut v: U256 = 1; for i: I128 in range(3) { v = i; }`, errors.TypeMismatchKind, ""},

		// writes
		{"assign loop variable", `for x: U256 in range(3) { x = 1; }`, errors.ImmutableViolation, "cannot assign to loop variable `x`"},
		{"compound assign loop variable", `for x: U256 in range(3) { x += 1; }`, errors.ImmutableViolation, "cannot assign to loop variable `x`"},
		{"pop during iteration", `for x: U256 in State.xs { State.xs.pop(); }`, errors.ImmutableViolation, "cannot modify loop variable `xs`"},
		{"index write during iteration", `for x: U256 in State.nums { State.nums[0] = 1; }`, errors.ImmutableViolation, "cannot modify loop variable `nums`"},
		{"append to local during iteration", `let mut q: DynArray<U256, 4> = [1, 2]; for x: U256 in q { q.append(3); }`, errors.ImmutableViolation, "cannot modify loop variable `q`"},
		{"call mutates iterable", `for x: U256 in State.xs { grow(); }`, errors.ImmutableViolation, "cannot modify loop variable `xs`"},
		{"transitive call mutates iterable", `for x: U256 in State.xs { indirect(); }`, errors.ImmutableViolation, "`indirect` may write to `xs`"},
		{"write through nested loop", `for it: Item in State.items { for v: U256 in it.vals { State.items[1].vals[0] = 5; } }`, errors.ImmutableViolation, "cannot modify loop variable `items`"},
		{"write through loop variable field", `for it: Item in State.items { it.n = 1; }`, errors.ImmutableViolation, "cannot modify loop variable `items`"},
		{"immutable local", `let x: U256 = 1; x = 2;`, errors.ImmutableViolation, "cannot assign to immutable variable 'x'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := analyze(t, fmt.Sprintf(loopTemplate, tt.body))
			require.Len(t, errs, 1, messages(errs))
			assert.Equal(t, tt.kind, errs[0].Kind, errs[0].Error())
			assert.Contains(t, fullText(errs[0]), tt.message)
		})
	}
}

func TestLoopsAccepted(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"declared type wider than range", `for i: U16 in range(300) { }`},
		{"signed range", `for i: I8 in range(-3, 3) { }`},
		{"max_value bound", `for i: U8 in range(max_value(U8)) { }`},
		{"signed literal list", `for x: I128 in [-1, 2, 3] { }`},
		{"struct literal list", `for it: Item in [Item { vals: [1, 2], n: 3 }] { }`},
		{"conditional with call branch", `for x: U256 in if n > 1 { helper() } else { [4, 5, 6] } { }`},
		{"unrelated storage write", `for x: U256 in State.nums { State.counter += x; }`},
		{"call writing other storage", `for x: U256 in State.nums { grow(); }`},
		{"sibling loops reuse a name", `for i: U256 in range(3) { } for i: U256 in range(4) { }`},
		{"break and continue", `for i: U256 in range(3) { if i == 1 { continue; } break; }`},
		{"nested loop over row", `for it: Item in State.items { for v: U256 in it.vals { State.counter += v; } }`},
		{"parameter write", `n = 1; for i: U256 in range(3) { n += i; }`},
		{"loop name reused as local", `for i: U256 in range(3) { } let i: U256 = 4;`},
		{"write to another local", `let mut q: DynArray<U256, 4> = [1, 2]; let mut r: DynArray<U256, 4> = [3]; for x: U256 in q { r.append(x); }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loops, errs := analyze(t, fmt.Sprintf(loopTemplate, tt.body))
			require.Empty(t, errs, messages(errs))
			assert.NotEmpty(t, loops)
		})
	}
}

func TestInferredRangeType(t *testing.T) {
	tests := []struct {
		iter string
		elem string
	}{
		{"range(3)", "U8"},
		{"range(256)", "U8"},
		{"range(257)", "U16"},
		{"range(-1, 5)", "I8"},
		{"range(-129, 0)", "I16"},
		{"range(TREE_FIDDY)", "U256"},
		{"range(min_value(I8), 0)", "I8"},
	}
	for _, tt := range tests {
		t.Run(tt.iter, func(t *testing.T) {
			unit, parseErrs, _ := parser.ParseSource("test.ka", fmt.Sprintf(`contract Main {
    const TREE_FIDDY: U256 = 350;
    fn f() {
        for i: U8 in %s { }
    }
}`, tt.iter))
			require.Empty(t, parseErrs)
			program, errs := NewProgram(unit)
			require.Empty(t, errs)

			loop := unit.Items[1].(*ast.Function).Body.Items[0].(*ast.ForStmt)
			a := NewAnalyzer(program, nil)
			var space IterationSpace
			var ok bool
			a.inUnit("Main", func() {
				space, ok = a.validateRange(loop.Iter.(*ast.CallExpr), nil)
			})
			require.True(t, ok, messages(a.Errors()))
			assert.Equal(t, tt.elem, space.Elem.String())
		})
	}
}

func TestConditionalIterable(t *testing.T) {
	loops, errs := analyze(t, fmt.Sprintf(loopTemplate,
		`let mut q: DynArray<U256, 8> = [1]; for x: U256 in if n > 1 { State.xs } else { q } { }`))
	require.Empty(t, errs, messages(errs))
	require.Len(t, loops, 1)

	loop := loops[0]
	assert.Equal(t, DynamicArraySpace, loop.Space.Kind)
	require.Len(t, loop.Roots, 2)
	assert.Equal(t, "Main::xs", loop.Roots[0].String())
	assert.Equal(t, "Main::f::q", loop.Roots[1].String())
	assert.True(t, loop.Materialize)
	require.NotNil(t, loop.Plan.Cond)

	// both branches are protected
	_, errs = analyze(t, fmt.Sprintf(loopTemplate,
		`let mut q: DynArray<U256, 8> = [1]; for x: U256 in if n > 1 { State.xs } else { q } { q.pop(); }`))
	require.Len(t, errs, 1, messages(errs))
	assert.Contains(t, errs[0].Error(), "cannot modify loop variable `q`")
}

func TestListLiteralPlan(t *testing.T) {
	loops, errs := analyze(t, fmt.Sprintf(loopTemplate, `for x: I128 in [-1, 2, 3] { }`))
	require.Empty(t, errs, messages(errs))
	require.Len(t, loops, 1)

	loop := loops[0]
	assert.Equal(t, "I128[3]", loop.Space.String())
	assert.True(t, loop.Materialize)
	assert.Len(t, loop.Plan.Elements, 3)
	assert.False(t, HasSideEffects(loop.Plan))

	loops, errs = analyze(t, fmt.Sprintf(loopTemplate, `for x: U256 in if n > 1 { [tick(), 2, 3] } else { helper() } { }`))
	require.Empty(t, errs, messages(errs))
	require.Len(t, loops, 1)
	assert.True(t, HasSideEffects(loops[0].Plan))
}

func TestLoopsOverParameters(t *testing.T) {
	const params = `contract Main {
    fn boo(a: DynArray<U256, 12>, b: DynArray<U256, 12>) {
        for i: U256 in a {
            %s
        }
    }
}`
	loops, errs := analyze(t, fmt.Sprintf(params, "b.append(i);"))
	require.Empty(t, errs, messages(errs))
	require.Len(t, loops, 1)
	assert.Equal(t, "Main::boo::a", loops[0].Roots[0].String())

	_, errs = analyze(t, fmt.Sprintf(params, "a.append(i);"))
	require.Len(t, errs, 1, messages(errs))
	assert.Equal(t, errors.ImmutableViolation, errs[0].Kind)
	assert.Equal(t, "cannot modify loop variable `a`", errs[0].Message)

	_, errs = analyze(t, fmt.Sprintf(params, "a[0] = i;"))
	require.Len(t, errs, 1, messages(errs))
	assert.Contains(t, errs[0].Error(), "cannot modify loop variable `a`")
}

func TestSourceWithCallIsSnapshotted(t *testing.T) {
	loops, errs := analyze(t, fmt.Sprintf(loopTemplate, `for v: U256 in State.items[tick()].vals { }`))
	require.Empty(t, errs, messages(errs))
	require.Len(t, loops, 1)
	require.NotNil(t, loops[0].Plan.Source)
	assert.True(t, loops[0].Materialize)
	assert.True(t, HasSideEffects(loops[0].Plan))

	loops, errs = analyze(t, fmt.Sprintf(loopTemplate, `for v: U256 in State.items[1].vals { }`))
	require.Empty(t, errs, messages(errs))
	require.Len(t, loops, 1)
	assert.False(t, loops[0].Materialize)
}

func TestCrossModuleMutation(t *testing.T) {
	_, errs := analyze(t, lib1, `contract Main {
    use lib1;

    fn run() {
        for x: U256 in lib1::State.queue {
            lib1::popqueue();
        }
    }
}`)
	require.Len(t, errs, 1, messages(errs))
	err := errs[0]
	assert.Equal(t, errors.ImmutableViolation, err.Kind)
	assert.Equal(t, "cannot modify loop variable `queue`", err.Message)
	assert.Contains(t, err.Notes, "`lib1::popqueue` may write to `queue`")
	assert.True(t, stderrors.Is(err, errors.Of(errors.ImmutableViolation)))

	_, errs = analyze(t, lib1, `contract Main {
    use lib1;

    fn run() {
        for x: U256 in lib1::State.queue {
            lib1::State.queue.pop();
        }
    }
}`)
	require.Len(t, errs, 1, messages(errs))
	assert.Equal(t, errors.ImmutableViolation, errs[0].Kind)
	assert.Equal(t, "cannot modify loop variable `queue`", errs[0].Message)
	assert.Empty(t, errs[0].Notes)

	loops, errs := analyze(t, lib1, `contract Main {
    use lib1;

    fn run() -> U256 {
        let mut total: U256 = 0;
        for x: U256 in lib1::State.queue {
            total += lib1::counter();
        }
        return total;
    }
}`)
	require.Empty(t, errs, messages(errs))
	require.Len(t, loops, 1)
	assert.Equal(t, "lib1::queue", loops[0].Roots[0].String())
}

func TestLoopsOverLocalsIgnoreCallees(t *testing.T) {
	_, errs := analyze(t, `contract Main {
    fn helper() {
        let mut q: DynArray<U256, 4> = [1];
        q.pop();
    }

    fn run() {
        let q: DynArray<U256, 4> = [1, 2];
        for x: U256 in q {
            helper();
        }
    }
}`)
	assert.Empty(t, errs, messages(errs))
}

func TestRecursiveCallsTerminate(t *testing.T) {
	_, errs := analyze(t, `contract Main {
    #[storage]
    struct State { xs: DynArray<U256, 4>, n: U256 }

    fn even() { odd(); }
    fn odd() { even(); State.xs.clear(); }

    fn run() {
        for x: U256 in State.xs {
            even();
        }
    }
}`)
	require.Len(t, errs, 1, messages(errs))
	assert.Contains(t, errs[0].Notes, "`even` may write to `xs`")
}

func TestUnitDeclarations(t *testing.T) {
	_, errs := analyze(t, `contract Main {
    const A: U256 = B;
    const B: U256 = A;

    fn run() { }
    fn run() { }
}`)
	require.NotEmpty(t, errs)
	assert.Equal(t, errors.NamespaceCollision, errs[0].Kind)

	_, errs = analyze(t, `contract Main {
    const A: U256 = B;
    const B: U256 = A;
}`)
	require.NotEmpty(t, errs)
	assert.Equal(t, errors.StructureException, errs[0].Kind)

	_, errs = analyze(t, `contract Main {
    use missing;
}`)
	require.Len(t, errs, 1, messages(errs))
	assert.Equal(t, errors.ModuleNotFoundKind, errs[0].Kind)
}

func TestUndefinedNamesSuggest(t *testing.T) {
	_, errs := analyze(t, fmt.Sprintf(loopTemplate, `for x: U256 in range(3) { let y: U256 = xx; }`))
	require.Len(t, errs, 1, messages(errs))
	assert.Equal(t, errors.UndeclaredDefinition, errs[0].Kind)
	assert.Contains(t, errs[0].Error(), "xx")
}
