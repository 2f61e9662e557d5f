package compiler

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loopsafe/internal/config"
	"loopsafe/internal/errors"
)

const lib1 = `module lib1 {
    #[storage]
    struct State { queue: DynArray<U256, 5> }

    fn popqueue() {
        State.queue.pop();
    }
}`

const mainSource = `contract Main {
    use lib1;

    fn run() {
        for x: U256 in lib1::State.queue {
            lib1::popqueue();
        }
    }
}`

func options(flags ...config.Flag) config.Options {
	opts := config.Default()
	opts.Flags = config.NewBitMask(flags...)
	return opts
}

func kindOf(t *testing.T, err error) errors.Kind {
	t.Helper()
	var ce *errors.CompilerError
	require.True(t, stderrors.As(err, &ce), "not a diagnostic: %v", err)
	return ce.Kind
}

func TestCompileCrossModuleMutation(t *testing.T) {
	for _, opts := range []config.Options{options(), options(config.Parallel)} {
		_, err := Compile("main.ka", MapBundle{"main.ka": mainSource, "lib1.ka": lib1}, opts)
		require.Error(t, err)
		assert.Equal(t, errors.ImmutableViolation, kindOf(t, err))
		assert.Contains(t, err.Error(), "cannot modify loop variable `queue`")
		assert.True(t, stderrors.Is(err, errors.Of(errors.ImmutableViolation)))
	}
}

func TestCompileSuccess(t *testing.T) {
	bundle := MapBundle{
		"src/main.ka": `contract Main {
    use lib1;
    use lib2;

    fn run() -> U256 {
        let mut total: U256 = 0;
        for x: U256 in lib1::State.queue {
            total += lib2::double(x);
        }
        for i: U8 in range(lib2::LIMIT) { }
        return total;
    }
}`,
		"src/lib1.ka": lib1,
		"src/lib2.ka": `module lib2 {
    use lib1;

    const LIMIT: U8 = 10;

    fn double(x: U256) -> U256 {
        return x * 2;
    }
}`,
	}
	res, err := Compile("src/main.ka", bundle, config.Default())
	require.NoError(t, err)

	names := make([]string, len(res.Units))
	for i, u := range res.Units {
		names[i] = u.Name.Value
	}
	assert.Equal(t, []string{"lib1", "lib2", "Main"}, names)
	require.Len(t, res.Loops, 2)
	assert.Equal(t, "lib1::queue", res.Loops[0].Roots[0].String())
	assert.Equal(t, "U8", res.Loops[1].Elem.String())
	assert.Equal(t, "src/lib2.ka", res.Paths["lib2"])
}

func TestCompileImportErrors(t *testing.T) {
	tests := []struct {
		name   string
		bundle MapBundle
		kind   errors.Kind
	}{
		{
			name:   "missing module",
			bundle: MapBundle{"main.ka": `contract Main { use nope; }`},
			kind:   errors.ModuleNotFoundKind,
		},
		{
			name: "cycle",
			bundle: MapBundle{
				"main.ka": `contract Main { use a; }`,
				"a.ka":    `module a { use b; }`,
				"b.ka":    `module b { use a; }`,
			},
			kind: errors.ImportCycleKind,
		},
		{
			name: "duplicate import",
			bundle: MapBundle{
				"main.ka": `contract Main { use lib1; use lib1; }`,
				"lib1.ka": lib1,
			},
			kind: errors.DuplicateImportKind,
		},
		{
			name: "file declares another module",
			bundle: MapBundle{
				"main.ka": `contract Main { use a; }`,
				"a.ka":    `module b { }`,
			},
			kind: errors.ModuleNotFoundKind,
		},
		{
			name:   "syntax error",
			bundle: MapBundle{"main.ka": `contract Main { fn f() { for i in [1] { } } }`},
			kind:   errors.SyntaxException,
		},
		{
			name:   "main is a module",
			bundle: MapBundle{"main.ka": `module Main { }`},
			kind:   errors.SyntaxException,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile("main.ka", tt.bundle, config.Default())
			require.Error(t, err)
			assert.Equal(t, tt.kind, kindOf(t, err), err.Error())
		})
	}
}

func TestCycleChain(t *testing.T) {
	_, err := Compile("main.ka", MapBundle{
		"main.ka": `contract Main { use a; }`,
		"a.ka":    `module a { use b; }`,
		"b.ka":    `module b { use c; }`,
		"c.ka":    `module c { use a; }`,
	}, config.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a -> b -> c -> a")
}

func TestAnalyzeCollectsAllErrors(t *testing.T) {
	res, err := Analyze("main.ka", MapBundle{"main.ka": `contract Main {
    fn f() {
        for i: U256 in range(0) { }
        break;
    }
}`}, options(config.AllErrors))
	require.NoError(t, err)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, errors.StructureException, res.Errors[0].Kind)
	assert.Equal(t, errors.StructureException, res.Errors[1].Kind)
}

func TestMissingMainIsAnIOError(t *testing.T) {
	_, err := Compile("main.ka", MapBundle{}, config.Default())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrNotFound))
	var ce *errors.CompilerError
	assert.False(t, stderrors.As(err, &ce))
}

func TestFilesystemBundle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.ka"), []byte(mainSource), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib1.ka"), []byte(lib1), 0o600))

	_, err := Compile("main.ka", FilesystemBundle{Root: dir}, config.Default())
	require.Error(t, err)
	assert.Equal(t, errors.ImmutableViolation, kindOf(t, err))

	_, err = FilesystemBundle{Root: dir}.Read("missing.ka")
	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "reading missing.ka")
}
