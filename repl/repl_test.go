package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"loopsafe/internal/config"
)

func init() {
	color.NoColor = true
}

const queueModule = `module lib1 {
    #[storage]
    struct State { queue: DynArray<U256, 5> }

    fn popqueue() {
        State.queue.pop();
    }
}`

func TestEvalStoresModulesAndChecksContracts(t *testing.T) {
	s := NewSession(config.Default())
	assert.Equal(t, "module lib1 stored\n", s.Eval(queueModule))

	out := s.Eval(`contract Main {
    use lib1;

    fn run() {
        for x: U256 in lib1::State.queue { }
    }
}`)
	assert.Contains(t, out, "for x: U256 over DynArray<U256, 5>, at most 5 iterations")
	assert.Contains(t, out, "ok: 1 loop(s) verified")

	out = s.Eval(`contract Main {
    use lib1;

    fn run() {
        for x: U256 in lib1::State.queue {
            lib1::popqueue();
        }
    }
}`)
	assert.Contains(t, out, "cannot modify loop variable `queue`")
}

func TestEvalReportsSyntaxErrors(t *testing.T) {
	out := NewSession(config.Default()).Eval("contract Main { fn f( }")
	assert.True(t, strings.HasPrefix(out, "error: "), out)
}

func TestStartWaitsForBalancedBraces(t *testing.T) {
	in := strings.NewReader(queueModule + "\n\ncontract Main {\n    fn run() {\n        for i: U8 in range(3) { }\n    }\n}\n")
	var out bytes.Buffer
	Start(NewScannerReader(in, &out), &out, nil)

	text := out.String()
	assert.Contains(t, text, "module lib1 stored")
	assert.Contains(t, text, CONTINUATION)
	assert.Contains(t, text, "for i: U8 over range(0, 3) of U8, at most 3 iterations")
}

func TestStartRecordsCompleteUnits(t *testing.T) {
	in := strings.NewReader("\nmodule m {\n}\nmodule n { }\n")
	var out bytes.Buffer
	var units []string
	Start(NewScannerReader(in, &out), &out, func(unit string) { units = append(units, unit) })

	assert.Equal(t, []string{"module m {\n}", "module n { }"}, units)
}
