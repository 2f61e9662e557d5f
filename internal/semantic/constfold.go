package semantic

import (
	"math/big"
	"strings"

	"loopsafe/internal/ast"
	"loopsafe/internal/types"
)

// operand is the analysed value of an expression. value is set when the
// expression folds to an integer at compile time; typ is nil for untyped
// constants and for expressions whose type could not be determined.
type operand struct {
	typ   types.Type
	value *big.Int
}

func (o operand) isConstant() bool {
	return o.value != nil
}

func (o operand) untyped() bool {
	return o.typ == nil && o.value != nil
}

// describe renders the operand for diagnostics
func (o operand) describe() string {
	switch {
	case o.typ != nil:
		return o.typ.String()
	case o.value != nil:
		return "integer literal " + o.value.String()
	}
	return "unknown"
}

func bigInt(n int) *big.Int {
	return big.NewInt(int64(n))
}

func parseIntLiteral(lit string) (*big.Int, bool) {
	v, ok := new(big.Int).SetString(strings.ReplaceAll(lit, "_", ""), 0)
	return v, ok
}

// foldUnary folds -x. It returns nil when x is not constant.
func foldUnary(op string, x *big.Int) *big.Int {
	if x == nil || op != "-" {
		return nil
	}
	return new(big.Int).Neg(x)
}

// foldBinary folds integer arithmetic. Division truncates toward zero.
// ok is false on division by zero.
func foldBinary(op string, x, y *big.Int) (v *big.Int, ok bool) {
	switch op {
	case "+":
		return new(big.Int).Add(x, y), true
	case "-":
		return new(big.Int).Sub(x, y), true
	case "*":
		return new(big.Int).Mul(x, y), true
	case "/":
		if y.Sign() == 0 {
			return nil, false
		}
		return new(big.Int).Quo(x, y), true
	case "%":
		if y.Sign() == 0 {
			return nil, false
		}
		return new(big.Int).Rem(x, y), true
	case "&":
		return new(big.Int).And(x, y), true
	case "|":
		return new(big.Int).Or(x, y), true
	}
	return nil, true
}

func isArithmetic(op string) bool {
	switch op {
	case "+", "-", "*", "/", "%", "&", "|":
		return true
	}
	return false
}

func isComparison(op string) bool {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		return true
	}
	return false
}

func isLogical(op string) bool {
	return op == "&&" || op == "||"
}

// typeArgument reads a type passed as a call argument, as in max_value(U8)
func typeArgument(expr ast.Expr) (*ast.VariableType, bool) {
	switch x := ast.Unparen(expr).(type) {
	case *ast.IdentExpr:
		return &ast.VariableType{Pos: x.Pos, EndPos: x.EndPos, Name: ast.Ident{Pos: x.Pos, EndPos: x.EndPos, Value: x.Name}}, true
	case *ast.CalleePath:
		if len(x.Parts) == 2 {
			module := x.Parts[0]
			return &ast.VariableType{Pos: x.Pos, EndPos: x.EndPos, Module: &module, Name: x.Parts[1]}, true
		}
	}
	return nil, false
}
