package types

import (
	"fmt"
	"math/big"
)

// Type is a resolved language type. The set of implementations is closed.
type Type interface {
	String() string
	isType()
}

// IntegerType is one of U8..U256 or I8..I256.
type IntegerType struct {
	Bits   int
	Signed bool
}

type BoolType struct{}

type AddressType struct{}

// StringType is String<MaxLen>.
type StringType struct {
	MaxLen int
}

// BytesType is Bytes<MaxLen>.
type BytesType struct {
	MaxLen int
}

// ArrayType is a fixed array T[Len].
type ArrayType struct {
	Elem Type
	Len  int
}

// DynArrayType is DynArray<T, MaxLen>.
type DynArrayType struct {
	Elem   Type
	MaxLen int
}

// StructType is nominal on (Module, Name).
type StructType struct {
	Module  string
	Name    string
	Fields  []Field
	Storage bool
}

type Field struct {
	Name string
	Type Type
}

func (*IntegerType) isType()  {}
func (*BoolType) isType()     {}
func (*AddressType) isType()  {}
func (*StringType) isType()   {}
func (*BytesType) isType()    {}
func (*ArrayType) isType()    {}
func (*DynArrayType) isType() {}
func (*StructType) isType()   {}

func (t *IntegerType) String() string {
	if t.Signed {
		return fmt.Sprintf("I%d", t.Bits)
	}
	return fmt.Sprintf("U%d", t.Bits)
}

func (*BoolType) String() string    { return "Bool" }
func (*AddressType) String() string { return "Address" }
func (t *StringType) String() string {
	return fmt.Sprintf("String<%d>", t.MaxLen)
}
func (t *BytesType) String() string {
	return fmt.Sprintf("Bytes<%d>", t.MaxLen)
}
func (t *ArrayType) String() string {
	return fmt.Sprintf("%s[%d]", t.Elem, t.Len)
}
func (t *DynArrayType) String() string {
	return fmt.Sprintf("DynArray<%s, %d>", t.Elem, t.MaxLen)
}
func (t *StructType) String() string {
	if t.Module == "" {
		return t.Name
	}
	return t.Module + "::" + t.Name
}

// Field returns the named field and whether it exists.
func (t *StructType) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldNames lists the field names in declaration order.
func (t *StructType) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// Identical reports exact structural equality. There is no width or
// signedness promotion and struct types compare by (Module, Name).
func Identical(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch x := a.(type) {
	case *IntegerType:
		y, ok := b.(*IntegerType)
		return ok && x.Bits == y.Bits && x.Signed == y.Signed
	case *BoolType:
		_, ok := b.(*BoolType)
		return ok
	case *AddressType:
		_, ok := b.(*AddressType)
		return ok
	case *StringType:
		y, ok := b.(*StringType)
		return ok && x.MaxLen == y.MaxLen
	case *BytesType:
		y, ok := b.(*BytesType)
		return ok && x.MaxLen == y.MaxLen
	case *ArrayType:
		y, ok := b.(*ArrayType)
		return ok && x.Len == y.Len && Identical(x.Elem, y.Elem)
	case *DynArrayType:
		y, ok := b.(*DynArrayType)
		return ok && x.MaxLen == y.MaxLen && Identical(x.Elem, y.Elem)
	case *StructType:
		y, ok := b.(*StructType)
		return ok && x.Module == y.Module && x.Name == y.Name
	}
	return false
}

// ElementOf returns the element type of an array or dynamic array.
func ElementOf(t Type) (Type, bool) {
	switch x := t.(type) {
	case *ArrayType:
		return x.Elem, true
	case *DynArrayType:
		return x.Elem, true
	}
	return nil, false
}

// Min returns the smallest value representable by t.
func (t *IntegerType) Min() *big.Int {
	if !t.Signed {
		return new(big.Int)
	}
	v := new(big.Int).Lsh(big.NewInt(1), uint(t.Bits-1))
	return v.Neg(v)
}

// Max returns the largest value representable by t.
func (t *IntegerType) Max() *big.Int {
	bits := t.Bits
	if t.Signed {
		bits--
	}
	v := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	return v.Sub(v, big.NewInt(1))
}

// Fits reports whether v is representable by t.
func (t *IntegerType) Fits(v *big.Int) bool {
	return v.Cmp(t.Min()) >= 0 && v.Cmp(t.Max()) <= 0
}

// SmallestInteger returns the narrowest integer type holding every value in
// [lo, hi]. Unsigned types are preferred when lo is non-negative. It returns
// nil when no 256-bit type fits.
func SmallestInteger(lo, hi *big.Int) *IntegerType {
	signed := lo.Sign() < 0
	for bits := 8; bits <= 256; bits += 8 {
		t := &IntegerType{Bits: bits, Signed: signed}
		if t.Fits(lo) && t.Fits(hi) {
			return t
		}
	}
	return nil
}

// IsInteger reports whether t is an integer type.
func IsInteger(t Type) bool {
	_, ok := t.(*IntegerType)
	return ok
}
