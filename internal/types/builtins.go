package types

import (
	"strconv"
	"strings"
)

// BuiltinType names a non-generic built-in type
type BuiltinType string

const (
	Bool    BuiltinType = "Bool"
	Address BuiltinType = "Address"

	// Generic built-ins, resolved with their size parameters
	String   BuiltinType = "String"
	Bytes    BuiltinType = "Bytes"
	DynArray BuiltinType = "DynArray"
)

// Shared instances for the scalar types
var (
	BoolT    = &BoolType{}
	AddressT = &AddressType{}
	U8T      = &IntegerType{Bits: 8}
	U256T    = &IntegerType{Bits: 256}
	I128T    = &IntegerType{Bits: 128, Signed: true}
)

// IsBuiltinType checks if a type name is a built-in type
func IsBuiltinType(typeName string) bool {
	switch BuiltinType(typeName) {
	case Bool, Address, String, Bytes, DynArray:
		return true
	}
	_, ok := ParseIntegerName(typeName)
	return ok
}

// IsIntegerType checks if a type name is an integer type
func IsIntegerType(typeName string) bool {
	_, ok := ParseIntegerName(typeName)
	return ok
}

// ParseIntegerName parses U8..U256 and I8..I256. Widths must be multiples of 8.
func ParseIntegerName(name string) (*IntegerType, bool) {
	if len(name) < 2 {
		return nil, false
	}
	var signed bool
	switch name[0] {
	case 'U':
	case 'I':
		signed = true
	default:
		return nil, false
	}
	digits := name[1:]
	if strings.HasPrefix(digits, "0") || strings.HasPrefix(digits, "+") || strings.HasPrefix(digits, "-") {
		return nil, false
	}
	bits, err := strconv.Atoi(digits)
	if err != nil || bits < 8 || bits > 256 || bits%8 != 0 {
		return nil, false
	}
	return &IntegerType{Bits: bits, Signed: signed}, true
}

// BuiltinTypeNames lists the names offered for completion and suggestions.
func BuiltinTypeNames() []string {
	names := []string{string(Bool), string(Address), string(String), string(Bytes), string(DynArray)}
	for bits := 8; bits <= 256; bits += 8 {
		names = append(names, "U"+strconv.Itoa(bits), "I"+strconv.Itoa(bits))
	}
	return names
}
