package ir

// OperandKind distinguishes an inline constant from a reference to a named
// value already defined earlier in the function (or a parameter).
type OperandKind uint8

const (
	// OperandValue references a Local by ValueID.
	OperandValue OperandKind = iota
	// OperandConst carries an inline Constant.
	OperandConst
)

// Operand is anything an instruction can read: either an already-named
// value, or an inline constant.
type Operand struct {
	Kind OperandKind
	Type ScalarKind
	Value ValueID
	Const Constant
}

// ValueOperand builds an operand referencing a Local.
func ValueOperand(id ValueID, t ScalarKind) Operand {
	return Operand{Kind: OperandValue, Type: t, Value: id}
}

// ConstOperand builds an operand carrying an inline constant.
func ConstOperand(c Constant, t ScalarKind) Operand {
	return Operand{Kind: OperandConst, Type: t, Const: c}
}

// ConstKind enumerates the forms an inline Constant can take. Aggregate and
// cross-referencing constant forms belong to GlobalInit (global.go), not
// here: by the time a legalized module reaches this stage every constant
// expression except trivial bitcasts and pointer arithmetic has already been
// expanded.
type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstFuncAddr
	ConstBlockAddr
	// ConstGlobalAddr is a global's address, optionally offset by a
	// constant addend — the one pointer-arithmetic constant-expression
	// form allows to survive upstream expansion.
	ConstGlobalAddr
)

// Constant is an inline operand constant.
type Constant struct {
	Kind ConstKind

	IntVal int64
	FloatVal float64

	Func FuncID
	Block BlockID
	Global GlobalID
	Addend int64
}

// IsZero reports whether c is the canonical zero value of its kind, used by
// the multiply-by-constant fast paths in.
func (c Constant) IsZero() bool {
	switch c.Kind {
	case ConstInt:
		return c.IntVal == 0
	case ConstFloat:
		return c.FloatVal == 0
	default:
		return false
	}
}
