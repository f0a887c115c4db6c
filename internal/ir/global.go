package ir

// GlobalSpecial tags the handful of globals the constant lowerer treats
// specially instead of serializing into the heap.
type GlobalSpecial uint8

const (
	GlobalOrdinary GlobalSpecial = iota
	// GlobalInitArray is __init_array_start: members become module
	// initializer calls rather than heap bytes.
	GlobalInitArray
	// GlobalFiniArray is __fini_array_start, symmetric to GlobalInitArray.
	GlobalFiniArray
	// GlobalUsedArray is an llvm.used-style tagged array recording
	// additional exports.
	GlobalUsedArray
)

// Global is a module-level IR global.
type Global struct {
	ID GlobalID
	Name string
	Special GlobalSpecial

	// Init is nil for an externally-defined (undefined) global: the
	// constant lowerer then only reserves NO heap space for it and any
	// reference to its address is resolved through a PostSet.
	Init *GlobalInit

	// Size/Alignment describe the global when Init is nil but the global
	// is still locally defined with unspecified contents (e.g. a BSS
	// global), and are otherwise derived from Init.
	Size int
	Alignment int

	IsExternal bool
}

// GlobalInitKind enumerates the constant forms a global initializer can
// take once upstream passes have expanded everything except trivial
// bitcasts and pointer arithmetic.
type GlobalInitKind uint8

const (
	GIZero GlobalInitKind = iota
	GIInt
	GIFloat
	GIBytes
	GIStruct
	GIPointerToGlobal
	GIPointerToFunc
	GIPointerToBlock
	GIExternPointer
)

// GlobalInit is a (possibly nested) constant initializer.
type GlobalInit struct {
	Kind GlobalInitKind

	// GIZero
	ZeroSize int

	// GIInt: IntBits selects the serialized width (8/16/32/64).
	IntVal int64
	IntBits int

	// GIFloat: FloatBits selects float32 (32) vs double (64).
	FloatVal float64
	FloatBits int

	// GIBytes
	Bytes []byte

	// GIStruct
	Fields []GlobalInit
	Packed bool

	// GIPointerToGlobal: a getelementptr-derived pointer with a constant
	// addend, lowered to a plain add.
	TargetGlobal GlobalID
	Addend int64

	// GIPointerToFunc / GIPointerToBlock
	TargetFunc FuncID
	TargetBlock BlockID

	// GIExternPointer: an undefined external global referenced by name;
	// resolved at module-init time via a PostSet.
	ExternName string
}

// Module is the input IR container: globals, functions, and the target
// triple the upstream compiler recorded. Functions are
// iterated in slice order, which is module iteration order;
// a Function's FuncID and a Global's GlobalID equal their slice index.
type Module struct {
	TargetTriple string
	Globals []Global
	Functions []Function
}
