package ir

// FuncID identifies a Function within a Module.
type FuncID uint32

// GlobalID identifies a Global within a Module.
type GlobalID uint32

// BlockID is the per-function index of a BasicBlock, assigned in
// first-seen order.
type BlockID uint32

// ValueID is a per-function identifier for any named SSA value: a
// parameter, an instruction result, or a phi node.
type ValueID uint32

// NoValue marks the absence of a result (e.g. a store or a void call).
const NoValue ValueID = 1<<32 - 1
