package model

import "fmt"

// Array is the wrapper node for a user-supplied argument list
// (spec.md §4.1). It is memoized by Go pointer identity: building it
// once via one of the factory functions below and reusing that
// pointer across calls yields a single shared reference, matching the
// spec's "memoized by object identity, not structure" requirement —
// Go slices are not comparable, so identity has to live on a handle
// the caller holds, not on the slice itself.
type Array struct{ n *node }

func (a *Array) exprNode() *node { return a.n }

// NewArray builds an array node from already-tagged arguments. Most
// callers use one of the typed convenience constructors below.
func (m *Model) NewArray(args []Argument) *Array {
	return &Array{n: newNode(m, &PropertyRecord{Func: "array", Args: args})}
}

// IntExprArray builds an array node over integer expressions.
func (m *Model) IntExprArray(exprs []IntExpr) *Array {
	return m.NewArray(argsFromInt(exprs))
}

// BoolExprArray builds an array node over boolean expressions.
func (m *Model) BoolExprArray(exprs []BoolExpr) *Array {
	args := make([]Argument, len(exprs))
	for i, e := range exprs {
		args[i] = argOf(e)
	}
	return m.NewArray(args)
}

// FloatExprArray builds an array node over float expressions.
func (m *Model) FloatExprArray(exprs []FloatExpr) *Array {
	args := make([]Argument, len(exprs))
	for i, e := range exprs {
		args[i] = argOf(e)
	}
	return m.NewArray(args)
}

// IntervalVarArray builds an array node over interval variables.
func (m *Model) IntervalVarArray(vars []*IntervalVar) *Array {
	args := make([]Argument, len(vars))
	for i, v := range vars {
		args[i] = argOfNode(v.n)
	}
	return m.NewArray(args)
}

func argsFromInt(exprs []IntExpr) []Argument {
	args := make([]Argument, len(exprs))
	for i, e := range exprs {
		args[i] = argOf(e)
	}
	return args
}

// Matrix is the wrapper node for a user-supplied matrix: a distinct
// function tag from Array, each row validated to share the outer
// row-length (spec.md §4.1).
type Matrix struct{ n *node }

func (mx *Matrix) exprNode() *node { return mx.n }

// NewMatrix builds a matrix node from rows of already-tagged
// arguments, returning an error if any row's length differs from the
// first row's.
func (m *Model) NewMatrix(rows [][]Argument) (*Matrix, error) {
	if len(rows) == 0 {
		return &Matrix{n: newNode(m, &PropertyRecord{Func: "matrix"})}, nil
	}
	width := len(rows[0])
	rowArgs := make([]Argument, len(rows))
	for i, r := range rows {
		if len(r) != width {
			return nil, fmt.Errorf("model: matrix row %d has length %d, want %d", i, len(r), width)
		}
		rowArgs[i] = argOfNode(newNode(m, &PropertyRecord{Func: "array", Args: r}))
	}
	return &Matrix{n: newNode(m, &PropertyRecord{Func: "matrix", Args: rowArgs})}, nil
}

// IntExprMatrix builds a matrix node from rows of integer expressions.
func (m *Model) IntExprMatrix(rows [][]IntExpr) (*Matrix, error) {
	argRows := make([][]Argument, len(rows))
	for i, r := range rows {
		argRows[i] = argsFromInt(r)
	}
	return m.NewMatrix(argRows)
}
