// Copyright 2024 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sbe

import "fmt"

// Expr is a node in a compiled scalar expression tree: the language the
// physical operators use for filters, projections and sort keys. It has
// no evaluator here; String exists purely for debug output.
type Expr interface {
	fmt.Stringer
	exprNode()
}

// SlotExpr reads the current value of a slot.
type SlotExpr struct{ Slot SlotID }

func (SlotExpr) exprNode() {}
func (e SlotExpr) String() string { return e.Slot.String() }

// ConstExpr is a compile-time constant, including the special Nothing
// and Null sentinels used throughout MQL-flavored evaluation.
type ConstExpr struct{ Value any }

func (ConstExpr) exprNode() {}
func (e ConstExpr) String() string { return fmt.Sprintf("%#v", e.Value) }

// Nothing is the SBE sentinel for "value does not exist", distinct from
// a stored null.
var Nothing = ConstExpr{Value: nothingSentinel{}}

type nothingSentinel struct{}

func (nothingSentinel) String() string { return "Nothing" }

// Undefined is the MQL sort-key leaf value for an empty array, distinct
// from both Nothing and a stored null.
var Undefined = ConstExpr{Value: undefinedSentinel{}}

type undefinedSentinel struct{}

func (undefinedSentinel) String() string { return "Undefined" }

// Null is a stored null value, as distinct from Nothing (field absent).
var Null = ConstExpr{Value: nil}

// GetFieldExpr extracts a single field from an object-valued input.
type GetFieldExpr struct {
	Input Expr
	Field string
}

func (GetFieldExpr) exprNode() {}
func (e GetFieldExpr) String() string { return fmt.Sprintf("getField(%s, %q)", e.Input, e.Field) }

// FunctionCallExpr is a named builtin applied to arguments, covering
// isArray, isObject, exists, ftsMatch, shardFilter, collComparisonKey,
// generateSortKey and the like.
type FunctionCallExpr struct {
	Name string
	Args []Expr
}

func (FunctionCallExpr) exprNode() {}
func (e FunctionCallExpr) String() string {
	s := e.Name + "("
	for i, a := range e.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

func IsArray(e Expr) Expr  { return FunctionCallExpr{Name: "isArray", Args: []Expr{e}} }
func IsObject(e Expr) Expr { return FunctionCallExpr{Name: "isObject", Args: []Expr{e}} }
func Exists(e Expr) Expr   { return FunctionCallExpr{Name: "exists", Args: []Expr{e}} }

// NotExpr negates a boolean expression.
type NotExpr struct{ Operand Expr }

func (NotExpr) exprNode() {}
func (e NotExpr) String() string { return fmt.Sprintf("!(%s)", e.Operand) }

// OrExpr / AndExpr are variadic boolean combinators.
type OrExpr struct{ Operands []Expr }

func (OrExpr) exprNode() {}
func (e OrExpr) String() string { return joinBool(e.Operands, "||") }

type AndExpr struct{ Operands []Expr }

func (AndExpr) exprNode() {}
func (e AndExpr) String() string { return joinBool(e.Operands, "&&") }

func joinBool(ops []Expr, sep string) string {
	s := ""
	for i, o := range ops {
		if i > 0 {
			s += " " + sep + " "
		}
		s += o.String()
	}
	return s
}

// ObjField is one (name, value) pair of a NewObjExpr.
type ObjField struct {
	Name  string
	Value Expr
}

// NewObjExpr constructs an object from field/value pairs, used both for
// index-key rehydration and for make-object projection.
type NewObjExpr struct{ Fields []ObjField }

func (NewObjExpr) exprNode() {}
func (e NewObjExpr) String() string {
	s := "newObj("
	for i, f := range e.Fields {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%q: %s", f.Name, f.Value)
	}
	return s + ")"
}

// FailExpr aborts evaluation with a user-visible error. Code mirrors
// the closed set of status codes the embedding system defines; this
// module only ever emits "BadValue" and a dedicated FTS-subject code.
type FailExpr struct {
	Code    string
	Message string
}

func (FailExpr) exprNode() {}
func (e FailExpr) String() string { return fmt.Sprintf("fail(%s, %q)", e.Code, e.Message) }

// IfExpr is a ternary, used both for branch selection (e.g. the
// parallel-arrays guard) and for the ascending/descending min/max fold
// in the sort-key builder.
type IfExpr struct {
	Cond, Then, Else Expr
}

func (IfExpr) exprNode() {}
func (e IfExpr) String() string { return fmt.Sprintf("if(%s, %s, %s)", e.Cond, e.Then, e.Else) }

// BinaryCmpExpr is a three-way or boolean comparison between two
// values, Op one of "lt", "lte", "gt", "gte", "eq", "cmp3w".
type BinaryCmpExpr struct {
	Op          string
	Left, Right Expr
}

func (BinaryCmpExpr) exprNode() {}
func (e BinaryCmpExpr) String() string { return fmt.Sprintf("%s(%s, %s)", e.Op, e.Left, e.Right) }

// CollComparisonKeyExpr maps a value through the installed collator
// before it participates in a comparison.
type CollComparisonKeyExpr struct {
	Collator SlotID
	Value    Expr
}

func (CollComparisonKeyExpr) exprNode() {}
func (e CollComparisonKeyExpr) String() string {
	return fmt.Sprintf("collComparisonKey(%s, %s)", e.Collator, e.Value)
}

// TraverseExpr descends one level of array structure, evaluating Fold
// against each element (bound to the frame variable ElemVar inside
// Fold) and combining results with Combine, falling back to
// NonArray when the input is not an array. This is the expression-level
// counterpart of the sort-key path traversal described in the spec; it
// does not require a dedicated physical Traverse node because it
// operates entirely within a single compiled expression.
type TraverseExpr struct {
	Input    Expr
	ElemVar  FrameID
	Fold     Expr
	Combine  string // "min" or "max", used to pick between successive Fold results
	NonArray Expr
}

func (TraverseExpr) exprNode() {}
func (e TraverseExpr) String() string {
	return fmt.Sprintf("traverse(%s, elem=f%d, fold=%s, combine=%s, else=%s)",
		e.Input, e.ElemVar, e.Fold, e.Combine, e.NonArray)
}

// FrameVarExpr reads a locally-bound frame variable, e.g. the traversal
// element inside a TraverseExpr's Fold.
type FrameVarExpr struct{ Frame FrameID }

func (FrameVarExpr) exprNode() {}
func (e FrameVarExpr) String() string { return fmt.Sprintf("f%d", e.Frame) }
