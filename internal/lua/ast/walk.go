package ast

import "reflect"

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children of
// node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	for _, child := range Children(node) {
		if child != nil {
			Walk(v, child)
		}
	}

	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}

	return nil
}

// Inspect traverses an AST in depth-first order: it starts by calling
// f(node); if f returns true, Inspect invokes f recursively for each of the
// non-nil children of node, followed by a call of f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// Children returns the direct children of n in document order. A required
// child that is missing is reported as a nil entry so that validation can
// flag it; absent optional children are omitted.
func Children(n Node) []Node {
	var out []Node

	add := func(c Node) {
		if isNil(c) {
			out = append(out, nil)
			return
		}

		out = append(out, c)
	}

	addExprs := func(list []Expr) {
		for _, e := range list {
			add(e)
		}
	}

	switch n := n.(type) {
	case *Chunk:
		add(n.Block)
	case *Block:
		for _, s := range n.Stmts {
			add(s)
		}
	case *LocalStmt:
		for _, name := range n.Names {
			add(name)
		}

		addExprs(n.Values)
	case *AssignStmt:
		addExprs(n.Targets)
		addExprs(n.Values)
	case *CallStmt:
		add(n.Call)
	case *DoStmt:
		add(n.Body)
	case *WhileStmt:
		add(n.Cond)
		add(n.Body)
	case *RepeatStmt:
		add(n.Body)
		add(n.Cond)
	case *IfStmt:
		for _, c := range n.Clauses {
			add(c)
		}

		if n.Else != nil {
			add(n.Else)
		}
	case *IfClause:
		add(n.Cond)
		add(n.Body)
	case *NumericForStmt:
		add(n.Var)
		add(n.Start)
		add(n.Limit)

		if !isNil(n.Step) {
			add(n.Step)
		}

		add(n.Body)
	case *GenericForStmt:
		for _, name := range n.Names {
			add(name)
		}

		addExprs(n.Exprs)
		add(n.Body)
	case *FunctionStmt:
		add(n.Func)
	case *LocalFunctionStmt:
		add(n.Name)
		add(n.Func)
	case *ReturnStmt:
		addExprs(n.Values)
	case *FunctionExpr:
		for _, p := range n.Params {
			add(p)
		}

		add(n.Body)
	case *TableExpr:
		for _, f := range n.Fields {
			add(f)
		}
	case *TableField:
		if n.Type == FieldKeyed {
			add(n.Key)
		}

		add(n.Value)
	case *BinaryExpr:
		add(n.Left)
		add(n.Right)
	case *UnaryExpr:
		add(n.Operand)
	case *IndexExpr:
		add(n.Obj)
		add(n.Key)
	case *CallExpr:
		add(n.Fn)
		addExprs(n.Args)
	case *ParenExpr:
		add(n.Inner)
	}

	return out
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	if n == nil {
		return true
	}

	v := reflect.ValueOf(n)

	return v.Kind() == reflect.Ptr && v.IsNil()
}
