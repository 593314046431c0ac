package lox

import (
	"fmt"
	"io"
	"os"
	"time"
)

// signal is the non-local control-flow result of executing a statement:
// normal completion, a `return` carrying a value, or a `break`. Modeling
// control flow as an explicit returned tag (rather than a panic/recover
// pair) keeps every unwind path — including the environment push/pop around
// a block — visible at the call site.
type signal int

const (
	sigNone signal = iota
	sigReturn
	sigBreak
)

// Interpreter walks a resolved AST, evaluating it directly rather than
// compiling it. One Interpreter owns exactly one global environment and one
// locals side-table for the lifetime of a source unit (one file run, or the
// whole REPL session); it is not safe for concurrent use.
type Interpreter struct {
	Globals *Environment
	Stdout  io.Writer
	env     *Environment
	locals  map[Expr]int
	diags   *Diagnostics
}

// NewInterpreter creates an Interpreter with a fresh global environment and
// the native globals installed, printing to os.Stdout by default.
func NewInterpreter(diags *Diagnostics) *Interpreter {
	globals := NewEnvironment(nil)
	defineGlobals(globals, time.Now())
	return &Interpreter{Globals: globals, env: globals, diags: diags, Stdout: os.Stdout}
}

// Resolve merges the resolver's locals side-table into the interpreter's own
// so variable lookups can use GetAt/AssignAt instead of walking the chain by
// name. Entries from earlier calls (earlier REPL lines) are kept, so function
// bodies resolved on one line still find their depths when called on a later
// one.
func (i *Interpreter) Resolve(locals map[Expr]int) {
	if i.locals == nil {
		i.locals = make(map[Expr]int, len(locals))
	}
	for expr, depth := range locals {
		i.locals[expr] = depth
	}
}

// Interpret runs a statement list to completion, reporting any runtime error
// to the diagnostic sink and stopping the current source unit (but not the
// process — callers decide whether to keep going, e.g. in a REPL).
func (i *Interpreter) Interpret(stmts []Stmt) {
	for _, stmt := range stmts {
		if _, _, err := i.exec(stmt); err != nil {
			i.reportError(err)
			return
		}
	}
}

// InterpretExpression evaluates a single expression and returns its value,
// used by the REPL to print the result of a bare expression statement.
func (i *Interpreter) InterpretExpression(expr Expr) (Value, error) {
	v, err := i.eval(expr)
	if err != nil {
		i.reportError(err)
		return nil, err
	}
	return v, nil
}

func (i *Interpreter) reportError(err error) {
	if rerr, ok := err.(*RuntimeError); ok {
		i.diags.RuntimeError(rerr.Token, rerr.Message)
	}
}

// exec executes one statement and returns the control-flow signal it
// produced (if any), the value carried by a `return`, and any runtime error.
func (i *Interpreter) exec(stmt Stmt) (signal, Value, error) {
	switch s := stmt.(type) {
	case *ExpressionStmt:
		_, err := i.eval(s.Expression)
		return sigNone, nil, err

	case *PrintStmt:
		v, err := i.eval(s.Expression)
		if err != nil {
			return sigNone, nil, err
		}
		i.print(Stringify(v))
		return sigNone, nil, nil

	case *VarStmt:
		value := Value(NilValue)
		if s.Initializer != nil {
			v, err := i.eval(s.Initializer)
			if err != nil {
				return sigNone, nil, err
			}
			value = v
		}
		i.env.Define(s.Name.Lexeme, value)
		return sigNone, nil, nil

	case *BlockStmt:
		return i.execBlock(s.Statements, NewEnvironment(i.env))

	case *IfStmt:
		cond, err := i.eval(s.Condition)
		if err != nil {
			return sigNone, nil, err
		}
		if IsTruthy(cond) {
			return i.exec(s.Then)
		}
		if s.Else != nil {
			return i.exec(s.Else)
		}
		return sigNone, nil, nil

	case *WhileStmt:
		for {
			cond, err := i.eval(s.Condition)
			if err != nil {
				return sigNone, nil, err
			}
			if !IsTruthy(cond) {
				return sigNone, nil, nil
			}
			sig, val, err := i.exec(s.Body)
			if err != nil {
				return sigNone, nil, err
			}
			switch sig {
			case sigBreak:
				return sigNone, nil, nil
			case sigReturn:
				return sigReturn, val, nil
			}
		}

	case *BreakStmt:
		return sigBreak, nil, nil

	case *FunctionStmt:
		fn := &LoxFunction{Declaration: s, Closure: i.env}
		i.env.Define(s.Name.Lexeme, fn)
		return sigNone, nil, nil

	case *ReturnStmt:
		value := Value(NilValue)
		if s.Value != nil {
			v, err := i.eval(s.Value)
			if err != nil {
				return sigNone, nil, err
			}
			value = v
		}
		return sigReturn, value, nil

	case *ClassStmt:
		return sigNone, nil, i.execClass(s)

	default:
		panic("lox: interpreter: unhandled statement type")
	}
}

// execBlock runs stmts inside env, which becomes the interpreter's current
// environment for the duration of the call. The previous environment is
// restored on every exit path — normal completion, a signal, or an error —
// so a Block always pushes exactly one frame and pops exactly one.
func (i *Interpreter) execBlock(stmts []Stmt, env *Environment) (signal, Value, error) {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, stmt := range stmts {
		sig, val, err := i.exec(stmt)
		if err != nil {
			return sigNone, nil, err
		}
		if sig != sigNone {
			return sig, val, nil
		}
	}
	return sigNone, nil, nil
}

func (i *Interpreter) execClass(s *ClassStmt) error {
	var superclass *LoxClass
	if s.Superclass != nil {
		v, err := i.eval(s.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*LoxClass)
		if !ok {
			return newRuntimeError(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	i.env.Define(s.Name.Lexeme, NilValue)

	env := i.env
	if s.Superclass != nil {
		env = NewEnvironment(i.env)
		env.Define("super", superclass)
	}

	methods := make(map[string]*LoxFunction, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &LoxFunction{
			Declaration:   m,
			Closure:       env,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &LoxClass{Name: s.Name.Lexeme, Superclass: superclass, Methods: methods}

	if err := i.env.Assign(s.Name, class); err != nil {
		return err
	}
	return nil
}

func (i *Interpreter) print(s string) {
	fmt.Fprintln(i.Stdout, s)
}

// eval evaluates one expression to a Value.
func (i *Interpreter) eval(expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return literalValue(e.Value), nil

	case *GroupingExpr:
		return i.eval(e.Inner)

	case *UnaryExpr:
		return i.evalUnary(e)

	case *BinaryExpr:
		return i.evalBinary(e)

	case *LogicalExpr:
		return i.evalLogical(e)

	case *VariableExpr:
		return i.lookupVariable(e.Name, e)

	case *AssignExpr:
		return i.evalAssign(e)

	case *CallExpr:
		return i.evalCall(e)

	case *GetExpr:
		return i.evalGet(e)

	case *SetExpr:
		return i.evalSet(e)

	case *ThisExpr:
		return i.lookupVariable(e.Keyword, e)

	case *SuperExpr:
		return i.evalSuper(e)

	default:
		panic("lox: interpreter: unhandled expression type")
	}
}

func literalValue(v any) Value {
	switch v := v.(type) {
	case nil:
		return NilValue
	case bool:
		return Bool(v)
	case float64:
		return Number(v)
	case string:
		return String(v)
	default:
		panic("lox: interpreter: unsupported literal value")
	}
}

// lookupVariable consults the resolver's locals side-table for expr: a
// recorded depth means a local resolved with GetAt, absence means a global
// looked up by name.
func (i *Interpreter) lookupVariable(name Token, expr Expr) (Value, error) {
	if distance, ok := i.locals[expr]; ok {
		return i.env.GetAt(distance, name.Lexeme), nil
	}
	return i.Globals.Get(name)
}

func (i *Interpreter) evalAssign(e *AssignExpr) (Value, error) {
	value, err := i.eval(e.Value)
	if err != nil {
		return nil, err
	}
	if distance, ok := i.locals[e]; ok {
		i.env.AssignAt(distance, e.Name.Lexeme, value)
		return value, nil
	}
	if err := i.Globals.Assign(e.Name, value); err != nil {
		return nil, err
	}
	return value, nil
}

func (i *Interpreter) evalLogical(e *LogicalExpr) (Value, error) {
	left, err := i.eval(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op.Type == OR {
		if IsTruthy(left) {
			return left, nil
		}
	} else { // AND
		if !IsTruthy(left) {
			return left, nil
		}
	}
	return i.eval(e.Right)
}

func (i *Interpreter) evalUnary(e *UnaryExpr) (Value, error) {
	right, err := i.eval(e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Op.Type {
	case BANG:
		return Bool(!IsTruthy(right)), nil
	case MINUS:
		n, ok := right.(Number)
		if !ok {
			return nil, newRuntimeError(e.Op, "Operand must be a number.")
		}
		return -n, nil
	}
	panic("lox: interpreter: unhandled unary operator")
}

func (i *Interpreter) evalBinary(e *BinaryExpr) (Value, error) {
	left, err := i.eval(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.eval(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Type {
	case PLUS:
		return addValues(e.Op, left, right)
	case MINUS:
		l, r, err := bothNumbers(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l - r, nil
	case STAR:
		l, r, err := bothNumbers(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l * r, nil
	case SLASH:
		l, r, err := bothNumbers(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		if r == 0 {
			return nil, newRuntimeError(e.Op, "Operands must not be zero.")
		}
		return l / r, nil
	case GREATER:
		l, r, err := bothNumbers(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l > r), nil
	case GREATER_EQUAL:
		l, r, err := bothNumbers(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l >= r), nil
	case LESS:
		l, r, err := bothNumbers(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l < r), nil
	case LESS_EQUAL:
		l, r, err := bothNumbers(e.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l <= r), nil
	case EQUAL_EQUAL:
		return Bool(IsEqual(left, right)), nil
	case BANG_EQUAL:
		return Bool(!IsEqual(left, right)), nil
	}
	panic("lox: interpreter: unhandled binary operator")
}

// addValues implements `+`'s three legal shapes: number+number, string+
// string, and (string,number) in either order via numeric stringification.
func addValues(op Token, left, right Value) (Value, error) {
	if l, ok := left.(Number); ok {
		if r, ok := right.(Number); ok {
			return l + r, nil
		}
		if r, ok := right.(String); ok {
			return String(formatNumber(float64(l))) + r, nil
		}
	}
	if l, ok := left.(String); ok {
		if r, ok := right.(String); ok {
			return l + r, nil
		}
		if r, ok := right.(Number); ok {
			return l + String(formatNumber(float64(r))), nil
		}
	}
	return nil, newRuntimeError(op, "Operands must be two numbers or two strings.")
}

func bothNumbers(op Token, left, right Value) (Number, Number, error) {
	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		return 0, 0, newRuntimeError(op, "Operands must be numbers.")
	}
	return l, r, nil
}

func (i *Interpreter) evalCall(e *CallExpr) (Value, error) {
	callee, err := i.eval(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := i.eval(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, newRuntimeError(e.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, newRuntimeError(e.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	return fn.Call(i, args)
}

func (i *Interpreter) evalGet(e *GetExpr) (Value, error) {
	obj, err := i.eval(e.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*LoxInstance)
	if !ok {
		return nil, newRuntimeError(e.Name, "Only instances have properties.")
	}
	return instance.Get(e.Name)
}

func (i *Interpreter) evalSet(e *SetExpr) (Value, error) {
	obj, err := i.eval(e.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*LoxInstance)
	if !ok {
		return nil, newRuntimeError(e.Name, "Only instances have fields.")
	}
	value, err := i.eval(e.Value)
	if err != nil {
		return nil, err
	}
	instance.Set(e.Name, value)
	return value, nil
}

func (i *Interpreter) evalSuper(e *SuperExpr) (Value, error) {
	distance := i.locals[e]
	superclass := i.env.GetAt(distance, "super").(*LoxClass)
	object := i.env.GetAt(distance-1, "this").(*LoxInstance)

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		return nil, newRuntimeError(e.Method, "Undefined property '%s'.", e.Method.Lexeme)
	}
	return method.Bind(object), nil
}
