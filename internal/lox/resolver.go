package lox

// FunctionType tracks what kind of function body the resolver is currently
// inside, for the static checks on `return`.
type FunctionType int

const (
	FuncNone FunctionType = iota
	FuncFunction
	FuncMethod
	FuncInitializer
)

// ClassType tracks what kind of class body the resolver is currently inside,
// for the static checks on `this`/`super`. It is initialized to ClassNone:
// top-level code is not inside any class.
type ClassType int

const (
	ClassNone ClassType = iota
	ClassClass
	ClassSubclass
)

// scope maps a name to whether its initializer has finished resolving.
type scope map[string]bool

// Resolver performs a single static pass over a parsed program, annotating
// every Variable/Assign/This/Super node with how many enclosing environment
// frames to walk at runtime, and enforcing scope-bound static rules.
type Resolver struct {
	diags   *Diagnostics
	locals  map[Expr]int
	scopes  []scope
	funcTy  FunctionType
	classTy ClassType
}

// NewResolver creates a Resolver that reports static errors to diags and
// writes resolved depths into an empty locals side-table.
func NewResolver(diags *Diagnostics) *Resolver {
	return &Resolver{diags: diags, locals: make(map[Expr]int)}
}

// Resolve runs the resolver over a program's statement list and returns the
// populated locals side-table (expression identity -> enclosing-frame depth).
func (r *Resolver) Resolve(stmts []Stmt) map[Expr]int {
	r.resolveStmts(stmts)
	return r.locals
}

func (r *Resolver) resolveStmts(stmts []Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, scope{}) }

func (r *Resolver) endScope() { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	sc := r.scopes[len(r.scopes)-1]
	if _, exists := sc[name.Lexeme]; exists {
		r.diags.ErrorAtToken(StageStatic, name, "Already a variable with this name in this scope.")
	}
	sc[name.Lexeme] = false
}

func (r *Resolver) define(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal walks the scope stack innermost-first; the first scope
// containing name fixes its depth. Absence from every scope means the name
// is global and is deliberately left out of locals.
func (r *Resolver) resolveLocal(expr Expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) resolveStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()

	case *VarStmt:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)

	case *FunctionStmt:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, FuncFunction)

	case *ExpressionStmt:
		r.resolveExpr(s.Expression)

	case *IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *PrintStmt:
		r.resolveExpr(s.Expression)

	case *ReturnStmt:
		if r.funcTy == FuncNone {
			r.diags.ErrorAtToken(StageStatic, s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.funcTy == FuncInitializer {
				r.diags.ErrorAtToken(StageStatic, s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}

	case *BreakStmt:
		// Loop nesting is already enforced syntactically by the parser.

	case *WhileStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)

	case *ClassStmt:
		r.resolveClass(s)

	default:
		panic("lox: resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveFunction(fn *FunctionStmt, ty FunctionType) {
	enclosingFunc := r.funcTy
	r.funcTy = ty

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.funcTy = enclosingFunc
}

func (r *Resolver) resolveClass(c *ClassStmt) {
	enclosingClass := r.classTy
	r.classTy = ClassClass

	r.declare(c.Name)
	r.define(c.Name)

	if c.Superclass != nil {
		if c.Superclass.Name.Lexeme == c.Name.Lexeme {
			r.diags.ErrorAtToken(StageStatic, c.Superclass.Name, "A class can't inherit from itself.")
		}
		r.classTy = ClassSubclass
		r.resolveExpr(c.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range c.Methods {
		ty := FuncMethod
		if method.Name.Lexeme == "init" {
			ty = FuncInitializer
		}
		r.resolveFunction(method, ty)
	}

	r.endScope()

	if c.Superclass != nil {
		r.endScope()
	}

	r.classTy = enclosingClass
}

func (r *Resolver) resolveExpr(expr Expr) {
	switch e := expr.(type) {
	case *VariableExpr:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !defined {
				r.diags.ErrorAtToken(StageStatic, e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name.Lexeme)

	case *AssignExpr:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name.Lexeme)

	case *BinaryExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *LogicalExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *UnaryExpr:
		r.resolveExpr(e.Operand)

	case *CallExpr:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}

	case *GetExpr:
		r.resolveExpr(e.Object)

	case *SetExpr:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ThisExpr:
		if r.classTy == ClassNone {
			r.diags.ErrorAtToken(StageStatic, e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, "this")

	case *SuperExpr:
		switch r.classTy {
		case ClassNone:
			r.diags.ErrorAtToken(StageStatic, e.Keyword, "Can't use 'super' outside of a class.")
		case ClassClass:
			r.diags.ErrorAtToken(StageStatic, e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, "super")

	case *GroupingExpr:
		r.resolveExpr(e.Inner)

	case *LiteralExpr:
		// nothing to resolve

	default:
		panic("lox: resolver: unhandled expression type")
	}
}
